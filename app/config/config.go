package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"runtime"
	"strconv"
	"time"
)

type Config struct {
	Address        string
	Port           int
	MaxWorkers     int
	Directory      string
	ReadBufferSize int
	IdleTimeout    time.Duration
	LogLevel       string
	LogFormat      string
}

func Default() Config {
	return Config{
		Address:        "127.0.0.1",
		Port:           4221,
		MaxWorkers:     10,
		Directory:      ".",
		ReadBufferSize: 1024,
		IdleTimeout:    30 * time.Second,
		LogLevel:       "info",
		LogFormat:      "console",
	}
}

// Parse reads command line flags (without the program name) on top of the
// defaults. Usage output goes to out.
func Parse(args []string, out io.Writer) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("rakis", flag.ContinueOnError)
	fs.SetOutput(out)

	fs.StringVar(&cfg.Address, "address", cfg.Address, "IP address to listen on")
	fs.StringVar(&cfg.Address, "a", cfg.Address, "shorthand for -address")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "port to listen on")
	fs.IntVar(&cfg.Port, "p", cfg.Port, "shorthand for -port")
	fs.IntVar(&cfg.MaxWorkers, "max-workers", cfg.MaxWorkers, "maximum number of connections served at once")
	fs.IntVar(&cfg.MaxWorkers, "m", cfg.MaxWorkers, "shorthand for -max-workers")
	fs.StringVar(&cfg.Directory, "directory", cfg.Directory, "directory to serve files from")
	fs.StringVar(&cfg.Directory, "d", cfg.Directory, "shorthand for -directory")
	fs.IntVar(&cfg.ReadBufferSize, "read-buffer", cfg.ReadBufferSize, "bytes read per request")
	fs.DurationVar(&cfg.IdleTimeout, "idle-timeout", cfg.IdleTimeout, "close connections idle for this long (0 disables)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "console or json")

	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parsing flags: %w", err)
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if net.ParseIP(c.Address) == nil {
		return fmt.Errorf("address: %q is not an IP address", c.Address)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port: %d is outside 0..65535", c.Port)
	}
	if c.MaxWorkers < 1 {
		return errors.New("max-workers: must be at least 1")
	}
	if c.Directory == "" {
		return errors.New("directory: must not be empty")
	}
	if c.ReadBufferSize < 64 {
		return fmt.Errorf("read-buffer: %d is below the 64 byte minimum", c.ReadBufferSize)
	}
	if c.IdleTimeout < 0 {
		return errors.New("idle-timeout: must not be negative")
	}
	return nil
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(c.Port))
}

// Workers returns the worker limit capped at the number of CPUs, and
// whether the cap was applied.
func (c Config) Workers() (int, bool) {
	n := runtime.NumCPU()
	if c.MaxWorkers > n {
		return n, true
	}
	return c.MaxWorkers, false
}
