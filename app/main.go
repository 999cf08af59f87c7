package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/xavierroma/rakis-http/app/config"
	"github.com/xavierroma/rakis-http/app/files"
	"github.com/xavierroma/rakis-http/app/logging"
	"github.com/xavierroma/rakis-http/app/router"
	"github.com/xavierroma/rakis-http/app/server"
)

func main() {
	cfg, err := config.Parse(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
		os.Exit(2)
	}

	log, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Invalid logging configuration:", err)
		os.Exit(2)
	}

	store, err := files.NewDir(cfg.Directory)
	if err != nil {
		log.Fatal().Err(err).Msg("file store unavailable")
	}
	log.Info().Str("directory", store.Base()).Msg("serving files")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, router.NewServer(store), log)
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
