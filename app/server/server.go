package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/xavierroma/rakis-http/app/config"
	"github.com/xavierroma/rakis-http/app/request"
	"github.com/xavierroma/rakis-http/app/response"
	"github.com/xavierroma/rakis-http/app/router"
	"github.com/xavierroma/rakis-http/app/types"
)

var replacementChar = []byte("\uFFFD")

type Server struct {
	cfg    config.Config
	router router.Router
	log    zerolog.Logger
}

func New(cfg config.Config, r router.Router, log zerolog.Logger) *Server {
	return &Server{
		cfg:    cfg,
		router: r,
		log:    log,
	}
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr(), err)
	}
	return s.Serve(ctx, l)
}

// Serve accepts connections until ctx is cancelled or the listener is
// closed. Other accept errors, such as running out of file descriptors, are
// logged and retried after a growing pause.
// At most Workers() connections are served at once; further connections
// wait in the listen backlog until a worker frees up. Serve waits for the
// active connections to finish before returning.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	workers, capped := s.cfg.Workers()
	if capped {
		s.log.Warn().
			Int("requested", s.cfg.MaxWorkers).
			Int("workers", workers).
			Msg("max workers capped at the number of CPUs")
	}
	s.log.Info().Str("addr", l.Addr().String()).Int("workers", workers).Msg("server started")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	stop := context.AfterFunc(ctx, func() {
		l.Close()
	})
	defer stop()

	var backoff time.Duration
	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			backoff = nextBackoff(backoff)
			s.log.Error().Err(err).Dur("retry_in", backoff).Msg("accept failed")
			select {
			case <-ctx.Done():
			case <-time.After(backoff):
			}
			continue
		}
		backoff = 0
		g.Go(func() error {
			s.ServeConn(gctx, conn)
			return nil
		})
	}

	_ = g.Wait()
	return nil
}

const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

// nextBackoff doubles the wait between failed accepts, starting at
// minAcceptBackoff and capped at maxAcceptBackoff.
func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return minAcceptBackoff
	}
	d *= 2
	if d > maxAcceptBackoff {
		return maxAcceptBackoff
	}
	return d
}

// ServeConn handles requests on conn until the peer goes away, a request
// fails to parse, or a response carries "Connection: close". Each read is
// treated as one complete request.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	log := s.log.With().Str("remote", conn.RemoteAddr().String()).Logger()
	log.Debug().Msg("connection accepted")
	defer log.Debug().Msg("connection closed")

	stop := context.AfterFunc(ctx, func() {
		conn.SetReadDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, s.cfg.ReadBufferSize)
	for ctx.Err() == nil {
		if s.cfg.IdleTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout))
			// A cancel that fired before the line above had its deadline overwritten.
			if ctx.Err() != nil {
				return
			}
		}
		n, err := conn.Read(buf)
		if n == 0 {
			if err != nil && !errors.Is(err, io.EOF) && ctx.Err() == nil {
				log.Debug().Err(err).Msg("read failed")
			}
			return
		}

		res, reqLog := s.handle(ctx, log, buf[:n])
		written, err := response.WriteTo(conn, res)
		if err != nil {
			reqLog.Error().Err(fmt.Errorf("writing response: %w", err)).Send()
			return
		}
		reqLog.Info().Int("status", int(res.Status)).Int("bytes", written).Msg("request served")
		if res.Headers.Has("Connection", "close") {
			return
		}
	}
}

// handle runs one raw request through parse and route. It also returns the
// logger scoped to the request, or the connection logger when the request
// could not be parsed.
func (s *Server) handle(ctx context.Context, log zerolog.Logger, raw []byte) (types.Response, zerolog.Logger) {
	req, err := request.Parse(string(bytes.ToValidUTF8(raw, replacementChar)))
	if err != nil {
		log.Warn().Err(fmt.Errorf("parsing request: %w", err)).Int("bytes", len(raw)).Msg("bad request")
		return badRequest(), log
	}

	reqLog := log.With().
		Str("method", string(req.Method)).
		Str("target", req.Target).
		Stringer("version", req.Version).
		Logger()

	return s.router.HandleRequest(reqLog.WithContext(ctx), req), reqLog
}

// badRequest answers a request that could not be parsed. There is no
// request to take the version from, so HTTP/1.1 is used.
func badRequest() types.Response {
	return types.Response{
		Version: types.HTTP11,
		Status:  types.StatusBadRequest,
		Headers: types.Headers{{Name: "Connection", Value: "close"}},
	}
}
