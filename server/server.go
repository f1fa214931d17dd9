package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flashbots/ethcall/config"
	"github.com/flashbots/ethcall/ethcall"
	"github.com/flashbots/ethcall/logutils"
	"github.com/flashbots/ethcall/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

type Server struct {
	cfg     *config.Config
	failure chan error
	logger  *zap.Logger

	client *ethcall.Client

	frontend *fasthttp.Server
	metrics  *http.Server
}

func New(cfg *config.Config) (*Server, error) {
	client, err := ethcall.FromConfig(cfg.Client)
	if err != nil {
		return nil, err
	}

	return newServer(cfg, client), nil
}

func newServer(cfg *config.Config, client *ethcall.Client) *Server {
	l := zap.L().With(zap.String("server_name", "ethcall"))

	s := &Server{
		cfg:     cfg,
		client:  client,
		logger:  l,
		failure: make(chan error, 16),
	}

	s.frontend = &fasthttp.Server{
		Handler:            s.receive,
		IdleTimeout:        30 * time.Second,
		Logger:             logutils.FasthttpLogger(l),
		MaxRequestBodySize: cfg.Server.MaxRequestSize,
		Name:               "ethcall",
		ReadTimeout:        cfg.Server.ReadTimeout,
		WriteTimeout:       cfg.Server.WriteTimeout,
	}

	if cfg.Metrics.Enabled() {
		mux := http.NewServeMux()
		mux.Handle("/", promhttp.Handler())
		mux.Handle("/metrics", promhttp.Handler())

		s.metrics = &http.Server{
			Addr:              cfg.Metrics.ListenAddress,
			Handler:           mux,
			MaxHeaderBytes:    1024,
			ReadHeaderTimeout: 30 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
		}
	}

	return s
}

func (s *Server) Run() error {
	l := s.logger
	ctx := logutils.ContextWithLogger(context.Background(), l)

	if s.metrics != nil {
		if err := metrics.Setup(ctx, s.client.Observe); err != nil {
			return err
		}

		go func() { // run the metrics server
			l.Info("Metrics server is going up...",
				zap.String("server_listen_address", s.cfg.Metrics.ListenAddress),
			)
			if err := s.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.failure <- err
			}
			l.Info("Metrics server is down")
		}()
	}

	go func() { // run the frontend
		l.Info("Server is going up...",
			zap.String("listen_address", s.cfg.Server.ListenAddress),
			zap.String("default_network", s.cfg.Client.Network),
		)
		if err := s.frontend.ListenAndServe(s.cfg.Server.ListenAddress); err != nil {
			s.failure <- err
		}
		l.Info("Server is down")
	}()

	errs := []error{}
	{ // wait until termination or internal failure
		terminator := make(chan os.Signal, 1)
		signal.Notify(terminator, os.Interrupt, syscall.SIGTERM)

		select {
		case stop := <-terminator:
			l.Info("Stop signal received; shutting down...",
				zap.String("signal", stop.String()),
			)
		case err := <-s.failure:
			l.Error("Internal failure; shutting down...",
				zap.Error(err),
			)
			errs = append(errs, err)
		exhaustErrors:
			for { // exhaust the errors
				select {
				case err := <-s.failure:
					l.Error("Extra internal failure",
						zap.Error(err),
					)
					errs = append(errs, err)
				default:
					break exhaustErrors
				}
			}
		}
	}

	{ // stop the frontend
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := s.frontend.ShutdownWithContext(ctx); err != nil {
			l.Error("Server shutdown failed",
				zap.Error(err),
			)
		}
	}

	if s.metrics != nil { // stop metrics server
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := s.metrics.Shutdown(ctx); err != nil {
			l.Error("Metrics server shutdown failed",
				zap.Error(err),
			)
		}
	}

	switch len(errs) {
	default:
		return errors.Join(errs...)
	case 1:
		return errs[0]
	case 0:
		return nil
	}
}
