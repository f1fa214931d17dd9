package main

import (
	"slices"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/flashbots/ethcall/config"
	"github.com/flashbots/ethcall/server"
)

const (
	categoryMetrics = "metrics"
	categoryServer  = "server"
)

func CommandServe(cfg *config.Config) *cli.Command {
	serverFlags := []cli.Flag{
		&cli.StringFlag{
			Category:    strings.ToUpper(categoryServer),
			Destination: &cfg.Server.ListenAddress,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryServer) + "_LISTEN_ADDRESS"},
			Name:        categoryServer + "-listen-address",
			Usage:       "`host:port` for the call server",
			Value:       "0.0.0.0:8080",
		},

		&cli.IntFlag{
			Category:    strings.ToUpper(categoryServer),
			Destination: &cfg.Server.MaxRequestSize,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryServer) + "_MAX_REQUEST_SIZE"},
			Name:        categoryServer + "-max-request-size",
			Usage:       "maximum `size` of the request body",
			Value:       64 * 1024,
		},

		&cli.DurationFlag{
			Category:    strings.ToUpper(categoryServer),
			Destination: &cfg.Server.ReadTimeout,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryServer) + "_READ_TIMEOUT"},
			Name:        categoryServer + "-read-timeout",
			Usage:       "`timeout` to read the request",
			Value:       5 * time.Second,
		},

		&cli.DurationFlag{
			Category:    strings.ToUpper(categoryServer),
			Destination: &cfg.Server.WriteTimeout,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryServer) + "_WRITE_TIMEOUT"},
			Name:        categoryServer + "-write-timeout",
			Usage:       "`timeout` to write the response (must cover the outcall)",
			Value:       35 * time.Second,
		},
	}

	metricsFlags := []cli.Flag{
		&cli.StringFlag{
			Category:    strings.ToUpper(categoryMetrics),
			Destination: &cfg.Metrics.ListenAddress,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryMetrics) + "_LISTEN_ADDRESS"},
			Name:        categoryMetrics + "-listen-address",
			Usage:       "`host:port` for the metrics server (empty to disable)",
			Value:       "0.0.0.0:6785",
		},
	}

	flags := slices.Concat(
		clientFlags(cfg),
		serverFlags,
		metricsFlags,
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "run the eth_call server",
		Flags: flags,

		Before: func(clictx *cli.Context) error {
			return prepare(clictx, cfg, cfg.Validate)
		},

		Action: func(_ *cli.Context) error {
			s, err := server.New(cfg)
			if err != nil {
				return err
			}
			return s.Run()
		},
	}
}
