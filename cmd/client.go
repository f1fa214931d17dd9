package main

import (
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/flashbots/ethcall/config"
	"github.com/flashbots/ethcall/ethcall"
	"github.com/flashbots/ethcall/transport"
)

const (
	categoryClient = "client"
)

func clientFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Category:    strings.ToUpper(categoryClient),
			Destination: &cfg.Client.Network,
			EnvVars:     []string{envPrefix + "NETWORK"},
			Name:        "network",
			Usage:       "ethereum `network` to call (mainnet, goerli, sepolia)",
			Value:       "mainnet",
		},

		&cli.DurationFlag{
			Category:    strings.ToUpper(categoryClient),
			Destination: &cfg.Client.Timeout,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryClient) + "_TIMEOUT"},
			Name:        categoryClient + "-timeout",
			Usage:       "`timeout` of a single outcall",
			Value:       30 * time.Second,
		},

		&cli.StringFlag{
			Category:    strings.ToUpper(categoryClient),
			Destination: &cfg.Client.IDGenerator,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryClient) + "_ID_GENERATOR"},
			Name:        categoryClient + "-id-generator",
			Usage:       "json-rpc id `source` (counter, random)",
			Value:       config.IDGeneratorCounter,
		},

		&cli.BoolFlag{
			Category:    strings.ToUpper(categoryClient),
			Destination: &cfg.Client.VerifyResponseID,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryClient) + "_VERIFY_RESPONSE_ID"},
			Name:        categoryClient + "-verify-response-id",
			Usage:       "reject responses whose json-rpc id differs from the request's",
			Value:       true,
		},

		&cli.Uint64Flag{
			Category:    strings.ToUpper(categoryClient),
			Destination: &cfg.Client.MaxResponseBytes,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryClient) + "_MAX_RESPONSE_BYTES"},
			Name:        categoryClient + "-max-response-bytes",
			Usage:       "maximum `size` of the node's response",
			Value:       ethcall.MaxResponseBytes,
		},

		&cli.Uint64Flag{
			Category:    strings.ToUpper(categoryClient),
			Destination: &cfg.Client.Cycles,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryClient) + "_CYCLES"},
			Name:        categoryClient + "-cycles",
			Usage:       "cost `budget` attached to every outcall",
			Value:       ethcall.Cycles,
		},

		&cli.StringFlag{
			Category:    strings.ToUpper(categoryClient),
			Destination: &cfg.Client.Transform,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryClient) + "_TRANSFORM"},
			Name:        categoryClient + "-transform",
			Usage:       "`name` of the response transform",
			Value:       transport.DefaultTransform,
		},
	}
}
