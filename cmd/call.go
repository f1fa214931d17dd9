package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/flashbots/ethcall/config"
	"github.com/flashbots/ethcall/ethcall"
	"github.com/flashbots/ethcall/logutils"
	"github.com/flashbots/ethcall/network"
)

func CommandCall(cfg *config.Config) *cli.Command {
	var (
		contract string
		data     string
		raw      bool
	)

	flags := append(clientFlags(cfg),
		&cli.StringFlag{
			Destination: &contract,
			EnvVars:     []string{envPrefix + "CONTRACT"},
			Name:        "contract",
			Required:    true,
			Usage:       "`address` of the contract to call",
		},

		&cli.StringFlag{
			Destination: &data,
			EnvVars:     []string{envPrefix + "DATA"},
			Name:        "data",
			Usage:       "0x-prefixed hex call `data` (selector and abi-encoded arguments)",
		},

		&cli.BoolFlag{
			Destination: &raw,
			Name:        "raw",
			Usage:       "write the decoded result bytes instead of hex",
		},
	)

	return &cli.Command{
		Name:  "call",
		Usage: "execute a single eth_call and print the result",
		Flags: flags,

		Before: func(clictx *cli.Context) error {
			return prepare(clictx, cfg, func() error {
				return config.ValidateAll(cfg.Log, cfg.Client)
			})
		},

		Action: func(_ *cli.Context) error {
			net, err := network.Parse(cfg.Client.Network)
			if err != nil {
				return err
			}

			var input []byte
			if data != "" {
				if input, err = hexutil.Decode(data); err != nil {
					return fmt.Errorf("invalid call data: %w", err)
				}
			}

			client, err := ethcall.FromConfig(cfg.Client)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = logutils.ContextWithLogger(ctx, zap.L())

			if !raw {
				result, err := client.Call(ctx, net, contract, input)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(os.Stdout, result)
				return err
			}

			result, err := client.CallBytes(ctx, net, contract, input)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(result)
			return err
		},
	}
}
