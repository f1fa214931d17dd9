package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/flashbots/ethcall/config"
)

var (
	version = "development"
)

const (
	envPrefix = "ETHCALL_"

	categoryLog = "log"
)

func main() {
	cfg := config.New()

	flags := globalFlags(cfg)

	commands := []*cli.Command{
		CommandCall(cfg),
		CommandServe(cfg),
	}

	app := &cli.App{
		Name:     "ethcall",
		Usage:    "Read-only eth_call against well-known ethereum networks",
		Version:  version,
		Flags:    flags,
		Commands: commands,

		Action: func(clictx *cli.Context) error {
			return cli.ShowAppHelp(clictx)
		},
	}

	defer func() {
		zap.L().Sync() //nolint:errcheck
	}()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed with error:\n\n%s\n\n", err.Error())
		os.Exit(1)
	}
}

func globalFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			EnvVars: []string{envPrefix + "CONFIG"},
			Name:    "config",
			Usage:   "`path` to the yaml config file (flags take precedence over it)",
		},

		&cli.StringFlag{
			Category:    strings.ToUpper(categoryLog),
			Destination: &cfg.Log.Level,
			EnvVars:     []string{envPrefix + "LOG_LEVEL"},
			Name:        categoryLog + "-level",
			Usage:       "logging level",
			Value:       "info",
		},

		&cli.StringFlag{
			Category:    strings.ToUpper(categoryLog),
			Destination: &cfg.Log.Mode,
			EnvVars:     []string{envPrefix + "LOG_MODE"},
			Name:        categoryLog + "-mode",
			Usage:       "logging mode",
			Value:       "prod",
		},
	}
}
