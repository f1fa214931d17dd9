package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/flashbots/ethcall/config"
	"github.com/flashbots/ethcall/logutils"
)

// prepare overlays the config file (if any) while keeping the values of the
// flags that were set explicitly, validates the result, and installs the
// global logger.
func prepare(clictx *cli.Context, cfg *config.Config, validate func() error) error {
	if path := clictx.String("config"); path != "" {
		explicit := make(map[string]string)
		for _, name := range clictx.FlagNames() {
			if clictx.IsSet(name) {
				explicit[name] = fmt.Sprint(clictx.Value(name))
			}
		}

		if err := cfg.Load(path); err != nil {
			return err
		}

		for name, value := range explicit {
			if err := clictx.Set(name, value); err != nil {
				return err
			}
		}
	}

	if err := validate(); err != nil {
		return err
	}

	l, err := logutils.NewLogger(cfg.Log, zap.String("version", version))
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(l)

	return nil
}
