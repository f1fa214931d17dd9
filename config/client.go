package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flashbots/ethcall/network"
	"github.com/flashbots/ethcall/utils"
)

const (
	IDGeneratorCounter = "counter"
	IDGeneratorRandom  = "random"
)

type Client struct {
	Cycles           uint64        `yaml:"cycles"`
	IDGenerator      string        `yaml:"id_generator"`
	MaxResponseBytes uint64        `yaml:"max_response_bytes"`
	Network          string        `yaml:"network"`
	Timeout          time.Duration `yaml:"timeout"`
	Transform        string        `yaml:"transform"`
	VerifyResponseID bool          `yaml:"verify_response_id"`
}

var (
	errClientInvalidIDGenerator      = errors.New("invalid id generator")
	errClientInvalidMaxResponseBytes = errors.New("invalid max response bytes")
	errClientInvalidNetwork          = errors.New("invalid network")
	errClientInvalidTimeout          = errors.New("invalid timeout")
	errClientInvalidTransform        = errors.New("invalid transform")
)

func (cfg *Client) Validate() error {
	errs := make([]error, 0)

	{ // IDGenerator
		switch strings.ToLower(cfg.IDGenerator) {
		case IDGeneratorCounter, IDGeneratorRandom:
		default:
			errs = append(errs, fmt.Errorf("%w: must be either %s or %s: %s",
				errClientInvalidIDGenerator, IDGeneratorCounter, IDGeneratorRandom, cfg.IDGenerator,
			))
		}
	}

	{ // MaxResponseBytes
		if cfg.MaxResponseBytes < 1 {
			errs = append(errs, fmt.Errorf("%w: too low, must be >=1: %d",
				errClientInvalidMaxResponseBytes, cfg.MaxResponseBytes,
			))
		}
		if cfg.MaxResponseBytes > 2*1024*1024 {
			errs = append(errs, fmt.Errorf("%w: too high, must be <=2MiB: %d",
				errClientInvalidMaxResponseBytes, cfg.MaxResponseBytes,
			))
		}
	}

	{ // Network
		if _, err := network.Parse(cfg.Network); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w",
				errClientInvalidNetwork, err,
			))
		}
	}

	{ // Timeout
		if cfg.Timeout < time.Second {
			errs = append(errs, fmt.Errorf("%w: too low, must be >=1s: %s",
				errClientInvalidTimeout, cfg.Timeout,
			))
		}
		if cfg.Timeout > 5*time.Minute {
			errs = append(errs, fmt.Errorf("%w: too high, must be <=5m: %s",
				errClientInvalidTimeout, cfg.Timeout,
			))
		}
	}

	{ // Transform
		if strings.TrimSpace(cfg.Transform) == "" {
			errs = append(errs, fmt.Errorf("%w: can't be empty",
				errClientInvalidTransform,
			))
		}
	}

	return utils.FlattenErrors(errs)
}
