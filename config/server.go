package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/flashbots/ethcall/utils"
)

type Server struct {
	ListenAddress  string        `yaml:"listen_address"`
	MaxRequestSize int           `yaml:"max_request_size"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

var (
	errServerInvalidListenAddress  = errors.New("invalid server listen address")
	errServerInvalidMaxRequestSize = errors.New("invalid max request size")
	errServerInvalidReadTimeout    = errors.New("invalid read timeout")
	errServerInvalidWriteTimeout   = errors.New("invalid write timeout")
)

func (cfg *Server) Validate() error {
	errs := make([]error, 0)

	{ // ListenAddress
		if _, err := net.ResolveTCPAddr("tcp", cfg.ListenAddress); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w",
				errServerInvalidListenAddress, cfg.ListenAddress, err,
			))
		}
	}

	{ // MaxRequestSize
		if cfg.MaxRequestSize < 1024 {
			errs = append(errs, fmt.Errorf("%w: too low, must be >=1024: %d",
				errServerInvalidMaxRequestSize, cfg.MaxRequestSize,
			))
		}
		if cfg.MaxRequestSize > 16*1024*1024 {
			errs = append(errs, fmt.Errorf("%w: too high, must be <=16MiB: %d",
				errServerInvalidMaxRequestSize, cfg.MaxRequestSize,
			))
		}
	}

	{ // ReadTimeout
		if cfg.ReadTimeout <= 0 {
			errs = append(errs, fmt.Errorf("%w: must be positive: %s",
				errServerInvalidReadTimeout, cfg.ReadTimeout,
			))
		}
	}

	{ // WriteTimeout
		if cfg.WriteTimeout <= 0 {
			errs = append(errs, fmt.Errorf("%w: must be positive: %s",
				errServerInvalidWriteTimeout, cfg.WriteTimeout,
			))
		}
	}

	return utils.FlattenErrors(errs)
}
