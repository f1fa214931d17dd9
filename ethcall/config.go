package ethcall

import (
	"strings"

	"github.com/flashbots/ethcall/config"
	"github.com/flashbots/ethcall/jrpc"
	"github.com/flashbots/ethcall/transport"
)

// FromConfig wires a Client with the fasthttp transport.
func FromConfig(cfg *config.Client) (*Client, error) {
	var ids jrpc.IDGenerator
	switch strings.ToLower(cfg.IDGenerator) {
	case config.IDGeneratorRandom:
		ids = jrpc.RandomIDs()
	default:
		ids = jrpc.NewCounter(0)
	}

	return New(&Config{
		Transport: transport.NewHTTP(&transport.HTTPConfig{
			Name:             "ethcall",
			Timeout:          cfg.Timeout,
			MaxResponseBytes: int(cfg.MaxResponseBytes),
		}),
		IDs:              ids,
		MaxResponseBytes: cfg.MaxResponseBytes,
		Cycles:           cfg.Cycles,
		Transform:        cfg.Transform,
		VerifyResponseID: cfg.VerifyResponseID,
	})
}
