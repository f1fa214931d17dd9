package network

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Network is one of the Ethereum networks we have a fixed RPC endpoint for.
// The zero value is not a valid network.
type Network uint8

const (
	Mainnet Network = iota + 1
	Goerli
	Sepolia
)

var (
	ErrUnsupportedNetwork = errors.New("unsupported network")
	ErrInvalidEndpoint    = errors.New("invalid rpc endpoint")
)

var names = map[Network]string{
	Mainnet: "mainnet",
	Goerli:  "goerli",
	Sepolia: "sepolia",
}

var endpoints = map[Network]string{
	Mainnet: "https://cloudflare-eth.com/v1/mainnet",
	Goerli:  "https://ethereum-goerli.publicnode.com",
	Sepolia: "https://rpc.sepolia.org",
}

func All() []Network {
	return []Network{Mainnet, Goerli, Sepolia}
}

func Parse(name string) (Network, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for n, nn := range names {
		if nn == name {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: %s",
		ErrUnsupportedNetwork, name,
	)
}

func (n Network) String() string {
	if name, known := names[n]; known {
		return name
	}
	return fmt.Sprintf("network(%d)", uint8(n))
}

func (n Network) Endpoint() (string, error) {
	endpoint, known := endpoints[n]
	if !known {
		return "", fmt.Errorf("%w: %s",
			ErrUnsupportedNetwork, n,
		)
	}
	return endpoint, nil
}

// Host returns the host component of the endpoint, to be sent as the Host
// header of the outbound request.
func (n Network) Host() (string, error) {
	endpoint, err := n.Endpoint()
	if err != nil {
		return "", err
	}
	return hostOf(endpoint)
}

func hostOf(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w",
			ErrInvalidEndpoint, endpoint, err,
		)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("%w: %s: empty host",
			ErrInvalidEndpoint, endpoint,
		)
	}
	return host, nil
}

func (n Network) MarshalText() ([]byte, error) {
	if _, known := names[n]; !known {
		return nil, fmt.Errorf("%w: %s",
			ErrUnsupportedNetwork, n,
		)
	}
	return []byte(n.String()), nil
}

func (n *Network) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
