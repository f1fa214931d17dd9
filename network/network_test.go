package network

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoints(t *testing.T) {
	for _, n := range All() {
		t.Run(n.String(), func(t *testing.T) {
			endpoint, err := n.Endpoint()
			require.NoError(t, err)
			require.NotEmpty(t, endpoint)

			u, err := url.Parse(endpoint)
			require.NoError(t, err)
			assert.Equal(t, "https", u.Scheme)
			assert.NotEmpty(t, u.Hostname())

			host, err := n.Host()
			require.NoError(t, err)
			assert.Equal(t, u.Hostname(), host)

			parsed, err := Parse(n.String())
			require.NoError(t, err)
			assert.Equal(t, n, parsed)
		})
	}
}

func TestParse(t *testing.T) {
	n, err := Parse(" Sepolia ")
	require.NoError(t, err)
	assert.Equal(t, Sepolia, n)

	for _, name := range []string{"", "ropsten", "holesky", "main-net"} {
		_, err := Parse(name)
		assert.ErrorIs(t, err, ErrUnsupportedNetwork, name)
	}
}

func TestUnknownNetwork(t *testing.T) {
	var zero Network

	_, err := zero.Endpoint()
	assert.ErrorIs(t, err, ErrUnsupportedNetwork)

	_, err = Network(42).Host()
	assert.ErrorIs(t, err, ErrUnsupportedNetwork)

	assert.Equal(t, "network(42)", Network(42).String())
}

func TestHostOf(t *testing.T) {
	host, err := hostOf("https://rpc.example.org:8545/path")
	require.NoError(t, err)
	assert.Equal(t, "rpc.example.org", host)

	_, err = hostOf("not a url at all")
	assert.ErrorIs(t, err, ErrInvalidEndpoint)

	_, err = hostOf("https://%zz")
	assert.ErrorIs(t, err, ErrInvalidEndpoint)
}

func TestText(t *testing.T) {
	b, err := Goerli.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "goerli", string(b))

	var n Network
	require.NoError(t, n.UnmarshalText([]byte("mainnet")))
	assert.Equal(t, Mainnet, n)

	assert.Error(t, n.UnmarshalText([]byte("nope")))
}
