package ethcall_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/flashbots/ethcall/ethcall"
	"github.com/flashbots/ethcall/jrpc"
	"github.com/flashbots/ethcall/network"
	"github.com/flashbots/ethcall/transport"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contract = "0xdAC17F958D2ee523a2206206994597C13D831ec7"

type fakeTransport struct {
	mx       sync.Mutex
	requests []*transport.Request

	respond func(req *transport.Request) (*transport.Response, error)
}

func (f *fakeTransport) Do(_ context.Context, req *transport.Request) (*transport.Response, error) {
	f.mx.Lock()
	f.requests = append(f.requests, req)
	f.mx.Unlock()

	return f.respond(req)
}

func (f *fakeTransport) count() int {
	f.mx.Lock()
	defer f.mx.Unlock()
	return len(f.requests)
}

func replyWith(body string) func(*transport.Request) (*transport.Response, error) {
	return func(*transport.Request) (*transport.Response, error) {
		return &transport.Response{Status: 200, Body: []byte(body)}, nil
	}
}

// echoID answers with the id of the request, to exercise id verification.
func echoID(result string) func(*transport.Request) (*transport.Response, error) {
	return func(req *transport.Request) (*transport.Response, error) {
		call := jrpc.EthCallRequest{}
		if err := json.Unmarshal(req.Body, &call); err != nil {
			return nil, err
		}
		body, err := json.Marshal(map[string]any{
			"id":      call.ID,
			"jsonrpc": "2.0",
			"result":  result,
		})
		if err != nil {
			return nil, err
		}
		return &transport.Response{Status: 200, Body: body}, nil
	}
}

type fixedID uint64

func (id fixedID) Next() uint64 {
	return uint64(id)
}

func newClient(t *testing.T, tr transport.Transport, verify bool) *ethcall.Client {
	t.Helper()

	c, err := ethcall.New(&ethcall.Config{
		Transport:        tr,
		IDs:              fixedID(7),
		VerifyResponseID: verify,
	})
	require.NoError(t, err)

	return c
}

func TestCallResult(t *testing.T) {
	tr := &fakeTransport{respond: replyWith(`{"id":7,"jsonrpc":"2.0","result":"0xdeadbeef","error":null}`)}

	for _, verify := range []bool{false, true} {
		result, err := newClient(t, tr, verify).Call(context.Background(), network.Mainnet, contract, []byte{0x18, 0x16, 0x0d, 0xdd})
		require.NoError(t, err)
		assert.Equal(t, "0xdeadbeef", result)
	}
}

func TestCallRequestShape(t *testing.T) {
	tr := &fakeTransport{respond: replyWith(`{"id":7,"jsonrpc":"2.0","result":"0x"}`)}

	_, err := newClient(t, tr, true).Call(context.Background(), network.Sepolia, contract, []byte{0x18, 0x16, 0x0d, 0xdd})
	require.NoError(t, err)
	require.Equal(t, 1, tr.count())

	req := tr.requests[0]
	assert.Equal(t, "https://rpc.sepolia.org", req.URL)
	assert.Equal(t, transport.MethodPost, req.Method)
	assert.Equal(t, []transport.Header{
		{Name: "Content-Type", Value: "application/json"},
		{Name: "Host", Value: "rpc.sepolia.org"},
	}, req.Headers)
	assert.Equal(t, uint64(2048), req.MaxResponseBytes)
	assert.Equal(t, uint64(100_000_000), req.Cycles)
	require.NotNil(t, req.Transform)
	assert.Equal(t, "transform", req.Transform.Function)

	assert.JSONEq(t,
		`{"id":7,"jsonrpc":"2.0","method":"eth_call","params":[{"to":"0xdAC17F958D2ee523a2206206994597C13D831ec7","data":"0x18160ddd"},"latest"]}`,
		string(req.Body),
	)
}

func TestCallEmptyData(t *testing.T) {
	tr := &fakeTransport{respond: replyWith(`{"id":7,"jsonrpc":"2.0","result":"0x"}`)}

	_, err := newClient(t, tr, true).Call(context.Background(), network.Goerli, contract, nil)
	require.NoError(t, err)

	call := jrpc.EthCallRequest{}
	require.NoError(t, json.Unmarshal(tr.requests[0].Body, &call))
	assert.Equal(t, "0x", call.Params.Call.Data)
	assert.Equal(t, "latest", call.Params.Block)
}

func TestCallRPCError(t *testing.T) {
	tr := &fakeTransport{respond: replyWith(`{"id":7,"jsonrpc":"2.0","result":null,"error":{"code":-32000,"message":"execution reverted"}}`)}

	_, err := newClient(t, tr, true).Call(context.Background(), network.Mainnet, contract, nil)
	require.Error(t, err)

	assert.ErrorIs(t, err, ethcall.ErrRPC)
	assert.Equal(t, ethcall.KindRPC, ethcall.Kind(err))

	var rpcErr *ethcall.RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, int64(-32000), rpcErr.Code)
	assert.Equal(t, "execution reverted", rpcErr.Message)
}

func TestCallRPCErrorWithNullID(t *testing.T) {
	tr := &fakeTransport{respond: replyWith(`{"id":null,"jsonrpc":"2.0","error":{"code":-32700,"message":"parse error"}}`)}

	_, err := newClient(t, tr, true).Call(context.Background(), network.Mainnet, contract, nil)

	var rpcErr *ethcall.RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, int64(-32700), rpcErr.Code)
}

func TestCallErrorWinsOverResult(t *testing.T) {
	tr := &fakeTransport{respond: replyWith(`{"id":7,"jsonrpc":"2.0","result":"0x01","error":{"code":3,"message":"execution reverted","data":"0x08c379a0"}}`)}

	_, err := newClient(t, tr, true).Call(context.Background(), network.Mainnet, contract, nil)

	var rpcErr *ethcall.RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, int64(3), rpcErr.Code)
	assert.Equal(t, `"0x08c379a0"`, string(rpcErr.Data))
}

func TestCallDecodingError(t *testing.T) {
	for name, body := range map[string]string{
		"not json":       "<html>bad gateway</html>",
		"invalid utf-8":  "\xff\xfe\xfd",
		"wrong shape":    `{"id":7,"jsonrpc":"2.0","result":{"not":"a string"}}`,
		"array":          `[1,2,3]`,
		"empty":          ``,
		"null":           "null",
		"padded null":    " \n null \t",
		"string":         `"0xdeadbeef"`,
		"lone surrogate": `{"id":7,"jsonrpc":"2.0","result":"\ud800"}`,
	} {
		t.Run(name, func(t *testing.T) {
			tr := &fakeTransport{respond: replyWith(body)}

			_, err := newClient(t, tr, true).Call(context.Background(), network.Mainnet, contract, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ethcall.ErrDecoding)
			assert.Equal(t, ethcall.KindDecoding, ethcall.Kind(err))
		})
	}
}

func TestCallKeepsReplacementCharacter(t *testing.T) {
	for _, body := range []string{
		`{"id":7,"jsonrpc":"2.0","result":"\ufffd"}`,
		`{"id":7,"jsonrpc":"2.0","result":"\uFFFD"}`,
		"{\"id\":7,\"jsonrpc\":\"2.0\",\"result\":\"\uFFFD\"}",
	} {
		tr := &fakeTransport{respond: replyWith(body)}

		result, err := newClient(t, tr, true).Call(context.Background(), network.Mainnet, contract, nil)
		require.NoError(t, err, body)
		assert.Equal(t, "\uFFFD", result)
	}
}

func TestCallMalformedResponse(t *testing.T) {
	tr := &fakeTransport{respond: replyWith(`{"id":7,"jsonrpc":"2.0","result":null,"error":null}`)}

	for _, verify := range []bool{false, true} {
		_, err := newClient(t, tr, verify).Call(context.Background(), network.Mainnet, contract, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ethcall.ErrMalformedResponse)
		assert.Equal(t, ethcall.KindMalformed, ethcall.Kind(err))
	}
}

func TestCallResponseIDMismatch(t *testing.T) {
	tr := &fakeTransport{respond: replyWith(`{"id":8,"jsonrpc":"2.0","result":"0x01"}`)}

	_, err := newClient(t, tr, true).Call(context.Background(), network.Mainnet, contract, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ethcall.ErrMalformedResponse)
	assert.Contains(t, err.Error(), "response id mismatch: expected 7, got 8")

	result, err := newClient(t, tr, false).Call(context.Background(), network.Mainnet, contract, nil)
	require.NoError(t, err)
	assert.Equal(t, "0x01", result)
}

func TestCallTransportError(t *testing.T) {
	tr := &fakeTransport{respond: func(*transport.Request) (*transport.Response, error) {
		return nil, &transport.Error{Code: transport.SysTransient, Message: "connection refused"}
	}}

	_, err := newClient(t, tr, true).Call(context.Background(), network.Mainnet, contract, nil)
	require.Error(t, err)

	assert.ErrorIs(t, err, ethcall.ErrTransport)
	assert.Equal(t, ethcall.KindTransport, ethcall.Kind(err))

	var rejection *transport.Error
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, transport.SysTransient, rejection.Code)
	assert.Equal(t, "connection refused", rejection.Message)

	assert.Equal(t, 1, tr.count(), "must not retry")
}

func TestCallUnsupportedNetwork(t *testing.T) {
	tr := &fakeTransport{respond: replyWith(`{"id":7,"jsonrpc":"2.0","result":"0x"}`)}
	ids := jrpc.NewCounter(0)

	c, err := ethcall.New(&ethcall.Config{Transport: tr, IDs: ids})
	require.NoError(t, err)

	_, err = c.Call(context.Background(), network.Network(0), contract, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ethcall.ErrConfiguration)
	assert.ErrorIs(t, err, network.ErrUnsupportedNetwork)
	assert.Equal(t, 0, tr.count())
	assert.Equal(t, uint64(0), ids.Next(), "no id must be spent on a rejected network")
}

func TestCallSequentialIDsIncrease(t *testing.T) {
	tr := &fakeTransport{respond: echoID("0x")}

	c, err := ethcall.New(&ethcall.Config{
		Transport:        tr,
		VerifyResponseID: true,
	})
	require.NoError(t, err)

	for range 3 {
		_, err := c.Call(context.Background(), network.Mainnet, contract, nil)
		require.NoError(t, err)
	}

	var prev uint64
	for idx, req := range tr.requests {
		call := jrpc.EthCallRequest{}
		require.NoError(t, json.Unmarshal(req.Body, &call))
		if idx > 0 {
			assert.Greater(t, call.ID, prev)
		}
		prev = call.ID
	}
}

func TestCallConcurrentIDsUnique(t *testing.T) {
	const calls = 64

	tr := &fakeTransport{respond: echoID("0x01")}

	c, err := ethcall.New(&ethcall.Config{
		Transport:        tr,
		VerifyResponseID: true,
	})
	require.NoError(t, err)

	wg := sync.WaitGroup{}
	errs := make(chan error, calls)
	for range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Call(context.Background(), network.Mainnet, contract, nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	seen := make(map[uint64]struct{}, calls)
	for _, req := range tr.requests {
		call := jrpc.EthCallRequest{}
		require.NoError(t, json.Unmarshal(req.Body, &call))
		_, dup := seen[call.ID]
		require.False(t, dup)
		seen[call.ID] = struct{}{}
	}
	assert.Len(t, seen, calls)
}

func TestCallBytes(t *testing.T) {
	tr := &fakeTransport{respond: replyWith(`{"id":7,"jsonrpc":"2.0","result":"0x000000000000000000000000000000000000000000000000000000000000002a"}`)}

	b, err := newClient(t, tr, true).CallBytes(context.Background(), network.Mainnet, contract, nil)
	require.NoError(t, err)
	require.Len(t, b, 32)
	assert.Equal(t, byte(42), b[31])

	tr = &fakeTransport{respond: replyWith(`{"id":7,"jsonrpc":"2.0","result":"0xabc"}`)}

	_, err = newClient(t, tr, true).CallBytes(context.Background(), network.Mainnet, contract, nil)
	assert.ErrorIs(t, err, ethcall.ErrDecoding)
}

func TestHexRoundTrip(t *testing.T) {
	inputs := [][]byte{
		{},
		{0x00},
		{0xff, 0x00, 0x7f},
		bytes.Repeat([]byte{0xde, 0xad, 0xbe, 0xef}, 64),
	}

	for _, in := range inputs {
		encoded := jrpc.NewEthCall(0, contract, in).Params.Call.Data
		decoded, err := hexutil.Decode(encoded)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(in, decoded), encoded)
	}

	assert.Equal(t, "0x", jrpc.NewEthCall(0, contract, []byte{}).Params.Call.Data)
}

func TestNewRequiresTransport(t *testing.T) {
	_, err := ethcall.New(&ethcall.Config{})
	assert.ErrorIs(t, err, ethcall.ErrConfiguration)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "", ethcall.Kind(nil))
	assert.Equal(t, ethcall.KindUnknown, ethcall.Kind(errors.New("other")))
	assert.Equal(t, ethcall.KindEncoding, ethcall.Kind(ethcall.ErrEncoding))
}
