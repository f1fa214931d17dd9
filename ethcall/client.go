package ethcall

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/flashbots/ethcall/jrpc"
	"github.com/flashbots/ethcall/logutils"
	"github.com/flashbots/ethcall/metrics"
	"github.com/flashbots/ethcall/network"
	"github.com/flashbots/ethcall/transport"
	"github.com/flashbots/ethcall/utils"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel/attribute"
	otelapi "go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const (
	// MaxResponseBytes is the response ceiling handed to the transport.
	MaxResponseBytes = 2048

	// Cycles is the cost budget attached to every outcall.
	Cycles = 100_000_000

	previewSize = 256
)

var (
	errClientNoTransport = errors.New("transport is not configured")
)

type Config struct {
	Transport transport.Transport
	IDs       jrpc.IDGenerator

	MaxResponseBytes uint64
	Cycles           uint64
	Transform        string

	// VerifyResponseID rejects responses whose id differs from the one
	// that was sent.
	VerifyResponseID bool
}

// Client performs eth_call requests against the fixed per-network
// endpoints. It is safe for concurrent use; the id generator is the only
// state shared between calls.
type Client struct {
	transport transport.Transport
	ids       jrpc.IDGenerator

	maxResponseBytes uint64
	cycles           uint64
	transform        string
	verifyResponseID bool

	inFlight atomic.Int64
}

type callJob struct {
	tsStart time.Time

	network         network.Network
	contractAddress string
	data            []byte

	id          uint64
	idAllocated bool

	res *transport.Response
}

func New(cfg *Config) (*Client, error) {
	if cfg.Transport == nil {
		return nil, fmt.Errorf("%w: %w",
			ErrConfiguration, errClientNoTransport,
		)
	}

	c := &Client{
		transport:        cfg.Transport,
		ids:              cfg.IDs,
		maxResponseBytes: cfg.MaxResponseBytes,
		cycles:           cfg.Cycles,
		transform:        cfg.Transform,
		verifyResponseID: cfg.VerifyResponseID,
	}

	if c.ids == nil {
		c.ids = jrpc.NewCounter(0)
	}
	if c.maxResponseBytes == 0 {
		c.maxResponseBytes = MaxResponseBytes
	}
	if c.cycles == 0 {
		c.cycles = Cycles
	}
	if c.transform == "" {
		c.transform = transport.DefaultTransform
	}

	return c, nil
}

// Call executes eth_call of data against the contract at the latest block
// and returns the hex-encoded return data. At most one outcall is made; the
// returned error wraps one of the Err* sentinels.
func (c *Client) Call(
	ctx context.Context, net network.Network, contractAddress string, data []byte,
) (string, error) {
	c.inFlight.Add(1)
	defer c.inFlight.Add(-1)

	job := &callJob{
		tsStart:         time.Now(),
		network:         net,
		contractAddress: contractAddress,
		data:            data,
	}

	result, err := c.exec(ctx, job)
	c.report(ctx, job, err)

	return result, err
}

// CallBytes is Call with the result decoded from hex.
func (c *Client) CallBytes(
	ctx context.Context, net network.Network, contractAddress string, data []byte,
) ([]byte, error) {
	result, err := c.Call(ctx, net, contractAddress, data)
	if err != nil {
		return nil, err
	}

	b, err := hexutil.Decode(result)
	if err != nil {
		return nil, fmt.Errorf("%w: result is not 0x-prefixed hex: %q: %w",
			ErrDecoding, utils.Preview([]byte(result), previewSize), err,
		)
	}

	return b, nil
}

func (c *Client) Observe(ctx context.Context, o otelapi.Observer) error {
	o.ObserveInt64(metrics.CallsInFlight, c.inFlight.Load())
	return nil
}

func (c *Client) exec(ctx context.Context, job *callJob) (string, error) {
	endpoint, err := job.network.Endpoint()
	if err != nil {
		return "", fmt.Errorf("%w: %w",
			ErrConfiguration, err,
		)
	}

	job.id = c.ids.Next()
	job.idAllocated = true

	body, err := json.Marshal(jrpc.NewEthCall(job.id, job.contractAddress, job.data))
	if err != nil {
		return "", fmt.Errorf("%w: %w",
			ErrEncoding, err,
		)
	}

	host, err := job.network.Host()
	if err != nil {
		return "", fmt.Errorf("%w: %w",
			ErrConfiguration, err,
		)
	}

	res, err := c.transport.Do(ctx, &transport.Request{
		URL:    endpoint,
		Method: transport.MethodPost,
		Headers: []transport.Header{
			{Name: "Content-Type", Value: "application/json"},
			{Name: "Host", Value: host},
		},
		Body:             body,
		MaxResponseBytes: c.maxResponseBytes,
		Cycles:           c.cycles,
		Transform:        &transport.TransformContext{Function: c.transform},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w",
			ErrTransport, err,
		)
	}
	job.res = res

	return c.decode(job.id, res)
}

func (c *Client) decode(id uint64, res *transport.Response) (string, error) {
	if !utf8.Valid(res.Body) {
		return "", fmt.Errorf("%w: body is not valid utf-8: http status %d: %q",
			ErrDecoding, res.Status, utils.Preview(res.Body, previewSize),
		)
	}

	if trimmed := bytes.TrimSpace(res.Body); len(trimmed) == 0 || trimmed[0] != '{' {
		return "", fmt.Errorf("%w: body is not a json object: http status %d: %q",
			ErrDecoding, res.Status, utils.Preview(res.Body, previewSize),
		)
	}

	envelope := jrpc.Response{}
	if err := json.Unmarshal(res.Body, &envelope); err != nil {
		return "", fmt.Errorf("%w: %w: http status %d: %q",
			ErrDecoding, err, res.Status, utils.Preview(res.Body, previewSize),
		)
	}

	// servers reply with a null id when they could not parse the request
	nullIDError := envelope.Error != nil && !envelope.HasID()
	if c.verifyResponseID && !nullIDError && !envelope.IDMatches(id) {
		return "", fmt.Errorf("%w: response id mismatch: expected %d, got %s",
			ErrMalformedResponse, id, utils.Preview([]byte(envelope.IDString()), previewSize),
		)
	}

	if envelope.Error != nil {
		return "", &RPCError{
			Code:    envelope.Error.Code,
			Message: envelope.Error.Message,
			Data:    envelope.Error.Data,
		}
	}

	if envelope.Result == nil {
		return "", fmt.Errorf("%w: neither result nor error is present: %q",
			ErrMalformedResponse, utils.Preview(res.Body, previewSize),
		)
	}

	if hasReplacedSurrogate(res.Body, *envelope.Result) {
		return "", fmt.Errorf("%w: result contains an unpaired utf-16 surrogate: %q",
			ErrDecoding, utils.Preview(res.Body, previewSize),
		)
	}

	return *envelope.Result, nil
}

// hasReplacedSurrogate reports whether the decoder substituted U+FFFD for an
// unpaired surrogate escape, i.e. s carries a replacement character that the
// raw body never spelled out.
func hasReplacedSurrogate(body []byte, s string) bool {
	if !strings.ContainsRune(s, utf8.RuneError) {
		return false
	}
	if bytes.Contains(body, []byte(string(utf8.RuneError))) {
		return false
	}
	return !bytes.Contains(bytes.ToLower(body), []byte(`\ufffd`))
}

func (c *Client) report(ctx context.Context, job *callJob, err error) {
	latency := time.Since(job.tsStart)

	loggedFields := make([]zap.Field, 0, 8)
	loggedFields = append(loggedFields,
		zap.Stringer("network", job.network),
		zap.String("contract", job.contractAddress),
		zap.Int("data_size", len(job.data)),
		zap.Duration("latency", latency),
	)
	if job.idAllocated {
		loggedFields = append(loggedFields,
			zap.Uint64("jrpc_id", job.id),
		)
	}

	networkAttr := attribute.KeyValue{Key: "network", Value: attribute.StringValue(job.network.String())}

	if job.res != nil {
		loggedFields = append(loggedFields,
			zap.Int("http_status", job.res.Status),
			zap.Int("response_size", len(job.res.Body)),
		)
		metrics.ResponseSize.Record(ctx, int64(len(job.res.Body)), otelapi.WithAttributes(networkAttr))
	}

	metrics.CallLatency.Record(ctx, latency.Milliseconds(), otelapi.WithAttributes(networkAttr))

	l := logutils.LoggerFromContext(ctx)

	if err != nil {
		kind := Kind(err)
		metrics.CallFailureCount.Add(ctx, 1, otelapi.WithAttributes(
			networkAttr,
			attribute.KeyValue{Key: "error_kind", Value: attribute.StringValue(kind)},
		))
		l.Warn("Failed to call the contract",
			append(loggedFields,
				zap.String("error_kind", kind),
				zap.Error(err),
			)...,
		)
		return
	}

	metrics.CallSuccessCount.Add(ctx, 1, otelapi.WithAttributes(networkAttr))
	l.Debug("Called the contract", loggedFields...)
}
