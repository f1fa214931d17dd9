package transport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flashbots/ethcall/utils"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// DefaultMaxResponseBytes is the hard ceiling for any response body,
// regardless of what an individual request asks for.
const DefaultMaxResponseBytes = 2 * 1024 * 1024

type HTTPConfig struct {
	Name             string
	Timeout          time.Duration
	MaxResponseBytes int

	Transforms Transforms
	Meter      Meter

	// Dial overrides how connections are established (tests use an
	// in-memory listener).
	Dial fasthttp.DialFunc
}

// HTTP is a Transport that performs outcalls with fasthttp. Every call uses
// a fresh connection and nothing is kept around once it completes.
type HTTP struct {
	name    string
	timeout time.Duration

	client *fasthttp.Client
	logger *zap.Logger

	meter      Meter
	transforms Transforms
}

func NewHTTP(cfg *HTTPConfig) *HTTP {
	l := zap.L().With(zap.String("transport_name", cfg.Name))

	maxResponseBytes := cfg.MaxResponseBytes
	if maxResponseBytes <= 0 || maxResponseBytes > DefaultMaxResponseBytes {
		maxResponseBytes = DefaultMaxResponseBytes
	}

	t := &HTTP{
		name:       cfg.Name,
		timeout:    cfg.Timeout,
		logger:     l,
		meter:      cfg.Meter,
		transforms: cfg.Transforms,
	}

	if t.meter == nil {
		t.meter = MetricsMeter(cfg.Name)
	}
	if t.transforms == nil {
		t.transforms = DefaultTransforms()
	}

	t.client = &fasthttp.Client{
		Dial:                      cfg.Dial,
		MaxIdemponentCallAttempts: 1,
		MaxResponseBodySize:       maxResponseBytes,
		Name:                      cfg.Name,
		ReadTimeout:               cfg.Timeout,
		WriteTimeout:              5 * time.Second,
	}

	return t
}

func (t *HTTP) Do(ctx context.Context, r *Request) (*Response, error) {
	host := requestHost(r)

	t.meter.Charge(ctx, host, r.Cycles)

	var transform TransformFunc
	if r.Transform != nil {
		fn, known := t.transforms[r.Transform.Function]
		if !known {
			return nil, &Error{
				Code:    CanisterError,
				Message: "unknown transform function: " + r.Transform.Function,
			}
		}
		transform = fn
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	res := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(res)

	req.SetRequestURI(r.URL)
	req.Header.SetMethod(string(r.Method))
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, fasthttp.HeaderHost) {
			req.UseHostHeader = true
			req.Header.SetHost(h.Value)
			continue
		}
		req.Header.Set(h.Name, h.Value)
	}
	req.SetConnectionClose()
	req.SetBody(r.Body)

	tsStart := time.Now()
	var err error
	if deadline := utils.Deadline(ctx, t.timeout); deadline.IsZero() {
		err = t.client.Do(req, res)
	} else {
		err = t.client.DoDeadline(req, res, deadline)
	}
	latency := time.Since(tsStart)

	l := t.logger.With(
		zap.String("url", r.URL),
		zap.String("host", host),
		zap.Int("request_size", len(r.Body)),
		zap.Duration("latency", latency),
	)

	if err != nil {
		rejection := reject(err, r.MaxResponseBytes)
		l.Debug("Outcall failed",
			zap.Stringer("reject_code", rejection.Code),
			zap.Error(err),
		)
		return nil, rejection
	}

	body := res.Body()
	if r.MaxResponseBytes > 0 && uint64(len(body)) > r.MaxResponseBytes {
		l.Debug("Outcall response is too large",
			zap.Int("response_size", len(body)),
		)
		return nil, &Error{
			Code:    SysFatal,
			Message: fmt.Sprintf("http body exceeds size limit of %d bytes", r.MaxResponseBytes),
		}
	}

	out := &Response{
		Status: res.StatusCode(),
		Body:   append([]byte(nil), body...),
	}
	res.Header.VisitAll(func(k, v []byte) {
		out.Headers = append(out.Headers, Header{Name: string(k), Value: string(v)})
	})

	if transform != nil {
		out = transform(out, r.Transform.Context)
	}

	l.Debug("Outcall completed",
		zap.Int("http_status", out.Status),
		zap.Int("response_size", len(out.Body)),
	)

	return out, nil
}

func requestHost(r *Request) string {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, fasthttp.HeaderHost) {
			return h.Value
		}
	}
	return ""
}

func reject(err error, maxResponseBytes uint64) *Error {
	switch {
	case errors.Is(err, fasthttp.ErrBodyTooLarge):
		return &Error{
			Code:    SysFatal,
			Message: fmt.Sprintf("http body exceeds size limit of %d bytes", maxResponseBytes),
		}
	case errors.Is(err, fasthttp.ErrTimeout), errors.Is(err, fasthttp.ErrDialTimeout):
		return &Error{
			Code:    SysTransient,
			Message: "timeout: " + err.Error(),
		}
	default:
		return &Error{
			Code:    SysTransient,
			Message: "connection failed: " + err.Error(),
		}
	}
}
