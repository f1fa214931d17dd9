package ethcall

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// Every error returned by Client wraps exactly one of these.
var (
	ErrConfiguration     = errors.New("configuration error")
	ErrEncoding          = errors.New("failed to encode json-rpc request")
	ErrTransport         = errors.New("http outcall failed")
	ErrDecoding          = errors.New("failed to decode json-rpc response")
	ErrRPC               = errors.New("json-rpc error")
	ErrMalformedResponse = errors.New("malformed json-rpc response")
)

// RPCError is an error object returned by the remote node, kept intact.
type RPCError struct {
	Code    int64
	Message string
	Data    json.RawMessage
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("json-rpc error code %d: %s", e.Code, e.Message)
}

func (e *RPCError) Is(target error) bool {
	return target == ErrRPC
}

const (
	KindConfiguration = "configuration"
	KindEncoding      = "encoding"
	KindTransport     = "transport"
	KindDecoding      = "decoding"
	KindRPC           = "rpc"
	KindMalformed     = "malformed"
	KindUnknown       = "unknown"
)

// Kind classifies err for metrics and for the http facade.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrEncoding):
		return KindEncoding
	case errors.Is(err, ErrTransport):
		return KindTransport
	case errors.Is(err, ErrDecoding):
		return KindDecoding
	case errors.Is(err, ErrRPC):
		return KindRPC
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformed
	default:
		return KindUnknown
	}
}
