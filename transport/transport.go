package transport

import (
	"context"
	"strings"
)

type Method string

const (
	MethodGet  Method = "GET"
	MethodHead Method = "HEAD"
	MethodPost Method = "POST"
)

type Header struct {
	Name  string
	Value string
}

// TransformContext names the response transform the transport applies
// before handing the response back, plus an opaque argument for it.
type TransformContext struct {
	Function string
	Context  []byte
}

type Request struct {
	URL     string
	Method  Method
	Headers []Header
	Body    []byte

	// MaxResponseBytes caps the size of the response body.
	MaxResponseBytes uint64

	// Cycles is the cost budget attached to the outcall; it is charged
	// whatever the outcome.
	Cycles uint64

	Transform *TransformContext
}

type Response struct {
	Status  int
	Headers []Header
	Body    []byte
}

type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

func (r *Response) Header(name string) (string, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}
