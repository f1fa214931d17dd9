package jrpc

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// Response is the envelope returned for an eth_call. A well-behaved server
// populates exactly one of Result and Error.
type Response struct {
	ID      json.RawMessage `json:"id,omitempty"`
	Version string          `json:"jsonrpc"`
	Result  *string         `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

type Error struct {
	Code    int64           `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("json-rpc error code %d: %s", e.Code, e.Message)
}

// HasID tells whether the response carries a non-null id.
func (r Response) HasID() bool {
	id := bytes.TrimSpace(r.ID)
	return len(id) > 0 && !bytes.Equal(id, []byte("null"))
}

// IDMatches compares the response id with the one we sent. Servers that
// echo numeric ids as strings are tolerated.
func (r Response) IDMatches(id uint64) bool {
	if !r.HasID() {
		return false
	}

	raw := bytes.TrimSpace(r.ID)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return false
		}
		return s == strconv.FormatUint(id, 10)
	}

	var n uint64
	if err := json.Unmarshal(raw, &n); err != nil {
		return false
	}
	return n == id
}

func (r Response) IDString() string {
	if !r.HasID() {
		return "null"
	}
	return string(bytes.TrimSpace(r.ID))
}
