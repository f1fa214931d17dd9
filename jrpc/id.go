package jrpc

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/google/uuid"
)

type IDGenerator interface {
	Next() uint64
}

// Counter hands out sequential ids, wrapping around on overflow. It is safe
// for concurrent use.
type Counter struct {
	next atomic.Uint64
}

func NewCounter(start uint64) *Counter {
	c := &Counter{}
	c.next.Store(start)
	return c
}

func (c *Counter) Next() uint64 {
	return c.next.Add(1) - 1
}

// maxSafeInteger keeps random ids representable by JSON parsers that decode
// numbers as float64.
const maxSafeInteger = 1<<53 - 1

type randomIDs struct{}

// RandomIDs returns a generator of random ids, for callers that share one
// endpoint across processes and want to avoid correlating on counters.
func RandomIDs() IDGenerator {
	return randomIDs{}
}

func (randomIDs) Next() uint64 {
	u := uuid.New()
	return (binary.BigEndian.Uint64(u[:8]) ^ binary.BigEndian.Uint64(u[8:])) & maxSafeInteger
}
