package node

import (
	"github.com/google/uuid"
	"strconv"
	"sync/atomic"
)

// --------------------------------------------------------------------------
// Random ids
// --------------------------------------------------------------------------

type uuidGenerator struct{}

// NewUUIDGenerator returns a generator of random (version 4) UUIDs
func NewUUIDGenerator() IIDGenerator {
	return uuidGenerator{}
}

func (uuidGenerator) NextID() string {
	return uuid.NewString()
}

// --------------------------------------------------------------------------
// Sequential ids
// --------------------------------------------------------------------------

type sequenceGenerator struct {
	prefix string
	next   atomic.Uint64
}

// NewSequenceGenerator returns a generator of ids "<prefix><n>" with a
// monotonic counter. The counter wraps after 2^64 ids, long after any request
// that used the same number has completed.
func NewSequenceGenerator(prefix string) IIDGenerator {
	return &sequenceGenerator{prefix: prefix}
}

func (g *sequenceGenerator) NextID() string {
	return g.prefix + strconv.FormatUint(g.next.Add(1), 10)
}
