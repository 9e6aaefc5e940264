package cart

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator hands out cart instance identifiers
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random UUIDs
type UUIDGenerator struct{}

// NewID returns a new UUID v4 string
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator issues increasing decimal identifiers with an optional prefix
type SequenceGenerator struct {
	Prefix string
	next   atomic.Uint64
}

// NewID returns the next identifier in the sequence
func (g *SequenceGenerator) NewID() string {
	return g.Prefix + strconv.FormatUint(g.next.Add(1), 10)
}
