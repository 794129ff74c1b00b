package ledger

import (
	"strconv"

	"github.com/google/uuid"
)

// IDGenerator hands out friend identifiers. Ids must never repeat for the
// lifetime of a ledger.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random v4 UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

// SequenceGenerator issues Prefix1, Prefix2, ... and is meant for tests and
// reproducible demos.
type SequenceGenerator struct {
	Prefix string
	next   int
}

func (g *SequenceGenerator) NewID() string {
	g.next++
	return g.Prefix + strconv.Itoa(g.next)
}
