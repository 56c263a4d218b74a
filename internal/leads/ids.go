package leads

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator issues opportunity ids of the form opp-<session>-<ordinal>.
// The session part is random per generator, the ordinal strictly increases.
type IDGenerator struct {
	session string
	next    atomic.Uint64
}

// NewIDGenerator starts a generator with a fresh random session component.
func NewIDGenerator() *IDGenerator {
	return NewIDGeneratorWithSession(strings.SplitN(uuid.NewString(), "-", 2)[0])
}

// NewIDGeneratorWithSession starts a generator with a fixed session component.
func NewIDGeneratorWithSession(session string) *IDGenerator {
	return &IDGenerator{session: session}
}

// Session returns the session component.
func (g *IDGenerator) Session() string {
	return g.session
}

// Next returns a new opportunity id.
func (g *IDGenerator) Next() string {
	n := g.next.Add(1)
	return fmt.Sprintf("opp-%s-%d", g.session, n)
}
