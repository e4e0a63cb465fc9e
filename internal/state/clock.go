package state

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Clock stamps new strokes with an ID, a sequence number and a creation
// time. Sequence numbers start at 1 and never repeat within one Clock,
// even across Clear.
type Clock struct {
	site string
	seq  atomic.Uint64
	now  func() time.Time
}

func NewClock() *Clock {
	return &Clock{site: uuid.NewString(), now: time.Now}
}

// Site identifies this drawing session in logs and exports.
func (c *Clock) Site() string { return c.site }

// Stamp fills in the identity fields of s.
func (c *Clock) Stamp(s *Stroke) {
	s.ID = uuid.NewString()
	s.Seq = c.seq.Add(1)
	s.Time = c.now()
}
