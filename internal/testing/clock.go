package testing

import (
	"sync"
	"time"

	"github.com/LeJamon/goPredictd/internal/core/node"
)

// GenesisTime is where every test chain's clock starts.
var GenesisTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// ManualClock is a node clock driven by the test. Block times are unix
// seconds, so the clock only holds whole seconds.
type ManualClock struct {
	mu   sync.Mutex
	unix int64
}

var _ node.Clock = (*ManualClock)(nil)

// NewManualClock returns a clock set to GenesisTime.
func NewManualClock() *ManualClock {
	return NewManualClockAt(GenesisTime)
}

// NewManualClockAt returns a clock set to t, truncated to the second.
func NewManualClockAt(t time.Time) *ManualClock {
	return &ManualClock{unix: t.Unix()}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Unix(c.unix, 0).UTC()
}

// Advance moves the clock forward by whole seconds of d. The clock never
// runs backwards.
func (c *ManualClock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unix += int64(d / time.Second)
}

// Set moves the clock to t, truncated to the second.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unix = t.Unix()
}
