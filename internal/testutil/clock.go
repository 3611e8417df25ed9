package testutil

import (
	"fmt"
	"sync"
	"time"

	"screentime-go/internal/dashboard"
)

// FixedDay is the Saturday every fixture clock is set on. The demo week's
// labels run Mon..Sun, so Saturday sits at index 5 of a fixed week and at
// index 6 of a rolling one.
var FixedDay = time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

// StubClock is a dashboard.Clock that only moves when told to.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

var _ dashboard.Clock = (*StubClock)(nil)

func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock is FixedDay at 18:30, an evening for the greeting.
func FixedClock() *StubClock {
	return ClockAt(18, 30)
}

// ClockAt returns a clock on FixedDay at hour:minute UTC.
func ClockAt(hour, minute int) *StubClock {
	return NewStubClock(FixedDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute))
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. Crossing midnight rolls the stores'
// week forward a day.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// StubIDGenerator hands out "id-1", "id-2", ... so created children have
// predictable IDs.
type StubIDGenerator struct {
	mu   sync.Mutex
	next int
}

var _ dashboard.IDGenerator = (*StubIDGenerator)(nil)

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%d", g.next)
}
