package testutil

import (
	"fmt"
	"sync"
	"time"

	"picturecards/internal/domain"
	"picturecards/internal/session"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestItem creates an item whose display name is its id
func NewTestItem(id string, synonyms ...string) domain.VocabItem {
	return domain.NewVocabItem(id, id, synonyms, "images/"+id+".jpg", id, "en-US")
}

// NewTestCatalog creates a catalog with one item per id
func NewTestCatalog(ids ...string) *domain.Catalog {
	items := make([]domain.VocabItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, NewTestItem(id))
	}
	c, err := domain.NewCatalog(items)
	if err != nil {
		panic(err)
	}
	return c
}

// ScriptedRand replays fixed values. It panics when a script runs out
// or a scripted int is out of range, so tests fail loudly on drift.
type ScriptedRand struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
}

// NewScriptedRand creates a rand that returns floats and ints in order
func NewScriptedRand(floats []float64, ints []int) *ScriptedRand {
	return &ScriptedRand{floats: floats, ints: ints}
}

func (r *ScriptedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.floats) == 0 {
		panic("testutil: scripted Float64 exhausted")
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *ScriptedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ints) == 0 {
		panic("testutil: scripted IntN exhausted")
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v < 0 || v >= n {
		panic(fmt.Sprintf("testutil: scripted IntN value %d out of range [0,%d)", v, n))
	}
	return v
}

// Remaining returns how many scripted values were not consumed
func (r *ScriptedRand) Remaining() (floats, ints int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.floats), len(r.ints)
}

// ManualTimer is a timer fired by ManualScheduler
type ManualTimer struct {
	Delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

// Stop cancels the timer
func (t *ManualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// ManualScheduler runs callbacks only when the test calls Fire
type ManualScheduler struct {
	mu     sync.Mutex
	timers []*ManualTimer
}

// AfterFunc records f without running it
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) session.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &ManualTimer{Delay: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Pending returns the number of timers neither fired nor stopped
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Last returns the most recently scheduled timer
func (s *ManualScheduler) Last() *ManualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.timers) == 0 {
		return nil
	}
	return s.timers[len(s.timers)-1]
}

// Fire runs every pending timer and reports how many ran
func (s *ManualScheduler) Fire() int {
	s.mu.Lock()
	var due []*ManualTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		t.f()
	}
	return len(due)
}

// FireAll runs every timer ever scheduled, stopped ones included,
// as if Stop had lost a race with the clock
func (s *ManualScheduler) FireAll() {
	s.mu.Lock()
	all := make([]*ManualTimer, len(s.timers))
	copy(all, s.timers)
	s.mu.Unlock()

	for _, t := range all {
		t.f()
	}
}
