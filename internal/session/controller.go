package session

import (
	"math/rand/v2"
	"sync"
	"time"

	"picturecards/internal/domain"
)

const (
	// DefaultAdvanceDelay is the pause between feedback and the next card
	DefaultAdvanceDelay = 600 * time.Millisecond

	// DefaultRepeatProbability is the chance missed cards join a draw
	DefaultRepeatProbability = 0.5
)

// State of the controller
type State int

const (
	StateIdle State = iota
	StatePresenting
	StateEvaluating
	StateComplete
)

func (s State) String() string {
	switch s {
	case StatePresenting:
		return "presenting"
	case StateEvaluating:
		return "evaluating"
	case StateComplete:
		return "complete"
	default:
		return "idle"
	}
}

// Sink renders the game. The controller only writes to it.
type Sink interface {
	ShowCard(item domain.VocabItem)
	ShowFeedback(fb domain.Feedback)
	ShowProgress(p domain.Progress)
	ShowSummary(s domain.Summary)
	Clear()
}

// TonePlayer plays outcome sounds. Calls are fire-and-forget.
type TonePlayer interface {
	PlayPositive()
	PlayNegative()
}

// Timer is a scheduled callback that may be cancelled
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemScheduler schedules on the wall clock
var SystemScheduler Scheduler = systemScheduler{}

// Option configures a Controller
type Option func(*Controller)

// WithRand sets the random source used for draws
func WithRand(r Rand) Option {
	return func(c *Controller) {
		c.rnd = r
	}
}

// WithScheduler sets the scheduler used for the post-answer pause
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		c.sched = s
	}
}

// WithAdvanceDelay sets the pause between feedback and the next card.
// A non-positive delay advances immediately.
func WithAdvanceDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.delay = d
	}
}

// WithRepeatProbability sets the chance that missed cards are mixed into
// a draw
func WithRepeatProbability(p float64) Option {
	return func(c *Controller) {
		c.repeatProb = p
	}
}

// Controller drives one game. All methods are safe for concurrent use;
// events are applied one at a time in arrival order.
type Controller struct {
	catalog    *domain.Catalog
	sink       Sink
	tones      TonePlayer
	rnd        Rand
	sched      Scheduler
	delay      time.Duration
	repeatProb float64

	mu      sync.Mutex
	state   State
	session *Session
	pending Timer
	// gen invalidates advances scheduled before the last cancel
	gen uint64
}

// NewController creates an idle controller. Call Restart to begin a cycle.
func NewController(catalog *domain.Catalog, sink Sink, tones TonePlayer, opts ...Option) *Controller {
	c := &Controller{
		catalog:    catalog,
		sink:       sink,
		tones:      tones,
		rnd:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		sched:      SystemScheduler,
		delay:      DefaultAdvanceDelay,
		repeatProb: DefaultRepeatProbability,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Restart starts a new cycle of targetSize cards, discarding the old one
func (c *Controller) Restart(targetSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelPending()
	c.session = NewSession(c.catalog, targetSize, c.rnd)
	c.state = StatePresenting
	c.sink.Clear()
	c.selectNextCardLocked()
}

// SelectNextCard advances to the next card or completes the cycle
func (c *Controller) SelectNextCard() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return
	}
	c.cancelPending()
	c.selectNextCardLocked()
}

func (c *Controller) selectNextCardLocked() {
	item, ok := c.session.next(c.rnd, c.repeatProb)
	if !ok {
		c.state = StateComplete
		c.sink.ShowProgress(c.session.Progress())
		c.sink.ShowSummary(c.session.Summary())
		return
	}

	c.state = StatePresenting
	c.sink.ShowProgress(c.session.Progress())
	c.sink.ShowCard(item)
}

// SubmitAnswer evaluates raw against the current card. It returns false
// when there was nothing to evaluate: no card on display, or the previous
// answer is still being shown.
func (c *Controller) SubmitAnswer(raw string) (domain.Feedback, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.submitLocked(raw)
}

// SubmitAnswerFor is SubmitAnswer for an answer given to a specific card,
// e.g. one that took a while to transcribe. It returns false when that card
// is no longer on display.
func (c *Controller) SubmitAnswerFor(itemID, raw string) (domain.Feedback, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return domain.Feedback{}, false
	}
	if item, ok := c.session.Current(); !ok || item.ID != itemID {
		return domain.Feedback{}, false
	}
	return c.submitLocked(raw)
}

func (c *Controller) submitLocked(raw string) (domain.Feedback, bool) {
	if c.session == nil || c.state != StatePresenting {
		return domain.Feedback{}, false
	}

	fb, ok := c.session.answer(raw)
	if !ok {
		return domain.Feedback{}, false
	}

	c.state = StateEvaluating
	c.sink.ShowFeedback(fb)
	if fb.OK {
		c.tones.PlayPositive()
	} else {
		c.tones.PlayNegative()
	}
	c.sink.ShowProgress(c.session.Progress())

	c.scheduleAdvance()
	return fb, true
}

func (c *Controller) scheduleAdvance() {
	if c.delay <= 0 {
		c.selectNextCardLocked()
		return
	}

	gen := c.gen
	c.pending = c.sched.AfterFunc(c.delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if gen != c.gen || c.state != StateEvaluating {
			return
		}
		c.pending = nil
		c.selectNextCardLocked()
	})
}

func (c *Controller) cancelPending() {
	c.gen++
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

// Stop cancels a pending advance. The controller stays usable and the next
// Restart starts over.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPending()
}

// Summary scores the current cycle. The boolean is false before the first
// restart.
func (c *Controller) Summary() (domain.Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return domain.Summary{}, false
	}
	return c.session.Summary(), true
}

// Snapshot is a read-only view of a controller
type Snapshot struct {
	State    State
	Target   int
	Current  *domain.VocabItem
	Pool     []domain.VocabItem
	Correct  []domain.VocabItem
	Review   []domain.VocabItem
	Wrong    []domain.VocabItem
	Progress domain.Progress
}

// Snapshot copies the controller state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{State: c.state}
	if c.session == nil {
		return snap
	}

	snap.Target = c.session.Target()
	if item, ok := c.session.Current(); ok {
		snap.Current = &item
	}
	snap.Pool = c.session.Pool()
	snap.Correct = c.session.Correct()
	snap.Review = c.session.Review()
	snap.Wrong = c.session.Wrong()
	snap.Progress = c.session.Progress()
	return snap
}
