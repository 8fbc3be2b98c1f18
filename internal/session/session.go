// Package session implements the flashcard cycle: which card to show next,
// how answers are classified, and when a cycle is complete.
package session

import (
	"picturecards/internal/domain"
)

// Rand is the source of randomness for card draws.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// bucket is an insertion-ordered set of items keyed by id
type bucket struct {
	ids   []string
	items map[string]domain.VocabItem
}

func newBucket() *bucket {
	return &bucket{items: make(map[string]domain.VocabItem)}
}

func (b *bucket) add(item domain.VocabItem) bool {
	if _, ok := b.items[item.ID]; ok {
		return false
	}
	b.items[item.ID] = item
	b.ids = append(b.ids, item.ID)
	return true
}

func (b *bucket) remove(id string) bool {
	if _, ok := b.items[id]; !ok {
		return false
	}
	delete(b.items, id)
	for i, v := range b.ids {
		if v == id {
			b.ids = append(b.ids[:i], b.ids[i+1:]...)
			break
		}
	}
	return true
}

func (b *bucket) has(id string) bool {
	_, ok := b.items[id]
	return ok
}

func (b *bucket) len() int {
	return len(b.ids)
}

func (b *bucket) list() []domain.VocabItem {
	out := make([]domain.VocabItem, 0, len(b.ids))
	for _, id := range b.ids {
		out = append(out, b.items[id])
	}
	return out
}

// Session is the mutable state of one cycle. It is created by NewSession
// and replaced wholesale on restart.
//
// An id is never in both correct and review. Once an item lands in either
// of them it leaves the pool and cannot be missed again.
type Session struct {
	target  int
	catalog *domain.Catalog
	pool    []domain.VocabItem
	correct *bucket
	review  *bucket
	wrong   *bucket
	current *domain.VocabItem
}

// NewSession draws min(target, catalog size) distinct items for a new cycle.
// target is clamped to [1, catalog size].
func NewSession(catalog *domain.Catalog, target int, rnd Rand) *Session {
	if target < 1 {
		target = 1
	}
	if target > catalog.Len() {
		target = catalog.Len()
	}

	return &Session{
		target:  target,
		catalog: catalog,
		pool:    pickUnique(catalog.Items(), target, rnd),
		correct: newBucket(),
		review:  newBucket(),
		wrong:   newBucket(),
	}
}

// pickUnique shuffles a copy of items with Fisher-Yates and keeps the first n
func pickUnique(items []domain.VocabItem, n int, rnd Rand) []domain.VocabItem {
	shuffled := make([]domain.VocabItem, len(items))
	copy(shuffled, items)

	for i := len(shuffled) - 1; i > 0; i-- {
		j := rnd.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// Target returns the clamped cycle length
func (s *Session) Target() int {
	return s.target
}

// Current returns the card on display, if any
func (s *Session) Current() (domain.VocabItem, bool) {
	if s.current == nil {
		return domain.VocabItem{}, false
	}
	return *s.current, true
}

// Done reports whether enough cards were solved to end the cycle
func (s *Session) Done() bool {
	return s.correct.len()+s.review.len() >= s.target
}

// candidates returns the items eligible for the next draw. Missed items
// are mixed in with probability repeatProb; when nothing fresh is left
// they are offered on their own.
func (s *Session) candidates(rnd Rand, repeatProb float64) []domain.VocabItem {
	out := make([]domain.VocabItem, len(s.pool))
	copy(out, s.pool)

	if s.wrong.len() > 0 && rnd.Float64() < repeatProb {
		out = append(out, s.wrongFromCatalog()...)
	}

	if len(out) == 0 && s.wrong.len() > 0 {
		out = s.wrongFromCatalog()
	}

	return out
}

func (s *Session) wrongFromCatalog() []domain.VocabItem {
	var out []domain.VocabItem
	for _, item := range s.catalog.Items() {
		if s.wrong.has(item.ID) {
			out = append(out, item)
		}
	}
	return out
}

// next draws the next card. It returns false when there is nothing left
// to offer; the cycle is then over.
func (s *Session) next(rnd Rand, repeatProb float64) (domain.VocabItem, bool) {
	s.current = nil
	if s.Done() {
		return domain.VocabItem{}, false
	}

	pool := s.candidates(rnd, repeatProb)
	if len(pool) == 0 {
		return domain.VocabItem{}, false
	}

	item := pool[rnd.IntN(len(pool))]
	s.current = &item
	return item, true
}

// answer classifies raw against the current card and updates the buckets
func (s *Session) answer(raw string) (domain.Feedback, bool) {
	if s.current == nil {
		return domain.Feedback{}, false
	}
	item := *s.current

	fb := domain.Feedback{Expected: item.DisplayName}
	if item.Accepts(raw) {
		fb.OK = true
		if s.wrong.remove(item.ID) {
			s.review.add(item)
		} else if !s.review.has(item.ID) {
			s.correct.add(item)
		}
		s.dropFromPool(item.ID)
		return fb, true
	}

	s.wrong.add(item)
	fb.NearMiss = domain.IsNearMiss(raw, item)
	return fb, true
}

func (s *Session) dropFromPool(id string) {
	kept := s.pool[:0]
	for _, item := range s.pool {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.pool = kept
}

// Progress returns the running tally
func (s *Session) Progress() domain.Progress {
	remaining := s.target - (s.correct.len() + s.review.len())
	if remaining < 0 {
		remaining = 0
	}
	return domain.Progress{
		Remaining: remaining,
		Correct:   s.correct.len(),
		Review:    s.review.len(),
		Wrong:     s.wrong.len(),
	}
}

// Summary scores the cycle
func (s *Session) Summary() domain.Summary {
	sum := domain.NewSummary(s.target, s.correct.len(), s.review.len())
	sum.History = s.History()
	return sum
}

// History names the solved and missed cards so far
func (s *Session) History() domain.History {
	return domain.History{
		Correct: domain.NamesOf(s.correct.list()),
		Review:  domain.NamesOf(s.review.list()),
		Wrong:   domain.NamesOf(s.wrong.list()),
	}
}

// Pool returns the fresh items not yet answered correctly
func (s *Session) Pool() []domain.VocabItem {
	out := make([]domain.VocabItem, len(s.pool))
	copy(out, s.pool)
	return out
}

// Correct returns first-try correct items in the order they were solved
func (s *Session) Correct() []domain.VocabItem { return s.correct.list() }

// Review returns items solved after at least one miss
func (s *Session) Review() []domain.VocabItem { return s.review.list() }

// Wrong returns items missed and not yet redeemed
func (s *Session) Wrong() []domain.VocabItem { return s.wrong.list() }
