package testutil

import (
	"sync"

	"picturecards/internal/domain"
)

// RecordingSink captures everything the controller renders
type RecordingSink struct {
	mu        sync.Mutex
	Events    []string
	Cards     []domain.VocabItem
	Feedbacks []domain.Feedback
	Progress  []domain.Progress
	Summaries []domain.Summary
}

func (s *RecordingSink) ShowCard(item domain.VocabItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, "card:"+item.ID)
	s.Cards = append(s.Cards, item)
}

func (s *RecordingSink) ShowFeedback(fb domain.Feedback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fb.OK {
		s.Events = append(s.Events, "feedback:ok")
	} else {
		s.Events = append(s.Events, "feedback:err")
	}
	s.Feedbacks = append(s.Feedbacks, fb)
}

func (s *RecordingSink) ShowProgress(p domain.Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, "progress")
	s.Progress = append(s.Progress, p)
}

func (s *RecordingSink) ShowSummary(sum domain.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, "summary")
	s.Summaries = append(s.Summaries, sum)
}

func (s *RecordingSink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, "clear")
}

// LastCard returns the most recent card shown
func (s *RecordingSink) LastCard() (domain.VocabItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Cards) == 0 {
		return domain.VocabItem{}, false
	}
	return s.Cards[len(s.Cards)-1], true
}

// CountingTones counts positive and negative tones
type CountingTones struct {
	mu       sync.Mutex
	Positive int
	Negative int
}

func (t *CountingTones) PlayPositive() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Positive++
}

func (t *CountingTones) PlayNegative() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Negative++
}

// RecordingPresenter records both rendering and tones for one chat
type RecordingPresenter struct {
	RecordingSink
	CountingTones
}
