package domain

import "math"

// Rating is the star tier shown with a cycle summary
type Rating string

const (
	RatingGreat Rating = "great"
	RatingOK    Rating = "ok"
	RatingPoor  Rating = "poor"
)

// Summary is shown when a cycle completes
type Summary struct {
	Total    int
	Correct  int
	Review   int
	Accuracy int
	Rating   Rating
	History  History
}

// History lists display names by outcome, in the order they happened
type History struct {
	Correct []string
	Review  []string
	Wrong   []string
}

// NamesOf returns the display names of items, or nil when there are none
func NamesOf(items []VocabItem) []string {
	if len(items) == 0 {
		return nil
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.DisplayName)
	}
	return names
}

// NewSummary scores a finished cycle. Accuracy counts only first-try
// correct answers.
func NewSummary(total, correct, review int) Summary {
	accuracy := 0
	if total > 0 {
		accuracy = int(math.Round(100 * float64(correct) / float64(total)))
	}
	return Summary{
		Total:    total,
		Correct:  correct,
		Review:   review,
		Accuracy: accuracy,
		Rating:   RatingFor(accuracy),
	}
}

// RatingFor maps an accuracy percentage to a rating tier
func RatingFor(accuracy int) Rating {
	switch {
	case accuracy >= 80:
		return RatingGreat
	case accuracy >= 50:
		return RatingOK
	default:
		return RatingPoor
	}
}

// Stars returns the number of stars for the rating
func (r Rating) Stars() int {
	switch r {
	case RatingGreat:
		return 3
	case RatingOK:
		return 2
	default:
		return 1
	}
}

// Progress is the running tally shown under each card
type Progress struct {
	Remaining int
	Correct   int
	Review    int
	Wrong     int
}

// Feedback describes the outcome of one answer
type Feedback struct {
	OK       bool
	Expected string
	NearMiss bool
}
