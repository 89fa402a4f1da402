package entity

import "time"

const (
	// InitialEasiness is the SM-2 starting easiness factor.
	InitialEasiness = 2.5
	// MinEasiness is the SM-2 floor for the easiness factor.
	MinEasiness = 1.3
)

// ReviewState is the per-(learner, word) spaced-repetition state.
// It is created lazily on first practice and mutated only by the scheduler.
type ReviewState struct {
	Word          string
	Easiness      float64
	IntervalDays  int
	Repetitions   int
	LastPracticed *time.Time
	NextReview    *time.Time // nil = never scheduled = immediately due
}

// NewReviewState returns the zero state for a word.
func NewReviewState(word string) *ReviewState {
	return &ReviewState{Word: word, Easiness: InitialEasiness}
}

// Due reports whether the word should be reviewed at the given instant.
func (s *ReviewState) Due(now time.Time) bool {
	return s.NextReview == nil || !s.NextReview.After(now)
}

// Sanitize repairs a state loaded from persistence. Malformed values degrade
// to the never-scheduled default rather than failing the load.
func (s *ReviewState) Sanitize() {
	if s.Easiness < MinEasiness {
		s.Easiness = InitialEasiness
	}
	if s.IntervalDays < 0 {
		s.IntervalDays = 0
	}
	if s.Repetitions < 0 {
		s.Repetitions = 0
	}
	if s.LastPracticed != nil && s.NextReview != nil && s.NextReview.Before(*s.LastPracticed) {
		s.NextReview = nil
	}
}

// WordProgress couples the scheduling state with the practice counters the
// progress store persists per learner.
type WordProgress struct {
	Review         ReviewState
	TimesPracticed int
	TimesCorrect   int
	Mastery        int // 0-100
}

// NewWordProgress returns fresh progress for a word.
func NewWordProgress(word string) *WordProgress {
	return &WordProgress{Review: *NewReviewState(word)}
}

// RecordResult updates the practice counters after a completed challenge.
func (p *WordProgress) RecordResult(correct bool) {
	p.TimesPracticed++
	if correct {
		p.TimesCorrect++
	}
	if p.TimesPracticed > 0 {
		ratio := float64(p.TimesCorrect) / float64(p.TimesPracticed)
		mastery := int(ratio * 80)
		if reps := p.Review.Repetitions; reps > 0 {
			mastery += min(20, reps*4)
		}
		p.Mastery = min(100, mastery)
	}
}
