package usecase

import (
	"math"
	"sort"
	"time"

	"github.com/eslsoft/lexdrill/internal/entity"
)

// ReviewScheduler is an SM-2 variant: a per-word state machine driven by
// 0-5 recall-quality scores. It holds no persistence logic; the state map is
// supplied and owned by the caller, one scheduler per learner.
type ReviewScheduler struct {
	states map[string]*entity.ReviewState
	order  []string // insertion order, for stable DueWords output
}

// NewReviewScheduler wraps an existing state map. Loaded states are
// sanitized; corrupt entries degrade to never-scheduled. The initial
// iteration order is the sorted word list, new words append after it.
func NewReviewScheduler(states map[string]*entity.ReviewState) *ReviewScheduler {
	if states == nil {
		states = make(map[string]*entity.ReviewState)
	}
	order := make([]string, 0, len(states))
	for word, st := range states {
		st.Sanitize()
		order = append(order, word)
	}
	sort.Strings(order)
	return &ReviewScheduler{states: states, order: order}
}

// State returns the scheduling state for a word, creating the zero state on
// first access.
func (s *ReviewScheduler) State(word string) *entity.ReviewState {
	word = entity.NormalizeWord(word)
	if st, ok := s.states[word]; ok {
		return st
	}
	st := entity.NewReviewState(word)
	s.states[word] = st
	s.order = append(s.order, word)
	return st
}

// Update applies one practice result.
//
// quality < 3 resets the repetition streak and schedules a one-day retry
// without touching easiness. quality >= 3 advances the streak: intervals run
// 1 day, 6 days, then round(interval * easiness), and easiness moves by the
// SM-2 delta with a 1.3 floor.
func (s *ReviewScheduler) Update(word string, quality int, now time.Time) *entity.ReviewState {
	st := s.State(word)
	q := max(0, min(5, quality))

	if q < 3 {
		st.Repetitions = 0
		st.IntervalDays = 1
	} else {
		st.Repetitions++
		switch st.Repetitions {
		case 1:
			st.IntervalDays = 1
		case 2:
			st.IntervalDays = 6
		default:
			st.IntervalDays = int(math.Round(float64(st.IntervalDays) * st.Easiness))
		}
		miss := float64(5 - q)
		st.Easiness = math.Max(entity.MinEasiness, st.Easiness+0.1-miss*(0.08+miss*0.02))
	}

	practiced := now
	next := now.AddDate(0, 0, st.IntervalDays)
	st.LastPracticed = &practiced
	st.NextReview = &next
	return st
}

// DueWords returns every word whose next review is unset or not after now,
// in stable insertion order.
func (s *ReviewScheduler) DueWords(now time.Time) []string {
	due := make([]string, 0, len(s.order))
	for _, word := range s.order {
		if st := s.states[word]; st != nil && st.Due(now) {
			due = append(due, word)
		}
	}
	return due
}

// Remove drops a word's state entirely.
func (s *ReviewScheduler) Remove(word string) {
	word = entity.NormalizeWord(word)
	if _, ok := s.states[word]; !ok {
		return
	}
	delete(s.states, word)
	for i, w := range s.order {
		if w == word {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Len reports the number of tracked words.
func (s *ReviewScheduler) Len() int { return len(s.states) }
