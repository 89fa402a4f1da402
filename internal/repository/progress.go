package repository

import (
	"context"

	"github.com/eslsoft/lexdrill/internal/entity"
)

// ProgressStore persists per-learner practice state. The engine only touches
// it at session boundaries: load once when a session starts, save once when
// results are recorded.
type ProgressStore interface {
	// Load returns the learner's word progress keyed by word. Missing
	// learners yield an empty map. Malformed rows degrade to the
	// never-scheduled default instead of failing the load.
	Load(ctx context.Context, userID string) (map[string]*entity.WordProgress, error)
	// Save upserts the given progress map for the learner.
	Save(ctx context.Context, userID string, progress map[string]*entity.WordProgress) error
	// Delete removes a single word's progress for the learner.
	Delete(ctx context.Context, userID string, word string) error
}
