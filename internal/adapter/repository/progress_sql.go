package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/eslsoft/lexdrill/internal/entity"
	"github.com/eslsoft/lexdrill/internal/repository"
)

// SQLProgressStore persists per-learner word progress through database/sql.
// It speaks both sqlite3 and postgres; statements are written with ?
// placeholders and rebound for postgres.
type SQLProgressStore struct {
	db     *sql.DB
	driver string
}

var _ repository.ProgressStore = (*SQLProgressStore)(nil)

// NewSQLProgressStore wraps an open connection. driver must match the one
// the connection was opened with.
func NewSQLProgressStore(db *sql.DB, driver string) *SQLProgressStore {
	return &SQLProgressStore{db: db, driver: driver}
}

const progressSchema = `
CREATE TABLE IF NOT EXISTS word_progress (
	user_id         TEXT NOT NULL,
	word            TEXT NOT NULL,
	easiness        REAL NOT NULL,
	interval_days   INTEGER NOT NULL,
	repetitions     INTEGER NOT NULL,
	last_practiced  TIMESTAMP,
	next_review     TIMESTAMP,
	times_practiced INTEGER NOT NULL DEFAULT 0,
	times_correct   INTEGER NOT NULL DEFAULT 0,
	mastery         INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (user_id, word)
)`

// Migrate creates the progress table when missing.
func (s *SQLProgressStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, progressSchema); err != nil {
		return fmt.Errorf("migrate word_progress: %w", err)
	}
	return nil
}

// rebind rewrites ? placeholders into $n for postgres.
func (s *SQLProgressStore) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLProgressStore) Load(ctx context.Context, userID string) (map[string]*entity.WordProgress, error) {
	query := s.rebind(`SELECT word, easiness, interval_days, repetitions, last_practiced, next_review,
		times_practiced, times_correct, mastery
		FROM word_progress WHERE user_id = ?`)
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	defer rows.Close()

	progress := make(map[string]*entity.WordProgress)
	for rows.Next() {
		var (
			p             entity.WordProgress
			lastPracticed sql.NullTime
			nextReview    sql.NullTime
		)
		if err := rows.Scan(&p.Review.Word, &p.Review.Easiness, &p.Review.IntervalDays,
			&p.Review.Repetitions, &lastPracticed, &nextReview,
			&p.TimesPracticed, &p.TimesCorrect, &p.Mastery); err != nil {
			return nil, fmt.Errorf("scan progress row: %w", err)
		}
		if lastPracticed.Valid {
			t := lastPracticed.Time
			p.Review.LastPracticed = &t
		}
		if nextReview.Valid {
			t := nextReview.Time
			p.Review.NextReview = &t
		}
		// Corrupt rows degrade to never-scheduled instead of failing the load.
		p.Review.Sanitize()
		progress[p.Review.Word] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress rows: %w", err)
	}
	return progress, nil
}

func (s *SQLProgressStore) Save(ctx context.Context, userID string, progress map[string]*entity.WordProgress) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	query := s.rebind(`INSERT INTO word_progress
		(user_id, word, easiness, interval_days, repetitions, last_practiced, next_review,
		 times_practiced, times_correct, mastery)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, word) DO UPDATE SET
			easiness = excluded.easiness,
			interval_days = excluded.interval_days,
			repetitions = excluded.repetitions,
			last_practiced = excluded.last_practiced,
			next_review = excluded.next_review,
			times_practiced = excluded.times_practiced,
			times_correct = excluded.times_correct,
			mastery = excluded.mastery`)
	for word, p := range progress {
		var lastPracticed, nextReview any
		if p.Review.LastPracticed != nil {
			lastPracticed = p.Review.LastPracticed.UTC()
		}
		if p.Review.NextReview != nil {
			nextReview = p.Review.NextReview.UTC()
		}
		if _, err := tx.ExecContext(ctx, query, userID, word,
			p.Review.Easiness, p.Review.IntervalDays, p.Review.Repetitions,
			lastPracticed, nextReview,
			p.TimesPracticed, p.TimesCorrect, p.Mastery); err != nil {
			return fmt.Errorf("save progress for %q: %w", word, err)
		}
	}
	return tx.Commit()
}

func (s *SQLProgressStore) Delete(ctx context.Context, userID, word string) error {
	query := s.rebind(`DELETE FROM word_progress WHERE user_id = ? AND word = ?`)
	if _, err := s.db.ExecContext(ctx, query, userID, entity.NormalizeWord(word)); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}
