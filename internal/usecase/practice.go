package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lexdrill/internal/entity"
	"github.com/eslsoft/lexdrill/internal/repository"
)

// PracticeUsecase is the session-facing API: it starts practice runs and
// verifies answers, persisting review state as challenges complete.
type PracticeUsecase interface {
	// StartSession plans a run of up to size challenges for the learner.
	// A non-empty typ pins every challenge to that variant.
	StartSession(ctx context.Context, userID string, userLevel, size int, typ entity.ChallengeType) (*SessionPlan, error)
	// VerifyAnswer scores one answer against a challenge of an active
	// session. Completed challenges feed the spaced-repetition state, which
	// is saved before the result is returned.
	VerifyAnswer(ctx context.Context, sessionID uuid.UUID, challengeIdx int, answer string) (*entity.VerifyResult, error)
	// Progress returns the learner's stored per-word progress.
	Progress(ctx context.Context, userID string) (map[string]*entity.WordProgress, error)
}

type activeSession struct {
	userID   string
	plan     *SessionPlan
	sched    *ReviewScheduler
	progress map[string]*entity.WordProgress
	done     int

	// mu serializes answer verification per session: challenges, the
	// scheduler and the progress map are single-writer.
	mu sync.Mutex
}

type practiceUsecase struct {
	progressRepo repository.ProgressStore
	orchestrator *Orchestrator
	logger       *logrus.Logger
	clock        func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*activeSession
}

func NewPracticeUsecase(progressRepo repository.ProgressStore, orchestrator *Orchestrator, logger *logrus.Logger) PracticeUsecase {
	return &practiceUsecase{
		progressRepo: progressRepo,
		orchestrator: orchestrator,
		logger:       logger,
		clock:        time.Now,
		sessions:     make(map[uuid.UUID]*activeSession),
	}
}

func (uc *practiceUsecase) StartSession(ctx context.Context, userID string, userLevel, size int, typ entity.ChallengeType) (*SessionPlan, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, entity.ErrInvalidUserID
	}
	if typ != "" && !typ.Valid() {
		return nil, entity.ErrUnknownChallenge
	}

	progress, err := uc.progressRepo.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load progress for %q: %w", userID, err)
	}
	states := make(map[string]*entity.ReviewState, len(progress))
	for word, p := range progress {
		states[word] = &p.Review
	}
	sched := NewReviewScheduler(states)

	now := uc.clock()
	plan := uc.orchestrator.Plan(sched, userLevel, size, typ, now)
	for _, pc := range plan.Challenges {
		pc.Challenge.Start()
	}

	uc.mu.Lock()
	uc.sessions[plan.ID] = &activeSession{
		userID:   userID,
		plan:     plan,
		sched:    sched,
		progress: progress,
	}
	uc.mu.Unlock()

	uc.logger.WithFields(logrus.Fields{
		"user":       userID,
		"session":    plan.ID,
		"challenges": len(plan.Challenges),
		"reason":     plan.Reason,
	}).Info("session started")
	return plan, nil
}

func (uc *practiceUsecase) VerifyAnswer(ctx context.Context, sessionID uuid.UUID, challengeIdx int, answer string) (*entity.VerifyResult, error) {
	uc.mu.Lock()
	sess, ok := uc.sessions[sessionID]
	uc.mu.Unlock()
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	if challengeIdx < 0 || challengeIdx >= len(sess.plan.Challenges) {
		return nil, entity.ErrChallengeIndex
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	ch := sess.plan.Challenges[challengeIdx].Challenge
	res, err := ch.Verify(answer)
	if err != nil {
		return nil, err
	}

	if res.Completed {
		if err := uc.recordCompletion(ctx, sess, ch, res.Quality); err != nil {
			uc.logger.WithError(err).WithFields(logrus.Fields{
				"user": sess.userID,
				"word": ch.TargetWord(),
			}).Warn("saving progress failed")
		}
	}
	return res, nil
}

// recordCompletion folds a finished challenge into the learner's review
// schedule and persists the updated progress.
func (uc *practiceUsecase) recordCompletion(ctx context.Context, sess *activeSession, ch Challenge, quality int) error {
	now := uc.clock()
	stats := ch.Stats()
	word := ch.TargetWord()

	state := sess.sched.Update(word, quality, now)
	p, ok := sess.progress[word]
	if !ok {
		p = entity.NewWordProgress(word)
		sess.progress[word] = p
	}
	p.Review = *state
	p.RecordResult(stats.Correct)

	sess.done++
	if sess.done >= len(sess.plan.Challenges) {
		uc.mu.Lock()
		delete(uc.sessions, sess.plan.ID)
		uc.mu.Unlock()
		uc.logger.WithFields(logrus.Fields{
			"user":    sess.userID,
			"session": sess.plan.ID,
		}).Info("session finished")
	}

	return uc.progressRepo.Save(ctx, sess.userID, sess.progress)
}

func (uc *practiceUsecase) Progress(ctx context.Context, userID string) (map[string]*entity.WordProgress, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, entity.ErrInvalidUserID
	}
	return uc.progressRepo.Load(ctx, userID)
}
