package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/lexdrill/internal/entity"
)

// fakeProgressStore keeps per-user progress in memory and counts saves.
type fakeProgressStore struct {
	mu    sync.Mutex
	data  map[string]map[string]*entity.WordProgress
	saves int
	fail  error
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{data: make(map[string]map[string]*entity.WordProgress)}
}

func (f *fakeProgressStore) Load(_ context.Context, userID string) (map[string]*entity.WordProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	out := make(map[string]*entity.WordProgress)
	for w, p := range f.data[userID] {
		clone := *p
		out[w] = &clone
	}
	return out, nil
}

func (f *fakeProgressStore) Save(_ context.Context, userID string, progress map[string]*entity.WordProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	stored := make(map[string]*entity.WordProgress, len(progress))
	for w, p := range progress {
		clone := *p
		stored[w] = &clone
	}
	f.data[userID] = stored
	f.saves++
	return nil
}

func (f *fakeProgressStore) Delete(_ context.Context, userID, word string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data[userID], word)
	return nil
}

func newTestPractice(rig *testRig, store *fakeProgressStore) PracticeUsecase {
	uc := NewPracticeUsecase(store, newTestOrchestrator(rig), testLogger()).(*practiceUsecase)
	uc.clock = func() time.Time { return rig.now }
	return uc
}

func TestStartSessionValidatesUser(t *testing.T) {
	rig := newTestRig(61)
	uc := newTestPractice(rig, newFakeProgressStore())
	if _, err := uc.StartSession(context.Background(), "  ", 20, 3, ""); !errors.Is(err, entity.ErrInvalidUserID) {
		t.Errorf("blank user error = %v", err)
	}
}

func TestVerifyAnswerUnknownSession(t *testing.T) {
	rig := newTestRig(62)
	uc := newTestPractice(rig, newFakeProgressStore())
	if _, err := uc.VerifyAnswer(context.Background(), uuid.New(), 0, "x"); !errors.Is(err, entity.ErrSessionNotFound) {
		t.Errorf("unknown session error = %v", err)
	}
}

func TestPracticeFullSessionPersistsProgress(t *testing.T) {
	rig := newTestRig(63)
	store := newFakeProgressStore()
	uc := newTestPractice(rig, store)
	ctx := context.Background()

	// Level 10: every challenge is a forward card with a known correct index.
	plan, err := uc.StartSession(ctx, "alice", 10, 3, "")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if len(plan.Challenges) != 3 {
		t.Fatalf("challenges = %d", len(plan.Challenges))
	}

	if _, err := uc.VerifyAnswer(ctx, plan.ID, 99, "0"); !errors.Is(err, entity.ErrChallengeIndex) {
		t.Errorf("bad index error = %v", err)
	}

	for i, pc := range plan.Challenges {
		card := pc.Challenge.(*cardChallenge)
		res, err := uc.VerifyAnswer(ctx, plan.ID, i, fmt.Sprintf("%d", card.correctIdx))
		if err != nil {
			t.Fatalf("VerifyAnswer %d: %v", i, err)
		}
		if !res.Completed {
			t.Fatalf("challenge %d not completed: %+v", i, res)
		}
	}

	if store.saves != 3 {
		t.Errorf("saves = %d, want one per completed challenge", store.saves)
	}
	saved, _ := store.Load(ctx, "alice")
	if len(saved) != 3 {
		t.Fatalf("saved words = %d", len(saved))
	}
	for word, p := range saved {
		if p.TimesPracticed != 1 || p.TimesCorrect != 1 {
			t.Errorf("%s counters = %d/%d", word, p.TimesPracticed, p.TimesCorrect)
		}
		if p.Review.Repetitions != 1 || p.Review.IntervalDays != 1 {
			t.Errorf("%s review = reps %d interval %d", word, p.Review.Repetitions, p.Review.IntervalDays)
		}
		if p.Review.NextReview == nil {
			t.Errorf("%s has no next review", word)
		}
		if p.Mastery <= 0 {
			t.Errorf("%s mastery = %d", word, p.Mastery)
		}
	}

	// The finished session is gone.
	if _, err := uc.VerifyAnswer(ctx, plan.ID, 0, "0"); !errors.Is(err, entity.ErrSessionNotFound) {
		t.Errorf("finished session error = %v", err)
	}
}

func TestPracticeIncorrectAnswerStillRecorded(t *testing.T) {
	rig := newTestRig(64)
	store := newFakeProgressStore()
	uc := newTestPractice(rig, store)
	ctx := context.Background()

	plan, err := uc.StartSession(ctx, "bob", 10, 1, "")
	if err != nil {
		t.Fatal(err)
	}
	card := plan.Challenges[0].Challenge.(*cardChallenge)
	wrong := fmt.Sprintf("%d", (card.correctIdx+1)%len(card.options))

	var res *entity.VerifyResult
	for i := 0; i < defaultMaxAttempts; i++ {
		res, err = uc.VerifyAnswer(ctx, plan.ID, 0, wrong)
		if err != nil {
			t.Fatal(err)
		}
	}
	if !res.Completed || res.Correct {
		t.Fatalf("exhausted challenge: %+v", res)
	}

	saved, _ := store.Load(ctx, "bob")
	p := saved[card.word]
	if p == nil {
		t.Fatal("no progress saved for failed word")
	}
	if p.TimesPracticed != 1 || p.TimesCorrect != 0 {
		t.Errorf("counters = %d/%d", p.TimesPracticed, p.TimesCorrect)
	}
	if p.Review.Repetitions != 0 || p.Review.IntervalDays != 1 {
		t.Errorf("failed review state = reps %d interval %d", p.Review.Repetitions, p.Review.IntervalDays)
	}
}

func TestVerifyAnswerSerializesPerSession(t *testing.T) {
	rig := newTestRig(66)
	store := newFakeProgressStore()
	uc := newTestPractice(rig, store)
	ctx := context.Background()

	plan, err := uc.StartSession(ctx, "dave", 10, 1, "")
	if err != nil {
		t.Fatal(err)
	}
	card := plan.Challenges[0].Challenge.(*cardChallenge)
	wrong := fmt.Sprintf("%d", (card.correctIdx+1)%len(card.options))

	const callers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
		rejected  int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := uc.VerifyAnswer(ctx, plan.ID, 0, wrong)
			mu.Lock()
			defer mu.Unlock()
			switch {
			// Late callers see either error depending on whether the
			// finished session was already dropped from the registry.
			case errors.Is(err, entity.ErrChallengeComplete),
				errors.Is(err, entity.ErrSessionNotFound):
				rejected++
			case err != nil:
				t.Errorf("VerifyAnswer: %v", err)
			case res.Completed:
				completed++
			}
		}()
	}
	wg.Wait()

	// Exactly one caller observes completion; once the attempts are spent
	// every later caller is turned away.
	if completed != 1 {
		t.Errorf("completions = %d, want 1", completed)
	}
	if rejected != callers-defaultMaxAttempts {
		t.Errorf("rejected = %d, want %d", rejected, callers-defaultMaxAttempts)
	}
	saved, _ := store.Load(ctx, "dave")
	if p := saved[card.word]; p == nil || p.TimesPracticed != 1 {
		t.Errorf("progress recorded %+v, want exactly one practice", p)
	}
}

func TestStartSessionPropagatesLoadError(t *testing.T) {
	rig := newTestRig(65)
	store := newFakeProgressStore()
	store.fail = errors.New("disk gone")
	uc := newTestPractice(rig, store)

	if _, err := uc.StartSession(context.Background(), "carol", 10, 1, ""); err == nil {
		t.Error("expected load error to propagate")
	}
}
