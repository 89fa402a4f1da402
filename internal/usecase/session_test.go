package usecase

import (
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lexdrill/internal/entity"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestOrchestrator(rig *testRig) *Orchestrator {
	return NewOrchestrator(rig.store, rig.graph, rig.factory, rig.factory.rng, testLogger())
}

func TestPlanFillsRequestedSize(t *testing.T) {
	rig := newTestRig(51)
	o := newTestOrchestrator(rig)

	plan := o.Plan(NewReviewScheduler(nil), 100, 5, "", rig.now)
	if len(plan.Challenges) != 5 {
		t.Fatalf("challenges = %d, want 5", len(plan.Challenges))
	}
	if plan.Reason != entity.SessionOK {
		t.Errorf("reason = %q", plan.Reason)
	}
	if plan.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("plan has no id")
	}
	for i, pc := range plan.Challenges {
		if pc.Payload == nil {
			t.Errorf("challenge %d has no payload", i)
		}
		if pc.Challenge.TargetWord() == "" {
			t.Errorf("challenge %d has no target", i)
		}
	}
}

func TestPlanBeginnerGetsOnlyCards(t *testing.T) {
	rig := newTestRig(52)
	o := newTestOrchestrator(rig)

	// Level 10 caps difficulty at 1.5: only the basic card variant fits.
	plan := o.Plan(NewReviewScheduler(nil), 10, 6, "", rig.now)
	for _, pc := range plan.Challenges {
		if pc.Challenge.Type() != entity.ChallengeCards {
			t.Errorf("beginner got %q, want only %q", pc.Challenge.Type(), entity.ChallengeCards)
		}
	}
}

func TestPlanAvoidsRepeatingType(t *testing.T) {
	rig := newTestRig(53)
	o := newTestOrchestrator(rig)

	// Level 30 allows difficulties 1 and 2: three types, so consecutive
	// challenges can always differ.
	plan := o.Plan(NewReviewScheduler(nil), 30, 8, "", rig.now)
	for i := 1; i < len(plan.Challenges); i++ {
		if plan.Challenges[i].Challenge.Type() == plan.Challenges[i-1].Challenge.Type() {
			t.Errorf("challenges %d and %d repeat type %q", i-1, i, plan.Challenges[i].Challenge.Type())
		}
	}
}

func TestPlanPrioritizesDueWords(t *testing.T) {
	rig := newTestRig(54)
	o := newTestOrchestrator(rig)

	sched := NewReviewScheduler(nil)
	past := rig.now.AddDate(0, 0, -2)
	sched.State("healthy").NextReview = &past

	plan := o.Plan(sched, 50, 3, "", rig.now)
	if len(plan.Challenges) == 0 {
		t.Fatal("empty plan")
	}
	if got := plan.Challenges[0].Challenge.TargetWord(); got != "healthy" {
		t.Errorf("first challenge targets %q, want the due word", got)
	}
}

func TestPlanEmptyCatalog(t *testing.T) {
	store := newFakeWordStore()
	rng := rand.New(rand.NewSource(55))
	graph := NewSemanticGraph(rng)
	graph.Build(nil)
	factory := NewChallengeFactory(store, graph, NewSentenceGenerator(store, graph, rng), NewAnswerVerifier(store), rng)
	o := NewOrchestrator(store, graph, factory, rng, testLogger())

	plan := o.Plan(NewReviewScheduler(nil), 50, 5, "", time.Now())
	if plan.Reason != entity.SessionEmptyCatalog {
		t.Errorf("reason = %q, want empty catalog", plan.Reason)
	}
	if len(plan.Challenges) != 0 {
		t.Errorf("challenges = %d, want 0", len(plan.Challenges))
	}
}

func TestPlanDegradedWhenShort(t *testing.T) {
	rig := newTestRig(56)
	o := newTestOrchestrator(rig)

	// More challenges than the catalog can supply words for.
	plan := o.Plan(NewReviewScheduler(nil), 100, 50, "", rig.now)
	if len(plan.Challenges) >= 50 {
		t.Fatalf("challenges = %d, expected fewer than requested", len(plan.Challenges))
	}
	if plan.Reason != entity.SessionDegraded {
		t.Errorf("reason = %q, want degraded", plan.Reason)
	}
}

func TestPlanPinnedType(t *testing.T) {
	rig := newTestRig(58)
	o := newTestOrchestrator(rig)

	plan := o.Plan(NewReviewScheduler(nil), 50, 4, entity.ChallengeAnagram, rig.now)
	if len(plan.Challenges) == 0 {
		t.Fatal("empty plan")
	}
	for i, pc := range plan.Challenges {
		if pc.Challenge.Type() != entity.ChallengeAnagram {
			t.Errorf("challenge %d type = %q, want pinned %q", i, pc.Challenge.Type(), entity.ChallengeAnagram)
		}
	}
}

func TestPlanZeroSize(t *testing.T) {
	rig := newTestRig(57)
	o := newTestOrchestrator(rig)
	plan := o.Plan(NewReviewScheduler(nil), 50, 0, "", rig.now)
	if len(plan.Challenges) != 0 || plan.Reason != entity.SessionOK {
		t.Errorf("zero-size plan: %d challenges, reason %q", len(plan.Challenges), plan.Reason)
	}
}
