package usecase

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/eslsoft/lexdrill/internal/entity"
)

func TestCardChallengeForward(t *testing.T) {
	rig := newTestRig(21)
	ch, err := rig.factory.New(entity.ChallengeCards, "doctor", 20)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ch.Start()
	payload, err := ch.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if payload.Type != entity.ChallengeCards || payload.TargetWord != "doctor" {
		t.Errorf("payload header = %s/%s", payload.Type, payload.TargetWord)
	}
	if len(payload.Options) != defaultOptionCount {
		t.Fatalf("options = %v, want %d", payload.Options, defaultOptionCount)
	}
	found := false
	for _, opt := range payload.Options {
		if opt == "médico" {
			found = true
		}
	}
	if !found {
		t.Errorf("translation missing from options %v", payload.Options)
	}

	card := ch.(*cardChallenge)
	res, err := ch.Verify(fmt.Sprintf("%d", card.correctIdx))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !res.Correct || !res.Completed || res.Score != 100 {
		t.Errorf("correct answer: %+v", res)
	}
	if res.Quality != 5 {
		t.Errorf("instant first-try answer quality = %d, want 5", res.Quality)
	}
}

func TestCardChallengeReverse(t *testing.T) {
	rig := newTestRig(22)
	ch, err := rig.factory.New(entity.ChallengeCardsReverse, "doctor", 20)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ch.Start()
	payload, err := ch.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if payload.PromptText != "médico" {
		t.Errorf("prompt = %q, want the translation", payload.PromptText)
	}
	found := false
	for _, opt := range payload.Options {
		if opt == "doctor" {
			found = true
		}
	}
	if !found {
		t.Errorf("target word missing from options %v", payload.Options)
	}

	// Answering with the option text works as well as the index.
	res, err := ch.Verify("Doctor")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !res.Correct {
		t.Errorf("text answer not accepted: %+v", res)
	}
}

func TestCardChallengeWrongAnswerFlow(t *testing.T) {
	rig := newTestRig(23)
	ch, _ := rig.factory.New(entity.ChallengeCards, "doctor", 20)
	ch.Start()
	if _, err := ch.Generate(); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	card := ch.(*cardChallenge)
	wrongIdx := (card.correctIdx + 1) % len(card.options)

	res, err := ch.Verify(fmt.Sprintf("%d", wrongIdx))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if res.Correct || res.Completed {
		t.Errorf("wrong answer marked correct: %+v", res)
	}
	if res.CorrectOption == nil || *res.CorrectOption != card.correctIdx {
		t.Error("wrong answer should reveal the correct option")
	}
	if res.AttemptsLeft != defaultMaxAttempts-1 {
		t.Errorf("attempts left = %d", res.AttemptsLeft)
	}

	// Second wrong, then a correct answer on the last attempt.
	if _, err := ch.Verify(fmt.Sprintf("%d", wrongIdx)); err != nil {
		t.Fatalf("Verify 2: %v", err)
	}
	res, err = ch.Verify(fmt.Sprintf("%d", card.correctIdx))
	if err != nil {
		t.Fatalf("Verify 3: %v", err)
	}
	if !res.Correct || !res.Completed {
		t.Errorf("late correct answer: %+v", res)
	}
	if res.Quality != 3 {
		t.Errorf("multi-attempt correct quality = %d, want 3", res.Quality)
	}

	if _, err := ch.Verify("0"); !errors.Is(err, entity.ErrChallengeComplete) {
		t.Errorf("verify after completion = %v, want ErrChallengeComplete", err)
	}
}

func TestCardChallengeExhaustsAttempts(t *testing.T) {
	rig := newTestRig(24)
	ch, _ := rig.factory.New(entity.ChallengeCards, "doctor", 20)
	ch.Start()
	if _, err := ch.Generate(); err != nil {
		t.Fatal(err)
	}
	card := ch.(*cardChallenge)
	wrongIdx := (card.correctIdx + 1) % len(card.options)

	var res *entity.VerifyResult
	for i := 0; i < defaultMaxAttempts; i++ {
		var err error
		res, err = ch.Verify(fmt.Sprintf("%d", wrongIdx))
		if err != nil {
			t.Fatalf("Verify %d: %v", i, err)
		}
	}
	if !res.Completed || res.Correct {
		t.Errorf("after exhausting attempts: %+v", res)
	}
	if res.Quality != 0 {
		t.Errorf("quality after 3 misses = %d, want 0", res.Quality)
	}
	if !strings.Contains(res.Message, card.correctAnswer) {
		t.Errorf("final message hides the answer: %q", res.Message)
	}
}

func TestCardChallengeRejectsBadInputWithoutCharging(t *testing.T) {
	rig := newTestRig(25)
	ch, _ := rig.factory.New(entity.ChallengeCards, "doctor", 20)
	ch.Start()
	if _, err := ch.Generate(); err != nil {
		t.Fatal(err)
	}

	if _, err := ch.Verify("   "); !errors.Is(err, entity.ErrEmptyAnswer) {
		t.Errorf("blank answer error = %v", err)
	}
	if _, err := ch.Verify("not an option"); !errors.Is(err, entity.ErrInvalidAnswer) {
		t.Errorf("junk answer error = %v", err)
	}
	if _, err := ch.Verify("99"); !errors.Is(err, entity.ErrInvalidAnswer) {
		t.Errorf("out-of-range index error = %v", err)
	}

	card := ch.(*cardChallenge)
	if card.attempts != 0 {
		t.Errorf("rejected answers charged %d attempts", card.attempts)
	}
}

func TestCardChallengeQualityByLatency(t *testing.T) {
	rig := newTestRig(26)
	ch, _ := rig.factory.New(entity.ChallengeCards, "doctor", 20)
	ch.Start()
	if _, err := ch.Generate(); err != nil {
		t.Fatal(err)
	}
	card := ch.(*cardChallenge)

	rig.advance(7 * time.Second)
	res, err := ch.Verify(fmt.Sprintf("%d", card.correctIdx))
	if err != nil {
		t.Fatal(err)
	}
	if res.Quality != 4 {
		t.Errorf("7s answer quality = %d, want 4", res.Quality)
	}
}

func TestFactoryUnknownWordAndType(t *testing.T) {
	rig := newTestRig(27)
	if _, err := rig.factory.New(entity.ChallengeCards, "nonexistent", 20); !errors.Is(err, entity.ErrWordNotFound) {
		t.Errorf("unknown word error = %v", err)
	}
	if _, err := rig.factory.New("nope", "doctor", 20); !errors.Is(err, entity.ErrUnknownChallenge) {
		t.Errorf("unknown type error = %v", err)
	}
}
