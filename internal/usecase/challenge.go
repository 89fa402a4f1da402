package usecase

import (
	"math/rand"
	"strings"
	"time"

	"github.com/eslsoft/lexdrill/internal/entity"
	"github.com/eslsoft/lexdrill/internal/repository"
)

const (
	defaultMaxAttempts    = 3
	multiWordMaxAttempts  = 10
	defaultOptionCount    = 4
	fastAnswerSeconds     = 5
	moderateAnswerSeconds = 10
)

// Challenge is one concrete exercise. Generate produces the payload shown
// to the learner; Verify scores one answer and reports whether the
// challenge is complete. Implementations are not safe for concurrent use;
// a challenge belongs to exactly one session.
type Challenge interface {
	Type() entity.ChallengeType
	TargetWord() string
	// Start records the start time and resets the attempt counter.
	Start()
	Generate() (*entity.ChallengePayload, error)
	// Verify scores a free-text answer (option index or text for choice
	// variants). An empty answer is rejected with entity.ErrEmptyAnswer
	// and charges no attempt; a completed challenge rejects further calls
	// with entity.ErrChallengeComplete.
	Verify(answer string) (*entity.VerifyResult, error)
	Stats() entity.ChallengeStats
}

// challengeBase carries the lifecycle state every variant shares.
type challengeBase struct {
	typ         entity.ChallengeType
	word        string
	tier        entity.Tier
	attempts    int
	maxAttempts int
	completed   bool
	correct     bool
	score       int
	startedAt   time.Time
	finishedAt  time.Time
	clock       func() time.Time
}

func (b *challengeBase) Type() entity.ChallengeType { return b.typ }
func (b *challengeBase) TargetWord() string         { return b.word }

func (b *challengeBase) Start() {
	b.startedAt = b.clock()
	b.finishedAt = time.Time{}
	b.attempts = 0
	b.completed = false
	b.correct = false
	b.score = 0
}

func (b *challengeBase) finish() {
	b.finishedAt = b.clock()
	b.completed = true
}

func (b *challengeBase) elapsed() time.Duration {
	if b.startedAt.IsZero() {
		return 0
	}
	end := b.finishedAt
	if end.IsZero() {
		end = b.clock()
	}
	return end.Sub(b.startedAt)
}

// beginVerify validates the raw answer and charges one attempt.
func (b *challengeBase) beginVerify(answer string) (string, error) {
	if b.completed {
		return "", entity.ErrChallengeComplete
	}
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return "", entity.ErrEmptyAnswer
	}
	b.attempts++
	return trimmed, nil
}

func (b *challengeBase) attemptsLeft() int {
	return max(0, b.maxAttempts-b.attempts)
}

// quality derives the 0-5 SM-2 score from correctness, attempts used and
// response latency.
func (b *challengeBase) quality(correct bool) int {
	if !correct {
		switch b.attempts {
		case 1:
			return 2
		case 2:
			return 1
		default:
			return 0
		}
	}
	if b.attempts == 1 {
		secs := b.elapsed().Seconds()
		switch {
		case secs < fastAnswerSeconds:
			return 5
		case secs < moderateAnswerSeconds:
			return 4
		default:
			return 3
		}
	}
	return 3
}

func (b *challengeBase) Stats() entity.ChallengeStats {
	return entity.ChallengeStats{
		TargetWord: b.word,
		Type:       b.typ,
		Attempts:   b.attempts,
		Completed:  b.completed,
		Correct:    b.correct,
		Elapsed:    b.elapsed(),
		Score:      b.score,
	}
}

// ChallengeFactory builds concrete challenges with the shared engine
// dependencies injected.
type ChallengeFactory struct {
	store     repository.WordStore
	graph     *SemanticGraph
	sentences *SentenceGenerator
	verifier  *AnswerVerifier
	rng       *rand.Rand
	clock     func() time.Time
	// glossLang is the target language for hints and translations.
	glossLang string
}

func NewChallengeFactory(store repository.WordStore, graph *SemanticGraph, sentences *SentenceGenerator, verifier *AnswerVerifier, rng *rand.Rand) *ChallengeFactory {
	return &ChallengeFactory{
		store:     store,
		graph:     graph,
		sentences: sentences,
		verifier:  verifier,
		rng:       rng,
		clock:     time.Now,
		glossLang: "es",
	}
}

// WithClock overrides the time source, for tests.
func (f *ChallengeFactory) WithClock(clock func() time.Time) *ChallengeFactory {
	f.clock = clock
	return f
}

// WithGlossLang sets the language used for hints and translations.
func (f *ChallengeFactory) WithGlossLang(lang string) *ChallengeFactory {
	if lang != "" {
		f.glossLang = lang
	}
	return f
}

func (f *ChallengeFactory) newBase(typ entity.ChallengeType, word string, userLevel int) challengeBase {
	maxAttempts := defaultMaxAttempts
	if typ == entity.ChallengeAnagramMulti {
		maxAttempts = multiWordMaxAttempts
	}
	return challengeBase{
		typ:         typ,
		word:        entity.NormalizeWord(word),
		tier:        entity.TierForLevel(userLevel),
		maxAttempts: maxAttempts,
		clock:       f.clock,
	}
}

// New builds a challenge of the given type for a word. The word must exist
// in the store; callers handle substitution for missing words.
func (f *ChallengeFactory) New(typ entity.ChallengeType, word string, userLevel int) (Challenge, error) {
	word = entity.NormalizeWord(word)
	if f.store.Get(word) == nil {
		return nil, entity.ErrWordNotFound
	}

	switch typ {
	case entity.ChallengeCards:
		return f.newCardChallenge(word, userLevel, false), nil
	case entity.ChallengeCardsReverse:
		return f.newCardChallenge(word, userLevel, true), nil
	case entity.ChallengeAnagram:
		return f.newAnagramChallenge(word, userLevel), nil
	case entity.ChallengeAnagramMulti:
		targets := append([]string{word}, f.graph.Neighbors(word, 3)...)
		if len(targets) > 3 {
			targets = targets[:3]
		}
		return f.newMultiAnagramChallenge(targets, userLevel), nil
	case entity.ChallengeSentenceFill:
		return f.newSentenceFillChallenge(word, userLevel), nil
	case entity.ChallengeReorder:
		return f.newReorderChallenge(word, userLevel), nil
	case entity.ChallengeTranslate:
		return f.newTranslateChallenge(word, userLevel, true), nil
	default:
		return nil, entity.ErrUnknownChallenge
	}
}
