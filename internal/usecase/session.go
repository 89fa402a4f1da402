package usecase

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lexdrill/internal/entity"
	"github.com/eslsoft/lexdrill/internal/repository"
)

const (
	// topUpPerCategory bounds how many graph words per category feed the
	// candidate pool on top of the due words.
	topUpPerCategory = 20
	typeHistorySize  = 5
)

// sessionCategories are the categories sampled when topping up candidates.
var sessionCategories = []entity.Category{
	entity.CategoryNoun,
	entity.CategoryVerb,
	entity.CategoryAdjective,
}

// PlannedChallenge pairs a challenge with its generated payload.
type PlannedChallenge struct {
	Challenge Challenge
	Payload   *entity.ChallengePayload
}

// SessionPlan is one ordered practice run for a learner.
type SessionPlan struct {
	ID         uuid.UUID
	UserLevel  int
	Reason     entity.SessionReason
	Challenges []PlannedChallenge
	CreatedAt  time.Time
}

// Orchestrator assembles practice sessions: it picks the words, matches
// challenge types to the learner's level and keeps variety across the run.
type Orchestrator struct {
	store   repository.WordStore
	graph   *SemanticGraph
	factory *ChallengeFactory
	rng     *rand.Rand
	logger  *logrus.Logger

	history []entity.ChallengeType
}

func NewOrchestrator(store repository.WordStore, graph *SemanticGraph, factory *ChallengeFactory, rng *rand.Rand, logger *logrus.Logger) *Orchestrator {
	return &Orchestrator{
		store:   store,
		graph:   graph,
		factory: factory,
		rng:     rng,
		logger:  logger,
	}
}

// Plan builds a session of up to size challenges for a learner at the given
// level. Words due for review come first; the rest of the pool is sampled
// from the semantic graph and, failing that, the whole store. A non-empty
// typ pins every challenge to that variant. An empty catalog yields an empty
// plan with ReasonEmptyCatalog rather than an error.
func (o *Orchestrator) Plan(sched *ReviewScheduler, userLevel, size int, typ entity.ChallengeType, now time.Time) *SessionPlan {
	plan := &SessionPlan{
		ID:        uuid.New(),
		UserLevel: userLevel,
		Reason:    entity.SessionOK,
		CreatedAt: now,
	}
	if o.store.Len() == 0 {
		plan.Reason = entity.SessionEmptyCatalog
		return plan
	}
	if size <= 0 {
		return plan
	}

	words := o.candidateWords(sched, size, now)
	plan.Challenges = o.buildChallenges(words, userLevel, size, typ)
	if len(plan.Challenges) < size {
		plan.Reason = entity.SessionDegraded
	}
	return plan
}

// candidateWords returns a deduplicated pool at least twice the session size
// when the catalog allows, so failed builds still have substitutes.
func (o *Orchestrator) candidateWords(sched *ReviewScheduler, size int, now time.Time) []string {
	pool := make([]string, 0, size*2)
	if sched != nil {
		pool = append(pool, sched.DueWords(now)...)
	}

	var fresh []string
	for _, cat := range sessionCategories {
		fresh = append(fresh, firstN(o.graph.WordsByCategory(cat, ""), topUpPerCategory)...)
	}
	if len(fresh) == 0 {
		fresh = o.store.Words()
	}
	o.rng.Shuffle(len(fresh), func(i, j int) { fresh[i], fresh[j] = fresh[j], fresh[i] })

	pool = lo.Uniq(append(pool, fresh...))
	return firstN(pool, size*2)
}

// buildChallenges walks the word pool, constructing one challenge per word
// until the session is full. A word whose challenge cannot be built is
// skipped and at most one substitute from the remaining pool is tried in its
// place.
func (o *Orchestrator) buildChallenges(words []string, userLevel, size int, forced entity.ChallengeType) []PlannedChallenge {
	challenges := make([]PlannedChallenge, 0, size)
	next := 0
	for next < len(words) && len(challenges) < size {
		word := words[next]
		next++

		typ := forced
		if typ == "" {
			secondHalf := len(challenges) >= size/2
			typ = o.selectChallengeType(userLevel, secondHalf)
		}

		planned, err := o.buildOne(typ, word, userLevel)
		if err != nil {
			o.logger.WithError(err).WithFields(logrus.Fields{
				"word": word,
				"type": typ,
			}).Warn("challenge build failed, trying substitute")
			if next < len(words) {
				substitute := words[next]
				next++
				planned, err = o.buildOne(typ, substitute, userLevel)
				if err != nil {
					o.logger.WithError(err).WithField("word", substitute).Warn("substitute build failed, skipping slot")
					continue
				}
			} else {
				continue
			}
		}

		o.recordType(typ)
		challenges = append(challenges, *planned)
	}
	return challenges
}

func (o *Orchestrator) buildOne(typ entity.ChallengeType, word string, userLevel int) (*PlannedChallenge, error) {
	ch, err := o.factory.New(typ, word, userLevel)
	if err != nil {
		return nil, err
	}
	payload, err := ch.Generate()
	if err != nil {
		return nil, err
	}
	return &PlannedChallenge{Challenge: ch, Payload: payload}, nil
}

// selectChallengeType picks a variant whose difficulty the learner can
// handle. Level maps to a difficulty ceiling of 1 + level/20; the previous
// type is excluded when alternatives exist, and the second half of a session
// leans toward the harder half of the eligible set.
func (o *Orchestrator) selectChallengeType(userLevel int, secondHalf bool) entity.ChallengeType {
	maxDifficulty := 1 + float64(userLevel)/20

	eligible := lo.Filter(entity.ChallengeTypes, func(t entity.ChallengeType, _ int) bool {
		return float64(t.Difficulty()) <= maxDifficulty
	})
	if len(eligible) == 0 {
		eligible = []entity.ChallengeType{entity.ChallengeCards}
	}

	if prev := o.lastType(); prev != "" && len(eligible) > 1 {
		filtered := lo.Filter(eligible, func(t entity.ChallengeType, _ int) bool { return t != prev })
		if len(filtered) > 0 {
			eligible = filtered
		}
	}

	if secondHalf && len(eligible) > 1 {
		harder := eligible[len(eligible)/2:]
		if o.rng.Float64() < 0.7 {
			eligible = harder
		}
	}

	return eligible[o.rng.Intn(len(eligible))]
}

func (o *Orchestrator) lastType() entity.ChallengeType {
	if len(o.history) == 0 {
		return ""
	}
	return o.history[len(o.history)-1]
}

func (o *Orchestrator) recordType(typ entity.ChallengeType) {
	o.history = append(o.history, typ)
	if len(o.history) > typeHistorySize {
		o.history = o.history[len(o.history)-typeHistorySize:]
	}
}
