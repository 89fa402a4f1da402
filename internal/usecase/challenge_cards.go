package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eslsoft/lexdrill/internal/entity"
)

// genericDistractors pad the option list when the store cannot supply
// enough plausible same-category answers.
var genericDistractors = []string{"wrong option A", "wrong option B", "wrong option C"}

// cardChallenge is the multiple-choice flashcard. The forward variant shows
// the word and asks for its meaning; the reverse variant shows the meaning
// and asks for the word.
type cardChallenge struct {
	challengeBase
	factory *ChallengeFactory
	reverse bool
	kind    entity.CardKind

	options       []string
	correctIdx    int
	correctAnswer string
	promptText    string
	generated     bool
}

func (f *ChallengeFactory) newCardChallenge(word string, userLevel int, reverse bool) *cardChallenge {
	typ := entity.ChallengeCards
	if reverse {
		typ = entity.ChallengeCardsReverse
	}
	return &cardChallenge{
		challengeBase: f.newBase(typ, word, userLevel),
		factory:       f,
		reverse:       reverse,
		kind:          entity.CardTranslation,
	}
}

// meaningOf resolves what the card asks for, falling back to the
// translation when the preferred kind has no data.
func (c *cardChallenge) meaningOf(word string) string {
	entry := c.factory.store.Get(word)
	if entry == nil {
		return ""
	}
	lang := c.factory.glossLang
	switch c.kind {
	case entity.CardDefinition:
		if d := entry.Definition(); d != "" {
			return d
		}
	case entity.CardSynonym:
		if len(entry.Synonyms) > 0 {
			return entry.Synonyms[0]
		}
	}
	return entry.Translation(lang)
}

func (c *cardChallenge) Generate() (*entity.ChallengePayload, error) {
	entry := c.factory.store.Get(c.word)
	if entry == nil {
		return nil, fmt.Errorf("card for %q: %w", c.word, entity.ErrWordNotFound)
	}

	if c.reverse {
		c.promptText = c.meaningOf(c.word)
		if c.promptText == "" {
			c.promptText = entry.Definition()
		}
		c.correctAnswer = c.word
		c.options = c.wordDistractors(entry)
	} else {
		c.correctAnswer = c.meaningOf(c.word)
		if c.correctAnswer == "" {
			c.correctAnswer = "(no translation)"
		}
		c.options = c.meaningDistractors(entry)
	}

	c.correctIdx = c.factory.rng.Intn(len(c.options) + 1)
	c.options = append(c.options[:c.correctIdx], append([]string{c.correctAnswer}, c.options[c.correctIdx:]...)...)
	c.generated = true

	payload := &entity.ChallengePayload{
		Type:        c.typ,
		TargetWord:  c.word,
		CardKind:    c.kind,
		Options:     c.options,
		OptionCount: len(c.options),
	}
	if c.reverse {
		payload.PromptText = c.promptText
		payload.Question = fmt.Sprintf("Which word means %q?", c.promptText)
	} else {
		payload.Question = fmt.Sprintf("What does %q mean?", c.word)
	}
	return payload, nil
}

// meaningDistractors draws meanings of same-category peers, padding with
// generic placeholders when the category is too small.
func (c *cardChallenge) meaningDistractors(entry *entity.WordEntry) []string {
	peers := c.peerWords(entry)
	distractors := make([]string, 0, defaultOptionCount-1)
	for _, peer := range peers {
		if len(distractors) >= defaultOptionCount-1 {
			break
		}
		m := c.meaningOf(peer)
		if m != "" && m != c.correctAnswer {
			distractors = append(distractors, m)
		}
	}
	for len(distractors) < defaultOptionCount-1 {
		distractors = append(distractors, genericDistractors[len(distractors)%len(genericDistractors)])
	}
	return distractors
}

func (c *cardChallenge) wordDistractors(entry *entity.WordEntry) []string {
	peers := c.peerWords(entry)
	if len(peers) > defaultOptionCount-1 {
		peers = peers[:defaultOptionCount-1]
	}
	distractors := append([]string{}, peers...)
	for len(distractors) < defaultOptionCount-1 {
		distractors = append(distractors, genericDistractors[len(distractors)%len(genericDistractors)])
	}
	return distractors
}

func (c *cardChallenge) peerWords(entry *entity.WordEntry) []string {
	peers := c.factory.store.ByCategory(entry.PrimaryCategory())
	candidates := make([]string, 0, len(peers))
	for _, p := range peers {
		if p != c.word {
			candidates = append(candidates, p)
		}
	}
	c.factory.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return candidates
}

// Verify accepts either the option index or the option text. Answers that
// are neither are rejected without charging an attempt.
func (c *cardChallenge) Verify(answer string) (*entity.VerifyResult, error) {
	if c.completed {
		return nil, entity.ErrChallengeComplete
	}
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return nil, entity.ErrEmptyAnswer
	}

	idx, err := strconv.Atoi(trimmed)
	if err != nil {
		idx = -1
		for i, opt := range c.options {
			if strings.EqualFold(opt, trimmed) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, entity.ErrInvalidAnswer
		}
	}
	if idx < 0 || idx >= len(c.options) {
		return nil, entity.ErrInvalidAnswer
	}

	c.attempts++
	correct := idx == c.correctIdx

	res := &entity.VerifyResult{
		Correct:      correct,
		AttemptsUsed: c.attempts,
	}
	if correct {
		c.correct = true
		c.score = 100
		res.Message = "Correct!"
		c.finish()
	} else {
		c.score = max(0, 100-c.attempts*30)
		if c.attempts >= c.maxAttempts {
			res.Message = fmt.Sprintf("Incorrect. The answer was: %s", c.correctAnswer)
			c.finish()
		} else {
			res.Message = fmt.Sprintf("Incorrect. Attempt %d/%d", c.attempts, c.maxAttempts)
		}
		res.CorrectAnswer = c.correctAnswer
		correctIdx := c.correctIdx
		res.CorrectOption = &correctIdx
	}
	res.Score = c.score
	res.Quality = c.quality(correct)
	res.Completed = c.completed
	res.AttemptsLeft = c.attemptsLeft()
	return res, nil
}
