package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eslsoft/lexdrill/internal/entity"
)

const sentencePunctuation = `.,!?;:"`

// sentenceFillChallenge blanks the target word out of a generated sentence.
// Lower-level learners get multiple-choice options; others answer freely.
type sentenceFillChallenge struct {
	challengeBase
	factory *ChallengeFactory

	withOptions  bool
	fullSentence string
	blanked      string
	options      []string
	correctIdx   int
}

func (f *ChallengeFactory) newSentenceFillChallenge(word string, userLevel int) *sentenceFillChallenge {
	return &sentenceFillChallenge{
		challengeBase: f.newBase(entity.ChallengeSentenceFill, word, userLevel),
		factory:       f,
		withOptions:   userLevel < 50,
	}
}

// sentenceContaining generates a sentence that includes the target word,
// falling back to a synthetic frame when the template draw keeps missing it.
func sentenceContaining(f *ChallengeFactory, word string, tier entity.Tier) string {
	for i := 0; i < 4; i++ {
		s := f.sentences.Generate(word, tier)
		if containsToken(s.Sentence, word) {
			return s.Sentence
		}
	}
	return polishSentence(fmt.Sprintf("The %s is important", word))
}

func containsToken(sentence, word string) bool {
	for _, tok := range strings.Fields(sentence) {
		if strings.ToLower(strings.Trim(tok, sentencePunctuation)) == word {
			return true
		}
	}
	return false
}

func (c *sentenceFillChallenge) Generate() (*entity.ChallengePayload, error) {
	c.fullSentence = sentenceContaining(c.factory, c.word, c.tier)
	c.blanked = blankWord(c.fullSentence, c.word)

	if c.withOptions {
		c.options = c.buildOptions()
	}

	return &entity.ChallengePayload{
		Type:        entity.ChallengeSentenceFill,
		TargetWord:  c.word,
		Question:    "Complete the sentence with the missing word:",
		Sentence:    c.blanked,
		WithOptions: c.withOptions,
		Options:     c.options,
	}, nil
}

// blankWord replaces the target word with a blank, keeping any trailing
// punctuation attached to the token.
func blankWord(sentence, word string) string {
	tokens := strings.Fields(sentence)
	for i, tok := range tokens {
		clean := strings.ToLower(strings.Trim(tok, sentencePunctuation))
		if clean != word {
			continue
		}
		var trailing strings.Builder
		for _, r := range tok {
			if strings.ContainsRune(sentencePunctuation, r) {
				trailing.WriteRune(r)
			}
		}
		tokens[i] = "_____" + trailing.String()
	}
	return strings.Join(tokens, " ")
}

func (c *sentenceFillChallenge) buildOptions() []string {
	entry := c.factory.store.Get(c.word)
	cat := entity.CategoryNoun
	if entry != nil {
		if pc := entry.PrimaryCategory(); pc != "" {
			cat = pc
		}
	}
	peers := c.factory.store.ByCategory(cat)
	distractors := make([]string, 0, defaultOptionCount-1)
	c.factory.rng.Shuffle(len(peers), func(i, j int) { peers[i], peers[j] = peers[j], peers[i] })
	for _, p := range peers {
		if len(distractors) >= defaultOptionCount-1 {
			break
		}
		if p != c.word {
			distractors = append(distractors, p)
		}
	}
	c.correctIdx = c.factory.rng.Intn(len(distractors) + 1)
	return append(distractors[:c.correctIdx], append([]string{c.word}, distractors[c.correctIdx:]...)...)
}

func (c *sentenceFillChallenge) Verify(answer string) (*entity.VerifyResult, error) {
	if c.completed {
		return nil, entity.ErrChallengeComplete
	}
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return nil, entity.ErrEmptyAnswer
	}

	var correct bool
	if c.withOptions {
		idx, err := strconv.Atoi(trimmed)
		if err != nil {
			idx = -1
			for i, opt := range c.options {
				if strings.EqualFold(opt, trimmed) {
					idx = i
					break
				}
			}
		}
		if idx < 0 || idx >= len(c.options) {
			return nil, entity.ErrInvalidAnswer
		}
		c.attempts++
		correct = idx == c.correctIdx
	} else {
		c.attempts++
		correct = c.factory.verifier.Matches(trimmed, c.word, ThresholdWord)
	}

	res := &entity.VerifyResult{
		Correct:      correct,
		AttemptsUsed: c.attempts,
	}
	if correct {
		c.correct = true
		c.score = 100
		res.Message = "Correct! The full sentence is:\n" + c.fullSentence
		c.finish()
	} else {
		c.score = max(0, 100-c.attempts*30)
		if c.attempts >= c.maxAttempts {
			res.Message = fmt.Sprintf("Incorrect. The answer was: %s\nFull sentence: %s", c.word, c.fullSentence)
			c.finish()
		} else {
			res.Message = fmt.Sprintf("Incorrect. Attempt %d/%d", c.attempts, c.maxAttempts)
		}
		res.CorrectAnswer = c.word
	}
	if c.completed {
		res.FullSentence = c.fullSentence
	}
	res.Score = c.score
	res.Quality = c.quality(correct)
	res.Completed = c.completed
	res.AttemptsLeft = c.attemptsLeft()
	return res, nil
}

// reorderChallenge shuffles the tokens of a generated sentence and asks for
// the original order, verified by whole-sentence similarity.
type reorderChallenge struct {
	challengeBase
	factory *ChallengeFactory

	sentence    string
	tokens      []string
	shuffled    []string
	punctuation string
}

func (f *ChallengeFactory) newReorderChallenge(word string, userLevel int) *reorderChallenge {
	return &reorderChallenge{
		challengeBase: f.newBase(entity.ChallengeReorder, word, userLevel),
		factory:       f,
	}
}

func (c *reorderChallenge) Generate() (*entity.ChallengePayload, error) {
	c.sentence = c.factory.sentences.Generate(c.word, c.tier).Sentence

	c.tokens = strings.Fields(c.sentence)
	c.punctuation = "."
	if len(c.tokens) > 0 {
		last := c.tokens[len(c.tokens)-1]
		if strings.ContainsAny(last[len(last)-1:], ".!?") {
			c.punctuation = last[len(last)-1:]
			c.tokens[len(c.tokens)-1] = last[:len(last)-1]
		}
	}

	c.shuffled = append([]string{}, c.tokens...)
	shuffle := func() {
		c.factory.rng.Shuffle(len(c.shuffled), func(i, j int) {
			c.shuffled[i], c.shuffled[j] = c.shuffled[j], c.shuffled[i]
		})
	}
	shuffle()
	for i := 0; i < maxReshuffles && strings.Join(c.shuffled, " ") == strings.Join(c.tokens, " "); i++ {
		shuffle()
	}

	return &entity.ChallengePayload{
		Type:        entity.ChallengeReorder,
		TargetWord:  c.word,
		Question:    "Arrange the words into a correct sentence:",
		Tokens:      c.shuffled,
		TokensText:  strings.Join(c.shuffled, " / "),
		Punctuation: c.punctuation,
		TokenCount:  len(c.tokens),
	}, nil
}

func (c *reorderChallenge) Verify(answer string) (*entity.VerifyResult, error) {
	trimmed, err := c.beginVerify(answer)
	if err != nil {
		return nil, err
	}
	normalized := polishSentence(trimmed)

	similarity := c.factory.verifier.Similarity(strings.ToLower(normalized), strings.ToLower(c.sentence))
	correct := similarity >= ThresholdStrict

	res := &entity.VerifyResult{
		Correct:      correct,
		UserAnswer:   normalized,
		Similarity:   similarity,
		AttemptsUsed: c.attempts,
	}
	if correct {
		c.correct = true
		c.score = 100
		res.Message = "Correct!\nSentence: " + c.sentence
		c.finish()
	} else {
		c.score = max(0, 100-c.attempts*25)
		if c.attempts >= c.maxAttempts {
			res.Message = "Incorrect. The correct order was:\n" + c.sentence
			c.finish()
		} else {
			res.Message = fmt.Sprintf("Incorrect. Attempt %d/%d\nSimilarity: %d%%", c.attempts, c.maxAttempts, int(similarity*100))
		}
	}
	if c.completed {
		res.CorrectAnswer = c.sentence
	}
	res.Score = c.score
	res.Quality = c.quality(correct)
	res.Completed = c.completed
	res.AttemptsLeft = c.attemptsLeft()
	return res, nil
}

// translateChallenge asks for a translation of a generated sentence.
// The reference is a naive word-by-word gloss, so verification is looser
// than for word-identity tasks.
type translateChallenge struct {
	challengeBase
	factory *ChallengeFactory

	toGloss  bool // true: source sentence shown, gloss expected
	sentence string
	gloss    string
	keyWords []string
}

func (f *ChallengeFactory) newTranslateChallenge(word string, userLevel int, toGloss bool) *translateChallenge {
	return &translateChallenge{
		challengeBase: f.newBase(entity.ChallengeTranslate, word, userLevel),
		factory:       f,
		toGloss:       toGloss,
	}
}

func (c *translateChallenge) Generate() (*entity.ChallengePayload, error) {
	generated := c.factory.sentences.Generate(c.word, c.tier)
	c.sentence = generated.Sentence
	c.gloss = c.glossSentence(c.sentence)
	c.keyWords = generated.WordsUsed

	payload := &entity.ChallengePayload{
		Type:       entity.ChallengeTranslate,
		TargetWord: c.word,
		KeyWords:   c.keyWords,
	}
	if c.toGloss {
		payload.Sentence = c.sentence
		payload.Question = "Translate this sentence:"
		payload.Direction = "en->" + c.factory.glossLang
	} else {
		payload.Sentence = c.gloss
		payload.Question = "Translate back to English:"
		payload.Direction = c.factory.glossLang + "->en"
	}
	return payload, nil
}

// glossSentence renders a word-by-word gloss; tokens without a recorded
// translation stay in brackets.
func (c *translateChallenge) glossSentence(sentence string) string {
	tokens := strings.Fields(sentence)
	glossed := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		clean := strings.ToLower(strings.Trim(tok, sentencePunctuation))
		entry := c.factory.store.Get(clean)
		if entry != nil {
			if t := entry.Translation(c.factory.glossLang); t != "" {
				glossed = append(glossed, t)
				continue
			}
		}
		glossed = append(glossed, "["+tok+"]")
	}
	return strings.Join(glossed, " ")
}

func (c *translateChallenge) Verify(answer string) (*entity.VerifyResult, error) {
	trimmed, err := c.beginVerify(answer)
	if err != nil {
		return nil, err
	}

	expected := c.gloss
	if !c.toGloss {
		expected = c.sentence
	}
	similarity := c.factory.verifier.Similarity(strings.ToLower(trimmed), strings.ToLower(expected))
	correct := similarity >= ThresholdTranslation

	res := &entity.VerifyResult{
		Correct:      correct,
		UserAnswer:   trimmed,
		Similarity:   similarity,
		AttemptsUsed: c.attempts,
	}
	if correct {
		c.correct = true
		c.score = int(similarity * 100)
		res.Message = "Well done!\nSuggested translation: " + expected
		c.finish()
	} else {
		c.score = max(0, int(similarity*100)-c.attempts*20)
		if c.attempts >= c.maxAttempts {
			res.Message = "Suggested translation:\n" + expected
			c.finish()
		} else {
			res.Message = fmt.Sprintf("Attempt %d/%d\nSimilarity: %d%%", c.attempts, c.maxAttempts, int(similarity*100))
			if similarity > 0.5 {
				res.Message += "\n(You are close)"
			}
		}
	}
	if c.completed {
		res.Suggested = expected
	}
	res.Score = c.score
	res.Quality = c.quality(correct)
	res.Completed = c.completed
	res.AttemptsLeft = c.attemptsLeft()
	return res, nil
}
