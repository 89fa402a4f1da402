package usecase

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/eslsoft/lexdrill/internal/entity"
)

const maxReshuffles = 10

var (
	vowels     = []string{"a", "e", "i", "o", "u"}
	consonants = []string{"b", "c", "d", "f", "g", "h", "j", "k", "l", "m", "n", "p", "q", "r", "s", "t", "v", "w", "x", "y", "z"}
)

// anagramChallenge shows the target word's letters shuffled, optionally
// with decoy letters and a translation hint.
type anagramChallenge struct {
	challengeBase
	factory *ChallengeFactory

	withHint     bool
	extraLetters int
	letters      []string
	hint         string
}

func (f *ChallengeFactory) newAnagramChallenge(word string, userLevel int) *anagramChallenge {
	extra := 0
	switch {
	case userLevel >= 70:
		extra = 2
	case userLevel >= 40:
		extra = 1
	}
	return &anagramChallenge{
		challengeBase: f.newBase(entity.ChallengeAnagram, word, userLevel),
		factory:       f,
		withHint:      userLevel < 60,
		extraLetters:  extra,
	}
}

func (a *anagramChallenge) Generate() (*entity.ChallengePayload, error) {
	entry := a.factory.store.Get(a.word)
	if entry == nil {
		return nil, fmt.Errorf("anagram for %q: %w", a.word, entity.ErrWordNotFound)
	}

	letters := strings.Split(a.word, "")
	if a.extraLetters > 0 {
		letters = append(letters, a.decoyLetters(letters)...)
	}
	a.letters = shuffleAvoidingOriginal(a.factory, letters, a.word)

	if a.withHint {
		a.hint = a.hintFor(entry)
	}

	question := "Arrange the letters to form a word"
	if a.extraLetters > 0 {
		question += fmt.Sprintf(" (%d letter(s) are extra)", a.extraLetters)
	}
	if a.hint != "" {
		question += "\nHint: " + a.hint
	}

	return &entity.ChallengePayload{
		Type:            entity.ChallengeAnagram,
		TargetWord:      a.word,
		Question:        question,
		Letters:         a.letters,
		LettersText:     strings.ToUpper(strings.Join(a.letters, " ")),
		LetterCount:     len([]rune(a.word)),
		Hint:            a.hint,
		HasExtraLetters: a.extraLetters > 0,
	}, nil
}

func (a *anagramChallenge) hintFor(entry *entity.WordEntry) string {
	if t := entry.Translation(a.factory.glossLang); t != "" {
		return t
	}
	return entry.Definition()
}

// decoyLetters injects extra letters, choosing vowels with probability
// proportional to the word's own vowel ratio and preferring letters not
// already present.
func (a *anagramChallenge) decoyLetters(original []string) []string {
	vowelCount := 0
	for _, l := range original {
		if lo.Contains(vowels, l) {
			vowelCount++
		}
	}
	present := func(extras []string, l string) bool {
		return lo.Contains(original, l) || lo.Contains(extras, l)
	}

	extras := make([]string, 0, a.extraLetters)
	for i := 0; i < a.extraLetters; i++ {
		pool := consonants
		if a.factory.rng.Float64() < float64(vowelCount)/float64(len(original)) {
			pool = vowels
		}
		fresh := lo.Filter(pool, func(l string, _ int) bool { return !present(extras, l) })
		if len(fresh) == 0 {
			fresh = pool
		}
		extras = append(extras, fresh[a.factory.rng.Intn(len(fresh))])
	}
	return extras
}

func (a *anagramChallenge) Verify(answer string) (*entity.VerifyResult, error) {
	trimmed, err := a.beginVerify(answer)
	if err != nil {
		return nil, err
	}
	trimmed = strings.ToLower(trimmed)

	correct := a.factory.verifier.Matches(trimmed, a.word, ThresholdStrict)

	res := &entity.VerifyResult{
		Correct:      correct,
		UserAnswer:   trimmed,
		AttemptsUsed: a.attempts,
		Similarity:   a.factory.verifier.Similarity(trimmed, a.word),
	}
	if correct {
		a.correct = true
		a.score = max(0, 100-(a.attempts-1)*20)
		res.Message = fmt.Sprintf("Correct! The word is %q", a.word)
		a.finish()
	} else {
		a.score = max(0, 100-a.attempts*25)
		if a.attempts >= a.maxAttempts {
			res.Message = fmt.Sprintf("Out of attempts. The word was %q", a.word)
			a.finish()
		} else {
			if len([]rune(trimmed)) != len([]rune(a.word)) {
				res.Message = fmt.Sprintf("Incorrect. The word has %d letters. ", len([]rune(a.word)))
			} else {
				res.Message = "Incorrect. "
			}
			res.Message += fmt.Sprintf("Attempt %d/%d", a.attempts, a.maxAttempts)
			// Second miss reveals a hint for learners who started without one.
			if a.attempts == 2 && !a.withHint {
				if entry := a.factory.store.Get(a.word); entry != nil {
					a.hint = a.hintFor(entry)
				}
				if a.hint != "" {
					res.Message += "\nHint: " + a.hint
				}
			}
		}
	}
	if a.completed {
		res.CorrectAnswer = a.word
	}
	res.Score = a.score
	res.Quality = a.quality(correct)
	res.Completed = a.completed
	res.AttemptsLeft = a.attemptsLeft()
	return res, nil
}

// multiAnagramChallenge offers a letter pool covering several target words
// and tracks a running found-set until all targets are found.
type multiAnagramChallenge struct {
	challengeBase
	factory *ChallengeFactory

	targets []string
	letters []string
	found   map[string]struct{}
}

func (f *ChallengeFactory) newMultiAnagramChallenge(targets []string, userLevel int) *multiAnagramChallenge {
	primary := ""
	if len(targets) > 0 {
		primary = targets[0]
	}
	return &multiAnagramChallenge{
		challengeBase: f.newBase(entity.ChallengeAnagramMulti, primary, userLevel),
		factory:       f,
		targets:       lo.Uniq(lo.Map(targets, func(w string, _ int) string { return entity.NormalizeWord(w) })),
		found:         make(map[string]struct{}),
	}
}

func (m *multiAnagramChallenge) Generate() (*entity.ChallengePayload, error) {
	if len(m.targets) == 0 {
		return nil, fmt.Errorf("multi-word anagram: %w", entity.ErrWordNotFound)
	}
	letterSet := make(map[string]struct{})
	for _, word := range m.targets {
		for _, l := range strings.Split(word, "") {
			letterSet[l] = struct{}{}
		}
	}
	m.letters = lo.Keys(letterSet)
	m.factory.rng.Shuffle(len(m.letters), func(i, j int) {
		m.letters[i], m.letters[j] = m.letters[j], m.letters[i]
	})

	return &entity.ChallengePayload{
		Type:            entity.ChallengeAnagramMulti,
		TargetWord:      m.word,
		Question:        fmt.Sprintf("Form %d words using these letters", len(m.targets)),
		Letters:         m.letters,
		LettersText:     strings.ToUpper(strings.Join(m.letters, " ")),
		TargetWordCount: len(m.targets),
		FoundCount:      len(m.found),
	}, nil
}

func (m *multiAnagramChallenge) Verify(answer string) (*entity.VerifyResult, error) {
	trimmed, err := m.beginVerify(answer)
	if err != nil {
		return nil, err
	}
	trimmed = strings.ToLower(trimmed)

	correct := false
	message := fmt.Sprintf("%q is not one of the target words", trimmed)
	for _, target := range m.targets {
		if !m.factory.verifier.Matches(trimmed, target, ThresholdStrict) {
			continue
		}
		if _, seen := m.found[target]; seen {
			message = fmt.Sprintf("You already found %q", target)
		} else {
			m.found[target] = struct{}{}
			correct = true
			message = fmt.Sprintf("Correct! You found %q", target)
		}
		break
	}

	if len(m.found) == len(m.targets) {
		m.correct = true
		m.score = 100
		message += "\nYou completed every word!"
		m.finish()
	} else {
		m.score = len(m.found) * 100 / len(m.targets)
		if m.attempts >= m.maxAttempts {
			m.finish()
		}
	}

	quality := 3
	if len(m.found) == len(m.targets) {
		quality = 4
	}
	foundWords := lo.Keys(m.found)
	return &entity.VerifyResult{
		Correct:      correct,
		Message:      message,
		Score:        m.score,
		Quality:      quality,
		Completed:    m.completed,
		AttemptsUsed: m.attempts,
		AttemptsLeft: m.attemptsLeft(),
		FoundWords:   foundWords,
		Remaining:    len(m.targets) - len(m.found),
		Progress:     fmt.Sprintf("%d/%d", len(m.found), len(m.targets)),
	}, nil
}

// shuffleAvoidingOriginal shuffles letters, retrying a bounded number of
// times when the shuffle reproduces the original word.
func shuffleAvoidingOriginal(f *ChallengeFactory, letters []string, original string) []string {
	shuffled := append([]string{}, letters...)
	shuffle := func() {
		f.rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
	}
	shuffle()
	for i := 0; i < maxReshuffles && strings.Join(shuffled, "") == original; i++ {
		shuffle()
	}
	return shuffled
}
