package usecase

import (
	"strings"

	"github.com/eslsoft/lexdrill/internal/repository"
)

// Matching thresholds shared by the challenge variants. Word-identity tasks
// use the tight thresholds; translations tolerate paraphrase variance.
const (
	ThresholdWord        = 0.85
	ThresholdStrict      = 0.90
	ThresholdTranslation = 0.70
)

// AnswerVerifier decides whether a free-text answer matches an expected
// answer, tolerating near-misses and registered synonyms.
type AnswerVerifier struct {
	store repository.WordStore
}

func NewAnswerVerifier(store repository.WordStore) *AnswerVerifier {
	return &AnswerVerifier{store: store}
}

// Levenshtein computes the case-insensitive edit distance between a and b
// with unit insert/delete/substitute costs.
func Levenshtein(a, b string) int {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 0
	}
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i, ca := range ra {
		cur[0] = i + 1
		for j, cb := range rb {
			ins := prev[j+1] + 1
			del := cur[j] + 1
			sub := prev[j]
			if ca != cb {
				sub++
			}
			cur[j+1] = min(ins, del, sub)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// Similarity returns a normalized 0..1 similarity based on Levenshtein
// distance: 1 - d/max(len(a), len(b)). Empty inputs score 0.
func (v *AnswerVerifier) Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	d := Levenshtein(a, b)
	maxLen := max(len([]rune(a)), len([]rune(b)))
	return 1 - float64(d)/float64(maxLen)
}

// Matches applies the three-tier check: exact case-insensitive match, then
// similarity at or above the threshold, then the same two checks against
// every registered synonym of the expected word.
func (v *AnswerVerifier) Matches(answer, expected string, threshold float64) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	expected = strings.ToLower(strings.TrimSpace(expected))
	if answer == "" {
		return false
	}
	if answer == expected {
		return true
	}
	if v.Similarity(answer, expected) >= threshold {
		return true
	}
	if v.store == nil {
		return false
	}
	entry := v.store.Get(expected)
	if entry == nil {
		return false
	}
	for _, syn := range entry.Synonyms {
		syn = strings.ToLower(strings.TrimSpace(syn))
		if answer == syn || v.Similarity(answer, syn) >= threshold {
			return true
		}
	}
	return false
}
