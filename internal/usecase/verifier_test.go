package usecase

import (
	"math"
	"testing"
)

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"apple", "apple", 0},
		{"Apple", "apple", 0},
		{"apple", "appel", 2},
	}
	for _, tc := range cases {
		if got := Levenshtein(tc.a, tc.b); got != tc.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
		if got, rev := Levenshtein(tc.a, tc.b), Levenshtein(tc.b, tc.a); got != rev {
			t.Errorf("Levenshtein not symmetric for %q/%q: %d vs %d", tc.a, tc.b, got, rev)
		}
	}
}

func TestSimilarityBounds(t *testing.T) {
	v := NewAnswerVerifier(nil)
	cases := []struct {
		a, b string
		want float64
	}{
		{"", "anything", 0},
		{"anything", "", 0},
		{"same", "same", 1},
		{"hospital", "hospitall", 1 - 1.0/9},
		{"apple", "appel", 0.6},
	}
	for _, tc := range cases {
		got := v.Similarity(tc.a, tc.b)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
		if got < 0 || got > 1 {
			t.Errorf("Similarity(%q, %q) = %v out of [0,1]", tc.a, tc.b, got)
		}
	}
}

func TestMatchesTiers(t *testing.T) {
	store := testDictionary()
	v := NewAnswerVerifier(store)

	cases := []struct {
		name      string
		answer    string
		expected  string
		threshold float64
		want      bool
	}{
		{"exact", "doctor", "doctor", ThresholdWord, true},
		{"exact case-insensitive", "  Doctor ", "doctor", ThresholdWord, true},
		{"near miss above threshold", "hospitall", "hospital", ThresholdWord, true},
		{"typo below threshold", "appel", "apple", ThresholdWord, false},
		{"synonym exact", "physician", "doctor", ThresholdWord, true},
		{"synonym near miss", "physiciann", "doctor", ThresholdWord, true},
		{"unrelated", "banana", "doctor", ThresholdWord, false},
		{"empty answer", "", "doctor", ThresholdWord, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := v.Matches(tc.answer, tc.expected, tc.threshold); got != tc.want {
				t.Errorf("Matches(%q, %q, %v) = %v, want %v", tc.answer, tc.expected, tc.threshold, got, tc.want)
			}
		})
	}
}

func TestMatchesStricterThreshold(t *testing.T) {
	v := NewAnswerVerifier(nil)
	// 1 edit over 8 runes is 0.875: enough for words, not for anagrams.
	if !v.Matches("hospitel", "hospital", ThresholdWord) {
		t.Error("expected hospitel to match at the word threshold")
	}
	if v.Matches("hospitel", "hospital", ThresholdStrict) {
		t.Error("expected hospitel to miss at the strict threshold")
	}
}
