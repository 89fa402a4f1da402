package usecase

import (
	"strings"
	"testing"

	"github.com/eslsoft/lexdrill/internal/entity"
)

func TestInflectThirdPerson(t *testing.T) {
	// Only the regular rules apply; verbs like "go" come pre-inflected from
	// the curated vocabulary and never pass through here.
	cases := map[string]string{
		"study": "studies",
		"watch": "watches",
		"wash":  "washes",
		"fix":   "fixes",
		"pass":  "passes",
		"buzz":  "buzzes",
		"play":  "plays",
		"work":  "works",
	}
	for in, want := range cases {
		if got := InflectThirdPerson(in); got != want {
			t.Errorf("InflectThirdPerson(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInflectGerund(t *testing.T) {
	cases := map[string]string{
		"lie":   "lying",
		"tie":   "tying",
		"make":  "making",
		"write": "writing",
		"work":  "working",
		"study": "studying",
	}
	for in, want := range cases {
		if got := InflectGerund(in); got != want {
			t.Errorf("InflectGerund(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInflectPast(t *testing.T) {
	cases := map[string]string{
		"love":  "loved",
		"study": "studied",
		"play":  "played",
		"work":  "worked",
	}
	for in, want := range cases {
		if got := InflectPast(in); got != want {
			t.Errorf("InflectPast(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInflectPlural(t *testing.T) {
	cases := map[string]string{
		"city":  "cities",
		"box":   "boxes",
		"class": "classes",
		"book":  "books",
		"day":   "days",
	}
	for in, want := range cases {
		if got := InflectPlural(in); got != want {
			t.Errorf("InflectPlural(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenerateWellFormed(t *testing.T) {
	rig := newTestRig(7)
	gen := NewSentenceGenerator(rig.store, rig.graph, rig.factory.rng)

	for _, tier := range []entity.Tier{entity.TierBasic, entity.TierIntermediate, entity.TierAdvanced} {
		for i := 0; i < 20; i++ {
			got := gen.Generate("doctor", tier)
			s := got.Sentence
			if s == "" {
				t.Fatal("empty sentence")
			}
			if strings.Contains(s, "{") || strings.Contains(s, "}") {
				t.Errorf("unresolved slot in %q", s)
			}
			if s[0] < 'A' || s[0] > 'Z' {
				t.Errorf("sentence not capitalized: %q", s)
			}
			if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "!") && !strings.HasSuffix(s, "?") {
				t.Errorf("sentence not terminated: %q", s)
			}
			if got.Domain != entity.DomainHealth {
				t.Errorf("seed doctor resolved domain %q, want health", got.Domain)
			}
		}
	}
}

func TestGenerateSeedInSubjectSlot(t *testing.T) {
	rig := newTestRig(3)
	gen := NewSentenceGenerator(rig.store, rig.graph, rig.factory.rng)

	// Template 3 ("The {subject_noun} is {adjective}.") is in the basic
	// pool; whenever a subject slot exists, the seed must fill the first one.
	seen := false
	for i := 0; i < 40; i++ {
		got := gen.Generate("hospital", entity.TierBasic)
		if strings.Contains(got.Template, "{subject_noun}") {
			seen = true
			if !strings.Contains(strings.ToLower(got.Sentence), "hospital") {
				t.Errorf("seed missing from %q (template %q)", got.Sentence, got.Template)
			}
		}
	}
	if !seen {
		t.Fatal("no subject-noun template drawn in 40 tries")
	}
}

func TestGenerateUnknownSeedFallsBackToGeneral(t *testing.T) {
	rig := newTestRig(5)
	gen := NewSentenceGenerator(rig.store, rig.graph, rig.factory.rng)

	got := gen.Generate("zzzunknown", entity.TierBasic)
	if got.Domain != entity.DomainGeneral {
		t.Errorf("unknown seed domain = %q, want general", got.Domain)
	}
}

func TestGenerateAvoidsRepeats(t *testing.T) {
	rig := newTestRig(11)
	gen := NewSentenceGenerator(rig.store, rig.graph, rig.factory.rng)

	for i := 0; i < 30; i++ {
		got := gen.Generate("", entity.TierIntermediate)
		seenAt := make(map[string]int)
		for _, w := range got.WordsUsed {
			seenAt[w]++
		}
		// Pronouns and fallback words may legitimately repeat across slots of
		// different kinds, but a curated content word should not appear twice.
		for w, n := range seenAt {
			if n > 1 && len(w) > 4 {
				t.Errorf("word %q used %d times in %q", w, n, got.Sentence)
			}
		}
	}
}

func TestGenerateParagraph(t *testing.T) {
	rig := newTestRig(13)
	gen := NewSentenceGenerator(rig.store, rig.graph, rig.factory.rng)

	p := gen.GenerateParagraph(entity.DomainHealth, 3)
	if !strings.HasPrefix(p, topicOpeners[entity.DomainHealth]) {
		t.Errorf("paragraph does not open with topic sentence: %q", p)
	}
	if n := strings.Count(p, "."); n < 3 {
		t.Errorf("expected at least 3 sentences, got %q", p)
	}

	// Unknown topics open with the generic sentence.
	p = gen.GenerateParagraph("astronomy", 2)
	if !strings.HasPrefix(p, genericOpener) {
		t.Errorf("unknown topic opener: %q", p)
	}
}

func TestPolishSentence(t *testing.T) {
	cases := map[string]string{
		"hello world":    "Hello world.",
		"already done.":  "Already done.",
		"  padded  ":     "Padded.",
		"question here?": "Question here?",
		"":               safeSentence,
	}
	for in, want := range cases {
		if got := polishSentence(in); got != want {
			t.Errorf("polishSentence(%q) = %q, want %q", in, got, want)
		}
	}
}
