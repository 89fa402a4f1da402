package entity

import (
	"strings"
)

// Category is the grammatical category of a word.
type Category string

const (
	CategoryNoun      Category = "noun"
	CategoryVerb      Category = "verb"
	CategoryAdjective Category = "adjective"
	CategoryAdverb    Category = "adverb"
)

// Categories lists every supported grammatical category.
var Categories = []Category{CategoryNoun, CategoryVerb, CategoryAdjective, CategoryAdverb}

// ParseCategory converts an arbitrary string into a supported Category.
// Unknown values map to the empty category.
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "noun", "sustantivo":
		return CategoryNoun
	case "verb", "verbo":
		return CategoryVerb
	case "adjective", "adjetivo":
		return CategoryAdjective
	case "adverb", "adverbio":
		return CategoryAdverb
	default:
		return ""
	}
}

// Domain is a coarse topic bucket used to keep generated content coherent.
type Domain string

const (
	DomainGeneral   Domain = "general"
	DomainEducation Domain = "education"
	DomainHealth    Domain = "health"
	DomainWork      Domain = "work"
)

// Domains lists every supported semantic domain.
var Domains = []Domain{DomainEducation, DomainHealth, DomainWork, DomainGeneral}

// NormalizeDomain falls back to the general domain for unknown values.
func NormalizeDomain(d Domain) Domain {
	switch d {
	case DomainEducation, DomainHealth, DomainWork, DomainGeneral:
		return d
	default:
		return DomainGeneral
	}
}

// WordEntry is one dictionary entry. Entries are immutable once loaded;
// the word store owns them and shares them read-only across sessions.
type WordEntry struct {
	Word         string
	Categories   []Category
	Domain       Domain
	Translations map[string][]string // target language code -> ordered glosses
	Definitions  []string
	Synonyms     []string
	Hypernyms    []string
	Level        int // 0-100, CEFR tags mapped via ParseLevel
}

// HasCategory reports whether the entry carries the given category.
func (w *WordEntry) HasCategory(cat Category) bool {
	for _, c := range w.Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// PrimaryCategory returns the first category, or the empty category when the
// entry has none.
func (w *WordEntry) PrimaryCategory() Category {
	if len(w.Categories) == 0 {
		return ""
	}
	return w.Categories[0]
}

// Translation returns the first gloss for the given target language,
// or "" when none is recorded.
func (w *WordEntry) Translation(lang string) string {
	if glosses := w.Translations[lang]; len(glosses) > 0 {
		return glosses[0]
	}
	return ""
}

// Definition returns the first recorded definition, or "".
func (w *WordEntry) Definition() string {
	if len(w.Definitions) == 0 {
		return ""
	}
	return w.Definitions[0]
}

// NormalizeWord lowercases and trims a word key.
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// cefrLevels maps CEFR tags onto the 0-100 learner scale.
var cefrLevels = map[string]int{
	"a1": 10,
	"a2": 25,
	"b1": 40,
	"b2": 60,
	"c1": 80,
	"c2": 95,
}

// ParseLevel accepts either a numeric level (0-100) or a CEFR tag.
// Unknown values yield 0.
func ParseLevel(raw string) int {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return 0
	}
	if lvl, ok := cefrLevels[raw]; ok {
		return lvl
	}
	n := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	if n > 100 {
		n = 100
	}
	return n
}

// Tier is the coarse difficulty band used by sentence templates and
// challenge content.
type Tier string

const (
	TierBasic        Tier = "basic"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
)

// TierForLevel maps a 0-100 learner level onto a content tier.
func TierForLevel(level int) Tier {
	switch {
	case level < 30:
		return TierBasic
	case level < 70:
		return TierIntermediate
	default:
		return TierAdvanced
	}
}
