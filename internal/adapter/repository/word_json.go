package repository

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/samber/lo"

	"github.com/eslsoft/lexdrill/internal/entity"
	"github.com/eslsoft/lexdrill/internal/repository"
)

// dictionaryDoc mirrors the on-disk dictionary format. Keys are Spanish:
// the format predates this service and existing catalogs must keep loading.
type dictionaryDoc struct {
	Words map[string]dictionaryEntry `json:"palabras"`
}

type dictionaryEntry struct {
	Categories   []string            `json:"categorias"`
	Level        json.RawMessage     `json:"nivel"` // number or CEFR string
	Translations map[string][]string `json:"traducciones"`
	Definitions  []string            `json:"definiciones"`
	Semantics    dictionarySemantics `json:"semantica"`
}

type dictionarySemantics struct {
	Domain    string              `json:"dominio"`
	Relations dictionaryRelations `json:"relaciones"`
}

type dictionaryRelations struct {
	Synonyms  []string `json:"sinonimos"`
	Hypernyms []string `json:"hypernyms"`
}

// jsonWordStore is the in-memory word catalog backed by a JSON dictionary
// file. Entries and indices are immutable after load, so reads need no
// locking.
type jsonWordStore struct {
	entries    map[string]*entity.WordEntry
	byCategory map[entity.Category][]string
	byDomain   map[entity.Domain][]string
	words      []string
}

// NewJSONWordStore loads the dictionary at path.
func NewJSONWordStore(path string) (repository.WordStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()
	return NewJSONWordStoreFromReader(f)
}

// NewJSONWordStoreFromReader decodes a dictionary document from r.
func NewJSONWordStoreFromReader(r io.Reader) (repository.WordStore, error) {
	var doc dictionaryDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode dictionary: %w", err)
	}
	if len(doc.Words) == 0 {
		return nil, entity.ErrEmptyLexicon
	}

	entries := make([]*entity.WordEntry, 0, len(doc.Words))
	for word, raw := range doc.Words {
		entries = append(entries, mapDictionaryEntry(word, raw))
	}
	return NewWordStoreFromEntries(entries)
}

// NewWordStoreFromEntries builds a store from already-decoded entries.
func NewWordStoreFromEntries(entries []*entity.WordEntry) (repository.WordStore, error) {
	if len(entries) == 0 {
		return nil, entity.ErrEmptyLexicon
	}

	s := &jsonWordStore{
		entries:    make(map[string]*entity.WordEntry, len(entries)),
		byCategory: make(map[entity.Category][]string),
		byDomain:   make(map[entity.Domain][]string),
	}
	for _, e := range entries {
		word := entity.NormalizeWord(e.Word)
		if word == "" {
			continue
		}
		if _, dup := s.entries[word]; dup {
			continue
		}
		e.Word = word
		s.entries[word] = e
		s.words = append(s.words, word)
		for _, cat := range e.Categories {
			s.byCategory[cat] = append(s.byCategory[cat], word)
		}
		s.byDomain[e.Domain] = append(s.byDomain[e.Domain], word)
	}
	if len(s.entries) == 0 {
		return nil, entity.ErrEmptyLexicon
	}
	sort.Strings(s.words)
	return s, nil
}

func mapDictionaryEntry(word string, raw dictionaryEntry) *entity.WordEntry {
	cats := make([]entity.Category, 0, len(raw.Categories))
	for _, c := range raw.Categories {
		if cat := entity.ParseCategory(c); cat != "" && !lo.Contains(cats, cat) {
			cats = append(cats, cat)
		}
	}

	level := 0
	if len(raw.Level) > 0 {
		var asString string
		var asNumber int
		if err := json.Unmarshal(raw.Level, &asString); err == nil {
			level = entity.ParseLevel(asString)
		} else if err := json.Unmarshal(raw.Level, &asNumber); err == nil {
			level = entity.ParseLevel(fmt.Sprintf("%d", asNumber))
		}
	}

	normalize := func(words []string) []string {
		out := make([]string, 0, len(words))
		for _, w := range words {
			if n := entity.NormalizeWord(w); n != "" {
				out = append(out, n)
			}
		}
		return out
	}

	return &entity.WordEntry{
		Word:         entity.NormalizeWord(word),
		Categories:   cats,
		Domain:       entity.NormalizeDomain(entity.Domain(raw.Semantics.Domain)),
		Translations: raw.Translations,
		Definitions:  raw.Definitions,
		Synonyms:     normalize(raw.Semantics.Relations.Synonyms),
		Hypernyms:    normalize(raw.Semantics.Relations.Hypernyms),
		Level:        level,
	}
}

func (s *jsonWordStore) Get(word string) *entity.WordEntry {
	return s.entries[entity.NormalizeWord(word)]
}

func (s *jsonWordStore) ByCategory(cat entity.Category) []string {
	return append([]string{}, s.byCategory[cat]...)
}

func (s *jsonWordStore) ByDomain(domain entity.Domain) []string {
	return append([]string{}, s.byDomain[domain]...)
}

func (s *jsonWordStore) ByLevel(maxLevel int) []string {
	return lo.Filter(s.Words(), func(w string, _ int) bool {
		return s.entries[w].Level <= maxLevel
	})
}

func (s *jsonWordStore) Words() []string {
	return append([]string{}, s.words...)
}

func (s *jsonWordStore) Len() int { return len(s.entries) }

// Entries returns every entry, for graph construction.
func (s *jsonWordStore) Entries() []*entity.WordEntry {
	out := make([]*entity.WordEntry, 0, len(s.words))
	for _, w := range s.words {
		out = append(out, s.entries[w])
	}
	return out
}
