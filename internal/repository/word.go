package repository

import "github.com/eslsoft/lexdrill/internal/entity"

// WordStore is the read-only lookup contract over the loaded dictionary.
// Implementations are built once at startup and are thereafter safe for
// concurrent reads without locking; no method performs I/O.
type WordStore interface {
	// Get returns the entry for a word, or nil when absent.
	Get(word string) *entity.WordEntry
	// ByCategory returns the words carrying the given grammatical category.
	ByCategory(cat entity.Category) []string
	// ByDomain returns the words in the given semantic domain.
	ByDomain(domain entity.Domain) []string
	// ByLevel returns the words at or below the given 0-100 level.
	ByLevel(maxLevel int) []string
	// Words returns every word key in sorted order.
	Words() []string
	// Entries returns every entry, for index construction.
	Entries() []*entity.WordEntry
	// Len reports the number of loaded entries.
	Len() int
}
