package usecase

import (
	"math/rand"

	"github.com/samber/lo"

	"github.com/eslsoft/lexdrill/internal/entity"
)

// Edge caps applied during the batch build. They keep common domains from
// turning every word into a super-node.
const (
	maxSynonymEdges  = 5
	maxHypernymEdges = 3
	maxDomainEdges   = 10
)

// graphDomainCategories are the categories indexed per domain. Adverbs are
// indexed globally but not per domain, matching the curated vocabulary.
var graphDomainCategories = []entity.Category{
	entity.CategoryNoun,
	entity.CategoryVerb,
	entity.CategoryAdjective,
}

// SemanticGraph is an undirected adjacency structure over dictionary
// entries: synonym, hypernym and same-domain edges plus category indices.
// Build is a one-shot batch step; the graph is rebuilt wholesale if the
// dictionary changes and is read-only (and safely shared) afterwards.
type SemanticGraph struct {
	nodes       map[string]map[string]struct{}
	byCategory  map[entity.Category][]string
	byDomainCat map[entity.Domain]map[entity.Category][]string
	rng         *rand.Rand
	built       bool
}

func NewSemanticGraph(rng *rand.Rand) *SemanticGraph {
	return &SemanticGraph{
		nodes:       make(map[string]map[string]struct{}),
		byCategory:  make(map[entity.Category][]string),
		byDomainCat: make(map[entity.Domain]map[entity.Category][]string),
		rng:         rng,
	}
}

// Build consumes every entry once and produces the adjacency map and the
// category/domain indices. Calling Build again replaces the whole graph.
func (g *SemanticGraph) Build(entries []*entity.WordEntry) {
	g.nodes = make(map[string]map[string]struct{}, len(entries))
	g.byCategory = make(map[entity.Category][]string)
	g.byDomainCat = make(map[entity.Domain]map[entity.Category][]string)
	for _, domain := range entity.Domains {
		g.byDomainCat[domain] = make(map[entity.Category][]string)
	}

	known := make(map[string]*entity.WordEntry, len(entries))
	for _, e := range entries {
		known[e.Word] = e
	}

	// First pass: nodes and indices.
	for _, e := range entries {
		if _, ok := g.nodes[e.Word]; !ok {
			g.nodes[e.Word] = make(map[string]struct{})
		}
		domain := entity.NormalizeDomain(e.Domain)
		for _, cat := range e.Categories {
			g.byCategory[cat] = append(g.byCategory[cat], e.Word)
			if lo.Contains(graphDomainCategories, cat) {
				g.byDomainCat[domain][cat] = append(g.byDomainCat[domain][cat], e.Word)
			}
		}
	}

	// Second pass: edges. Only relations that resolve to loaded entries
	// become edges; the symmetric set structure deduplicates them.
	for _, e := range entries {
		for _, syn := range firstN(e.Synonyms, maxSynonymEdges) {
			if _, ok := known[syn]; ok {
				g.connect(e.Word, syn)
			}
		}
		for _, hyper := range firstN(e.Hypernyms, maxHypernymEdges) {
			if _, ok := known[hyper]; ok {
				g.connect(e.Word, hyper)
			}
		}
		domain := entity.NormalizeDomain(e.Domain)
		for _, cat := range e.Categories {
			if !lo.Contains(graphDomainCategories, cat) {
				continue
			}
			added := 0
			for _, peer := range g.byDomainCat[domain][cat] {
				if added >= maxDomainEdges {
					break
				}
				if peer == e.Word {
					continue
				}
				g.connect(e.Word, peer)
				added++
			}
		}
	}
	g.built = true
}

// Built reports whether Build has run.
func (g *SemanticGraph) Built() bool { return g.built }

func (g *SemanticGraph) connect(a, b string) {
	if g.nodes[a] == nil {
		g.nodes[a] = make(map[string]struct{})
	}
	if g.nodes[b] == nil {
		g.nodes[b] = make(map[string]struct{})
	}
	g.nodes[a][b] = struct{}{}
	g.nodes[b][a] = struct{}{}
}

// Neighbors returns up to maxN related words in randomized order. The order
// is re-shuffled on every call. Unknown words return an empty slice.
func (g *SemanticGraph) Neighbors(word string, maxN int) []string {
	set, ok := g.nodes[entity.NormalizeWord(word)]
	if !ok || maxN <= 0 {
		return nil
	}
	neighbors := lo.Keys(set)
	g.rng.Shuffle(len(neighbors), func(i, j int) {
		neighbors[i], neighbors[j] = neighbors[j], neighbors[i]
	})
	if len(neighbors) > maxN {
		neighbors = neighbors[:maxN]
	}
	return neighbors
}

// WordsByCategory returns the precomputed index for a category, narrowed to
// a domain when one is given. The returned slice must not be mutated.
func (g *SemanticGraph) WordsByCategory(cat entity.Category, domain entity.Domain) []string {
	if domain != "" {
		if byCat, ok := g.byDomainCat[domain]; ok {
			if lo.Contains(graphDomainCategories, cat) {
				return byCat[cat]
			}
		}
	}
	return g.byCategory[cat]
}

// RandomWord returns a uniformly selected word from the index matching the
// given category and/or domain. Empty filters select over every node.
func (g *SemanticGraph) RandomWord(cat entity.Category, domain entity.Domain) (string, error) {
	var pool []string
	switch {
	case cat != "":
		pool = g.WordsByCategory(cat, domain)
	case domain != "":
		byCat, ok := g.byDomainCat[domain]
		if ok {
			merged := make([]string, 0)
			for _, c := range graphDomainCategories {
				merged = append(merged, byCat[c]...)
			}
			pool = lo.Uniq(merged)
		}
	default:
		pool = lo.Keys(g.nodes)
	}
	if len(pool) == 0 {
		return "", entity.ErrNoMatchingWords
	}
	return pool[g.rng.Intn(len(pool))], nil
}

// HasEdge reports whether the built graph connects a and b.
func (g *SemanticGraph) HasEdge(a, b string) bool {
	set, ok := g.nodes[entity.NormalizeWord(a)]
	if !ok {
		return false
	}
	_, ok = set[entity.NormalizeWord(b)]
	return ok
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
