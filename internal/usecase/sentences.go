package usecase

import (
	"math/rand"
	"strings"

	"github.com/eslsoft/lexdrill/internal/entity"
	"github.com/eslsoft/lexdrill/internal/repository"
)

// Slot names recognised inside sentence templates. Verb slots carry the
// required form as a suffix and are inflected after resolution.
const (
	slotSubjectNoun = "subject_noun"
	slotObjectNoun  = "object_noun"
	slotVerb        = "verb"
	slotVerb3rd     = "verb_3rd"
	slotVerbIng     = "verb_ing"
	slotVerbPast    = "verb_past"
	slotVerbPart    = "verb_participle"
	slotAdjective   = "adjective"
	slotAdverb      = "adverb"
	slotPronoun     = "pronoun"
	slotPlace       = "place"
)

type sentenceTemplate struct {
	text  string
	slots []string
}

// The template pool is split by tier: the first four are basic, the last
// three advanced, and intermediate learners draw from the whole pool.
var sentenceTemplates = []sentenceTemplate{
	{"The {subject_noun} {verb_3rd} the {object_noun}.", []string{slotSubjectNoun, slotVerb3rd, slotObjectNoun}},
	{"{pronoun} {verb} {adverb} in the {place}.", []string{slotPronoun, slotVerb, slotAdverb, slotPlace}},
	{"The {subject_noun} is {adjective}.", []string{slotSubjectNoun, slotAdjective}},
	{"{pronoun} {verb} to the {place} every day.", []string{slotPronoun, slotVerb, slotPlace}},
	{"After {verb_ing}, {pronoun} {verb_past} {adverb}.", []string{slotVerbIng, slotPronoun, slotVerbPast, slotAdverb}},
	{"If the {subject_noun} {verb_3rd}, it will {verb}.", []string{slotSubjectNoun, slotVerb3rd, slotVerb}},
	{"The {adjective} {subject_noun} {verb_3rd} very {adverb}.", []string{slotAdjective, slotSubjectNoun, slotVerb3rd, slotAdverb}},
	{"{pronoun} decided to {verb} because of the {subject_noun}.", []string{slotPronoun, slotVerb, slotSubjectNoun}},
	{"Despite the {subject_noun}, {pronoun} managed to {verb}.", []string{slotSubjectNoun, slotPronoun, slotVerb}},
	{"The {subject_noun} that {verb_3rd} in the {place} is {adjective}.", []string{slotSubjectNoun, slotVerb3rd, slotPlace, slotAdjective}},
	{"Having {verb_participle} the {subject_noun}, {pronoun} {verb_past}.", []string{slotVerbPart, slotSubjectNoun, slotPronoun, slotVerbPast}},
}

const basicTemplateCount = 4
const advancedTemplateCount = 3

// safeSentence is emitted when template substitution fails; generation
// never surfaces an error to the caller for a single bad template.
const safeSentence = "The student studies English."

type domainVocabulary struct {
	nouns      []string
	verbs      []string
	verbsThird []string
	adjectives []string
	places     []string
}

// Curated per-domain vocabulary, tried before any graph query so generated
// sentences stay thematically coherent.
var curatedVocabulary = map[entity.Domain]domainVocabulary{
	entity.DomainEducation: {
		nouns:      []string{"student", "teacher", "school", "book", "lesson", "class", "homework", "exam", "knowledge", "university"},
		verbs:      []string{"study", "learn", "teach", "read", "write", "explain", "understand", "practice", "answer", "attend"},
		verbsThird: []string{"studies", "learns", "teaches", "reads", "writes", "explains"},
		adjectives: []string{"intelligent", "educational", "academic", "difficult", "interesting", "important", "useful"},
		places:     []string{"school", "university", "classroom", "library", "campus"},
	},
	entity.DomainHealth: {
		nouns:      []string{"doctor", "patient", "hospital", "medicine", "treatment", "symptom", "recovery", "health", "illness", "pain"},
		verbs:      []string{"treat", "heal", "recover", "examine", "prescribe", "diagnose", "improve", "prevent", "care", "suffer"},
		verbsThird: []string{"treats", "heals", "recovers", "examines", "prescribes"},
		adjectives: []string{"healthy", "sick", "medical", "chronic", "physical", "mental", "severe", "mild", "acute"},
		places:     []string{"hospital", "clinic", "office", "pharmacy", "ward"},
	},
	entity.DomainWork: {
		nouns:      []string{"employee", "manager", "office", "meeting", "project", "company", "business", "salary", "deadline", "colleague"},
		verbs:      []string{"work", "manage", "organize", "present", "create", "collaborate", "achieve", "complete", "attend", "lead"},
		verbsThird: []string{"works", "manages", "organizes", "presents", "creates"},
		adjectives: []string{"professional", "efficient", "productive", "successful", "corporate", "organized", "dedicated"},
		places:     []string{"office", "company", "meeting room", "factory", "store"},
	},
	entity.DomainGeneral: {
		nouns:      []string{"person", "thing", "place", "time", "way", "year", "day", "man", "woman", "child"},
		verbs:      []string{"do", "make", "go", "see", "know", "think", "take", "come", "look", "use"},
		verbsThird: []string{"does", "makes", "goes", "sees", "knows"},
		adjectives: []string{"good", "bad", "big", "small", "new", "old", "important", "different", "same"},
		places:     []string{"home", "park", "store", "city", "country"},
	},
}

var (
	singularPronouns = []string{"I", "You", "He", "She", "It"}
	pluralPronouns   = []string{"We", "They", "You"}
	adverbs          = []string{"quickly", "slowly", "carefully", "happily", "easily", "well", "badly", "quietly", "clearly", "regularly"}
)

// Hard-coded last resorts per slot; the chain above them always runs first.
var slotFallbacks = map[string]string{
	slotSubjectNoun: "person",
	slotObjectNoun:  "thing",
	slotVerb:        "do",
	slotVerb3rd:     "does",
	slotVerbIng:     "working",
	slotVerbPast:    "worked",
	slotVerbPart:    "worked",
	slotAdjective:   "good",
	slotPlace:       "place",
	slotAdverb:      "well",
	slotPronoun:     "He",
}

var topicOpeners = map[entity.Domain]string{
	entity.DomainEducation: "Education is important for personal development.",
	entity.DomainHealth:    "Good health is essential for a happy life.",
	entity.DomainWork:      "Professional work requires dedication and skill.",
}

const genericOpener = "Life presents many opportunities for growth."

// GeneratedSentence is the outcome of one template fill.
type GeneratedSentence struct {
	Sentence  string
	Domain    entity.Domain
	SeedWord  string
	Template  string
	WordsUsed []string
	Tier      entity.Tier
}

// SentenceGenerator fills grammar templates with vocabulary drawn from a
// domain, inflecting verbs per slot form.
type SentenceGenerator struct {
	store repository.WordStore
	graph *SemanticGraph
	rng   *rand.Rand
}

func NewSentenceGenerator(store repository.WordStore, graph *SemanticGraph, rng *rand.Rand) *SentenceGenerator {
	return &SentenceGenerator{store: store, graph: graph, rng: rng}
}

// Generate produces one sentence. When seedWord resolves to a known entry
// its domain steers the vocabulary and the word itself fills the first
// subject-noun slot; otherwise the general domain is used.
func (g *SentenceGenerator) Generate(seedWord string, tier entity.Tier) GeneratedSentence {
	domain := entity.DomainGeneral
	seedWord = entity.NormalizeWord(seedWord)
	if seedWord != "" {
		if entry := g.store.Get(seedWord); entry != nil {
			if _, ok := curatedVocabulary[entry.Domain]; ok {
				domain = entry.Domain
			}
		}
	}

	tmpl := g.pickTemplate(tier)

	values := make(map[string]string, len(tmpl.slots))
	used := make([]string, 0, len(tmpl.slots))
	seedPlaced := false
	for _, slot := range tmpl.slots {
		switch slot {
		case slotPronoun:
			values[slot] = g.pickPronoun(tmpl.slots)
			used = append(used, strings.ToLower(values[slot]))
			continue
		case slotAdverb:
			values[slot] = adverbs[g.rng.Intn(len(adverbs))]
			used = append(used, values[slot])
			continue
		}

		var base string
		if slot == slotSubjectNoun && seedWord != "" && !seedPlaced {
			base = seedWord
			seedPlaced = true
		} else {
			base = g.resolveSlot(slot, domain, used)
		}
		values[slot] = inflectForSlot(slot, base, domain)
		used = append(used, base)
	}

	sentence := tmpl.text
	for slot, value := range values {
		sentence = strings.ReplaceAll(sentence, "{"+slot+"}", value)
	}
	if strings.Contains(sentence, "{") {
		sentence = safeSentence
	}
	sentence = polishSentence(sentence)

	return GeneratedSentence{
		Sentence:  sentence,
		Domain:    domain,
		SeedWord:  seedWord,
		Template:  tmpl.text,
		WordsUsed: used,
		Tier:      tier,
	}
}

// GenerateParagraph opens with a fixed topic sentence and follows with
// sentences seeded from the topic's curated nouns. Unknown topics get the
// generic opener and general-domain sentences.
func (g *SentenceGenerator) GenerateParagraph(topic entity.Domain, n int) string {
	opener, ok := topicOpeners[topic]
	if !ok {
		opener = genericOpener
	}
	sentences := []string{opener}
	nouns := curatedVocabulary[topic].nouns
	for i := 1; i < n; i++ {
		seed := ""
		if len(nouns) > 0 {
			seed = nouns[g.rng.Intn(min(5, len(nouns)))]
		}
		sentences = append(sentences, g.Generate(seed, entity.TierIntermediate).Sentence)
	}
	return strings.Join(sentences, " ")
}

func (g *SentenceGenerator) pickTemplate(tier entity.Tier) sentenceTemplate {
	pool := sentenceTemplates
	switch tier {
	case entity.TierBasic:
		pool = sentenceTemplates[:basicTemplateCount]
	case entity.TierAdvanced:
		pool = sentenceTemplates[len(sentenceTemplates)-advancedTemplateCount:]
	}
	return pool[g.rng.Intn(len(pool))]
}

func (g *SentenceGenerator) pickPronoun(slots []string) string {
	// A singular subject or 3rd-person verb elsewhere in the template
	// forces a singular pronoun.
	for _, s := range slots {
		if s == slotSubjectNoun || s == slotVerb3rd {
			return singularPronouns[g.rng.Intn(len(singularPronouns))]
		}
	}
	all := append(append([]string{}, singularPronouns...), pluralPronouns...)
	return all[g.rng.Intn(len(all))]
}

// resolveSlot walks the priority fallback chain: curated domain vocabulary,
// then the semantic graph filtered by the slot's category, then the general
// curated vocabulary, then a hard-coded last resort. Words already used in
// this sentence are skipped.
func (g *SentenceGenerator) resolveSlot(slot string, domain entity.Domain, avoid []string) string {
	if w, ok := g.pickCurated(slot, domain, avoid); ok {
		return w
	}
	if cat := categoryForSlot(slot); cat != "" && g.graph != nil {
		candidates := filterAvoid(g.graph.WordsByCategory(cat, domain), avoid)
		if len(candidates) > 0 {
			return candidates[g.rng.Intn(len(candidates))]
		}
	}
	if domain != entity.DomainGeneral {
		return g.resolveSlot(slot, entity.DomainGeneral, avoid)
	}
	if w, ok := slotFallbacks[slot]; ok {
		return w
	}
	return "thing"
}

func (g *SentenceGenerator) pickCurated(slot string, domain entity.Domain, avoid []string) (string, bool) {
	vocab, ok := curatedVocabulary[domain]
	if !ok {
		return "", false
	}
	var pool []string
	switch slot {
	case slotSubjectNoun, slotObjectNoun:
		pool = vocab.nouns
	case slotVerb, slotVerbIng, slotVerbPast, slotVerbPart:
		pool = vocab.verbs
	case slotVerb3rd:
		pool = vocab.verbsThird
	case slotAdjective:
		pool = vocab.adjectives
	case slotPlace:
		pool = vocab.places
	}
	candidates := filterAvoid(pool, avoid)
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[g.rng.Intn(len(candidates))], true
}

// inflectForSlot adapts a base word to the slot's required form. Curated
// 3rd-person verbs are already inflected and pass through unchanged.
func inflectForSlot(slot, base string, domain entity.Domain) string {
	switch slot {
	case slotVerb3rd:
		if isCuratedThirdPerson(base, domain) {
			return base
		}
		return InflectThirdPerson(base)
	case slotVerbIng:
		return InflectGerund(base)
	case slotVerbPast, slotVerbPart:
		return InflectPast(base)
	default:
		return base
	}
}

func isCuratedThirdPerson(word string, domain entity.Domain) bool {
	for _, d := range []entity.Domain{domain, entity.DomainGeneral} {
		for _, v := range curatedVocabulary[d].verbsThird {
			if v == word {
				return true
			}
		}
	}
	return false
}

func categoryForSlot(slot string) entity.Category {
	switch {
	case strings.HasPrefix(slot, "subject_noun"), strings.HasPrefix(slot, "object_noun"):
		return entity.CategoryNoun
	case strings.HasPrefix(slot, "verb"):
		return entity.CategoryVerb
	case slot == slotAdjective:
		return entity.CategoryAdjective
	default:
		return ""
	}
}

func filterAvoid(pool, avoid []string) []string {
	if len(pool) == 0 {
		return nil
	}
	avoided := make(map[string]struct{}, len(avoid))
	for _, a := range avoid {
		avoided[a] = struct{}{}
	}
	out := make([]string, 0, len(pool))
	for _, w := range pool {
		if _, skip := avoided[w]; !skip {
			out = append(out, w)
		}
	}
	return out
}

func polishSentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return safeSentence
	}
	if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "!") && !strings.HasSuffix(s, "?") {
		s += "."
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
