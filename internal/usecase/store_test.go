package usecase

import (
	"math/rand"
	"sort"
	"time"

	"github.com/eslsoft/lexdrill/internal/entity"
)

// fakeWordStore is an in-memory WordStore for tests.
type fakeWordStore struct {
	entries map[string]*entity.WordEntry
}

func newFakeWordStore(entries ...*entity.WordEntry) *fakeWordStore {
	s := &fakeWordStore{entries: make(map[string]*entity.WordEntry)}
	for _, e := range entries {
		s.entries[e.Word] = e
	}
	return s
}

func (s *fakeWordStore) Get(word string) *entity.WordEntry {
	return s.entries[entity.NormalizeWord(word)]
}

func (s *fakeWordStore) ByCategory(cat entity.Category) []string {
	var out []string
	for w, e := range s.entries {
		if e.HasCategory(cat) {
			out = append(out, w)
		}
	}
	sort.Strings(out)
	return out
}

func (s *fakeWordStore) ByDomain(domain entity.Domain) []string {
	var out []string
	for w, e := range s.entries {
		if e.Domain == domain {
			out = append(out, w)
		}
	}
	sort.Strings(out)
	return out
}

func (s *fakeWordStore) ByLevel(maxLevel int) []string {
	var out []string
	for w, e := range s.entries {
		if e.Level <= maxLevel {
			out = append(out, w)
		}
	}
	sort.Strings(out)
	return out
}

func (s *fakeWordStore) Words() []string {
	out := make([]string, 0, len(s.entries))
	for w := range s.entries {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

func (s *fakeWordStore) Len() int { return len(s.entries) }

func (s *fakeWordStore) Entries() []*entity.WordEntry {
	out := make([]*entity.WordEntry, 0, len(s.entries))
	for _, w := range s.Words() {
		out = append(out, s.entries[w])
	}
	return out
}

func testEntry(word string, cat entity.Category, domain entity.Domain, level int) *entity.WordEntry {
	return &entity.WordEntry{
		Word:       word,
		Categories: []entity.Category{cat},
		Domain:     domain,
		Level:      level,
	}
}

// testDictionary covers every category and two domains, with enough nouns
// for distractor selection.
func testDictionary() *fakeWordStore {
	doctor := testEntry("doctor", entity.CategoryNoun, entity.DomainHealth, 20)
	doctor.Translations = map[string][]string{"es": {"médico"}}
	doctor.Synonyms = []string{"physician"}
	doctor.Definitions = []string{"a person qualified to treat sick people"}

	hospital := testEntry("hospital", entity.CategoryNoun, entity.DomainHealth, 15)
	hospital.Translations = map[string][]string{"es": {"hospital"}}
	hospital.Synonyms = []string{"clinic"}

	student := testEntry("student", entity.CategoryNoun, entity.DomainEducation, 10)
	student.Translations = map[string][]string{"es": {"estudiante"}}

	teacher := testEntry("teacher", entity.CategoryNoun, entity.DomainEducation, 10)
	teacher.Translations = map[string][]string{"es": {"profesor"}}
	teacher.Hypernyms = []string{"person"}

	person := testEntry("person", entity.CategoryNoun, entity.DomainGeneral, 5)
	person.Translations = map[string][]string{"es": {"persona"}}

	book := testEntry("book", entity.CategoryNoun, entity.DomainEducation, 5)
	book.Translations = map[string][]string{"es": {"libro"}}

	study := testEntry("study", entity.CategoryVerb, entity.DomainEducation, 10)
	study.Translations = map[string][]string{"es": {"estudiar"}}

	heal := testEntry("heal", entity.CategoryVerb, entity.DomainHealth, 25)
	heal.Translations = map[string][]string{"es": {"curar"}}
	heal.Synonyms = []string{"cure"}

	healthy := testEntry("healthy", entity.CategoryAdjective, entity.DomainHealth, 20)
	healthy.Translations = map[string][]string{"es": {"sano"}}

	good := testEntry("good", entity.CategoryAdjective, entity.DomainGeneral, 5)
	good.Translations = map[string][]string{"es": {"bueno"}}

	return newFakeWordStore(doctor, hospital, student, teacher, person, book, study, heal, healthy, good)
}

// testRig bundles the engine components over the test dictionary with a
// deterministic seed and a controllable clock.
type testRig struct {
	store   *fakeWordStore
	graph   *SemanticGraph
	factory *ChallengeFactory
	now     time.Time
}

func newTestRig(seed int64) *testRig {
	store := testDictionary()
	rng := rand.New(rand.NewSource(seed))
	graph := NewSemanticGraph(rng)
	graph.Build(store.Entries())
	verifier := NewAnswerVerifier(store)
	sentences := NewSentenceGenerator(store, graph, rng)
	factory := NewChallengeFactory(store, graph, sentences, verifier, rng)

	rig := &testRig{
		store:   store,
		graph:   graph,
		factory: factory,
		now:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	factory.WithClock(func() time.Time { return rig.now })
	return rig
}

func (r *testRig) advance(d time.Duration) { r.now = r.now.Add(d) }
