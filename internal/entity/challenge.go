package entity

import (
	"strings"
	"time"
)

// ChallengeType tags one concrete exercise variant. The set is closed: the
// orchestrator dispatches on the tag and never needs new types added outside
// this list. The string values are part of the wire contract consumed by the
// CLI/GUI/HTTP layers.
type ChallengeType string

const (
	ChallengeCards        ChallengeType = "tarjetas"
	ChallengeCardsReverse ChallengeType = "tarjetas_inverso"
	ChallengeAnagram      ChallengeType = "formar_palabras"
	ChallengeAnagramMulti ChallengeType = "formar_palabras_multiple"
	ChallengeSentenceFill ChallengeType = "completar_oracion"
	ChallengeReorder      ChallengeType = "ordenar_oracion"
	ChallengeTranslate    ChallengeType = "traducir_oracion"
)

// ChallengeTypes lists every variant in difficulty order.
var ChallengeTypes = []ChallengeType{
	ChallengeCards,
	ChallengeCardsReverse,
	ChallengeAnagram,
	ChallengeSentenceFill,
	ChallengeReorder,
	ChallengeTranslate,
	ChallengeAnagramMulti,
}

var challengeDifficulty = map[ChallengeType]int{
	ChallengeCards:        1,
	ChallengeCardsReverse: 2,
	ChallengeAnagram:      2,
	ChallengeSentenceFill: 3,
	ChallengeReorder:      3,
	ChallengeTranslate:    4,
	ChallengeAnagramMulti: 5,
}

// Difficulty returns the fixed 1-5 tier for a type (3 for unknown types).
func (t ChallengeType) Difficulty() int {
	if d, ok := challengeDifficulty[t]; ok {
		return d
	}
	return 3
}

// Valid reports whether t is one of the closed variant set.
func (t ChallengeType) Valid() bool {
	_, ok := challengeDifficulty[t]
	return ok
}

// ParseChallengeType converts a wire tag into a ChallengeType, or "" when
// the tag is unknown.
func ParseChallengeType(s string) ChallengeType {
	t := ChallengeType(strings.ToLower(strings.TrimSpace(s)))
	if t.Valid() {
		return t
	}
	return ""
}

// CardKind selects what a vocabulary card asks for.
type CardKind string

const (
	CardTranslation CardKind = "translation"
	CardDefinition  CardKind = "definition"
	CardSynonym     CardKind = "synonym"
)

// ChallengePayload is the JSON-serializable content of a generated
// challenge. The field names are the wire contract: external UIs branch on
// them and they must remain stable. Fields not used by a variant are
// omitted.
type ChallengePayload struct {
	Type       ChallengeType `json:"tipo_reto"`
	TargetWord string        `json:"palabra_objetivo"`
	Question   string        `json:"pregunta"`

	// Card variants.
	CardKind    CardKind `json:"tipo_tarjeta,omitempty"`
	PromptText  string   `json:"pregunta_texto,omitempty"`
	Options     []string `json:"opciones,omitempty"`
	OptionCount int      `json:"num_opciones,omitempty"`

	// Anagram variants.
	Letters         []string `json:"letras,omitempty"`
	LettersText     string   `json:"letras_texto,omitempty"`
	LetterCount     int      `json:"num_letras,omitempty"`
	Hint            string   `json:"pista,omitempty"`
	HasExtraLetters bool     `json:"tiene_letras_extra,omitempty"`
	TargetWordCount int      `json:"num_palabras_objetivo,omitempty"`
	FoundCount      int      `json:"palabras_encontradas,omitempty"`

	// Sentence variants.
	Sentence    string   `json:"oracion,omitempty"`
	WithOptions bool     `json:"con_opciones,omitempty"`
	Tokens      []string `json:"palabras,omitempty"`
	TokensText  string   `json:"palabras_texto,omitempty"`
	Punctuation string   `json:"puntuacion,omitempty"`
	TokenCount  int      `json:"num_palabras,omitempty"`
	Direction   string   `json:"direccion,omitempty"`
	KeyWords    []string `json:"palabras_clave,omitempty"`
}

// VerifyResult is the JSON-serializable outcome of one verify call.
// Field names are part of the wire contract.
type VerifyResult struct {
	Correct      bool   `json:"correcto"`
	Message      string `json:"mensaje"`
	Score        int    `json:"puntaje"`
	Quality      int    `json:"quality"`
	Completed    bool   `json:"completado"`
	AttemptsUsed int    `json:"intentos_usados"`
	AttemptsLeft int    `json:"intentos_restantes"`

	CorrectAnswer string   `json:"respuesta_correcta,omitempty"`
	CorrectOption *int     `json:"opcion_correcta,omitempty"`
	UserAnswer    string   `json:"respuesta_usuario,omitempty"`
	Similarity    float64  `json:"similitud,omitempty"`
	FullSentence  string   `json:"oracion_completa,omitempty"`
	Suggested     string   `json:"traduccion_sugerida,omitempty"`
	FoundWords    []string `json:"palabras_encontradas,omitempty"`
	Remaining     int      `json:"palabras_restantes,omitempty"`
	Progress      string   `json:"progreso,omitempty"`
}

// ChallengeStats is a snapshot of one challenge's lifecycle, reported to the
// progress layer once the challenge completes.
type ChallengeStats struct {
	TargetWord string
	Type       ChallengeType
	Attempts   int
	Completed  bool
	Correct    bool
	Elapsed    time.Duration
	Score      int
}
