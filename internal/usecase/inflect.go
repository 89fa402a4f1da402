package usecase

import "strings"

// Regular English inflection rules. Irregular-verb lookup is out of scope:
// the regular rule always applies, which is acceptable for drill sentences.

func endsWithSibilant(w string) bool {
	return strings.HasSuffix(w, "s") || strings.HasSuffix(w, "x") ||
		strings.HasSuffix(w, "z") || strings.HasSuffix(w, "ch") ||
		strings.HasSuffix(w, "sh")
}

func endsYAfterConsonant(w string) bool {
	if !strings.HasSuffix(w, "y") || len(w) < 2 {
		return false
	}
	return !strings.ContainsRune("aeiou", rune(w[len(w)-2]))
}

// InflectThirdPerson forms the 3rd-person singular of a base verb.
func InflectThirdPerson(verb string) string {
	switch {
	case endsWithSibilant(verb):
		return verb + "es"
	case endsYAfterConsonant(verb):
		return verb[:len(verb)-1] + "ies"
	default:
		return verb + "s"
	}
}

// InflectGerund forms the -ing form of a base verb.
func InflectGerund(verb string) string {
	switch {
	case strings.HasSuffix(verb, "ie"):
		return verb[:len(verb)-2] + "ying"
	case strings.HasSuffix(verb, "e"):
		return verb[:len(verb)-1] + "ing"
	default:
		return verb + "ing"
	}
}

// InflectPast forms the regular simple past of a base verb. The past
// participle uses the same rule.
func InflectPast(verb string) string {
	switch {
	case strings.HasSuffix(verb, "e"):
		return verb + "d"
	case endsYAfterConsonant(verb):
		return verb[:len(verb)-1] + "ied"
	default:
		return verb + "ed"
	}
}

// InflectPlural forms the regular plural of a noun.
func InflectPlural(noun string) string {
	switch {
	case endsYAfterConsonant(noun):
		return noun[:len(noun)-1] + "ies"
	case endsWithSibilant(noun):
		return noun + "es"
	default:
		return noun + "s"
	}
}
