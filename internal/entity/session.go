package entity

// SessionReason explains how much of a requested session could be built.
// Callers decide the UX for degraded sessions (retry, relax filters).
type SessionReason string

const (
	SessionOK           SessionReason = "ok"
	SessionDegraded     SessionReason = "degraded"
	SessionEmptyCatalog SessionReason = "empty_catalog"
)
