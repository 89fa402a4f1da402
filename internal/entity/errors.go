package entity

import "errors"

// Domain errors for the practice engine.
var (
	ErrWordNotFound      = errors.New("word not found")
	ErrEmptyLexicon      = errors.New("lexicon is empty")
	ErrNoMatchingWords   = errors.New("no words match the requested filter")
	ErrEmptyAnswer       = errors.New("answer must not be empty")
	ErrInvalidAnswer     = errors.New("answer is not a valid option")
	ErrChallengeComplete = errors.New("challenge already completed")
	ErrUnknownChallenge  = errors.New("unknown challenge type")
	ErrSessionNotFound   = errors.New("session not found")
	ErrChallengeIndex    = errors.New("challenge index out of range")
	ErrInvalidUserID     = errors.New("invalid user ID")
)
