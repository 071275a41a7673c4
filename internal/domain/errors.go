package domain

import "errors"

var (
	ErrEmptyTopic      = errors.New("topic empty")
	ErrTopicTooLong    = errors.New("topic too long")
	ErrEmptySession    = errors.New("session id empty")
	ErrEmptyArgument   = errors.New("argument empty")
	ErrArgumentTooLong = errors.New("argument too long")
	ErrBadVoteTarget   = errors.New("invalid vote target")

	ErrNotFound         = errors.New("debate not found")
	ErrNotParticipant   = errors.New("not a debate participant")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrInvalidState     = errors.New("debate is not active")
	ErrParticipantVote  = errors.New("participants cannot vote")
	ErrAlreadyVoted     = errors.New("already voted")
	ErrStoreUnavailable = errors.New("store unavailable")
)
