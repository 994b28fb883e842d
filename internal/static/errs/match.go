package errs

import "errors"

var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchNotWaiting    = errors.New("match is no longer accepting players")
	ErrMatchNotActive     = errors.New("match is not active")
	ErrMatchCompleted     = errors.New("match already completed")
	ErrNotEnoughPlayers   = errors.New("not enough players to start the match")
	ErrNotMatchOwner      = errors.New("only the match owner can start the match")
	ErrPlayerNotInMatch   = errors.New("player has not joined this match")
	ErrPlayerAlreadyDone  = errors.New("player already finished this match")
	ErrAlreadyJoined      = errors.New("player already joined this match")
	ErrQuestionNotFound   = errors.New("no question available for the requested difficulty")
	ErrVariantNotFound    = errors.New("question has no variant for the requested language")
)
