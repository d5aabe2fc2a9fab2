package apperr

import "errors"

// Sentinel error kinds the HTTP layer translates into status codes.
// Vote and resolve rejections are split into their individual causes
// so clients can tell "not found" from "forbidden" from "bad input".
var (
	ErrAlreadyExists = errors.New("already exists")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")

	ErrTooFewOptions = errors.New("at least two options required")
	ErrInvalidOption = errors.New("option index out of range")
	ErrBetNotActive  = errors.New("bet is not active")
	ErrDuplicateVote = errors.New("already voted on this bet")
	ErrNotCreator    = errors.New("only the bet creator may do this")
)
