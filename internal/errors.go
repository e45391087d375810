package internal

import "errors"

// Every pipeline failure wraps exactly one of these.
var (
	ErrFetch       = errors.New("fetch error")
	ErrParse       = errors.New("parse error")
	ErrInvalidName = errors.New("invalid name")
)
