package find

import "errors"

// Errors returned by Compile. Sessions never surface them to callers.
var (
	// ErrEmptyPattern is returned for an empty search pattern.
	ErrEmptyPattern = errors.New("empty pattern")

	// ErrInvalidPattern wraps regular expression syntax errors.
	ErrInvalidPattern = errors.New("invalid pattern")
)
