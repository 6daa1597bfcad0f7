package content

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three fatal parse failure kinds.
var (
	ErrUnreadable           = errors.New("content unreadable")
	ErrMalformedFrontmatter = errors.New("malformed frontmatter")
	ErrExtractionFailed     = errors.New("extraction failed")
)

// ErrorKind classifies a fatal parse failure.
type ErrorKind string

const (
	KindUnreadable           ErrorKind = "unreadable"
	KindMalformedFrontmatter ErrorKind = "malformed_frontmatter"
	KindExtractionFailed     ErrorKind = "extraction_failed"
)

// ParseError is returned when a single file cannot produce a record at all.
// Validation problems never produce a ParseError; they are recorded on the
// Extracted record instead.
type ParseError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind so callers can use errors.Is
// regardless of how the cause was wrapped.
func (e *ParseError) Is(target error) bool {
	switch e.Kind {
	case KindUnreadable:
		return target == ErrUnreadable
	case KindMalformedFrontmatter:
		return target == ErrMalformedFrontmatter
	case KindExtractionFailed:
		return target == ErrExtractionFailed
	}
	return false
}

func newParseError(kind ErrorKind, path string, err error) *ParseError {
	return &ParseError{Kind: kind, Path: path, Err: err}
}
