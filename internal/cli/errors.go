package cli

import (
	"errors"
	"io/fs"

	"github.com/aidanlsb/quill/internal/config"
	"github.com/aidanlsb/quill/internal/content"
	"github.com/aidanlsb/quill/internal/index"
	"github.com/aidanlsb/quill/internal/vault"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	ErrFileNotFound  = "FILE_NOT_FOUND"
	ErrParseFailed   = "PARSE_FAILED"
	ErrConfigInvalid = "CONFIG_INVALID"
	ErrDatabaseError = "DATABASE_ERROR"
	ErrIndexLocked   = "INDEX_LOCKED"
	ErrInvalidInput  = "INVALID_INPUT"
	ErrInternal      = "INTERNAL_ERROR"
)

// errSilent is returned after a JSON error envelope has been written so the
// process still exits non-zero without Cobra printing the error again.
var errSilent = errors.New("error already reported")

// errorCode maps an error to its stable code.
func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, content.ErrUnreadable), errors.Is(err, index.ErrRecordNotFound):
		return ErrFileNotFound
	case errors.Is(err, content.ErrMalformedFrontmatter), errors.Is(err, content.ErrExtractionFailed):
		return ErrParseFailed
	case errors.Is(err, config.ErrInvalid):
		return ErrConfigInvalid
	case errors.Is(err, index.ErrIndexLocked):
		return ErrIndexLocked
	case errors.Is(err, vault.ErrOutsideRoot):
		return ErrInvalidInput
	}
	return ErrInternal
}
