package parsers

import (
	"testing"
	"time"

	"github.com/aidanlsb/quill/internal/content"
)

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func contentOptions() content.Options {
	return content.Options{Now: func() time.Time { return testNow }}
}

func parseRaw(t *testing.T, p content.Parser, path, raw string) *content.Extracted {
	t.Helper()
	src, err := content.NewSource(path, raw)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	rec, err := content.ParseSource(p, src, contentOptions())
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}
	return rec
}
