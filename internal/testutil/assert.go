package testutil

import (
	"os"
	"strings"
	"testing"
)

// AssertFileExists fails the test if the file does not exist.
func (c *ContentTree) AssertFileExists(relPath string) {
	c.t.Helper()
	if _, err := os.Stat(c.Join(relPath)); os.IsNotExist(err) {
		c.t.Errorf("expected file to exist: %s", relPath)
	}
}

// AssertContains fails the test if the list does not contain want.
func AssertContains(t *testing.T, list []string, want string) {
	t.Helper()
	for _, item := range list {
		if item == want {
			return
		}
	}
	t.Errorf("expected %q in %v", want, list)
}

// AssertMessage fails the test unless some message contains substr
// (case-insensitive).
func AssertMessage(t *testing.T, messages []string, substr string) {
	t.Helper()
	needle := strings.ToLower(substr)
	for _, msg := range messages {
		if strings.Contains(strings.ToLower(msg), needle) {
			return
		}
	}
	t.Errorf("expected a message containing %q, got %v", substr, messages)
}

// AssertNoMessage fails the test if any message contains substr
// (case-insensitive).
func AssertNoMessage(t *testing.T, messages []string, substr string) {
	t.Helper()
	needle := strings.ToLower(substr)
	for _, msg := range messages {
		if strings.Contains(strings.ToLower(msg), needle) {
			t.Errorf("unexpected message containing %q: %q", substr, msg)
		}
	}
}
