package store

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/roach88/condsel/internal/catalog"
	"github.com/roach88/condsel/internal/testutil"
)

// createTestStore creates a new store in a temp dir with sequential import IDs.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithIDGenerator(testutil.NewSequenceGenerator("import")))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// catalogText joins tab-separated catalog lines.
func catalogText(lines ...[]string) string {
	var b strings.Builder
	for _, fields := range lines {
		b.WriteString(strings.Join(fields, "\t"))
		b.WriteString("\n")
	}
	return b.String()
}

func readCatalog(text string) func(yield func(catalog.Record, error) bool) {
	return catalog.Read(strings.NewReader(text))
}
