package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// testCatalog has one hippocampus and one cortex combination in PRJ1 and a
// hippocampus combination without a control level in PRJ2.
var testCatalog = strings.Join([]string{
	"c1\tPRJ1\t(Region==\"hipp\") & (Stress.protocol==\"control\" | Stress.protocol==\"30_min_RS\")\tStress.protocol\tRegion|Stress.protocol",
	"c2\tPRJ1\t(Region==\"cortex\") & (Stress.protocol==\"control\" | Stress.protocol==\"CFC\")\tStress.protocol\tRegion|Stress.protocol",
	"c3\tPRJ2\t(Region==\"hipp\") & (Stress.protocol==\"acute\" | Stress.protocol==\"CFC\")\tStress.protocol\tRegion|Stress.protocol",
}, "\n") + "\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// firstField returns the combination id of the first output line.
func firstField(out string) string {
	id, _, _ := strings.Cut(out, "\t")
	return id
}
