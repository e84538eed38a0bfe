package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResponse(t *testing.T, out string) (CLIResponse, map[string]any) {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data, _ := resp.Data.(map[string]any)
	return resp, data
}

func TestTokenizeCommand(t *testing.T) {
	out, _, err := execute(t, "tokenize", `(a==1 & b==2)`)
	require.NoError(t, err)
	assert.Equal(t, "(\na==1\n&\nb==2\n)\n", out)
}

func TestTokenizeCommandJSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "tokenize", `a==1|b==2`)
	require.NoError(t, err)

	resp, data := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []any{"a==1", "|", "b==2"}, data["tokens"])
}

func TestParseCommand(t *testing.T) {
	out, _, err := execute(t, "parse", `a==1 & b==2 | c==3`)
	require.NoError(t, err)

	expected := "canonical: (a==1 & b==2) | c==3\n" +
		"length: 7\n" +
		"leaves:\n" +
		"  a == 1\n" +
		"  b == 2\n" +
		"  c == 3\n" +
		"tree:\n" +
		"\t\ta==1\n\t&\n\t\tb==2\n|\n\tc==3\n"
	assert.Equal(t, expected, out)
}

func TestParseCommandJSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "parse", `Region=="hipp"`)
	require.NoError(t, err)

	_, data := decodeResponse(t, out)
	assert.Equal(t, `Region=="hipp"`, data["canonical"])
	assert.Equal(t, float64(1), data["length"])
	leaves, ok := data["leaves"].([]any)
	require.True(t, ok)
	require.Len(t, leaves, 1)
	assert.Equal(t, map[string]any{
		"clause":   `Region=="hipp"`,
		"key":      "Region",
		"operator": "==",
		"value":    "hipp",
	}, leaves[0])
}

func TestParseCommandMalformed(t *testing.T) {
	_, errOut, err := execute(t, "parse", `(a==1`)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, errOut, "unmatched opening parenthesis")
}

func TestSelectCommand(t *testing.T) {
	catalogPath := writeFile(t, "combos.tsv", testCatalog)

	out, _, err := execute(t, "select", "--catalog", catalogPath, `Region=="hipp"`)
	require.NoError(t, err)

	// Lines are printed exactly as they appear in the catalog.
	firstLine, _, _ := strings.Cut(testCatalog, "\n")
	assert.Equal(t, firstLine+"\n", out)
}

func TestSelectCommandJSON(t *testing.T) {
	catalogPath := writeFile(t, "combos.tsv", testCatalog)

	out, _, err := execute(t, "--format", "json", "select", "--catalog", catalogPath, `Region=="cortex"`)
	require.NoError(t, err)

	_, data := decodeResponse(t, out)
	assert.Equal(t, float64(1), data["count"])
	records, ok := data["records"].([]any)
	require.True(t, ok)
	require.Len(t, records, 1)
	rec := records[0].(map[string]any)
	assert.Equal(t, "c2", rec["combination_id"])
	assert.Equal(t, float64(2), rec["line_no"])
	assert.Equal(t, []any{"Region", "Stress.protocol"}, rec["dimensions"])
}

func TestSelectCommandNoMatch(t *testing.T) {
	catalogPath := writeFile(t, "combos.tsv", testCatalog)

	out, errOut, err := execute(t, "select", "--catalog", catalogPath, `Region=="amygdala"`)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Empty(t, out)
	assert.Contains(t, errOut, "E_NO_MATCH")
}

func TestSelectCommandBioproject(t *testing.T) {
	catalogPath := writeFile(t, "combos.tsv", testCatalog)

	// c3 is the only PRJ2 hippocampus record and has no control level.
	_, _, err := execute(t, "select", "--catalog", catalogPath, "--bioproject", "PRJ2", `Region=="hipp"`)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestSelectCommandMalformedQuery(t *testing.T) {
	catalogPath := writeFile(t, "combos.tsv", testCatalog)

	_, errOut, err := execute(t, "select", "--catalog", catalogPath, `Region=="hipp" &`)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, errOut, "E_MALFORMED_QUERY")
}

func TestSelectCommandMalformedCatalog(t *testing.T) {
	catalogPath := writeFile(t, "combos.tsv", testCatalog+"broken line\n")

	_, errOut, err := execute(t, "select", "--catalog", catalogPath, `Region=="hipp"`)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, errOut, "line 4")
}

func TestSelectCommandMissingCatalog(t *testing.T) {
	_, errOut, err := execute(t, "select", "--catalog", filepath.Join(t.TempDir(), "nope.tsv"), `Region=="hipp"`)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, errOut, "open catalog")
}

func TestSelectCommandNoSource(t *testing.T) {
	_, errOut, err := execute(t, "select", `Region=="hipp"`)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, errOut, "no catalog")
}

func TestSuggestCommand(t *testing.T) {
	catalogPath := writeFile(t, "combos.tsv", testCatalog)

	out, _, err := execute(t, "suggest", "--catalog", catalogPath, "--bioproject", "PRJ1")
	require.NoError(t, err)

	expected := "2 comparable combination(s)\n" +
		"Region==\"cortex\"\t1\n" +
		"Region==\"hipp\"\t1\n" +
		"Stress.protocol==\"30_min_RS\"\t1\n" +
		"Stress.protocol==\"CFC\"\t1\n"
	assert.Equal(t, expected, out)
}

func TestSuggestCommandWithCriterion(t *testing.T) {
	catalogPath := writeFile(t, "combos.tsv", testCatalog)

	out, _, err := execute(t, "--format", "json", "suggest", "--catalog", catalogPath, "--criterion", `Region=="hipp"`)
	require.NoError(t, err)

	_, data := decodeResponse(t, out)
	assert.Equal(t, `((Region=="hipp"))`, data["query"])
	assert.Equal(t, []any{"c1"}, data["survivors"])
	assert.Equal(t, []any{}, data["options"])
}

func TestOptionsCommand(t *testing.T) {
	catalogPath := writeFile(t, "combos.tsv", testCatalog)

	out, _, err := execute(t, "options", "--catalog", catalogPath)
	require.NoError(t, err)
	assert.Equal(t, "Region: cortex, hipp\nStress.protocol: 30_min_RS, CFC, acute, control\n", out)

	out, _, err = execute(t, "options", "--catalog", catalogPath, "--exclude", "Stress.protocol")
	require.NoError(t, err)
	assert.Equal(t, "Region: cortex, hipp\n", out)
}

func TestValidateCommand(t *testing.T) {
	catalogPath := writeFile(t, "combos.tsv", testCatalog)

	out, _, err := execute(t, "validate", "--catalog", catalogPath)
	require.NoError(t, err)
	assert.Equal(t, "✓ catalog is valid\n", out)
}

func TestValidateCommandReportsAllProblems(t *testing.T) {
	content := testCatalog +
		"c1\tPRJ3\tRegion==\"x\"\tStress.protocol\tRegion|Stress.protocol\n" +
		"broken line\n"
	catalogPath := writeFile(t, "combos.tsv", content)

	_, errOut, err := execute(t, "validate", "--catalog", catalogPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, errOut, `duplicate combination id "c1" (first on line 1)`)
	assert.Contains(t, errOut, "line 5")
	assert.Contains(t, errOut, "2 problem(s) found")

	out, _, err := execute(t, "--format", "json", "validate", "--catalog", catalogPath)
	require.Error(t, err)
	_, data := decodeResponse(t, out)
	assert.Equal(t, false, data["valid"])
	assert.Len(t, data["errors"], 2)
}

func TestValidateCommandMissingFile(t *testing.T) {
	_, _, err := execute(t, "validate", "--catalog", filepath.Join(t.TempDir(), "nope.tsv"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestImportAndSelectFromStore(t *testing.T) {
	catalogPath := writeFile(t, "combos.tsv", testCatalog)
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	out, _, err := execute(t, "import", "--catalog", catalogPath, "--db", dbPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "imported 3 record(s) as "), out)
	assert.Contains(t, out, "(seq 1)")

	out, _, err = execute(t, "select", "--db", dbPath, `Region=="hipp"`)
	require.NoError(t, err)
	firstLine, _, _ := strings.Cut(testCatalog, "\n")
	assert.Equal(t, firstLine+"\n", out)

	// A second import becomes the one readers see.
	narrowed := writeFile(t, "narrowed.tsv", strings.SplitAfter(testCatalog, "\n")[1])
	out, _, err = execute(t, "--format", "json", "import", "--catalog", narrowed, "--db", dbPath)
	require.NoError(t, err)
	_, data := decodeResponse(t, out)
	assert.Equal(t, float64(2), data["seq"])
	assert.Equal(t, float64(1), data["record_count"])
	assert.Len(t, data["digest"], 64)

	_, _, err = execute(t, "select", "--db", dbPath, `Region=="hipp"`)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	out, _, err = execute(t, "select", "--db", dbPath, `Region=="cortex"`)
	require.NoError(t, err)
	assert.Equal(t, "c2", firstField(out))
}

func TestImportCommandMalformedCatalog(t *testing.T) {
	catalogPath := writeFile(t, "combos.tsv", testCatalog+"broken line\n")
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	_, errOut, err := execute(t, "import", "--catalog", catalogPath, "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, errOut, "E_MALFORMED_CATALOG")

	// Nothing was committed.
	_, errOut, err = execute(t, "select", "--db", dbPath, `Region=="hipp"`)
	require.Error(t, err)
	assert.Contains(t, errOut, "no catalog imports")
}

func TestImportCommandNeedsBothPaths(t *testing.T) {
	_, errOut, err := execute(t, "import", "--catalog", "combos.tsv")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, errOut, "--db")
}

const testScenario = `name: hipp
description: "hippocampus selection"
catalog:
  - id: c1
    bioproject: PRJ1
    condition: '(Region=="hipp") & (Stress.protocol=="control" | Stress.protocol=="30_min_RS")'
    covariate: Stress.protocol
    dimensions: [Region, Stress.protocol]
cases:
  - name: hipp
    mode: select
    query: 'Region=="hipp"'
    expect:
      selected: [c1]
`

func writeScenarioDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hipp.yaml"), []byte(testScenario), 0644))
	return dir
}

func TestTestCommand(t *testing.T) {
	dir := writeScenarioDir(t)

	out, _, err := execute(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ hipp")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommandGoldenRoundTrip(t *testing.T) {
	dir := writeScenarioDir(t)
	goldenPath := filepath.Join(dir, "golden", "hipp.golden")

	out, _, err := execute(t, "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "(golden updated)")

	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Equal(t, `{"outcomes":[{"mode":"select","name":"hipp","selected":["c1"]}],"scenario":"hipp"}`, string(golden))

	_, _, err = execute(t, "test", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(goldenPath, []byte(`{}`), 0644))
	out, _, err = execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "do not match golden file")
}

func TestTestCommandFailingExpectation(t *testing.T) {
	dir := t.TempDir()
	failing := strings.Replace(testScenario, "selected: [c1]", "selected: [c9]", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hipp.yaml"), []byte(failing), 0644))

	out, _, err := execute(t, "--format", "json", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp, data := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, float64(1), data["failed"])
}

func TestTestCommandFilter(t *testing.T) {
	dir := writeScenarioDir(t)

	out, _, err := execute(t, "test", dir, "--filter", "other*")
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommandMissingDir(t *testing.T) {
	_, errOut, err := execute(t, "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, errOut, "scenarios directory not found")
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, _, err := execute(t, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}
