package match

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/condsel/internal/condition"
)

func clause(text string) condition.Clause {
	return condition.MustClause(text)
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("regex")
	require.NoError(t, err)
	assert.Equal(t, ModeRegex, mode)

	mode, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeLiteral, mode)

	_, err = ParseMode("fuzzy")
	assert.Error(t, err)
}

func TestNewMatcher_DefaultsToLiteral(t *testing.T) {
	assert.Equal(t, ModeLiteral, NewMatcher("").Mode())
}

func TestSatisfies(t *testing.T) {
	testCases := []struct {
		name     string
		mode     Mode
		subject  string
		test     string
		expected bool
	}{
		{"different keys are compatible", ModeLiteral, `Region=="hipp"`, `Stress.protocol=="control"`, true},
		{"equal values", ModeLiteral, `Region=="hipp"`, `Region=="hipp"`, true},
		{"different values", ModeLiteral, `Region=="hipp"`, `Region=="cortex"`, false},
		{"quotes ignored", ModeLiteral, `Region=="hipp"`, `Region==hipp`, true},
		{"literal is exact", ModeLiteral, `Region=="hippocampus"`, `Region=="hipp"`, false},
		{"literal escape hatch", ModeLiteral, `Region=="hippocampus"`, `Region=="/hipp/"`, true},
		{"escape hatch anchored at start", ModeLiteral, `Region=="dorsal_hipp"`, `Region=="/hipp/"`, false},
		{"regex prefix match", ModeRegex, `Region=="hippocampus"`, `Region=="hipp"`, true},
		{"regex alternation", ModeRegex, `Stress.protocol=="30_min_RS"`, `Stress.protocol=="control|30_min_RS"`, true},
		{"regex not anchored at end only", ModeRegex, `Region=="dorsal_hipp"`, `Region=="hipp"`, false},
		{"not equal true", ModeLiteral, `Region=="hipp"`, `Region!="cortex"`, true},
		{"not equal false", ModeLiteral, `Region=="hipp"`, `Region!="hipp"`, false},
		{"not equal regex", ModeRegex, `Region=="hippocampus"`, `Region!="hipp"`, false},
		{"less than", ModeLiteral, `Time=="0.5"`, "Time<1", true},
		{"less than false", ModeLiteral, `Time=="4"`, "Time<1", false},
		{"less or equal boundary", ModeLiteral, `Time=="1"`, "Time<=1", true},
		{"greater than", ModeLiteral, `Time=="4"`, "Time>1", true},
		{"greater or equal boundary", ModeLiteral, `Time=="1"`, "Time>=1", true},
		{"greater or equal false", ModeLiteral, `Time=="0.1666"`, "Time>=1", false},
		{"non-numeric subject", ModeLiteral, `Time=="control"`, "Time<1", false},
		{"ordering on other key", ModeLiteral, `Region=="hipp"`, "Time<1", true},
		{"non-eq subject identical", ModeLiteral, "Time<5", "Time<5", true},
		{"non-eq subject different", ModeLiteral, "Time<5", "Time<6", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMatcher(tc.mode)
			ok, err := m.Satisfies(clause(tc.subject), clause(tc.test))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ok)
		})
	}
}

func TestSatisfies_MalformedTestValue(t *testing.T) {
	testCases := []struct {
		name    string
		mode    Mode
		subject string
		test    string
	}{
		{"non-numeric bound", ModeLiteral, `Time=="1"`, `Time<"soon"`},
		{"invalid pattern regex mode", ModeRegex, `Region=="hipp"`, `Region=="hi[pp"`},
		{"invalid pattern escape hatch", ModeLiteral, `Region=="hipp"`, `Region=="/hi[pp/"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMatcher(tc.mode).Satisfies(clause(tc.subject), clause(tc.test))
			require.Error(t, err)
			assert.True(t, errors.Is(err, condition.ErrMalformedClause))
		})
	}
}

func TestSatisfies_MalformedValueIgnoredOnOtherKey(t *testing.T) {
	ok, err := Satisfies(clause(`Region=="hipp"`), clause(`Time<"soon"`))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEntails_CatalogScenario(t *testing.T) {
	candidate := condition.MustParse(`(Region=="hipp") & (Stress.protocol=="control" | Stress.protocol=="30_min_RS")`)

	ok, err := Entails(candidate, condition.MustParse(`Region=="hipp" & Stress.protocol=="30_min_RS"`))
	require.NoError(t, err)
	assert.True(t, ok, "hipp + 30_min_RS query should be compatible")

	ok, err = Entails(candidate, condition.MustParse(`Region=="cortex"`))
	require.NoError(t, err)
	assert.False(t, ok, "cortex query should be rejected")
}

func TestEntails_ClauseAgainstBinaryQuery(t *testing.T) {
	c := clause(`Region=="hipp"`)

	testCases := []struct {
		name     string
		query    string
		expected bool
	}{
		{"and both hold", `Region=="hipp" & Stress.protocol=="control"`, true},
		{"and one fails", `Region=="cortex" & Stress.protocol=="control"`, false},
		{"or one holds", `Region=="cortex" | Region=="hipp"`, true},
		{"or none holds", `Region=="cortex" | Region=="amygdala"`, false},
		{"unrelated keys", `Stress.protocol=="control" | Time<1`, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := Entails(c, condition.MustParse(tc.query))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ok)
		})
	}
}

func TestEntails_OperatorMismatchFallsThrough(t *testing.T) {
	// Neither operand alone is compatible with the AND query, and an OR
	// candidate never pairs with an AND query.
	candidate := condition.MustParse(`Region=="cortex" | Region=="amygdala"`)
	query := condition.MustParse(`Region=="hipp" & Stress.protocol=="control"`)

	ok, err := Entails(candidate, query)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEntails_PairwiseSameOperator(t *testing.T) {
	candidate := condition.MustParse(`Region=="hipp" | Region=="cortex"`)

	ok, err := Entails(candidate, condition.MustParse(`Region=="hipp" | Region=="cortex"`))
	require.NoError(t, err)
	assert.True(t, ok, "same order")

	ok, err = Entails(candidate, condition.MustParse(`Region=="cortex" | Region=="hipp"`))
	require.NoError(t, err)
	assert.True(t, ok, "swapped order")

	ok, err = Entails(candidate, condition.MustParse(`Region=="cortex" | Region=="amygdala"`))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEntails_Asymmetric(t *testing.T) {
	narrow := condition.MustParse(`Region=="hipp"`)
	wide := condition.MustParse(`Region=="hipp" & Region=="cortex"`)

	ok, err := Entails(wide, narrow)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Entails(narrow, condition.MustParse(`Region=="hipp" | Region=="cortex"`))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEntails_CommutativeAtOneLevel(t *testing.T) {
	a := clause(`Region=="hipp"`)
	b := clause(`Stress.protocol=="control"`)

	ok, err := Entails(condition.And(a, b), condition.And(b, a))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Entails(condition.Or(a, b), condition.Or(b, a))
	require.NoError(t, err)
	assert.True(t, ok)
}

func randomFormula(r *rand.Rand, depth int) condition.Formula {
	if depth == 0 || r.IntN(3) == 0 {
		ops := []condition.Operator{condition.OpEq, condition.OpEq, condition.OpNe, condition.OpLt, condition.OpGe}
		op := ops[r.IntN(len(ops))]
		return clause(fmt.Sprintf(`k%d%s"%d"`, r.IntN(3), op, r.IntN(4)))
	}
	left, right := randomFormula(r, depth-1), randomFormula(r, depth-1)
	if r.IntN(2) == 0 {
		return condition.And(left, right)
	}
	return condition.Or(left, right)
}

func TestEntails_Reflexive(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))

	for _, mode := range []Mode{ModeLiteral, ModeRegex} {
		m := NewMatcher(mode)
		for i := 0; i < 300; i++ {
			f := randomFormula(r, 4)
			ok, err := m.Entails(f, f)
			require.NoError(t, err)
			assert.True(t, ok, "%s mode: %s should be compatible with itself", mode, f)
		}
	}
}

func TestEntails_TypeMismatch(t *testing.T) {
	_, err := Entails(nil, clause("a==1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTypeMismatch))

	_, err = Entails(clause("a==1"), nil)
	require.Error(t, err)

	var tme *TypeMismatchError
	require.True(t, errors.As(err, &tme))
	assert.Equal(t, "query", tme.Role)
}

func TestEntails_PropagatesClauseErrors(t *testing.T) {
	_, err := Entails(clause(`Time=="1"`), condition.MustParse(`Time<"soon"`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, condition.ErrMalformedClause))
}

func TestMatcher_ConcurrentUse(t *testing.T) {
	m := NewMatcher(ModeRegex)
	candidate := condition.MustParse(`Region=="hippocampus" & Stress.protocol=="control"`)
	query := condition.MustParse(`Region=="hipp.*" & Stress.protocol=="con"`)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := m.Entails(candidate, query)
			assert.NoError(t, err)
			assert.True(t, ok)
		}()
	}
	wg.Wait()
}
