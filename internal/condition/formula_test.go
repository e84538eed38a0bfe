package condition

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	clauseA = MustClause(`Region=="hipp"`)
	clauseB = MustClause(`Stress.protocol=="control"`)
	clauseC = MustClause(`Stress.protocol=="30_min_RS"`)
	clauseD = MustClause(`Time from stress.h=="1"`)
)

func TestFormula_ImplementsFormula(t *testing.T) {
	var f Formula = And(clauseA, Or(clauseB, clauseC))

	// Sealed interface - can type switch exhaustively
	switch f.(type) {
	case Binary:
		// Expected
	case Clause:
		t.Fatal("unexpected type")
	}
}

func TestLeaves_LeftToRightOrder(t *testing.T) {
	f := Or(And(clauseA, clauseB), And(clauseC, clauseD))

	leaves := Leaves(f)
	require.Len(t, leaves, 4)
	assert.Equal(t, []Clause{clauseA, clauseB, clauseC, clauseD}, leaves)
}

func TestLeaves_SingleClause(t *testing.T) {
	assert.Equal(t, []Clause{clauseA}, Leaves(clauseA))
}

func TestLeafKeys(t *testing.T) {
	keys := LeafKeys(And(clauseA, Or(clauseB, clauseC)))
	assert.Equal(t, map[string]struct{}{"Region": {}, "Stress.protocol": {}}, keys)
}

func TestLength(t *testing.T) {
	testCases := []struct {
		name     string
		formula  Formula
		expected int
	}{
		{"clause", clauseA, 1},
		{"flat binary", And(clauseA, clauseB), 3},
		{"binary left child", Or(And(clauseA, clauseB), clauseC), 7},
		{"binary right child", And(clauseA, Or(clauseB, clauseC)), 7},
		{"both children binary", Or(And(clauseA, clauseB), And(clauseC, clauseD)), 11},
		{"deep left", And(And(And(clauseA, clauseB), clauseC), clauseD), 11},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Length(tc.formula))
			assert.Equal(t, tc.expected, len(Tokenize(tc.formula.String())),
				"length must equal the token count of the serialized form")
		})
	}
}

func TestString(t *testing.T) {
	f := And(clauseA, Or(clauseB, clauseC))
	assert.Equal(t, `Region=="hipp" & (Stress.protocol=="control" | Stress.protocol=="30_min_RS")`, f.String())

	g := Or(And(clauseA, clauseB), clauseC)
	assert.Equal(t, `(Region=="hipp" & Stress.protocol=="control") | Stress.protocol=="30_min_RS"`, g.String())
}

func TestTree(t *testing.T) {
	f := And(clauseA, Or(clauseB, clauseC))

	expected := "\t" + `Region=="hipp"` + "\n" +
		"&\n" +
		"\t\t" + `Stress.protocol=="control"` + "\n" +
		"\t|\n" +
		"\t\t" + `Stress.protocol=="30_min_RS"`
	assert.Equal(t, expected, Tree(f))
	assert.Equal(t, `Region=="hipp"`, Tree(clauseA))
}

func TestConjunction(t *testing.T) {
	assert.Equal(t, "", Conjunction())
	assert.Equal(t, `((Region=="hipp"))`, Conjunction(`Region=="hipp"`))
	assert.Equal(t,
		`((Region=="hipp") & (Stress.protocol=="30_min_RS"))`,
		Conjunction(`Region=="hipp"`, ` Stress.protocol=="30_min_RS" `))

	f, err := Parse(Conjunction(`Region=="hipp"`, `Stress.protocol=="30_min_RS"`))
	require.NoError(t, err)
	assert.Equal(t, And(clauseA, clauseC), f)
}

// randomFormula builds a random tree with at most depth levels of nesting.
func randomFormula(r *rand.Rand, depth int) Formula {
	if depth == 0 || r.IntN(3) == 0 {
		op := operators[r.IntN(len(operators))]
		return MustClause(fmt.Sprintf(`k%d%s"v%d"`, r.IntN(4), op, r.IntN(5)))
	}
	left := randomFormula(r, depth-1)
	right := randomFormula(r, depth-1)
	if r.IntN(2) == 0 {
		return And(left, right)
	}
	return Or(left, right)
}

func TestRoundTrip_RandomTrees(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 1337))

	for i := 0; i < 500; i++ {
		f := randomFormula(r, 4)
		text := f.String()

		parsed, err := Parse(text)
		require.NoError(t, err, "formula %d: %s", i, text)
		assert.Equal(t, f, parsed, "formula %d: %s", i, text)
		assert.Equal(t, Leaves(f), Leaves(parsed))
	}
}

func TestLength_MatchesConsumedTokens(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 500; i++ {
		f := randomFormula(r, 4)
		tokens := Tokenize(f.String())

		_, next, err := ParseTokens(tokens, 0)
		require.NoError(t, err)
		assert.Equal(t, Length(f), next, "formula %d: %s", i, f)
		assert.Equal(t, len(tokens), Length(f))
	}
}
