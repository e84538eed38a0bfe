package condition

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Structural tokens.
const (
	TokenOpen  = "("
	TokenClose = ")"
	TokenAnd   = "&"
	TokenOr    = "|"
)

// Tokenize splits a condition into clause bodies and the structural tokens
// ( ) & |. Structural characters are kept as their own tokens; pieces that
// are empty or whitespace-only are dropped and the rest are trimmed.
//
// Text is NFC normalized first so that composed and decomposed spellings of
// the same value produce identical clauses.
//
// There is no escaping: a clause value containing ( ) & or | is split apart.
func Tokenize(text string) []string {
	text = norm.NFC.String(text)

	var tokens []string
	var piece strings.Builder

	flush := func() {
		if s := strings.TrimSpace(piece.String()); s != "" {
			tokens = append(tokens, s)
		}
		piece.Reset()
	}

	for _, r := range text {
		switch r {
		case '(', ')', '&', '|':
			flush()
			tokens = append(tokens, string(r))
		default:
			piece.WriteRune(r)
		}
	}
	flush()

	return tokens
}
