package condition

// Parse tokenizes and parses a condition.
//
// Returns *MalformedFormulaError when the tokens do not form exactly one
// complete expression and *MalformedClauseError when a leaf is not a clause.
func Parse(text string) (Formula, error) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil, &MalformedFormulaError{Index: 0, Message: "empty condition"}
	}

	f, next, err := ParseTokens(tokens, 0)
	if err != nil {
		return nil, err
	}
	if next < len(tokens) {
		msg := "unexpected token after complete expression"
		if tokens[next] == TokenClose {
			msg = "unmatched closing parenthesis"
		}
		return nil, &MalformedFormulaError{Index: next, Token: tokens[next], Message: msg}
	}
	return f, nil
}

// MustParse is Parse for literals known to be valid. It panics otherwise.
func MustParse(text string) Formula {
	f, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return f
}

// ParseTokens parses one expression starting at tokens[start] and returns it
// together with the index of the first token it did not consume.
//
// Parsing stops before a closing parenthesis or at the end of tokens; the
// caller decides whether stopping there is legal.
func ParseTokens(tokens []string, start int) (Formula, int, error) {
	left, i, err := parseOperand(tokens, start)
	if err != nil {
		return nil, i, err
	}

	for i < len(tokens) {
		var op Connective
		switch tokens[i] {
		case TokenAnd:
			op = OpAnd
		case TokenOr:
			op = OpOr
		case TokenClose:
			return left, i, nil
		default:
			return nil, i, &MalformedFormulaError{Index: i, Token: tokens[i], Message: "expected operator"}
		}

		var right Formula
		right, i, err = parseOperand(tokens, i+1)
		if err != nil {
			return nil, i, err
		}
		left = Binary{Op: op, Left: left, Right: right}
	}

	return left, i, nil
}

// parseOperand parses a clause or a parenthesised expression.
func parseOperand(tokens []string, i int) (Formula, int, error) {
	if i >= len(tokens) {
		return nil, i, &MalformedFormulaError{Index: i, Message: "unexpected end of condition"}
	}

	tok := tokens[i]
	switch tok {
	case TokenOpen:
		inner, next, err := ParseTokens(tokens, i+1)
		if err != nil {
			return nil, next, err
		}
		if next >= len(tokens) || tokens[next] != TokenClose {
			return nil, next, &MalformedFormulaError{Index: i, Token: tok, Message: "unmatched opening parenthesis"}
		}
		return inner, next + 1, nil
	case TokenClose, TokenAnd, TokenOr:
		return nil, i, &MalformedFormulaError{Index: i, Token: tok, Message: "expected clause or opening parenthesis"}
	}

	c, err := NewClause(tok)
	if err != nil {
		return nil, i, err
	}
	return c, i + 1, nil
}
