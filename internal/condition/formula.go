package condition

import (
	"fmt"
	"strings"
)

// Formula is a condition expression tree.
//
// This is a sealed interface - only Clause and Binary implement it, which
// keeps type switches over Formula exhaustive.
type Formula interface {
	formulaNode() // Marker method - seals interface to this package
	String() string
}

// Connective joins the two operands of a Binary node.
type Connective string

const (
	OpAnd Connective = TokenAnd
	OpOr  Connective = TokenOr
)

// Binary is an AND / OR node. Both operands are always non-nil.
type Binary struct {
	Op    Connective
	Left  Formula
	Right Formula
}

func (Binary) formulaNode() {}

// And builds left & right.
func And(left, right Formula) Binary {
	return Binary{Op: OpAnd, Left: left, Right: right}
}

// Or builds left | right.
func Or(left, right Formula) Binary {
	return Binary{Op: OpOr, Left: left, Right: right}
}

// String serializes the node so that Parse(String()) rebuilds the same tree.
// Binary operands are parenthesised, clause operands are not.
func (b Binary) String() string {
	return operand(b.Left) + " " + string(b.Op) + " " + operand(b.Right)
}

func operand(f Formula) string {
	if _, ok := f.(Binary); ok {
		return TokenOpen + f.String() + TokenClose
	}
	return f.String()
}

// Leaves returns every clause of f in left-to-right order.
func Leaves(f Formula) []Clause {
	var out []Clause
	var walk func(Formula)
	walk = func(f Formula) {
		switch n := f.(type) {
		case Clause:
			out = append(out, n)
		case Binary:
			walk(n.Left)
			walk(n.Right)
		}
	}
	walk(f)
	return out
}

// LeafKeys returns the set of keys constrained by the clauses of f.
func LeafKeys(f Formula) map[string]struct{} {
	keys := make(map[string]struct{})
	for _, c := range Leaves(f) {
		keys[c.Key()] = struct{}{}
	}
	return keys
}

// Length counts the tokens of f's serialized form.
//
// A clause has length 1. A binary node has the lengths of both operands plus
// one for its operator, plus two for each operand that is itself a binary
// node (the parentheses String wraps it in). For every formula,
// Length(f) == len(Tokenize(f.String())).
func Length(f Formula) int {
	switch n := f.(type) {
	case Clause:
		return 1
	case Binary:
		total := Length(n.Left) + Length(n.Right) + 1
		if _, ok := n.Left.(Binary); ok {
			total += 2
		}
		if _, ok := n.Right.(Binary); ok {
			total += 2
		}
		return total
	default:
		panic(fmt.Sprintf("condition: unknown formula node %T", f))
	}
}

// Tree renders f as an indented tree: operands one tab deeper than their
// operator, left operand above it and right operand below.
func Tree(f Formula) string {
	var buf strings.Builder
	writeTree(&buf, f, "")
	return buf.String()
}

func writeTree(buf *strings.Builder, f Formula, padding string) {
	switch n := f.(type) {
	case Clause:
		buf.WriteString(padding + n.Text())
	case Binary:
		writeTree(buf, n.Left, padding+"\t")
		buf.WriteString("\n" + padding + string(n.Op) + "\n")
		writeTree(buf, n.Right, padding+"\t")
	}
}

// Conjunction builds the query text for a set of individually chosen
// criteria: ((c1) & (c2) & ...). It returns "" when no criteria are given.
func Conjunction(criteria ...string) string {
	if len(criteria) == 0 {
		return ""
	}
	parts := make([]string, len(criteria))
	for i, c := range criteria {
		parts[i] = TokenOpen + strings.TrimSpace(c) + TokenClose
	}
	return TokenOpen + strings.Join(parts, " "+TokenAnd+" ") + TokenClose
}
