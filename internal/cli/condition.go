package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/condsel/internal/condition"
)

// NewTokenizeCommand creates the tokenize command.
func NewTokenizeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize <condition>",
		Short: "Split a condition into tokens",
		Long: `Split a condition into clause bodies and the structural tokens ( ) & |.

Prints one token per line, or a JSON array with --format json.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			tokens := condition.Tokenize(args[0])
			if tokens == nil {
				tokens = []string{}
			}

			if f.JSON() {
				return f.Success(map[string]any{"tokens": tokens})
			}
			for _, tok := range tokens {
				fmt.Fprintln(f.Writer, tok)
			}
			return nil
		},
	}
}

// ParseResult is the JSON payload of the parse command.
type ParseResult struct {
	Canonical string       `json:"canonical"`
	Length    int          `json:"length"`
	Leaves    []LeafResult `json:"leaves"`
	Tree      string       `json:"tree"`
}

// LeafResult describes one clause of a parsed condition.
type LeafResult struct {
	Clause   string `json:"clause"`
	Key      string `json:"key"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <condition>",
		Short: "Parse a condition and show its structure",
		Long: `Parse a condition into a formula tree.

Operators of equal precedence fold left to right, so a & b | c groups as
(a & b) | c. Prints the canonical form, its token length, the clauses and
an indented tree.

Exit codes:
  0 - Condition parsed
  2 - Malformed condition`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			formula, err := condition.Parse(args[0])
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeMalformedQuery, err)
			}

			result := ParseResult{
				Canonical: formula.String(),
				Length:    condition.Length(formula),
				Tree:      condition.Tree(formula),
			}
			for _, leaf := range condition.Leaves(formula) {
				result.Leaves = append(result.Leaves, LeafResult{
					Clause:   leaf.Text(),
					Key:      leaf.Key(),
					Operator: string(leaf.Operator()),
					Value:    leaf.Value(),
				})
			}

			if f.JSON() {
				return f.Success(result)
			}

			w := f.Writer
			fmt.Fprintf(w, "canonical: %s\n", result.Canonical)
			fmt.Fprintf(w, "length: %d\n", result.Length)
			fmt.Fprintln(w, "leaves:")
			for _, leaf := range result.Leaves {
				fmt.Fprintf(w, "  %s %s %s\n", leaf.Key, leaf.Operator, leaf.Value)
			}
			fmt.Fprintln(w, "tree:")
			fmt.Fprintln(w, result.Tree)
			return nil
		},
	}
}
