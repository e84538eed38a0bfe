package catalog

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/condsel/internal/condition"
	"github.com/roach88/condsel/internal/match"
)

// Options configures a Selector.
type Options struct {
	// Bioproject restricts evaluation to one bioproject. Empty means all.
	Bioproject string

	// Control is the covariate baseline every comparable combination must
	// include. The zero value means DefaultControlLevel.
	Control ControlLevel

	// ExactSuggestControl makes suggestion mode use Control as is. By
	// default suggestion mode matches the control level as a prefix, so
	// variants such as "control_sham" count as baselines and are never
	// offered as criteria.
	ExactSuggestControl bool

	// Workers bounds concurrent record evaluation. Values below 1 mean 1.
	// Output order is catalog order regardless.
	Workers int

	// Matcher decides clause equality. Nil means a literal-mode matcher.
	Matcher *match.Matcher

	// Logger receives a debug entry for every skipped record. Nil means
	// slog.Default().
	Logger *slog.Logger
}

// Selector filters catalog records against a query.
type Selector struct {
	bioproject     string
	control        ControlLevel
	suggestControl ControlLevel
	workers    int
	matcher    *match.Matcher
	logger     *slog.Logger
}

// NewSelector creates a Selector, filling unset options with defaults.
func NewSelector(opts Options) *Selector {
	s := &Selector{
		bioproject: opts.Bioproject,
		control:    opts.Control,
		workers:    max(opts.Workers, 1),
		matcher:    opts.Matcher,
		logger:     opts.Logger,
	}
	if s.control.Value == "" {
		s.control.Value = DefaultControlLevel.Value
	}
	s.suggestControl = ControlLevel{Value: s.control.Value, Prefix: true}
	if opts.ExactSuggestControl {
		s.suggestControl = s.control
	}
	if s.matcher == nil {
		s.matcher = match.NewMatcher(match.ModeLiteral)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Pipeline builds the stages for query. A nil query skips the dimension and
// entailment stages. selection picks selection mode: dimension equality and
// the configured control level. Otherwise the pipeline is suggestion mode's,
// with subset dimensions and the suggestion control level.
func (s *Selector) Pipeline(query condition.Formula, selection bool) Pipeline {
	level := s.control
	if !selection {
		level = s.suggestControl
	}

	var p Pipeline
	if s.bioproject != "" {
		p = append(p, BioprojectStage(s.bioproject))
	}
	if query != nil {
		p = append(p, DimensionStage(query, selection))
	}
	p = append(p, ControlStage(level))
	if query != nil {
		p = append(p, EntailmentStage(s.matcher, query))
	}
	return p
}

// Select returns the records compatible with query, in catalog order.
func (s *Selector) Select(ctx context.Context, records iter.Seq2[Record, error], query condition.Formula) ([]Record, error) {
	survivors, err := s.filter(ctx, records, s.Pipeline(query, true))
	if err != nil {
		return nil, err
	}

	selected := make([]Record, len(survivors))
	for i, c := range survivors {
		selected[i] = c.Record
	}
	return selected, nil
}

type outcome struct {
	candidate *Candidate
	kept      bool
}

// filter runs every record through p and returns the kept candidates in input
// order. Records are evaluated by up to s.workers goroutines; each writes only
// its own outcome slot.
func (s *Selector) filter(ctx context.Context, records iter.Seq2[Record, error], p Pipeline) ([]*Candidate, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	var (
		outcomes []*outcome
		readErr  error
	)
	for rec, err := range records {
		if err != nil {
			readErr = err
			break
		}
		if gctx.Err() != nil {
			break
		}

		o := &outcome{candidate: NewCandidate(rec)}
		outcomes = append(outcomes, o)
		g.Go(func() error {
			kept, stage, err := p.Evaluate(o.candidate)
			if err != nil {
				return err
			}
			if !kept {
				s.logger.Debug("skipping combination",
					"combination", o.candidate.CombinationID,
					"line", o.candidate.LineNo,
					"stage", stage)
			}
			o.kept = kept
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if readErr != nil {
		return nil, readErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var kept []*Candidate
	for _, o := range outcomes {
		if o.kept {
			kept = append(kept, o.candidate)
		}
	}
	return kept, nil
}

// ParseQuery parses a user query. Blank text means no query and returns a
// nil formula.
func ParseQuery(text string) (condition.Formula, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	query, err := condition.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	return query, nil
}
