package catalog

import (
	"errors"
	"fmt"
	"iter"

	"github.com/hashicorp/go-multierror"
)

// Validate checks every record of a catalog and reports all problems at once:
// malformed lines, conditions that do not parse, covariates missing from the
// dimension list and duplicate combination ids. A read error stops the scan
// and is reported along with the problems found so far.
func Validate(records iter.Seq2[Record, error]) error {
	var result *multierror.Error
	firstSeen := map[string]int{}

	for rec, err := range records {
		if err != nil {
			result = multierror.Append(result, err)
			if errors.Is(err, ErrMalformedRecord) {
				continue
			}
			break
		}

		if line, dup := firstSeen[rec.CombinationID]; dup {
			result = multierror.Append(result, &MalformedRecordError{
				LineNo:  rec.LineNo,
				Message: fmt.Sprintf("duplicate combination id %q (first on line %d)", rec.CombinationID, line),
			})
		} else {
			firstSeen[rec.CombinationID] = rec.LineNo
		}

		if !rec.HasDimension(rec.Covariate) {
			result = multierror.Append(result, &MalformedRecordError{
				LineNo:  rec.LineNo,
				Message: fmt.Sprintf("covariate %q is not among dimensions", rec.Covariate),
			})
		}

		if _, err := NewCandidate(rec).Formula(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}
