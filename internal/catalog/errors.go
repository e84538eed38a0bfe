package catalog

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord matches any *MalformedRecordError via errors.Is.
var ErrMalformedRecord = errors.New("malformed catalog record")

// MalformedRecordError reports a catalog line that is not a valid record.
type MalformedRecordError struct {
	LineNo  int
	Message string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("line %d: malformed catalog record: %s", e.LineNo, e.Message)
}

// Is reports whether target is ErrMalformedRecord.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// ConditionError reports a record whose condition column does not parse.
type ConditionError struct {
	CombinationID string
	LineNo        int
	Err           error
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("line %d: combination %s: %v", e.LineNo, e.CombinationID, e.Err)
}

func (e *ConditionError) Unwrap() error {
	return e.Err
}
