package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// fieldCount is the number of tab-separated columns in a catalog line.
const fieldCount = 5

// Record is one parsed catalog line.
type Record struct {
	CombinationID string
	Bioproject    string
	Condition     string // raw formula text
	Covariate     string
	Dimensions    []string // in catalog order

	// Line is the original catalog text without its line terminator.
	Line   string
	LineNo int
}

// ParseRecord parses a single catalog line. lineNo is only used for error
// reporting and is stored on the record.
func ParseRecord(line string, lineNo int) (Record, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(fields) != fieldCount {
		return Record{}, &MalformedRecordError{
			LineNo:  lineNo,
			Message: fmt.Sprintf("expected %d tab-separated fields, got %d", fieldCount, len(fields)),
		}
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	rec := Record{
		CombinationID: fields[0],
		Bioproject:    fields[1],
		Condition:     fields[2],
		Covariate:     fields[3],
		Line:          strings.TrimRight(line, "\r\n"),
		LineNo:        lineNo,
	}
	for _, dim := range strings.Split(fields[4], "|") {
		if dim = strings.TrimSpace(dim); dim != "" {
			rec.Dimensions = append(rec.Dimensions, dim)
		}
	}

	switch {
	case rec.CombinationID == "":
		return Record{}, &MalformedRecordError{LineNo: lineNo, Message: "empty combination id"}
	case rec.Condition == "":
		return Record{}, &MalformedRecordError{LineNo: lineNo, Message: "empty condition"}
	case rec.Covariate == "":
		return Record{}, &MalformedRecordError{LineNo: lineNo, Message: "empty covariate"}
	}

	return rec, nil
}

// Varied returns the record's dimensions other than its covariate, sorted
// and deduplicated.
func (r Record) Varied() []string {
	varied := make([]string, 0, len(r.Dimensions))
	for _, dim := range r.Dimensions {
		if dim != r.Covariate {
			varied = append(varied, dim)
		}
	}
	slices.Sort(varied)
	return slices.Compact(varied)
}

// Signature is the canonical form of Varied: sorted keys joined by "|".
// Two records are comparable on dimensions exactly when their signatures are
// equal.
func (r Record) Signature() string {
	return strings.Join(r.Varied(), "|")
}

// HasDimension reports whether key is one of the record's dimensions.
func (r Record) HasDimension(key string) bool {
	return slices.Contains(r.Dimensions, key)
}
