package catalog

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
)

// maxLineSize bounds a single catalog line. Conditions over many levels can
// exceed bufio's 64KiB default.
const maxLineSize = 1 << 20

// Read returns a lazy sequence over the records in r.
//
// Blank lines are not records. A malformed line yields a
// *MalformedRecordError and the sequence continues if the consumer keeps
// ranging; a read error is yielded once and ends the sequence.
func Read(r io.Reader) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := scanner.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			if !yield(ParseRecord(line, lineNo)) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(Record{}, fmt.Errorf("read catalog after line %d: %w", lineNo, err))
		}
	}
}

// Open returns a lazy sequence over the records of the catalog file at path.
// The file is opened when iteration starts and closed when it ends; an open
// failure is yielded as the sequence's only element.
func Open(path string) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield(Record{}, fmt.Errorf("open catalog: %w", err))
			return
		}
		defer f.Close()

		for rec, err := range Read(f) {
			if !yield(rec, err) {
				return
			}
		}
	}
}

// FromRecords adapts an in-memory slice to the sequence form used by the
// selector.
func FromRecords(records []Record) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for _, rec := range records {
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Collect drains seq, stopping at the first error.
func Collect(seq iter.Seq2[Record, error]) ([]Record, error) {
	var records []Record
	for rec, err := range seq {
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
