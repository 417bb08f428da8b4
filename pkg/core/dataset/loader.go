// Package dataset loads delimited customer files into records and derives
// simple column summaries for the overview view. The rest of the engine
// only sees an ordered slice of field-keyed records, so the originating
// format stays contained here.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"marketing_ai/pkg/models"
)

// Load parses CSV content into records. The first row is the header; every
// value is kept as a string and coerced lazily by the record accessors.
// Blank cells are dropped so field lookups treat them as absent.
func Load(r io.Reader) ([]models.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty dataset: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []models.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(records)+2, err)
		}

		rec := models.Record{}
		for i, col := range header {
			if i >= len(row) {
				break
			}
			val := strings.TrimSpace(row[i])
			if val == "" {
				continue
			}
			rec[col] = val
		}
		records = append(records, rec)
	}

	return records, nil
}

// ValueCount is one (value, occurrences) pair for a column.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ValueCounts tallies the distinct values of a column, most frequent first
// (ties broken alphabetically so the output is stable). Records lacking the
// column are skipped. A column nobody defines yields an empty list.
func ValueCounts(records []models.Record, column string) []ValueCount {
	tally := map[string]int{}
	for _, rec := range records {
		if v, ok := rec.Text(column); ok {
			tally[v]++
		}
	}

	out := make([]ValueCount, 0, len(tally))
	for v, c := range tally {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// Columns returns the union of field names across the record set, sorted.
func Columns(records []models.Record) []string {
	seen := map[string]bool{}
	for _, rec := range records {
		for k := range rec {
			seen[k] = true
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
