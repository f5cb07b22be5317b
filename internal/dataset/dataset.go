// Package dataset loads the question/answer dataset and embeds its questions.
package dataset

import (
	"slices"

	"qabot/internal/domain"
)

// Dataset is the ordered, read-only collection of QA records. It is built
// once by Load (or New) and shared by reference afterwards.
type Dataset struct {
	records  []domain.QARecord
	contexts []string
}

// New wraps already-embedded records. The slice is copied.
func New(records []domain.QARecord) *Dataset {
	d := &Dataset{records: slices.Clone(records)}
	seen := make(map[string]struct{}, len(records))
	for _, r := range d.records {
		if _, ok := seen[r.Context]; ok {
			continue
		}
		seen[r.Context] = struct{}{}
		d.contexts = append(d.contexts, r.Context)
	}
	return d
}

// Empty returns a dataset with no records.
func Empty() *Dataset { return &Dataset{} }

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Records returns a copy of the records in source order.
func (d *Dataset) Records() []domain.QARecord {
	if d == nil {
		return nil
	}
	return slices.Clone(d.records)
}

// At returns the i-th record.
func (d *Dataset) At(i int) domain.QARecord { return d.records[i] }

// Questions returns every question in source order.
func (d *Dataset) Questions() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.records))
	for i, r := range d.records {
		out[i] = r.Question
	}
	return out
}

// Contexts returns the distinct contexts in order of first appearance.
func (d *Dataset) Contexts() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.contexts)
}
