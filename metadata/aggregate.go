/*******************************************************************************
 * Copyright (c) 2025 the omdctk authors.
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package metadata

import (
	"sort"
	"strings"

	"github.com/tbcgit/omdctk/table"
	"github.com/tbcgit/omdctk/template"
)

// Column names of the treated metadata output table, before the folded
// metadata columns of interest.
const (
	ColFinalSampleName     = "final_files_sample_name"
	ColOriginalSampleNames = "original_files_sample_names"
	ColTreatmentSampleName = "treatment_sample_name"
	ColTreatmentFastqType  = "treatment_fastq_type"
)

// TreatedColumns are the provenance columns every treated metadata table
// starts with.
var TreatedColumns = []string{
	ColFinalSampleName, ColOriginalSampleNames, ColTreatmentSampleName, ColTreatmentFastqType,
}

// WarningColumns are the columns of a warning report table.
var WarningColumns = []string{"final_files_sample_name", "metadata_column_name", "warning"}

// WarningMessage explains a fold that collapsed more than one value for a
// column not declared as expected to diverge.
const WarningMessage = "more than one value detected after metadata combination " +
	"and this metadata column was not declared as a no-warning column"

// Join describes how template entries are matched against metadata rows.
type Join string

const (
	// JoinByFile matches fastq file names by substring inside the
	// indexed metadata column.
	JoinByFile Join = "fastq_file_name"

	// JoinBySample matches the final sample name exactly against the
	// indexed metadata column.
	JoinBySample Join = "sample_name"
)

// WarningRecord flags one metadata column of one output sample whose fold
// silently lost information.
type WarningRecord struct {
	FinalSampleName string
	Column          string
	Message         string
}

// Aggregator folds the rows of a metadata table into one row per final
// output sample, following a validated treatment template. Accumulators are
// per-Aggregator, so repeated runs never contaminate each other.
type Aggregator struct {
	// Template is the validated treatment template driving the fold.
	Template *template.Template

	// Metadata is the table whose rows are folded.
	Metadata *table.Table

	// Index locates the metadata rows belonging to a file or sample key.
	Index Index

	// Join selects how template entries are matched to metadata rows.
	Join Join

	// Columns are the metadata columns of interest to fold, in output
	// order.
	Columns []string

	// NoWarningColumns are columns where multiple distinct values are
	// expected and never warned about.
	NoWarningColumns []string

	// Names recovers original sample identifiers from file names.
	Names NameRule

	warnings []WarningRecord
}

// Run builds the treated metadata table: merge and rename samples produce
// one row each, copy samples one row per recoverable original sample name.
// Folds never fail; every silent collapse of divergent values is returned
// as a WarningRecord alongside the table.
func (a *Aggregator) Run() (*table.Table, []WarningRecord, error) {
	a.warnings = nil

	out := table.New(append(append([]string{}, TreatedColumns...), a.Columns...)...)

	for _, sample := range a.Template.Samples() {
		var err error

		if sample.Treatment() == template.Copy {
			err = a.copyRows(out, sample)
		} else {
			err = a.sampleRow(out, sample)
		}

		if err != nil {
			return nil, nil, err
		}
	}

	return out, a.warnings, nil
}

// sampleRow emits the single treated row for a merge or rename sample: all
// of the sample's files are one unit, and the original sample names they
// came from are recorded together.
func (a *Aggregator) sampleRow(out *table.Table, sample *template.Sample) error {
	rows := a.matchSample(sample)
	originals := a.Names.OriginalSampleNames(sample.FileNames())

	line := []string{
		sample.Name,
		strings.Join(originals, ";"),
		sample.Name,
		fastqTypes(sample),
	}

	return a.appendFolded(out, line, sample.Name, rows)
}

// copyRows emits one treated row per original sample name recoverable from
// a copy sample's file names; the template sample name is kept as
// provenance in treatment_sample_name.
func (a *Aggregator) copyRows(out *table.Table, sample *template.Sample) error {
	originals := a.Names.OriginalSampleNames(sample.FileNames())
	suffixes := a.Names.FileSuffixes(sample.FileNames())

	for _, original := range originals {
		rows := a.matchOriginal(sample, original, suffixes)

		line := []string{
			original,
			original,
			sample.Name,
			fastqTypes(sample),
		}

		if err := a.appendFolded(out, line, original, rows); err != nil {
			return err
		}
	}

	return nil
}

func (a *Aggregator) matchSample(sample *template.Sample) []int {
	if a.Join == JoinBySample {
		return a.Index.Find(sample.Name)
	}

	return findAny(a.Index, sample.FileNames())
}

func (a *Aggregator) matchOriginal(sample *template.Sample, original string, suffixes []string) []int {
	if a.Join == JoinBySample {
		return a.Index.Find(sample.Name)
	}

	candidates := make([]string, len(suffixes))
	for i, suffix := range suffixes {
		candidates[i] = original + suffix
	}

	return findAny(a.Index, candidates)
}

func (a *Aggregator) appendFolded(out *table.Table, line []string, finalName string, rows []int) error {
	for _, column := range a.Columns {
		folded, err := a.combine(finalName, column, rows)
		if err != nil {
			return err
		}

		line = append(line, folded)
	}

	out.Append(line...)

	return nil
}

// combine folds one metadata column across the selected rows: take the set
// of values, sort, join with semicolons. More than one distinct value for a
// column not in the no-warning list records a WarningRecord; the folded
// value is returned regardless.
func (a *Aggregator) combine(finalName, column string, rows []int) (string, error) {
	i, err := a.Metadata.ColumnIndex(column)
	if err != nil {
		return "", err
	}

	values := make([]string, len(rows))
	for v, row := range rows {
		values[v] = a.Metadata.Rows[row][i]
	}

	unique := uniqueSorted(values)

	if len(unique) > 1 && !a.noWarning(column) {
		a.warnings = append(a.warnings, WarningRecord{
			FinalSampleName: finalName,
			Column:          column,
			Message:         WarningMessage,
		})
	}

	return strings.Join(unique, ";"), nil
}

func (a *Aggregator) noWarning(column string) bool {
	for _, name := range a.NoWarningColumns {
		if name == column {
			return true
		}
	}

	return false
}

func fastqTypes(sample *template.Sample) string {
	types := sample.FastqTypes()

	strs := make([]string, len(types))
	for i, t := range types {
		strs[i] = string(t)
	}

	return strings.Join(strs, ";")
}

// findAny returns the rows matching any of the keys, each row at most once,
// in table order.
func findAny(ix Index, keys []string) []int {
	seen := make(map[int]bool)

	var rows []int

	for _, key := range keys {
		for _, row := range ix.Find(key) {
			if !seen[row] {
				seen[row] = true
				rows = append(rows, row)
			}
		}
	}

	sort.Ints(rows)

	return rows
}

// WarningTable converts warning records to a table ready for writing. An
// empty record list yields a table with headers only.
func WarningTable(records []WarningRecord) *table.Table {
	t := table.New(WarningColumns...)

	for _, record := range records {
		t.Append(record.FinalSampleName, record.Column, record.Message)
	}

	return t
}
