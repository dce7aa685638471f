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

	"github.com/tbcgit/omdctk/table"
	"github.com/tbcgit/omdctk/template"
)

// DefaultCandidateColumns are the ENA metadata columns most likely to hold a
// usable sample identifier, copied alongside skeleton rows so curators can
// pick sample names without cross-referencing the metadata by hand.
var DefaultCandidateColumns = []string{"run_accession", "sample_alias", "sample_title"}

// SkeletonBuilder builds an unfilled treatment template from a fastq
// directory listing and the metadata that describes the files. The curator
// fills in the treatment column, and the sample_name column where the
// metadata could not supply it, before validation.
type SkeletonBuilder struct {
	// Metadata is the table describing the fastq files.
	Metadata *table.Table

	// Index locates each file's metadata row.
	Index Index

	// Patterns classifies each file's read role.
	Patterns template.Patterns

	// SampleColumn, if set, names the metadata column whose value becomes
	// each row's sample_name. Left empty, sample_name stays blank for
	// manual entry.
	SampleColumn string

	// CandidateColumns are extra metadata columns copied alongside each
	// row, as hints for manual sample naming.
	CandidateColumns []string
}

// Build returns a template table with one row per fastq file, sorted by file
// name: the looked-up (or blank) sample name, the file name, its classified
// type, a blank treatment, then any candidate columns. Files with zero or
// multiple metadata matches are reported together as one error.
func (b *SkeletonBuilder) Build(fileNames []string) (*table.Table, error) {
	names := append([]string{}, fileNames...)
	sort.Strings(names)

	if err := CheckFileMatches(names, b.Index); err != nil {
		return nil, err
	}

	out := table.New(append(append([]string{}, template.RequiredColumns...), b.CandidateColumns...)...)

	for _, name := range names {
		row := b.Index.Find(name)[0]

		line := []string{
			b.cell(row, b.SampleColumn),
			name,
			string(b.Patterns.Classify(name)),
			"",
		}

		for _, column := range b.CandidateColumns {
			line = append(line, b.cell(row, column))
		}

		out.Append(line...)
	}

	return out, nil
}

// cell returns the named column's value on the given row, or "" when the
// column is unset or absent. Absence is not an error here: candidate
// columns are hints, and non-ENA metadata may lack some of them.
func (b *SkeletonBuilder) cell(row int, column string) string {
	if column == "" {
		return ""
	}

	i, err := b.Metadata.ColumnIndex(column)
	if err != nil {
		return ""
	}

	return b.Metadata.Rows[row][i]
}
