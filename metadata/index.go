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

// package metadata folds the per-file rows of a metadata table into one
// de-duplicated row per final output sample, following a validated
// treatment template. Divergent values are never fatal: they are combined
// anyway and flagged in a warning record, because whether divergence is
// expected (lanes, replicates) is domain knowledge the tool cannot have.

package metadata

import (
	"sort"
	"strings"

	"github.com/tbcgit/omdctk/table"
	"github.com/tbcgit/omdctk/template"
)

type Error string

func (e Error) Error() string { return string(e) }

// Index finds the metadata table rows that belong to a fastq file or sample
// identifier. Strategies differ in how the join key is interpreted; all
// return row positions within the same table.
type Index interface {
	Find(key string) []int
}

// SubstringIndex matches keys by substring search inside a delimited
// URL/path column, the join ENA metadata calls for: a fastq_ftp cell holds
// one or more URLs whose basenames are the file names.
type SubstringIndex struct {
	values []string
}

// NewSubstringIndex indexes the named column of the table for substring
// lookups.
func NewSubstringIndex(t *table.Table, column string) (*SubstringIndex, error) {
	values, err := t.Column(column)
	if err != nil {
		return nil, err
	}

	return &SubstringIndex{values: values}, nil
}

// Find returns the rows whose indexed cell contains the key.
func (ix *SubstringIndex) Find(key string) []int {
	var rows []int

	for i, value := range ix.values {
		if strings.Contains(value, key) {
			rows = append(rows, i)
		}
	}

	return rows
}

// ExactIndex matches keys against an explicit common column, pre-split and
// hash-mapped, for metadata tables that share a plain identifier column
// with the treatment template.
type ExactIndex struct {
	byValue map[string][]int
}

// NewExactIndex indexes the named column of the table for exact lookups.
func NewExactIndex(t *table.Table, column string) (*ExactIndex, error) {
	values, err := t.Column(column)
	if err != nil {
		return nil, err
	}

	byValue := make(map[string][]int, len(values))
	for i, value := range values {
		byValue[value] = append(byValue[value], i)
	}

	return &ExactIndex{byValue: byValue}, nil
}

// Find returns the rows whose indexed cell equals the key.
func (ix *ExactIndex) Find(key string) []int {
	return ix.byValue[key]
}

// CheckTemplateMatches confirms every fastq file named by the template has
// exactly one row in the indexed metadata. Files with zero or multiple
// matches are collected and reported together as one error.
func CheckTemplateMatches(tmpl *template.Template, ix Index) error {
	return CheckFileMatches(tmpl.FileNames(), ix)
}

// CheckFileMatches confirms every given fastq file name has exactly one row
// in the indexed metadata. Files with zero or multiple matches are collected
// and reported together as one error.
func CheckFileMatches(fileNames []string, ix Index) error {
	var v template.Violations

	for _, name := range fileNames {
		switch n := len(ix.Find(name)); {
		case n == 0:
			v.Add(template.RuleNoMetadataMatch, name)
		case n > 1:
			v.Add(template.RuleMultiMetadataMatch, name)
		}
	}

	return v.OrNil()
}

// CheckSampleMatches confirms every sample named by the template has at
// least one row in the indexed metadata. Several rows per sample is normal
// when joining by sample name, so only absence is a violation; missing
// samples are collected and reported together as one error.
func CheckSampleMatches(tmpl *template.Template, ix Index) error {
	var v template.Violations

	for _, sample := range tmpl.Samples() {
		if len(ix.Find(sample.Name)) == 0 {
			v.Add(template.RuleNoMetadataMatch, sample.Name)
		}
	}

	return v.OrNil()
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]bool, len(values))

	var unique []string

	for _, value := range values {
		if !seen[value] {
			seen[value] = true
			unique = append(unique, value)
		}
	}

	sort.Strings(unique)

	return unique
}
