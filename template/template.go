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

// package template models the treatment template: the table describing, per
// source fastq file, which output sample it belongs to, its read-pair role,
// and which transformation (merge, copy or rename) to apply. All checks
// accumulate the complete list of offending rows before reporting, rather
// than stopping at the first.

package template

import (
	"sort"
	"strconv"

	"github.com/tbcgit/omdctk/table"
)

// Template column names.
const (
	ColSampleName    = "sample_name"
	ColFastqFileName = "fastq_file_name"
	ColFastqType     = "fastq_type"
	ColTreatment     = "treatment"
)

// RequiredColumns are the columns a treatment template table must have.
var RequiredColumns = []string{ColSampleName, ColFastqFileName, ColFastqType, ColTreatment}

// Row is one line of a treatment template: one source fastq file, the final
// output sample it contributes to, its read-pair role and its treatment.
type Row struct {
	SampleName    string
	FastqFileName string
	FastqType     FastqType
	Treatment     Treatment
}

// Template is an ordered collection of treatment template rows.
type Template struct {
	Rows []Row
}

// FromTable parses a treatment template out of a table, checking its
// structure as it goes: required columns present, enum values valid, sample
// and file names non-empty, and file names unique. On failure the returned
// error is a Violations listing every offending row.
func FromTable(t *table.Table) (*Template, error) {
	var v Violations

	if missing := t.MissingColumns(RequiredColumns...); len(missing) > 0 {
		for _, col := range missing {
			v.Add(RuleMissingColumn, col)
		}

		return nil, v
	}

	cells, err := t.Columns(RequiredColumns...)
	if err != nil {
		return nil, err
	}

	tmpl := &Template{Rows: make([]Row, 0, len(cells))}
	seen := make(map[string]bool, len(cells))

	for _, cell := range cells {
		sampleName, fileName := cell[0], cell[1]

		if sampleName == "" {
			v.Add(RuleEmptySampleName, fileName)
		}

		if fileName == "" {
			v.Add(RuleEmptyFileName, sampleName)
		} else if seen[fileName] {
			v.Add(RuleDuplicateFileName, fileName)
		}

		seen[fileName] = true

		fastqType, terr := StringToFastqType(cell[2])
		if terr != nil {
			v.Addf(RuleInvalidFastqType, fileName, cell[2])
		}

		treatment, terr := StringToTreatment(cell[3])
		if terr != nil {
			v.Addf(RuleInvalidTreatment, fileName, cell[3])
		}

		tmpl.Rows = append(tmpl.Rows, Row{
			SampleName:    sampleName,
			FastqFileName: fileName,
			FastqType:     fastqType,
			Treatment:     treatment,
		})
	}

	if err := v.OrNil(); err != nil {
		return nil, err
	}

	return tmpl, nil
}

// FileNames returns the fastq file names of every row, in template order.
func (t *Template) FileNames() []string {
	names := make([]string, len(t.Rows))

	for i, row := range t.Rows {
		names[i] = row.FastqFileName
	}

	return names
}

// Sample is the set of template rows sharing a sample name; it is derived
// from the template, not stored.
type Sample struct {
	Name string
	Rows []Row
}

// Samples partitions the template rows by sample name, returning the
// resulting groups sorted by name.
func (t *Template) Samples() []*Sample {
	bySample := make(map[string]*Sample)

	var names []string

	for _, row := range t.Rows {
		sample, ok := bySample[row.SampleName]
		if !ok {
			sample = &Sample{Name: row.SampleName}
			bySample[row.SampleName] = sample
			names = append(names, row.SampleName)
		}

		sample.Rows = append(sample.Rows, row)
	}

	sort.Strings(names)

	samples := make([]*Sample, len(names))
	for i, name := range names {
		samples[i] = bySample[name]
	}

	return samples
}

// Treatments returns the distinct treatment values observed across the
// sample's rows. A valid sample has exactly one.
func (s *Sample) Treatments() []Treatment {
	var treatments []Treatment

	seen := make(map[Treatment]bool)

	for _, row := range s.Rows {
		if !seen[row.Treatment] {
			seen[row.Treatment] = true
			treatments = append(treatments, row.Treatment)
		}
	}

	return treatments
}

// Treatment returns the sample's single treatment. Only meaningful after
// Validate() has confirmed the sample is not mixed-treatment.
func (s *Sample) Treatment() Treatment {
	return s.Rows[0].Treatment
}

// FileNames returns the sample's fastq file names, sorted.
func (s *Sample) FileNames() []string {
	names := make([]string, len(s.Rows))

	for i, row := range s.Rows {
		names[i] = row.FastqFileName
	}

	sort.Strings(names)

	return names
}

// FilesOfType returns the sample's fastq file names with the given read-pair
// role, sorted.
func (s *Sample) FilesOfType(t FastqType) []string {
	var names []string

	for _, row := range s.Rows {
		if row.FastqType == t {
			names = append(names, row.FastqFileName)
		}
	}

	sort.Strings(names)

	return names
}

// FastqTypes returns the distinct read-pair roles present in the sample,
// sorted.
func (s *Sample) FastqTypes() []FastqType {
	var types []FastqType

	seen := make(map[FastqType]bool)

	for _, row := range s.Rows {
		if !seen[row.FastqType] {
			seen[row.FastqType] = true
			types = append(types, row.FastqType)
		}
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// TypeCounts is the number of files a sample has in each read-pair role.
type TypeCounts struct {
	Pair1  int
	Pair2  int
	Single int
}

// TypeCounts tallies the sample's rows by read-pair role.
func (s *Sample) TypeCounts() TypeCounts {
	var tc TypeCounts

	for _, row := range s.Rows {
		switch row.FastqType {
		case Pair1:
			tc.Pair1++
		case Pair2:
			tc.Pair2++
		case Single:
			tc.Single++
		}
	}

	return tc
}

// String describes the counts the way they appear in check reports, eg.
// "pair1=2; pair2=2; single=0".
func (tc TypeCounts) String() string {
	return "pair1=" + strconv.Itoa(tc.Pair1) +
		"; pair2=" + strconv.Itoa(tc.Pair2) +
		"; single=" + strconv.Itoa(tc.Single)
}
