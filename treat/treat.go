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

// package treat executes a validated treatment template against a pair of
// file stores: merge concatenates a sample's files per read role, rename
// copies single files under sample-derived names, and copy takes files over
// unchanged. Structural problems are caught before any byte is written;
// per-file I/O failures are accumulated as warnings and never stop the run.

package treat

import (
	"io"
	"sort"

	"github.com/tbcgit/omdctk/template"
)

// Treater applies a treatment template's actions to the fastq files in an
// input store, writing the results to an output store.
type Treater struct {
	// Report, if set, is called once per output file with the input file
	// names that produced it. Useful for console progress.
	Report func(sample string, inputs []string, output string)

	tmpl     *template.Template
	patterns template.Patterns
	in, out  FileStore
}

// New returns a Treater for the given validated template. It confirms the
// two stores are distinct and that every file the template names is present
// in the input store; missing files are reported together as one error,
// before anything is written.
func New(tmpl *template.Template, p template.Patterns, in, out FileStore) (*Treater, error) {
	if in.Location() == out.Location() {
		return nil, ErrSameStore
	}

	if err := checkFilesPresent(tmpl, in, p.Fastq); err != nil {
		return nil, err
	}

	return &Treater{
		tmpl:     tmpl,
		patterns: p,
		in:       in,
		out:      out,
	}, nil
}

func checkFilesPresent(tmpl *template.Template, in FileStore, suffix string) error {
	present, err := in.List(suffix)
	if err != nil {
		return err
	}

	presentSet := make(map[string]bool, len(present))
	for _, name := range present {
		presentSet[name] = true
	}

	var missing []string

	for _, name := range tmpl.FileNames() {
		if !presentSet[name] {
			missing = append(missing, name)
		}
	}

	sort.Strings(missing)

	var v template.Violations
	for _, name := range missing {
		v.Add(template.RuleMissingFile, name)
	}

	return v.OrNil()
}

// Summary reports what a Run did: how many samples and files went in, how
// many fastq files the output store holds afterwards, and which samples had
// files that could not be treated.
type Summary struct {
	Samples        int
	FilesIn        int
	FilesOut       int
	WarningSamples []string
}

// Run treats every sample in the template. A file operation failing marks
// its sample as a warning sample and the run carries on; the returned error
// is only non-nil when the output store cannot be listed for the summary.
func (t *Treater) Run() (*Summary, error) {
	samples := t.tmpl.Samples()

	summary := &Summary{
		Samples: len(samples),
		FilesIn: len(t.tmpl.Rows),
	}

	warned := make(map[string]bool)

	for _, sample := range samples {
		ok := t.treatSample(sample)
		if !ok && !warned[sample.Name] {
			warned[sample.Name] = true
			summary.WarningSamples = append(summary.WarningSamples, sample.Name)
		}
	}

	produced, err := t.out.List(t.patterns.Fastq)
	if err != nil {
		return nil, err
	}

	summary.FilesOut = len(produced)

	return summary, nil
}

func (t *Treater) treatSample(sample *template.Sample) bool {
	switch sample.Treatment() {
	case template.Merge:
		return t.mergeSample(sample)
	case template.Rename:
		return t.renameSample(sample)
	default:
		return t.copySample(sample)
	}
}

// mergeSample concatenates the sample's files per read role, in
// filename-sorted order, into one output file per role present. The three
// roles are independent jobs; one failing does not stop the others.
func (t *Treater) mergeSample(sample *template.Sample) bool {
	ok := true

	for _, fastqType := range sample.FastqTypes() {
		inputs := sample.FilesOfType(fastqType)
		output := sample.Name + t.patterns.TypeSuffix(fastqType)

		t.report(sample.Name, inputs, output)

		if err := t.concat(inputs, output); err != nil {
			ok = false
		}
	}

	return ok
}

// renameSample copies each of the sample's files under a new name derived
// from the sample name and the file's role suffix.
func (t *Treater) renameSample(sample *template.Sample) bool {
	ok := true

	for _, row := range sample.Rows {
		output := sample.Name + t.patterns.TypeSuffix(row.FastqType)

		t.report(sample.Name, []string{row.FastqFileName}, output)

		if err := t.copyFile(row.FastqFileName, output); err != nil {
			ok = false
		}
	}

	return ok
}

// copySample copies each of the sample's files unchanged. Files are
// independent; one failing does not block the others.
func (t *Treater) copySample(sample *template.Sample) bool {
	ok := true

	for _, row := range sample.Rows {
		t.report(sample.Name, []string{row.FastqFileName}, row.FastqFileName)

		if err := t.copyFile(row.FastqFileName, row.FastqFileName); err != nil {
			ok = false
		}
	}

	return ok
}

func (t *Treater) report(sample string, inputs []string, output string) {
	if t.Report != nil {
		t.Report(sample, inputs, output)
	}
}

func (t *Treater) copyFile(src, dst string) error {
	return t.concat([]string{src}, dst)
}

// concat appends the given input files, byte for byte, into one output
// file. Raw appending keeps gzip members intact, so it works for both
// compressed and uncompressed fastqs.
func (t *Treater) concat(srcs []string, dst string) error {
	out, err := t.out.Create(dst)
	if err != nil {
		return err
	}

	for _, src := range srcs {
		if err = t.appendFile(out, src); err != nil {
			out.Close()

			return err
		}
	}

	return out.Close()
}

func (t *Treater) appendFile(out io.Writer, src string) error {
	in, err := t.in.Open(src)
	if err != nil {
		return err
	}

	defer in.Close()

	_, err = io.Copy(out, in)

	return err
}
