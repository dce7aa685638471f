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

import "strings"

// NameRule recovers original sample identifiers from fastq file names. A
// file name is assumed to be sample name + rest + fastq pattern; the sample
// name part ends at the SeparatorCount'th appearance of Separator.
//
// The rule is a heuristic: names containing extra separators before the cut
// point will be mis-split. This mirrors the behaviour curators rely on for
// ENA run accessions (eg. "SRR123_1.fastq.gz" with "_" x1 -> "SRR123").
type NameRule struct {
	Pattern        string
	Separator      string
	SeparatorCount int
}

// OriginalSampleNames returns the unique sample identifiers recoverable
// from the given file names, sorted.
func (r NameRule) OriginalSampleNames(fileNames []string) []string {
	names := make([]string, len(fileNames))

	for i, fileName := range fileNames {
		names[i] = r.sampleName(fileName)
	}

	return uniqueSorted(names)
}

// FileSuffixes returns the unique "rest + pattern" tails seen across the
// given file names, plus the bare pattern itself (single files are often
// named sample name + pattern with no tail at all). Prepending an original
// sample name to each gives that sample's possible file names.
func (r NameRule) FileSuffixes(fileNames []string) []string {
	suffixes := make([]string, 0, len(fileNames)+1)

	for _, fileName := range fileNames {
		rest := r.rest(fileName)
		suffixes = append(suffixes, r.Separator+rest+r.Pattern)
	}

	suffixes = append(suffixes, r.Pattern)

	return uniqueSorted(suffixes)
}

func (r NameRule) sampleName(fileName string) string {
	parts := r.split(fileName)
	if len(parts) <= r.SeparatorCount {
		return strings.Join(parts, r.Separator)
	}

	return strings.Join(parts[:r.SeparatorCount], r.Separator)
}

func (r NameRule) rest(fileName string) string {
	parts := r.split(fileName)
	if len(parts) <= r.SeparatorCount {
		return ""
	}

	return strings.Join(parts[r.SeparatorCount:], r.Separator)
}

func (r NameRule) split(fileName string) []string {
	return strings.Split(strings.TrimSuffix(fileName, r.Pattern), r.Separator)
}
