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

package template

import "strings"

const (
	DefaultFastqPattern = ".fastq.gz"
	DefaultR1Pattern    = "_1.fastq.gz"
	DefaultR2Pattern    = "_2.fastq.gz"

	ErrPatternPairedMismatch  = Error("a paired file pattern does not end with the fastq pattern")
	ErrPatternPairedIdentical = Error("the R1 and R2 file patterns are identical")
	ErrPatternPairedIsFastq   = Error("a paired file pattern is identical to the fastq pattern")
)

// Patterns holds the file name suffixes that identify fastq files and their
// read-pair roles. A file ending in R1 is a forward read, one ending in R2
// a reverse read, and any other file ending in Fastq an unpaired read.
type Patterns struct {
	Fastq string
	R1    string
	R2    string
}

// DefaultPatterns returns the conventional ENA suffixes: ".fastq.gz",
// "_1.fastq.gz" and "_2.fastq.gz".
func DefaultPatterns() Patterns {
	return Patterns{
		Fastq: DefaultFastqPattern,
		R1:    DefaultR1Pattern,
		R2:    DefaultR2Pattern,
	}
}

// Check confirms the three patterns are mutually consistent: both paired
// patterns must end with the fastq pattern, differ from each other, and
// differ from the fastq pattern itself. Call this once before any per-file
// work; an error here is a configuration problem, not a data problem.
func (p Patterns) Check() error {
	switch {
	case !strings.HasSuffix(p.R1, p.Fastq) || !strings.HasSuffix(p.R2, p.Fastq):
		return ErrPatternPairedMismatch
	case p.R1 == p.R2:
		return ErrPatternPairedIdentical
	case p.R1 == p.Fastq || p.R2 == p.Fastq:
		return ErrPatternPairedIsFastq
	default:
		return nil
	}
}

// Classify derives a file's read-pair role from its name by suffix match.
// Any name that matches neither paired pattern is classified Single.
func (p Patterns) Classify(fileName string) FastqType {
	switch {
	case strings.HasSuffix(fileName, p.R1):
		return Pair1
	case strings.HasSuffix(fileName, p.R2):
		return Pair2
	default:
		return Single
	}
}

// TypeMatchesName reports whether a file name agrees with its declared
// read-pair role. A Single file must end with the fastq pattern but with
// neither paired pattern.
func (p Patterns) TypeMatchesName(fileName string, t FastqType) bool {
	switch t {
	case Pair1:
		return strings.HasSuffix(fileName, p.R1)
	case Pair2:
		return strings.HasSuffix(fileName, p.R2)
	case Single:
		return strings.HasSuffix(fileName, p.Fastq) &&
			!strings.HasSuffix(fileName, p.R1) && !strings.HasSuffix(fileName, p.R2)
	default:
		return false
	}
}

// TypeSuffix returns the pattern associated with the given read-pair role,
// used to build output file names from sample names.
func (p Patterns) TypeSuffix(t FastqType) string {
	switch t {
	case Pair1:
		return p.R1
	case Pair2:
		return p.R2
	default:
		return p.Fastq
	}
}
