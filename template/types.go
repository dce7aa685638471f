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

type Error string

func (e Error) Error() string { return string(e) }

// FastqType is the read-pair role of a fastq file: forward read, reverse
// read, or unpaired read.
type FastqType string

const (
	Pair1               FastqType = "pair1"
	Pair2               FastqType = "pair2"
	Single              FastqType = "single"
	ErrInvalidFastqType           = Error("invalid fastq type")
)

// StringToFastqType converts a string to a FastqType.
func StringToFastqType(s string) (FastqType, error) {
	switch FastqType(s) {
	case Pair1:
		return Pair1, nil
	case Pair2:
		return Pair2, nil
	case Single:
		return Single, nil
	default:
		return "", ErrInvalidFastqType
	}
}

// Treatment is the transformation applied to a sample's fastq files: merge
// concatenates them per read role, rename copies them under sample-derived
// names, and copy takes them over unchanged.
type Treatment string

const (
	Merge               Treatment = "merge"
	Copy                Treatment = "copy"
	Rename              Treatment = "rename"
	ErrInvalidTreatment           = Error("invalid treatment")
)

// StringToTreatment converts a string to a Treatment.
func StringToTreatment(s string) (Treatment, error) {
	switch Treatment(s) {
	case Merge:
		return Merge, nil
	case Copy:
		return Copy, nil
	case Rename:
		return Rename, nil
	default:
		return "", ErrInvalidTreatment
	}
}
