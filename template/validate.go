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

// Validate runs the per-file and per-sample checks that depend on the file
// name patterns: every file name must agree with its declared read-pair
// role, every sample must carry exactly one treatment, and every sample's
// file configuration must be one of its treatment's permitted shapes.
// Violations are accumulated across the whole template and returned
// together.
func (t *Template) Validate(p Patterns) error {
	var v Violations

	for _, row := range t.Rows {
		if !p.TypeMatchesName(row.FastqFileName, row.FastqType) {
			v.Addf(RuleNameTypeMismatch, row.FastqFileName, string(row.FastqType))
		}
	}

	for _, sample := range t.Samples() {
		validateSample(sample, &v)
	}

	return v.OrNil()
}

func validateSample(sample *Sample, v *Violations) {
	if len(sample.Treatments()) != 1 {
		v.Add(RuleMixedTreatments, sample.Name)

		return
	}

	tc := sample.TypeCounts()

	switch sample.Treatment() {
	case Rename:
		if !renameShapeOK(tc) {
			v.Addf(RuleRenameShape, sample.Name, tc.String())
		}
	case Merge:
		if !mergeShapeOK(tc) {
			v.Addf(RuleMergeShape, sample.Name, tc.String())
		}
	case Copy:
		// any shape is fine
	}
}

// renameShapeOK permits a pair of paired files with an optional orphan
// single file, or a lone single file: (1,1,1), (1,1,0) or (0,0,1).
func renameShapeOK(tc TypeCounts) bool {
	switch {
	case tc.Pair1 == 1 && tc.Pair2 == 1 && tc.Single <= 1:
		return true
	case tc.Pair1 == 0 && tc.Pair2 == 0 && tc.Single == 1:
		return true
	default:
		return false
	}
}

// mergeShapeOK permits balanced paired files, with or without an equal
// number of orphan singles, or singles only. More than one file per role
// must be present: (k,k,k), (k,k,0) or (0,0,k) with k>1.
func mergeShapeOK(tc TypeCounts) bool {
	switch {
	case tc.Pair1 > 1 && tc.Pair2 == tc.Pair1 && tc.Single == tc.Pair1:
		return true
	case tc.Pair1 > 1 && tc.Pair2 == tc.Pair1 && tc.Single == 0:
		return true
	case tc.Pair1 == 0 && tc.Pair2 == 0 && tc.Single > 1:
		return true
	default:
		return false
	}
}
