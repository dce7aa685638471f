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

// Rules name the template checks a Violation can break. They double as the
// headline of the error report for that group of offenders.
const (
	RuleMissingColumn      = "missing required column"
	RuleEmptySampleName    = "empty sample_name"
	RuleEmptyFileName      = "empty fastq_file_name"
	RuleInvalidFastqType   = "invalid fastq_type value"
	RuleInvalidTreatment   = "invalid treatment value"
	RuleDuplicateFileName  = "duplicate fastq_file_name"
	RuleNameTypeMismatch   = "fastq file name does not match its fastq_type pattern"
	RuleMixedTreatments    = "sample has mixed treatments"
	RuleRenameShape        = "sample file configuration not valid for rename"
	RuleMergeShape         = "sample file configuration not valid for merge"
	RuleMissingFile        = "fastq file not present in the input directory"
	RuleNoMetadataMatch    = "fastq file has no match in the metadata table"
	RuleMultiMetadataMatch = "fastq file has more than one match in the metadata table"
)

// Violation is one problem found while checking a treatment template: the
// rule that was broken, the offending subject (a file, sample or column
// name) and optional detail.
type Violation struct {
	Rule    string
	Subject string
	Detail  string
}

// Violations accumulates every problem found during a checking pass, so a
// whole template can be fixed in one edit cycle rather than one failure at
// a time.
type Violations []Violation

// Add records a violation.
func (v *Violations) Add(rule, subject string) {
	*v = append(*v, Violation{Rule: rule, Subject: subject})
}

// Addf records a violation with detail about the offending value.
func (v *Violations) Addf(rule, subject, detail string) {
	*v = append(*v, Violation{Rule: rule, Subject: subject, Detail: detail})
}

// OrNil returns the accumulated violations as an error, or nil if there were
// none. Use this as a checking function's return value.
func (v Violations) OrNil() error {
	if len(v) == 0 {
		return nil
	}

	return v
}

// Error formats the complete list of offenders, grouped by the rule they
// broke and in the order the rules were first hit.
func (v Violations) Error() string {
	var (
		order  []string
		groups = make(map[string][]string)
	)

	for _, violation := range v {
		subject := violation.Subject
		if violation.Detail != "" {
			subject += " (" + violation.Detail + ")"
		}

		if _, seen := groups[violation.Rule]; !seen {
			order = append(order, violation.Rule)
		}

		groups[violation.Rule] = append(groups[violation.Rule], subject)
	}

	lines := make([]string, 0, len(order)+1)
	lines = append(lines, "treatment template check failed:")

	for _, rule := range order {
		lines = append(lines, " - "+rule+": "+strings.Join(groups[rule], ", "))
	}

	return strings.Join(lines, "\n")
}
