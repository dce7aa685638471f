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
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tbcgit/omdctk/table"
	"github.com/tbcgit/omdctk/template"
)

func row(sample, file string, ft template.FastqType, tr template.Treatment) template.Row {
	return template.Row{SampleName: sample, FastqFileName: file, FastqType: ft, Treatment: tr}
}

func enaMetadata() *table.Table {
	t := table.New("run_accession", "fastq_ftp", "library_strategy", "center_name", "sample_alias")
	t.Append("SRR1", "ftp.sra.example/SRR1_1.fastq.gz;ftp.sra.example/SRR1_2.fastq.gz",
		"WGS", "centre A", "aliceA")
	t.Append("SRR2", "ftp.sra.example/SRR2_1.fastq.gz;ftp.sra.example/SRR2_2.fastq.gz",
		"WGS", "centre B", "aliceB")

	return t
}

func TestIndexes(t *testing.T) {
	Convey("Given an ENA metadata table", t, func() {
		md := enaMetadata()

		Convey("A substring index finds rows by file name inside URL cells", func() {
			ix, err := NewSubstringIndex(md, "fastq_ftp")
			So(err, ShouldBeNil)
			So(ix.Find("SRR1_1.fastq.gz"), ShouldResemble, []int{0})
			So(ix.Find("SRR2_2.fastq.gz"), ShouldResemble, []int{1})
			So(ix.Find("SRR9.fastq.gz"), ShouldBeNil)
		})

		Convey("An exact index finds rows by cell equality", func() {
			ix, err := NewExactIndex(md, "run_accession")
			So(err, ShouldBeNil)
			So(ix.Find("SRR2"), ShouldResemble, []int{1})
			So(ix.Find("SRR"), ShouldBeNil)
		})

		Convey("Indexing a missing column fails", func() {
			_, err := NewSubstringIndex(md, "absent")
			So(err, ShouldEqual, table.ErrMissingColumn)
		})

		Convey("Template files with zero or many matches are all reported", func() {
			md.Append("SRR1b", "ftp.sra.example/SRR1_1.fastq.gz", "WGS", "centre A", "aliceA")

			ix, err := NewSubstringIndex(md, "fastq_ftp")
			So(err, ShouldBeNil)

			tmpl := &template.Template{Rows: []template.Row{
				row("s1", "SRR1_1.fastq.gz", template.Pair1, template.Merge),
				row("s1", "SRR9_1.fastq.gz", template.Pair1, template.Merge),
			}}

			err = CheckTemplateMatches(tmpl, ix)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, template.RuleMultiMetadataMatch)
			So(err.Error(), ShouldContainSubstring, "SRR1_1.fastq.gz")
			So(err.Error(), ShouldContainSubstring, template.RuleNoMetadataMatch)
			So(err.Error(), ShouldContainSubstring, "SRR9_1.fastq.gz")
		})

		Convey("Sample joins only need at least one row per sample", func() {
			ix, err := NewExactIndex(md, "run_accession")
			So(err, ShouldBeNil)

			tmpl := &template.Template{Rows: []template.Row{
				row("SRR1", "SRR1_1.fastq.gz", template.Pair1, template.Rename),
				row("missing", "x.fastq.gz", template.Single, template.Copy),
			}}

			err = CheckSampleMatches(tmpl, ix)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "missing")
			So(err.Error(), ShouldNotContainSubstring, "SRR1 ")
		})
	})
}

func TestNameRule(t *testing.T) {
	Convey("Given the default naming rule", t, func() {
		rule := NameRule{Pattern: ".fastq.gz", Separator: "_", SeparatorCount: 1}

		Convey("Original sample names are recovered from file names", func() {
			So(rule.OriginalSampleNames([]string{
				"SRR2_1.fastq.gz", "SRR1_1.fastq.gz", "SRR1_2.fastq.gz", "SRR3.fastq.gz",
			}), ShouldResemble, []string{"SRR1", "SRR2", "SRR3"})
		})

		Convey("File suffixes cover every observed tail plus the bare pattern", func() {
			So(rule.FileSuffixes([]string{"SRR1_1.fastq.gz", "SRR2_2.fastq.gz"}),
				ShouldResemble, []string{".fastq.gz", "_1.fastq.gz", "_2.fastq.gz"})
		})
	})

	Convey("More separators can be kept in the sample name", t, func() {
		rule := NameRule{Pattern: ".fastq.gz", Separator: "_", SeparatorCount: 2}

		So(rule.OriginalSampleNames([]string{"proj_a_1.fastq.gz", "proj_b_1.fastq.gz"}),
			ShouldResemble, []string{"proj_a", "proj_b"})
	})
}

func TestAggregator(t *testing.T) {
	rule := NameRule{Pattern: ".fastq.gz", Separator: "_", SeparatorCount: 1}

	Convey("Given ENA metadata and a merge template", t, func() {
		md := enaMetadata()

		ix, err := NewSubstringIndex(md, "fastq_ftp")
		So(err, ShouldBeNil)

		tmpl := &template.Template{Rows: []template.Row{
			row("s1", "SRR1_1.fastq.gz", template.Pair1, template.Merge),
			row("s1", "SRR1_2.fastq.gz", template.Pair2, template.Merge),
			row("s1", "SRR2_1.fastq.gz", template.Pair1, template.Merge),
			row("s1", "SRR2_2.fastq.gz", template.Pair2, template.Merge),
		}}

		agg := &Aggregator{
			Template:         tmpl,
			Metadata:         md,
			Index:            ix,
			Join:             JoinByFile,
			Columns:          []string{"run_accession", "library_strategy", "center_name", "sample_alias"},
			NoWarningColumns: []string{"run_accession", "sample_alias"},
			Names:            rule,
		}

		Convey("Rows fold to one treated row with sorted joined values", func() {
			treated, warnings, err := agg.Run()
			So(err, ShouldBeNil)

			So(treated.ColumnHeaders, ShouldResemble, []string{
				ColFinalSampleName, ColOriginalSampleNames, ColTreatmentSampleName, ColTreatmentFastqType,
				"run_accession", "library_strategy", "center_name", "sample_alias",
			})
			So(treated.Rows, ShouldResemble, [][]string{{
				"s1", "SRR1;SRR2", "s1", "pair1;pair2",
				"SRR1;SRR2", "WGS", "centre A;centre B", "aliceA;aliceB",
			}})

			Convey("Only columns not declared no-warning are flagged", func() {
				So(warnings, ShouldResemble, []WarningRecord{{
					FinalSampleName: "s1",
					Column:          "center_name",
					Message:         WarningMessage,
				}})
			})
		})

		Convey("Repeated runs do not accumulate warnings", func() {
			_, first, err := agg.Run()
			So(err, ShouldBeNil)

			_, second, err := agg.Run()
			So(err, ShouldBeNil)
			So(second, ShouldHaveLength, len(first))
		})

		Convey("A missing column of interest is an error", func() {
			agg.Columns = []string{"absent"}

			_, _, err := agg.Run()
			So(err, ShouldEqual, table.ErrMissingColumn)
		})
	})

	Convey("A copy sample emits one row per original sample name", t, func() {
		md := table.New("fastq_ftp", "run_accession", "read_tech")
		md.Append("ftp/X_1.fastq.gz;ftp/X_2.fastq.gz", "X", "illumina")
		md.Append("ftp/Y.fastq.gz", "Y", "nanopore")

		ix, err := NewSubstringIndex(md, "fastq_ftp")
		So(err, ShouldBeNil)

		tmpl := &template.Template{Rows: []template.Row{
			row("grp", "X_1.fastq.gz", template.Pair1, template.Copy),
			row("grp", "X_2.fastq.gz", template.Pair2, template.Copy),
			row("grp", "Y.fastq.gz", template.Single, template.Copy),
		}}

		agg := &Aggregator{
			Template: tmpl,
			Metadata: md,
			Index:    ix,
			Join:     JoinByFile,
			Columns:  []string{"run_accession", "read_tech"},
			Names:    rule,
		}

		treated, warnings, err := agg.Run()
		So(err, ShouldBeNil)
		So(warnings, ShouldBeNil)

		So(treated.Rows, ShouldResemble, [][]string{
			{"X", "X", "grp", "pair1;pair2;single", "X", "illumina"},
			{"Y", "Y", "grp", "pair1;pair2;single", "Y", "nanopore"},
		})
	})

	Convey("Generic metadata can be joined on a shared sample name column", t, func() {
		md := table.New("sample_name", "file_name", "condition")
		md.Append("s1", "a_1.fastq.gz", "control")
		md.Append("s1", "a_2.fastq.gz", "control")

		ix, err := NewExactIndex(md, "sample_name")
		So(err, ShouldBeNil)

		tmpl := &template.Template{Rows: []template.Row{
			row("s1", "a_1.fastq.gz", template.Pair1, template.Rename),
			row("s1", "a_2.fastq.gz", template.Pair2, template.Rename),
		}}

		agg := &Aggregator{
			Template: tmpl,
			Metadata: md,
			Index:    ix,
			Join:     JoinBySample,
			Columns:  []string{"condition"},
			Names:    rule,
		}

		treated, warnings, err := agg.Run()
		So(err, ShouldBeNil)
		So(warnings, ShouldBeNil)
		So(treated.Rows, ShouldResemble, [][]string{
			{"s1", "a", "s1", "pair1;pair2", "control"},
		})
	})

	Convey("Warning records convert to a writable table", t, func() {
		records := []WarningRecord{{FinalSampleName: "s1", Column: "center_name", Message: WarningMessage}}

		wt := WarningTable(records)
		So(wt.ColumnHeaders, ShouldResemble, WarningColumns)
		So(wt.Rows, ShouldResemble, [][]string{{"s1", "center_name", WarningMessage}})

		So(WarningTable(nil).Rows, ShouldBeEmpty)
	})
}

func TestSkeleton(t *testing.T) {
	Convey("Given ENA metadata and a fastq listing, you can draft a template", t, func() {
		md := enaMetadata()

		ix, err := NewSubstringIndex(md, "fastq_ftp")
		So(err, ShouldBeNil)

		builder := &SkeletonBuilder{
			Metadata:         md,
			Index:            ix,
			Patterns:         template.DefaultPatterns(),
			CandidateColumns: []string{"run_accession", "sample_alias"},
		}

		skeleton, err := builder.Build([]string{
			"SRR2_1.fastq.gz", "SRR1_1.fastq.gz", "SRR1_2.fastq.gz", "SRR2_2.fastq.gz",
		})
		So(err, ShouldBeNil)

		So(skeleton.ColumnHeaders, ShouldResemble, []string{
			"sample_name", "fastq_file_name", "fastq_type", "treatment",
			"run_accession", "sample_alias",
		})
		So(skeleton.Rows, ShouldResemble, [][]string{
			{"", "SRR1_1.fastq.gz", "pair1", "", "SRR1", "aliceA"},
			{"", "SRR1_2.fastq.gz", "pair2", "", "SRR1", "aliceA"},
			{"", "SRR2_1.fastq.gz", "pair1", "", "SRR2", "aliceB"},
			{"", "SRR2_2.fastq.gz", "pair2", "", "SRR2", "aliceB"},
		})

		Convey("A sample column fills in sample names directly", func() {
			builder.SampleColumn = "run_accession"
			builder.CandidateColumns = nil

			skeleton, err := builder.Build([]string{"SRR1_1.fastq.gz"})
			So(err, ShouldBeNil)
			So(skeleton.Rows, ShouldResemble, [][]string{
				{"SRR1", "SRR1_1.fastq.gz", "pair1", ""},
			})
		})

		Convey("Unmatched files fail the build", func() {
			_, err := builder.Build([]string{"SRR9.fastq.gz"})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, template.RuleNoMetadataMatch)
		})
	})
}
