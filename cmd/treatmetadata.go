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

package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tbcgit/omdctk/config"
	"github.com/tbcgit/omdctk/ena"
	"github.com/tbcgit/omdctk/metadata"
	"github.com/tbcgit/omdctk/sheets"
	"github.com/tbcgit/omdctk/table"
	"github.com/tbcgit/omdctk/template"
)

const (
	ErrMetadataSourceRequired = Error("supply a metadata TSV (-m) or a Google sheet name (--sheet), not both")

	treatedPrefix       = "treated_"
	warningReportPrefix = "warning_report_"
	warningPreviewRows  = 10
	treatedPreviewRows  = 10
)

// options for this cmd.
var (
	treatMetadataTemplate  string
	treatMetadataMetadata  string
	treatMetadataSheet     string
	treatMetadataOutput    string
	treatMetadataMode      string
	treatMetadataColumn    string
	treatMetadataJoin      string
	treatMetadataExtraCols []string
	treatMetadataSeparator string
	treatMetadataSepCount  int
)

// treatMetadataCmd represents the treat-metadata command.
var treatMetadataCmd = &cobra.Command{
	Use:   "treat-metadata",
	Short: "Fold per-file metadata into one row per treated sample.",
	Long: `Fold per-file metadata into one row per treated sample.

Using the same curated template as treat-fastqs, combines the metadata rows
of each sample's files into a single row per final output file set: merge and
rename samples get one row, copy samples one row per original sample their
files came from. For each metadata column the distinct values are sorted and
joined with semicolons; a column collapsing more than one value is flagged in
a warning report unless it is expected to diverge (ENA accession and alias
columns by default, plus any given with -e).

The metadata comes from a TSV file (-m) or from a Google sheet (--sheet, with
OMDCTK_CREDENTIALS_FILE and OMDCTK_SPREADSHEET_ID set). In ena mode template
files are matched by substring inside a URL column; in generic mode the
template is joined on a shared sample_name column (or fastq_file_name, via
--join).

Two files are written to the output directory: treated_<metadata> and, if any
column collapsed divergent values, warning_report_<metadata>.

An example command line could look like this:
$ omdctk treat-metadata -t treatment_template.tsv -m PRJEB12345_ENA_metadata.tsv -o /treated/dir
`,
	Run: func(_ *cobra.Command, _ []string) {
		checkMode(treatMetadataMode)

		p := patterns()
		tmpl := loadTemplate(treatMetadataTemplate, p)
		t, baseName := loadMetadata()

		join := joinKind()
		column := joinColumn(join)
		ix := buildIndex(t, join, column)

		checkJoin(tmpl, ix, join)

		agg := &metadata.Aggregator{
			Template:         tmpl,
			Metadata:         t,
			Index:            ix,
			Join:             join,
			Columns:          columnsOfInterest(t, column),
			NoWarningColumns: noWarningColumns(),
			Names: metadata.NameRule{
				Pattern:        p.Fastq,
				Separator:      treatMetadataSeparator,
				SeparatorCount: treatMetadataSepCount,
			},
		}

		treated, warnings, err := agg.Run()
		if err != nil {
			die(err)
		}

		treatedPath := filepath.Join(treatMetadataOutput, treatedPrefix+baseName)
		if err := treated.WriteTSV(treatedPath); err != nil {
			die(err)
		}

		infof("treated metadata for %d final samples written to %s", len(treated.Rows), treatedPath)
		cliPreviewTable(treated, treatedPreviewRows)

		reportWarnings(warnings, filepath.Join(treatMetadataOutput, warningReportPrefix+baseName))
	},
}

// loadMetadata reads the metadata table from the TSV file or Google sheet
// the flags name, also returning the base name used for output files.
func loadMetadata() (*table.Table, string) {
	if (treatMetadataMetadata == "") == (treatMetadataSheet == "") {
		die(ErrMetadataSourceRequired)
	}

	if treatMetadataMetadata != "" {
		t, err := table.ReadTSV(treatMetadataMetadata)
		if err != nil {
			die(err)
		}

		return t, filepath.Base(treatMetadataMetadata)
	}

	c := config.FromEnv()
	if err := c.CheckSheets(); err != nil {
		die(err)
	}

	sc, err := sheets.ServiceCredentialsFromFile(c.CredentialsPath)
	if err != nil {
		die(err)
	}

	s, err := sheets.New(sc)
	if err != nil {
		die(err)
	}

	t, err := s.Read(c.SheetID, treatMetadataSheet)
	if err != nil {
		die(err)
	}

	return t, treatMetadataSheet + ".tsv"
}

func joinKind() metadata.Join {
	if treatMetadataJoin != "" {
		switch join := metadata.Join(treatMetadataJoin); join {
		case metadata.JoinByFile, metadata.JoinBySample:
			return join
		default:
			dief("join must be %q or %q", metadata.JoinByFile, metadata.JoinBySample)
		}
	}

	if treatMetadataMode == modeENA {
		return metadata.JoinByFile
	}

	return metadata.JoinBySample
}

func joinColumn(join metadata.Join) string {
	if join == metadata.JoinByFile {
		return fileJoinColumn(treatMetadataMode, treatMetadataColumn)
	}

	if treatMetadataColumn != "" {
		return treatMetadataColumn
	}

	return manifestSampleColumn
}

// buildIndex indexes the join column: file names are matched by substring
// (ENA URL cells merely contain them), sample names exactly.
func buildIndex(t *table.Table, join metadata.Join, column string) metadata.Index {
	if join == metadata.JoinByFile {
		return fileIndex(t, column)
	}

	ix, err := metadata.NewExactIndex(t, column)
	if err != nil {
		die(err)
	}

	return ix
}

// checkJoin confirms the template and the metadata actually cover each
// other, dying with the full list of unmatched entries otherwise.
func checkJoin(tmpl *template.Template, ix metadata.Index, join metadata.Join) {
	var err error

	if join == metadata.JoinByFile {
		err = metadata.CheckTemplateMatches(tmpl, ix)
	} else {
		err = metadata.CheckSampleMatches(tmpl, ix)
	}

	if err != nil {
		die(err)
	}
}

// columnsOfInterest returns the metadata columns worth folding: everything
// except the join column and, in ena mode, the inherently per-file columns.
func columnsOfInterest(t *table.Table, joinColumn string) []string {
	skip := map[string]bool{joinColumn: true}

	if treatMetadataMode == modeENA {
		for _, column := range ena.IgnoredColumns {
			skip[column] = true
		}
	}

	var columns []string

	for _, header := range t.ColumnHeaders {
		if !skip[header] {
			columns = append(columns, header)
		}
	}

	return columns
}

func noWarningColumns() []string {
	var columns []string

	if treatMetadataMode == modeENA {
		columns = append(columns, ena.DefaultNoWarningColumns...)
	}

	return append(columns, treatMetadataExtraCols...)
}

func reportWarnings(warnings []metadata.WarningRecord, path string) {
	if len(warnings) == 0 {
		info("no metadata columns collapsed divergent values")

		return
	}

	if err := metadata.WarningTable(warnings).WriteTSV(path); err != nil {
		die(err)
	}

	preview := make([][]string, 0, len(warnings))
	for _, w := range warnings {
		preview = append(preview, []string{w.FinalSampleName, w.Column})
	}

	if len(preview) > warningPreviewRows {
		preview = preview[:warningPreviewRows]
	}

	cliTable([]string{"final_files_sample_name", "metadata_column_name"}, preview)
	warnf("%d metadata columns collapsed divergent values; see %s", len(warnings), path)
}

func init() {
	RootCmd.AddCommand(treatMetadataCmd)

	// flags specific to this sub-command
	treatMetadataCmd.Flags().StringVarP(&treatMetadataTemplate, templateFlag, "t", "",
		"curated treatment template TSV")
	markFlagRequired(treatMetadataCmd, templateFlag)
	treatMetadataCmd.Flags().StringVarP(&treatMetadataMetadata, metadataFlag, "m", "",
		"metadata TSV file")
	treatMetadataCmd.Flags().StringVar(&treatMetadataSheet, "sheet", "",
		"name of a Google sheet to read the metadata from instead of -m")
	treatMetadataCmd.Flags().StringVarP(&treatMetadataOutput, outputFlag, "o", ".",
		"output directory for the treated metadata and warning report")
	treatMetadataCmd.Flags().StringVar(&treatMetadataMode, modeFlag, modeENA,
		"metadata flavour: ena or generic")
	treatMetadataCmd.Flags().StringVarP(&treatMetadataColumn, metadataColumnFlag, "c", "",
		"metadata column to join the template on (defaults per mode)")
	treatMetadataCmd.Flags().StringVar(&treatMetadataJoin, "join", "",
		"how to join: fastq_file_name or sample_name (defaults per mode)")
	treatMetadataCmd.Flags().StringSliceVarP(&treatMetadataExtraCols, "extra-no-warning-columns", "e",
		nil, "extra metadata columns allowed to collapse divergent values silently")
	treatMetadataCmd.Flags().StringVar(&treatMetadataSeparator, "separator", "_",
		"separator between sample name and the rest of a fastq file name")
	treatMetadataCmd.Flags().IntVar(&treatMetadataSepCount, "separator-count", 1,
		"how many separator-joined parts make up the sample name")
}
