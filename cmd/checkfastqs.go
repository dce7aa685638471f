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
	"github.com/spf13/cobra"
	"github.com/tbcgit/omdctk/checks"
	"github.com/tbcgit/omdctk/ena"
	"github.com/tbcgit/omdctk/table"
	"github.com/tbcgit/omdctk/treat"
)

// options for this cmd.
var (
	checkFastqsMetadata string
	checkFastqsDir      string
	checkFastqsMode     string
	checkFastqsColumn   string
	checkFastqsMD5      bool
)

// checkFastqsCmd represents the check-fastqs command.
var checkFastqsCmd = &cobra.Command{
	Use:   "check-fastqs",
	Short: "Reconcile a fastq directory against its metadata.",
	Long: `Reconcile a fastq directory against its metadata.

Compares the fastq files in the given directory with those the metadata
names, reporting files present on disk but unknown to the metadata, files the
metadata names but missing from disk, and files matching more than one
metadata row (which would make any later join ambiguous).

With --md5, also checksums each file against the metadata's md5 column (the
sibling of the download column in ena mode, file_md5 in generic mode).

Findings are reported, not fatal: this command always exits zero so it can
sit in the middle of a pipeline, and you decide what matters.

An example command line could look like this:
$ omdctk check-fastqs -m PRJEB12345_ENA_metadata.tsv -d /fastq/dir --md5
`,
	Run: func(_ *cobra.Command, _ []string) {
		checkMode(checkFastqsMode)

		p := patterns()

		t, err := table.ReadTSV(checkFastqsMetadata)
		if err != nil {
			die(err)
		}

		store, err := treat.NewDirStore(checkFastqsDir)
		if err != nil {
			die(err)
		}

		dirNames, err := store.List(p.Fastq)
		if err != nil {
			die(err)
		}

		column := fileJoinColumn(checkFastqsMode, checkFastqsColumn)
		metadataNames := metadataFileNames(t, column)

		clean := reportNameFindings(dirNames, metadataNames, t, column)

		if checkFastqsMD5 {
			clean = reportMD5Findings(t, column) && clean
		}

		if clean {
			info("all checks passed")
		}
	},
}

func reportNameFindings(dirNames, metadataNames []string, t *table.Table, column string) bool {
	onlyInDir, onlyInMetadata := checks.CompareNames(dirNames, metadataNames)

	for _, name := range onlyInDir {
		warnf("%s is in the fastq directory but not in the metadata", name)
	}

	for _, name := range onlyInMetadata {
		warnf("%s is in the metadata but not in the fastq directory", name)
	}

	multiple := checks.MultipleMatches(dirNames, fileIndex(t, column))
	for _, name := range multiple {
		warnf("%s matches more than one metadata row", name)
	}

	return len(onlyInDir) == 0 && len(onlyInMetadata) == 0 && len(multiple) == 0
}

func reportMD5Findings(t *table.Table, column string) bool {
	md5Column := manifestMD5Column

	if checkFastqsMode == modeENA {
		var err error

		md5Column, err = ena.MD5Column(column)
		if err != nil {
			die(err)
		}
	}

	want, err := checks.ExpectedMD5s(t, column, md5Column)
	if err != nil {
		die(err)
	}

	mismatches := checks.VerifyMD5s(checkFastqsDir, want)

	rows := make([][]string, len(mismatches))
	for i, mismatch := range mismatches {
		rows[i] = []string{mismatch.FileName, mismatch.Want, mismatch.Got}
	}

	if len(rows) > 0 {
		cliTable([]string{"fastq_file_name", "expected_md5", "actual_md5"}, rows)
		warnf("%d fastq files failed md5 verification", len(rows))
	}

	return len(rows) == 0
}

func init() {
	RootCmd.AddCommand(checkFastqsCmd)

	// flags specific to this sub-command
	checkFastqsCmd.Flags().StringVarP(&checkFastqsMetadata, metadataFlag, "m", "",
		"metadata or manifest TSV file")
	markFlagRequired(checkFastqsCmd, metadataFlag)
	checkFastqsCmd.Flags().StringVarP(&checkFastqsDir, fastqDirFlag, "d", "",
		"directory containing the fastq files")
	markFlagRequired(checkFastqsCmd, fastqDirFlag)
	checkFastqsCmd.Flags().StringVar(&checkFastqsMode, modeFlag, modeENA,
		"metadata flavour: ena or generic")
	checkFastqsCmd.Flags().StringVarP(&checkFastqsColumn, metadataColumnFlag, "c", "",
		"metadata column holding the fastq file names (defaults per mode)")
	checkFastqsCmd.Flags().BoolVar(&checkFastqsMD5, "md5", false,
		"also verify md5 checksums")
}
