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
	"github.com/tbcgit/omdctk/metadata"
	"github.com/tbcgit/omdctk/table"
	"github.com/tbcgit/omdctk/treat"
)

const (
	fastqDirFlag        = "fastq-dir"
	defaultTemplateName = "treatment_template.tsv"
)

// options for this cmd.
var (
	makeTemplateMetadata     string
	makeTemplateFastqDir     string
	makeTemplateOutput       string
	makeTemplateMode         string
	makeTemplateColumn       string
	makeTemplateSampleColumn string
	makeTemplateCandidates   []string
)

// makeTemplateCmd represents the make-template command.
var makeTemplateCmd = &cobra.Command{
	Use:   "make-template",
	Short: "Draft a treatment template from metadata and a fastq directory.",
	Long: `Draft a treatment template from metadata and a fastq directory.

Lists the fastq files in the given directory, looks each one up in the
metadata, and writes a template TSV with one row per file: its sample name
(where the metadata can supply one), its read type classified from the file
name, and an empty treatment column for you to fill in with merge, copy or
rename before running treat-fastqs and treat-metadata.

In ena mode the metadata rarely has a usable sample name column, so
sample_name is left blank and candidate columns (run_accession, sample_alias,
sample_title by default) are copied alongside as hints. In generic mode the
manifest's sample_name column is used directly.

An example command line could look like this:
$ omdctk make-template -m PRJEB12345_ENA_metadata.tsv -d /fastq/dir
`,
	Run: func(_ *cobra.Command, _ []string) {
		checkMode(makeTemplateMode)

		p := patterns()

		t, err := table.ReadTSV(makeTemplateMetadata)
		if err != nil {
			die(err)
		}

		store, err := treat.NewDirStore(makeTemplateFastqDir)
		if err != nil {
			die(err)
		}

		fileNames, err := store.List(p.Fastq)
		if err != nil {
			die(err)
		}

		if len(fileNames) == 0 {
			dief("no %s files found in %s", p.Fastq, makeTemplateFastqDir)
		}

		builder := &metadata.SkeletonBuilder{
			Metadata:         t,
			Index:            fileIndex(t, fileJoinColumn(makeTemplateMode, makeTemplateColumn)),
			Patterns:         p,
			SampleColumn:     makeTemplateSampleColumn,
			CandidateColumns: makeTemplateCandidates,
		}

		if makeTemplateMode == modeGeneric {
			if builder.SampleColumn == "" {
				builder.SampleColumn = manifestSampleColumn
			}

			builder.CandidateColumns = nil
		}

		skeleton, err := builder.Build(fileNames)
		if err != nil {
			die(err)
		}

		if err := skeleton.WriteTSV(makeTemplateOutput); err != nil {
			die(err)
		}

		infof("template skeleton for %d fastq files written to %s; fill in the treatment column before treating",
			len(fileNames), makeTemplateOutput)
	},
}

func init() {
	RootCmd.AddCommand(makeTemplateCmd)

	// flags specific to this sub-command
	makeTemplateCmd.Flags().StringVarP(&makeTemplateMetadata, metadataFlag, "m", "",
		"metadata or manifest TSV file")
	markFlagRequired(makeTemplateCmd, metadataFlag)
	makeTemplateCmd.Flags().StringVarP(&makeTemplateFastqDir, fastqDirFlag, "d", "",
		"directory containing the fastq files")
	markFlagRequired(makeTemplateCmd, fastqDirFlag)
	makeTemplateCmd.Flags().StringVarP(&makeTemplateOutput, outputFlag, "o", defaultTemplateName,
		"output path for the template TSV")
	makeTemplateCmd.Flags().StringVar(&makeTemplateMode, modeFlag, modeENA,
		"metadata flavour: ena or generic")
	makeTemplateCmd.Flags().StringVarP(&makeTemplateColumn, metadataColumnFlag, "c", "",
		"metadata column holding the fastq file names (defaults per mode)")
	makeTemplateCmd.Flags().StringVar(&makeTemplateSampleColumn, "sample-column", "",
		"metadata column to take sample names from")
	makeTemplateCmd.Flags().StringSliceVar(&makeTemplateCandidates, "candidate-columns",
		metadata.DefaultCandidateColumns, "metadata columns copied alongside as sample name hints (ena mode)")
}
