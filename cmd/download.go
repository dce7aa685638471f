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
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tbcgit/omdctk/ena"
	"github.com/tbcgit/omdctk/table"
)

const (
	ErrAccessionRequired = Error("exactly one study accession is required")

	dirPerm      = 0755
	outputFlag   = "output"
	metadataFlag = "metadata"
)

// options for these cmds.
var (
	downloadMetadataOutput string
	downloadFastqsOutput   string
	downloadFastqsMetadata string
	downloadFastqsColumn   string
	downloadFastqsWorkers  int
)

// downloadMetadataCmd represents the download-metadata command.
var downloadMetadataCmd = &cobra.Command{
	Use:   "download-metadata",
	Short: "Download a study's run metadata from the ENA.",
	Long: `Download a study's run metadata from the ENA.

Given an ENA study accession (eg. PRJEB12345), fetches the run metadata of
the study from the ENA portal API as a TSV file, which the other sub-commands
take as their metadata input. The output directory will be created if it
doesn't exist.

An example command line could look like this:
$ omdctk download-metadata -o /metadata/dir PRJEB12345
`,
	Run: func(_ *cobra.Command, args []string) {
		if len(args) != 1 {
			die(ErrAccessionRequired)
		}

		accession := args[0]

		if err := os.MkdirAll(downloadMetadataOutput, dirPerm); err != nil {
			die(err)
		}

		client := &ena.Client{}

		path, err := client.DownloadMetadata(context.Background(), accession, downloadMetadataOutput)
		if err != nil {
			die(err)
		}

		infof("metadata for %s written to %s", accession, path)
	},
}

// downloadFastqsCmd represents the download-fastqs command.
var downloadFastqsCmd = &cobra.Command{
	Use:   "download-fastqs",
	Short: "Download the fastq files named by a metadata table.",
	Long: `Download the fastq files named by a metadata table.

Takes the metadata TSV from download-metadata and fetches every file URL in
the chosen download column (-c), a few files at a time. Files already present
and non-empty in the output directory are skipped, so an interrupted run can
just be repeated. Failed downloads are reported at the end but don't stop the
rest.

An example command line could look like this:
$ omdctk download-fastqs -m PRJEB12345_ENA_metadata.tsv -o /fastq/dir
`,
	Run: func(_ *cobra.Command, _ []string) {
		t, err := table.ReadTSV(downloadFastqsMetadata)
		if err != nil {
			die(err)
		}

		urls, err := downloadURLs(t, downloadFastqsColumn)
		if err != nil {
			die(err)
		}

		if err := os.MkdirAll(downloadFastqsOutput, dirPerm); err != nil {
			die(err)
		}

		downloader := &ena.FastqDownloader{
			OutputDir: downloadFastqsOutput,
			Workers:   downloadFastqsWorkers,
			Report: func(fileName string, skipped bool) {
				if skipped {
					infof("already have %s", fileName)
				} else {
					infof("downloaded %s", fileName)
				}
			},
		}

		result, err := downloader.Download(context.Background(), urls)
		if err != nil {
			die(err)
		}

		for _, u := range result.Failed {
			warnf("failed to download %s", u)
		}

		infof("%d fastq files downloaded, %d already present, %d failed",
			result.Fetched, result.Skipped, len(result.Failed))
	},
}

// downloadURLs returns every URL in the given download column of the
// metadata, cells being semicolon-separated lists.
func downloadURLs(t *table.Table, column string) ([]string, error) {
	cells, err := t.Column(column)
	if err != nil {
		return nil, err
	}

	var urls []string

	for _, cell := range cells {
		if cell == "" {
			continue
		}

		urls = append(urls, strings.Split(cell, ";")...)
	}

	return urls, nil
}

func init() {
	RootCmd.AddCommand(downloadMetadataCmd)
	RootCmd.AddCommand(downloadFastqsCmd)

	// flags specific to these sub-commands
	downloadMetadataCmd.Flags().StringVarP(&downloadMetadataOutput, outputFlag, "o", ".",
		"output directory for the metadata TSV")

	downloadFastqsCmd.Flags().StringVarP(&downloadFastqsMetadata, metadataFlag, "m", "",
		"metadata TSV file from download-metadata")
	markFlagRequired(downloadFastqsCmd, metadataFlag)
	downloadFastqsCmd.Flags().StringVarP(&downloadFastqsOutput, outputFlag, "o", ".",
		"output directory for fastq files")
	downloadFastqsCmd.Flags().StringVarP(&downloadFastqsColumn, "download-column", "c",
		ena.DefaultDownloadColumn, "metadata column holding the download URLs")
	downloadFastqsCmd.Flags().IntVar(&downloadFastqsWorkers, "workers", 0,
		"max concurrent downloads (0 for a sensible default)")
}

func markFlagRequired(cmd *cobra.Command, flagName string) {
	err := cmd.MarkFlagRequired(flagName)
	if err != nil {
		die(err)
	}
}
