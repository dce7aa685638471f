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

// package cmd is the cobra file that enables subcommands and handles
// command-line args.

package cmd

import (
	"fmt"
	"os"

	"github.com/inconshreveable/log15"
	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/tbcgit/omdctk/table"
	"github.com/tbcgit/omdctk/template"
)

type Error string

func (e Error) Error() string { return string(e) }

// appLogger is used for logging events in our commands.
var appLogger = log15.New()

// options common to several sub-commands.
var (
	fastqPattern string
	r1Pattern    string
	r2Pattern    string
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "omdctk",
	Short: "omdctk curates omics metadata and fastq files",
	Long: `omdctk curates omics metadata and fastq files.

The sub-commands are the steps of a curation workflow, in rough order of use:
download-metadata and download-fastqs fetch a study from the ENA (or
export-warehouse from an in-house warehouse database), check-fastqs reconciles
the downloaded files against the metadata, make-template drafts a treatment
template for you to curate, and then treat-fastqs and treat-metadata apply the
curated template to produce the final files and their combined metadata.
`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen once
// to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		die(err)
	}
}

func init() {
	// set up logging to stderr
	appLogger.SetHandler(log15.LvlFilterHandler(log15.LvlInfo, log15.StderrHandler))

	RootCmd.PersistentFlags().StringVar(&fastqPattern, "fastq-pattern",
		template.DefaultFastqPattern, "suffix that all fastq files share")
	RootCmd.PersistentFlags().StringVar(&r1Pattern, "r1-pattern",
		template.DefaultR1Pattern, "suffix of forward read fastq files")
	RootCmd.PersistentFlags().StringVar(&r2Pattern, "r2-pattern",
		template.DefaultR2Pattern, "suffix of reverse read fastq files")
}

// patterns returns the fastq naming patterns from the persistent flags,
// dying if they are inconsistent.
func patterns() template.Patterns {
	p := template.Patterns{
		Fastq: fastqPattern,
		R1:    r1Pattern,
		R2:    r2Pattern,
	}

	if err := p.Check(); err != nil {
		die(err)
	}

	return p
}

// cliPrint outputs the message to STDOUT.
func cliPrint(msg string, a ...interface{}) {
	fmt.Fprintf(os.Stdout, msg, a...)
}

// cliTable renders header and rows as an ascii table on STDOUT.
func cliTable(headers []string, rows [][]string) {
	tw := prettytable.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(toPrettyRow(headers))

	for _, row := range rows {
		tw.AppendRow(toPrettyRow(row))
	}

	tw.Render()
}

// cliPreviewTable renders the given table on STDOUT, capped to the first few
// rows so big metadata tables don't flood the terminal.
func cliPreviewTable(t *table.Table, maxRows int) {
	rows := t.Rows
	if len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	cliTable(t.ColumnHeaders, rows)

	if len(t.Rows) > maxRows {
		cliPrint("... and %d more rows\n", len(t.Rows)-maxRows)
	}
}

func toPrettyRow(cells []string) prettytable.Row {
	row := make(prettytable.Row, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}

	return row
}

// info is a convenience to log a message at the Info level.
func info(msg string) {
	appLogger.Info(msg)
}

// infof is a convenience to log a formatted message at the Info level.
func infof(msg string, a ...interface{}) {
	appLogger.Info(fmt.Sprintf(msg, a...))
}

// warnf is a convenience to log a formatted message at the Warn level.
func warnf(msg string, a ...interface{}) {
	appLogger.Warn(fmt.Sprintf(msg, a...))
}

// die is a convenience to log an error at the Error level and exit non zero.
func die(err error) {
	appLogger.Error(err.Error())
	os.Exit(1)
}

// dief is a convenience to log a formatted message at the Error level and
// exit non zero.
func dief(msg string, a ...interface{}) {
	appLogger.Error(fmt.Sprintf(msg, a...))
	os.Exit(1)
}
