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
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tbcgit/omdctk/table"
	"github.com/tbcgit/omdctk/template"
	"github.com/tbcgit/omdctk/treat"
)

const templateFlag = "template"

// options for this cmd.
var (
	treatFastqsTemplate string
	treatFastqsInput    string
	treatFastqsOutput   string
)

// treatFastqsCmd represents the treat-fastqs command.
var treatFastqsCmd = &cobra.Command{
	Use:   "treat-fastqs",
	Short: "Apply a treatment template to a directory of fastq files.",
	Long: `Apply a treatment template to a directory of fastq files.

The template (made with make-template and curated by hand) says what to do
with each sample's fastq files: merge concatenates them per read direction
under the sample name, rename copies single files under the sample name, and
copy takes them over unchanged.

The template is validated in full first and every problem reported together,
and nothing is written unless the input directory holds every file the
template names. The output directory must be different from the input
directory, and will be created if it doesn't exist. Individual files failing
to be treated don't stop the run; their samples are reported at the end.

An example command line could look like this:
$ omdctk treat-fastqs -t treatment_template.tsv -i /fastq/dir -o /treated/dir
`,
	Run: func(_ *cobra.Command, _ []string) {
		p := patterns()
		tmpl := loadTemplate(treatFastqsTemplate, p)

		in, err := treat.NewDirStore(treatFastqsInput)
		if err != nil {
			die(err)
		}

		if err := os.MkdirAll(treatFastqsOutput, dirPerm); err != nil {
			die(err)
		}

		out, err := treat.NewDirStore(treatFastqsOutput)
		if err != nil {
			die(err)
		}

		treater, err := treat.New(tmpl, p, in, out)
		if err != nil {
			die(err)
		}

		treater.Report = func(sample string, inputs []string, output string) {
			infof("%s: %s -> %s", sample, strings.Join(inputs, " + "), output)
		}

		summary, err := treater.Run()
		if err != nil {
			die(err)
		}

		for _, sample := range summary.WarningSamples {
			warnf("some files of sample %s could not be treated", sample)
		}

		cliTable([]string{"samples", "fastq files in", "fastq files out"}, [][]string{{
			strconv.Itoa(summary.Samples),
			strconv.Itoa(summary.FilesIn),
			strconv.Itoa(summary.FilesOut),
		}})
	},
}

// loadTemplate reads, parses and validates a treatment template, dying with
// the full list of problems if it isn't usable.
func loadTemplate(path string, p template.Patterns) *template.Template {
	t, err := table.ReadTSV(path)
	if err != nil {
		die(err)
	}

	tmpl, err := template.FromTable(t)
	if err != nil {
		die(err)
	}

	if err := tmpl.Validate(p); err != nil {
		die(err)
	}

	return tmpl
}

func init() {
	RootCmd.AddCommand(treatFastqsCmd)

	// flags specific to this sub-command
	treatFastqsCmd.Flags().StringVarP(&treatFastqsTemplate, templateFlag, "t", "",
		"curated treatment template TSV")
	markFlagRequired(treatFastqsCmd, templateFlag)
	treatFastqsCmd.Flags().StringVarP(&treatFastqsInput, "input", "i", "",
		"directory containing the fastq files to treat")
	markFlagRequired(treatFastqsCmd, "input")
	treatFastqsCmd.Flags().StringVarP(&treatFastqsOutput, outputFlag, "o", "",
		"output directory for treated fastq files")
	markFlagRequired(treatFastqsCmd, outputFlag)
}
