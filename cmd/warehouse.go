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
	"github.com/tbcgit/omdctk/warehouse"
)

const warehouseMetadataSuffix = "_warehouse_metadata.tsv"

// options for this cmd.
var exportWarehouseOutput string

// exportWarehouseCmd represents the export-warehouse command.
var exportWarehouseCmd = &cobra.Command{
	Use:   "export-warehouse",
	Short: "Export a study's metadata from the sequencing warehouse.",
	Long: `Export a study's metadata from the sequencing warehouse.

For studies that never went through the ENA, this queries an in-house
sequencing warehouse database for the given study accession and writes a
metadata TSV in the shape the other sub-commands expect: one row per fastq
file, with fastq_file_name, sample_name and fastq_md5 columns.

The database connection details come from the OMDCTK_SQL_* environment
variables (or a .env file defining them).

An example command line could look like this:
$ omdctk export-warehouse -o /metadata/dir STUDY123
`,
	Run: func(_ *cobra.Command, args []string) {
		if len(args) != 1 {
			die(ErrAccessionRequired)
		}

		accession := args[0]

		c := config.FromEnv()
		if err := c.CheckWarehouse(); err != nil {
			die(err)
		}

		db, err := warehouse.New(c.MySQLConfig())
		if err != nil {
			die(err)
		}

		defer db.Close()

		t, err := db.RunMetadata(accession)
		if err != nil {
			die(err)
		}

		if len(t.Rows) == 0 {
			dief("no fastq files found in the warehouse for study %s", accession)
		}

		outPath := filepath.Join(exportWarehouseOutput, accession+warehouseMetadataSuffix)

		if err := t.WriteTSV(outPath); err != nil {
			die(err)
		}

		infof("metadata for %d fastq files of study %s written to %s", len(t.Rows), accession, outPath)
	},
}

func init() {
	RootCmd.AddCommand(exportWarehouseCmd)

	// flags specific to this sub-command
	exportWarehouseCmd.Flags().StringVarP(&exportWarehouseOutput, outputFlag, "o", ".",
		"output directory for the metadata TSV")
}
