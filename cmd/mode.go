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
	"github.com/tbcgit/omdctk/ena"
	"github.com/tbcgit/omdctk/metadata"
	"github.com/tbcgit/omdctk/table"
)

// The metadata curated by this toolkit comes in two flavours: tables
// downloaded from the ENA, where fastq files are named inside
// semicolon-separated URL columns, and generic manifest tables with one
// plain file_name per row. Sub-commands taking metadata input have a --mode
// flag choosing between them, which sets the default join column and how
// its cells are matched.
const (
	modeENA     = "ena"
	modeGeneric = "generic"

	ErrBadMode = Error(`mode must be "` + modeENA + `" or "` + modeGeneric + `"`)

	modeFlag           = "mode"
	metadataColumnFlag = "metadata-column"

	manifestFileColumn   = "file_name"
	manifestSampleColumn = "sample_name"
	manifestMD5Column    = "file_md5"
)

func checkMode(mode string) {
	if mode != modeENA && mode != modeGeneric {
		die(ErrBadMode)
	}
}

// fileJoinColumn returns the metadata column fastq file names are found in:
// the given override, or the mode's default.
func fileJoinColumn(mode, override string) string {
	if override != "" {
		return override
	}

	if mode == modeENA {
		return ena.DefaultDownloadColumn
	}

	return manifestFileColumn
}

// fileIndex indexes the file-name join column for the given mode: substring
// matching, since ENA URL cells merely contain the file names (and a bare
// file name is a substring of itself).
func fileIndex(t *table.Table, column string) metadata.Index {
	ix, err := metadata.NewSubstringIndex(t, column)
	if err != nil {
		die(err)
	}

	return ix
}

// metadataFileNames returns the fastq file basenames the metadata accounts
// for, one cell possibly naming several files.
func metadataFileNames(t *table.Table, column string) []string {
	cells, err := t.Column(column)
	if err != nil {
		die(err)
	}

	var names []string

	for _, cell := range cells {
		names = append(names, ena.FileNames(cell)...)
	}

	return names
}
