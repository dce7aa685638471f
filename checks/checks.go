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

// package checks confirms that a directory of downloaded fastq files agrees
// with the metadata that describes them: every file accounted for in both
// directions, no file matching more than one metadata row, and checksums
// intact. Findings are reported, not fatal; curators decide what matters.

package checks

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tbcgit/omdctk/ena"
	"github.com/tbcgit/omdctk/metadata"
	"github.com/tbcgit/omdctk/table"
)

type Error string

func (e Error) Error() string { return string(e) }

const ErrMD5Count = Error("file and md5 cells disagree on the number of files")

// CompareNames returns the set differences between the fastq files found on
// disk and those the metadata names, both ways, sorted. Empty slices mean
// the two agree.
func CompareNames(dirNames, metadataNames []string) (onlyInDir, onlyInMetadata []string) {
	onlyInDir = difference(dirNames, metadataNames)
	onlyInMetadata = difference(metadataNames, dirNames)

	return onlyInDir, onlyInMetadata
}

func difference(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, name := range b {
		inB[name] = true
	}

	var only []string

	for _, name := range a {
		if !inB[name] {
			only = append(only, name)
		}
	}

	return uniqueSorted(only)
}

// MultipleMatches returns the file names that match more than one metadata
// row, sorted. A file matching several rows would make any later join
// ambiguous.
func MultipleMatches(fileNames []string, ix metadata.Index) []string {
	var multiple []string

	for _, name := range fileNames {
		if len(ix.Find(name)) > 1 {
			multiple = append(multiple, name)
		}
	}

	return uniqueSorted(multiple)
}

// ExpectedMD5s pairs each file basename in the given file column with its
// checksum from the md5 column. Cells holding several files hold their md5s
// semicolon-separated in the same order; a cell pair disagreeing on count is
// ErrMD5Count.
func ExpectedMD5s(t *table.Table, fileColumn, md5Column string) (map[string]string, error) {
	rows, err := t.Columns(fileColumn, md5Column)
	if err != nil {
		return nil, err
	}

	want := make(map[string]string)

	for _, row := range rows {
		names := ena.FileNames(row[0])

		var md5s []string
		if row[1] != "" {
			md5s = strings.Split(row[1], ";")
		}

		if len(names) != len(md5s) {
			return nil, ErrMD5Count
		}

		for i, name := range names {
			want[name] = md5s[i]
		}
	}

	return want, nil
}

// MD5Mismatch is a file whose on-disk checksum differs from the metadata's,
// or that could not be read at all.
type MD5Mismatch struct {
	FileName string
	Want     string
	Got      string
}

// VerifyMD5s checksums each wanted file in dir and returns the mismatches,
// sorted by file name. Files that cannot be read are mismatches with an
// empty Got. An empty return means every file verified.
func VerifyMD5s(dir string, want map[string]string) []MD5Mismatch {
	var mismatches []MD5Mismatch

	for name, wantMD5 := range want {
		got, err := FileMD5(filepath.Join(dir, name))
		if err != nil {
			got = ""
		}

		if got != wantMD5 {
			mismatches = append(mismatches, MD5Mismatch{
				FileName: name,
				Want:     wantMD5,
				Got:      got,
			})
		}
	}

	sort.Slice(mismatches, func(i, j int) bool {
		return mismatches[i].FileName < mismatches[j].FileName
	})

	return mismatches
}

// FileMD5 returns the hex md5 checksum of the file at the given path.
func FileMD5(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}

	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]bool, len(values))

	var unique []string

	for _, value := range values {
		if !seen[value] {
			seen[value] = true
			unique = append(unique, value)
		}
	}

	sort.Strings(unique)

	return unique
}
