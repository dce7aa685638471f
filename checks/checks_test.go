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

package checks

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tbcgit/omdctk/metadata"
	"github.com/tbcgit/omdctk/table"
)

const filePerm = 0644

func TestCompareNames(t *testing.T) {
	Convey("Set differences are reported both ways, sorted", t, func() {
		onlyInDir, onlyInMetadata := CompareNames(
			[]string{"b.fastq.gz", "a.fastq.gz", "c.fastq.gz"},
			[]string{"a.fastq.gz", "d.fastq.gz", "c.fastq.gz", "d.fastq.gz"},
		)

		So(onlyInDir, ShouldResemble, []string{"b.fastq.gz"})
		So(onlyInMetadata, ShouldResemble, []string{"d.fastq.gz"})

		Convey("Agreement means empty differences", func() {
			onlyInDir, onlyInMetadata := CompareNames(
				[]string{"a.fastq.gz"}, []string{"a.fastq.gz"})
			So(onlyInDir, ShouldBeNil)
			So(onlyInMetadata, ShouldBeNil)
		})
	})
}

func TestMultipleMatches(t *testing.T) {
	Convey("Files matching more than one metadata row are flagged", t, func() {
		md := table.New("fastq_ftp")
		md.Append("ftp/SRR1_1.fastq.gz")
		md.Append("ftp/run2/SRR1_1.fastq.gz")
		md.Append("ftp/SRR2_1.fastq.gz")

		ix, err := metadata.NewSubstringIndex(md, "fastq_ftp")
		So(err, ShouldBeNil)

		So(MultipleMatches([]string{"SRR1_1.fastq.gz", "SRR2_1.fastq.gz"}, ix),
			ShouldResemble, []string{"SRR1_1.fastq.gz"})
	})
}

func TestMD5s(t *testing.T) {
	Convey("Expected md5s pair file basenames with their checksums", t, func() {
		md := table.New("fastq_ftp", "fastq_md5")
		md.Append("ftp/SRR1_1.fastq.gz;ftp/SRR1_2.fastq.gz", "md5one;md5two")
		md.Append("ftp/SRR2.fastq.gz", "md5three")
		md.Append("", "")

		want, err := ExpectedMD5s(md, "fastq_ftp", "fastq_md5")
		So(err, ShouldBeNil)
		So(want, ShouldResemble, map[string]string{
			"SRR1_1.fastq.gz": "md5one",
			"SRR1_2.fastq.gz": "md5two",
			"SRR2.fastq.gz":   "md5three",
		})

		Convey("A count mismatch between the cells is an error", func() {
			md.Append("ftp/SRR3_1.fastq.gz;ftp/SRR3_2.fastq.gz", "md5only")

			_, err := ExpectedMD5s(md, "fastq_ftp", "fastq_md5")
			So(err, ShouldEqual, ErrMD5Count)
		})
	})

	Convey("Given fastq files on disk, checksums are verified", t, func() {
		dir := t.TempDir()

		err := os.WriteFile(filepath.Join(dir, "good.fastq.gz"), []byte("hello"), filePerm)
		So(err, ShouldBeNil)
		err = os.WriteFile(filepath.Join(dir, "bad.fastq.gz"), []byte("tampered"), filePerm)
		So(err, ShouldBeNil)

		helloMD5, err := FileMD5(filepath.Join(dir, "good.fastq.gz"))
		So(err, ShouldBeNil)
		So(helloMD5, ShouldEqual, "5d41402abc4b2a76b9719d911017c592")

		mismatches := VerifyMD5s(dir, map[string]string{
			"good.fastq.gz":    helloMD5,
			"bad.fastq.gz":     "0123456789abcdef0123456789abcdef",
			"missing.fastq.gz": "ffffffffffffffffffffffffffffffff",
		})

		So(mismatches, ShouldHaveLength, 2)
		So(mismatches[0].FileName, ShouldEqual, "bad.fastq.gz")
		So(mismatches[0].Want, ShouldEqual, "0123456789abcdef0123456789abcdef")
		So(mismatches[0].Got, ShouldNotBeEmpty)
		So(mismatches[1].FileName, ShouldEqual, "missing.fastq.gz")
		So(mismatches[1].Got, ShouldBeEmpty)
	})
}
