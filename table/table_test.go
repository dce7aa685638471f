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

package table

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTable(t *testing.T) {
	Convey("Given a TSV file, you can read it in to a Table", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "metadata.tsv")

		err := os.WriteFile(path, []byte(
			"sample_name\tfastq_file_name\tnote\n"+
				"s1\ts1_1.fastq.gz\tfirst\n"+
				"s1\ts1_2.fastq.gz\n"+
				"\n"+
				"s2\ts2.fastq.gz\tsecond\n",
		), filePerm)
		So(err, ShouldBeNil)

		tab, err := ReadTSV(path)
		So(err, ShouldBeNil)
		So(tab.ColumnHeaders, ShouldResemble, []string{"sample_name", "fastq_file_name", "note"})
		So(tab.Rows, ShouldHaveLength, 3)

		Convey("Short rows are padded to the header length", func() {
			So(tab.Rows[1], ShouldResemble, []string{"s1", "s1_2.fastq.gz", ""})
		})

		Convey("You can get single columns and column subsets", func() {
			samples, err := tab.Column("sample_name")
			So(err, ShouldBeNil)
			So(samples, ShouldResemble, []string{"s1", "s1", "s2"})

			rows, err := tab.Columns("note", "sample_name")
			So(err, ShouldBeNil)
			So(rows, ShouldResemble, [][]string{
				{"first", "s1"},
				{"", "s1"},
				{"second", "s2"},
			})

			_, err = tab.Column("absent")
			So(err, ShouldEqual, ErrMissingColumn)

			So(tab.MissingColumns("note", "absent", "also_absent"),
				ShouldResemble, []string{"absent", "also_absent"})
			So(tab.MissingColumns("note"), ShouldBeNil)
		})

		Convey("You can write it back out unchanged", func() {
			outPath := filepath.Join(dir, "out.tsv")
			err := tab.WriteTSV(outPath)
			So(err, ShouldBeNil)

			rt, err := ReadTSV(outPath)
			So(err, ShouldBeNil)
			So(rt.ColumnHeaders, ShouldResemble, tab.ColumnHeaders)
			So(rt.Rows, ShouldResemble, tab.Rows)
		})
	})

	Convey("Reading an empty file fails", t, func() {
		path := filepath.Join(t.TempDir(), "empty.tsv")
		err := os.WriteFile(path, []byte(""), filePerm)
		So(err, ShouldBeNil)

		_, err = ReadTSV(path)
		So(err, ShouldEqual, ErrNoData)
	})

	Convey("You can build a table by appending rows", t, func() {
		tab := New("a", "b", "c")
		tab.Append("1", "2", "3")
		tab.Append("4")

		So(tab.Rows, ShouldResemble, [][]string{
			{"1", "2", "3"},
			{"4", "", ""},
		})
	})
}
