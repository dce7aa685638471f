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

package ena

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestColumns(t *testing.T) {
	Convey("Download columns pair with their md5 columns", t, func() {
		for _, column := range []string{"fastq_ftp", "fastq_aspera", "fastq_galaxy"} {
			md5Column, err := MD5Column(column)
			So(err, ShouldBeNil)
			So(md5Column, ShouldEqual, "fastq_md5")
		}

		md5Column, err := MD5Column("submitted_ftp")
		So(err, ShouldBeNil)
		So(md5Column, ShouldEqual, "submitted_md5")

		_, err = MD5Column("sample_alias")
		So(err, ShouldEqual, ErrBadDownloadColumn)
	})

	Convey("URL cells split in to file basenames", t, func() {
		So(FileNames("ftp.sra.example/vol1/SRR1_1.fastq.gz;ftp.sra.example/vol1/SRR1_2.fastq.gz"),
			ShouldResemble, []string{"SRR1_1.fastq.gz", "SRR1_2.fastq.gz"})
		So(FileNames("plain.fastq.gz"), ShouldResemble, []string{"plain.fastq.gz"})
		So(FileNames(""), ShouldBeNil)
	})
}

func TestDownloadMetadata(t *testing.T) {
	Convey("Given an ENA portal API server", t, func() {
		const body = "run_accession\tfastq_ftp\nSRR1\tftp/SRR1.fastq.gz\n"

		var gotQuery string

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery

			if r.URL.Query().Get("accession") != "PRJEB1" {
				w.WriteHeader(http.StatusNoContent)

				return
			}

			w.Write([]byte(body)) //nolint:errcheck
		}))
		defer srv.Close()

		client := &Client{BaseURL: srv.URL}
		dir := t.TempDir()

		Convey("You can download a study's metadata to a TSV file", func() {
			path, err := client.DownloadMetadata(context.Background(), "PRJEB1", dir)
			So(err, ShouldBeNil)
			So(path, ShouldEqual, filepath.Join(dir, "PRJEB1_ENA_metadata.tsv"))

			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, body)

			So(gotQuery, ShouldContainSubstring, "format=tsv")
			So(gotQuery, ShouldContainSubstring, "result=read_run")
			So(gotQuery, ShouldContainSubstring, "fastq_ftp")
		})

		Convey("An unknown accession is a specific error", func() {
			_, err := client.DownloadMetadata(context.Background(), "PRJEB9", dir)
			So(err, ShouldEqual, ErrUnknownAccession)
		})
	})
}

func TestDownloadFastqs(t *testing.T) {
	Convey("Given a server holding fastq files", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.Contains(r.URL.Path, "bad") {
				w.WriteHeader(http.StatusNotFound)

				return
			}

			w.Write([]byte("data for " + filepath.Base(r.URL.Path))) //nolint:errcheck
		}))
		defer srv.Close()

		dir := t.TempDir()

		downloader := &FastqDownloader{
			OutputDir:  dir,
			Workers:    2,
			HTTPClient: srv.Client(),
		}

		urls := []string{
			srv.URL + "/vol1/SRR1_1.fastq.gz",
			srv.URL + "/vol1/SRR1_2.fastq.gz",
			srv.URL + "/vol1/bad.fastq.gz",
		}

		Convey("Files download concurrently and failures are advisory", func() {
			result, err := downloader.Download(context.Background(), urls)
			So(err, ShouldBeNil)
			So(result.Fetched, ShouldEqual, 2)
			So(result.Skipped, ShouldEqual, 0)
			So(result.Failed, ShouldResemble, []string{srv.URL + "/vol1/bad.fastq.gz"})

			data, err := os.ReadFile(filepath.Join(dir, "SRR1_1.fastq.gz"))
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "data for SRR1_1.fastq.gz")

			_, err = os.Stat(filepath.Join(dir, "bad.fastq.gz"))
			So(os.IsNotExist(err), ShouldBeTrue)

			Convey("Files already present and non-empty are skipped", func() {
				result, err := downloader.Download(context.Background(), urls[:2])
				So(err, ShouldBeNil)
				So(result.Fetched, ShouldEqual, 0)
				So(result.Skipped, ShouldEqual, 2)
			})
		})
	})
}
