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

// package ena talks to the European Nucleotide Archive portal API and knows
// the shape of the metadata tables it serves: which columns carry download
// URLs, which carry checksums, and which are inherently per-file and so
// meaningless to fold across files.

package ena

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrUnknownAccession  = Error("study accession not found in ENA")
	ErrBadResponse       = Error("unexpected response from the ENA portal API")
	ErrBadDownloadColumn = Error("not an ENA download column")

	// DefaultBaseURL is the ENA portal API filereport endpoint.
	DefaultBaseURL = "https://www.ebi.ac.uk/ena/portal/api/filereport"

	// DefaultDownloadColumn is the URL column fastqs are usually
	// downloaded from.
	DefaultDownloadColumn = "fastq_ftp"

	metadataFileSuffix = "_ENA_metadata.tsv"
	requestTimeout     = time.Minute
	filePerm           = 0644
)

// FastqURLColumns are the ENA metadata columns holding semicolon-separated
// download URLs for a run's files.
var FastqURLColumns = []string{
	"fastq_ftp", "fastq_aspera", "fastq_galaxy",
	"submitted_ftp", "submitted_aspera", "submitted_galaxy",
}

// DefaultNoWarningColumns are ENA columns where several distinct values per
// sample are normal (accessions, aliases, timestamps) and folding them
// should never warn.
var DefaultNoWarningColumns = []string{
	"sample_accession", "secondary_sample_accession", "experiment_accession",
	"run_accession", "library_name", "experiment_title", "experiment_alias",
	"run_alias", "sample_alias", "broker_name", "sample_title", "first_public",
	"last_updated", "ENA-FIRST-PUBLIC", "ENA-LAST-UPDATE", "first_created",
}

// IgnoredColumns are ENA columns that describe individual files (URLs,
// checksums, byte counts) rather than the sample, and are excluded from
// metadata folding entirely.
var IgnoredColumns = []string{
	"nominal_length", "read_count", "base_count", "fastq_bytes", "fastq_md5",
	"fastq_ftp", "fastq_aspera", "fastq_galaxy", "submitted_bytes",
	"submitted_md5", "submitted_ftp", "submitted_aspera", "submitted_galaxy",
	"submitted_format", "sra_bytes", "sra_md5", "sra_ftp", "sra_aspera",
	"sra_galaxy", "cram_index_ftp", "cram_index_aspera", "cram_index_galaxy",
	"nominal_sdev",
}

// fileReportFields is the fixed field list requested from the portal API,
// matching what the rest of the toolkit expects to find in a metadata
// table.
var fileReportFields = []string{
	"study_accession", "secondary_study_accession", "sample_accession",
	"secondary_sample_accession", "experiment_accession", "run_accession",
	"submission_accession", "tax_id", "scientific_name",
	"instrument_platform", "instrument_model", "library_name",
	"nominal_length", "library_layout", "library_strategy", "library_source",
	"library_selection", "read_count", "base_count", "center_name",
	"first_public", "last_updated", "experiment_title", "study_title",
	"study_alias", "experiment_alias", "run_alias", "fastq_bytes",
	"fastq_md5", "fastq_ftp", "fastq_aspera", "fastq_galaxy",
	"submitted_bytes", "submitted_md5", "submitted_ftp", "submitted_aspera",
	"submitted_galaxy", "submitted_format", "sra_bytes", "sra_md5",
	"sra_ftp", "sra_aspera", "sra_galaxy", "sample_alias", "broker_name",
	"sample_title", "nominal_sdev", "first_created",
}

// MD5Column returns the checksum column paired with the given download
// column, eg. fastq_ftp -> fastq_md5.
func MD5Column(downloadColumn string) (string, error) {
	prefix, _, found := strings.Cut(downloadColumn, "_")
	if !found || !isDownloadColumn(downloadColumn) {
		return "", ErrBadDownloadColumn
	}

	return prefix + "_md5", nil
}

func isDownloadColumn(column string) bool {
	for _, name := range FastqURLColumns {
		if name == column {
			return true
		}
	}

	return false
}

// FileNames returns the file basenames of a semicolon-separated URL cell.
func FileNames(urlCell string) []string {
	if urlCell == "" {
		return nil
	}

	urls := strings.Split(urlCell, ";")

	names := make([]string, len(urls))
	for i, u := range urls {
		names[i] = path.Base(u)
	}

	return names
}

// Client downloads study metadata from the ENA portal API.
type Client struct {
	// BaseURL is the filereport endpoint; defaults to DefaultBaseURL.
	BaseURL string

	// HTTPClient defaults to one with a sensible timeout.
	HTTPClient *http.Client
}

// DownloadMetadata fetches the run metadata TSV for the given study
// accession and writes it to outputDir, returning the path of the written
// file. An accession unknown to ENA is reported as ErrUnknownAccession.
func (c *Client) DownloadMetadata(ctx context.Context, accession, outputDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.fileReportURL(accession), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", err
	}

	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return "", ErrUnknownAccession
	}

	if resp.StatusCode != http.StatusOK {
		return "", ErrBadResponse
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if len(data) == 0 {
		return "", ErrUnknownAccession
	}

	outPath := filepath.Join(outputDir, accession+metadataFileSuffix)

	return outPath, os.WriteFile(outPath, data, filePerm)
}

func (c *Client) fileReportURL(accession string) string {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	query := url.Values{}
	query.Set("accession", accession)
	query.Set("result", "read_run")
	query.Set("fields", strings.Join(fileReportFields, ","))
	query.Set("format", "tsv")
	query.Set("limit", "0")

	return base + "?" + query.Encode()
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}

	return &http.Client{Timeout: requestTimeout}
}
