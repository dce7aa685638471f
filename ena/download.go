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
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

const defaultDownloadWorkers = 4

// FastqDownloader fetches the fastq files of a study, given the download
// URLs from an ENA metadata column.
type FastqDownloader struct {
	// OutputDir is where fetched files are written.
	OutputDir string

	// Workers caps concurrent downloads; defaults to a small number so
	// as not to hammer the archive.
	Workers int

	// HTTPClient defaults to http.DefaultClient. Fastq downloads can
	// legitimately take a long time, so no timeout is imposed here.
	HTTPClient *http.Client

	// Report, if set, is called as each file finishes or is skipped.
	Report func(fileName string, skipped bool)
}

// DownloadResult says what a Download run achieved.
type DownloadResult struct {
	Fetched int
	Skipped int

	// Failed holds the URLs that could not be fetched. Failures are
	// advisory; the rest of the run completes regardless.
	Failed []string
}

// Download fetches every URL concurrently, skipping files already present
// and non-empty in the output directory. ENA URL columns often omit the
// scheme; schemeless URLs are fetched over https.
func (d *FastqDownloader) Download(ctx context.Context, urls []string) (*DownloadResult, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers())

	results := make([]error, len(urls))
	skips := make([]bool, len(urls))

	for i, u := range urls {
		g.Go(func() error {
			skipped, err := d.downloadOne(ctx, u)
			results[i] = err
			skips[i] = skipped

			d.report(path.Base(u), skipped)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &DownloadResult{}

	for i, u := range urls {
		switch {
		case results[i] != nil:
			result.Failed = append(result.Failed, u)
		case skips[i]:
			result.Skipped++
		default:
			result.Fetched++
		}
	}

	sort.Strings(result.Failed)

	return result, nil
}

func (d *FastqDownloader) downloadOne(ctx context.Context, u string) (bool, error) {
	dest := filepath.Join(d.OutputDir, path.Base(u))

	if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
		return true, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, withScheme(u), nil)
	if err != nil {
		return false, err
	}

	resp, err := d.httpClient().Do(req)
	if err != nil {
		return false, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, ErrBadResponse
	}

	return false, writeAtomically(dest, resp.Body)
}

// writeAtomically streams into a temp file next to dest then renames, so an
// interrupted download never leaves a plausible-looking partial fastq that a
// later run would skip.
func writeAtomically(dest string, r io.Reader) error {
	f, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return err
	}

	if _, err = io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())

		return err
	}

	if err = f.Close(); err != nil {
		os.Remove(f.Name())

		return err
	}

	return os.Rename(f.Name(), dest)
}

func withScheme(u string) string {
	if strings.Contains(u, "://") {
		return u
	}

	return "https://" + u
}

func (d *FastqDownloader) workers() int {
	if d.Workers > 0 {
		return d.Workers
	}

	return defaultDownloadWorkers
}

func (d *FastqDownloader) httpClient() *http.Client {
	if d.HTTPClient != nil {
		return d.HTTPClient
	}

	return http.DefaultClient
}

func (d *FastqDownloader) report(fileName string, skipped bool) {
	if d.Report != nil {
		d.Report(fileName, skipped)
	}
}
