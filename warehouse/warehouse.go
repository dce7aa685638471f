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

// package warehouse exports fastq file and sample listings from an in-house
// sequencing warehouse database, as a metadata table the rest of the toolkit
// can curate. It serves labs whose studies never went through ENA.

package warehouse

import (
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/tbcgit/omdctk/table"
)

const (
	sqlDriverName   = "mysql"
	connMaxLifetime = time.Minute * 3
	maxOpenConns    = 10
	maxIdleConns    = 10
)

// Warehouse is a connection to the sequencing warehouse database.
type Warehouse struct {
	pool *sql.DB
}

// New returns a new Warehouse connection using mysql.Config that you can get
// from config.MySQLConfig().
func New(c *mysql.Config) (*Warehouse, error) {
	pool, err := sql.Open(sqlDriverName, c.FormatDSN())
	if err != nil {
		return nil, err
	}

	pool.SetConnMaxLifetime(connMaxLifetime)
	pool.SetMaxOpenConns(maxOpenConns)
	pool.SetMaxIdleConns(maxIdleConns)

	return &Warehouse{pool: pool}, pool.Ping()
}

// metadataColumns are the output columns of RunMetadata, in order. The first
// two are the ones downstream curation joins on.
var metadataColumns = []string{
	"fastq_file_name", "sample_name", "fastq_md5", "study_accession",
	"study_title", "run_accession", "library_layout", "instrument_model",
	"read_count",
}

const getRunMetadata = `
SELECT f.file_name as FastqFileName, sa.name as SampleName,
f.md5 as FileMD5, st.accession as StudyAccession, st.title as StudyTitle,
r.accession as RunAccession, r.library_layout as LibraryLayout,
r.instrument_model as InstrumentModel, r.read_count as ReadCount
FROM seq_file f
JOIN seq_run r on r.id_run_tmp = f.id_run_tmp
JOIN seq_sample sa on sa.id_sample_tmp = r.id_sample_tmp
JOIN seq_study st on st.id_study_tmp = sa.id_study_tmp
WHERE st.accession = ?
ORDER BY f.file_name
`

// RunMetadata returns a metadata table with one row per fastq file of the
// given study, in the same shape downstream curation expects of an ENA
// metadata table: fastq_file_name and sample_name first, then per-run
// details.
func (w *Warehouse) RunMetadata(studyAccession string) (*table.Table, error) {
	rows, err := w.pool.Query(getRunMetadata, studyAccession)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	t := table.New(metadataColumns...)

	for rows.Next() {
		cells := make([]string, len(metadataColumns))
		dests := make([]any, len(cells))

		for i := range cells {
			dests[i] = &cells[i]
		}

		if err := rows.Scan(dests...); err != nil {
			return nil, err
		}

		t.Append(cells...)
	}

	if err := rows.Close(); err != nil {
		return nil, err
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return t, nil
}

// Close closes the connection to the warehouse.
func (w *Warehouse) Close() error {
	return w.pool.Close()
}
