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

// package table holds tab-separated tables in memory, giving named-column
// access to their cells. It is the common currency between the metadata,
// template and warehouse packages.

package table

import (
	"os"
	"strings"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNoData        = Error("no data found in table")
	ErrMissingColumn = Error("column not found in table")

	filePerm = 0644
)

// Table contains the cells of a tabular file: a header row naming each
// column, and the data rows in file order. Rows are padded to the header
// length, so a cell access within the header range never goes out of bounds.
type Table struct {
	ColumnHeaders []string
	Rows          [][]string
}

// New returns an empty Table with the given column headers, ready to
// Append() rows to.
func New(headers ...string) *Table {
	return &Table{ColumnHeaders: headers}
}

// ReadTSV reads the tab-separated file at the given path in to a Table. The
// first line is taken as the header row. Blank lines are skipped. Returns
// ErrNoData if the file has no header line.
func ReadTSV(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, ErrNoData
	}

	t := &Table{ColumnHeaders: strings.Split(lines[0], "\t")}

	for _, line := range lines[1:] {
		if line == "" {
			continue
		}

		t.Rows = append(t.Rows, padRow(strings.Split(line, "\t"), len(t.ColumnHeaders)))
	}

	return t, nil
}

func padRow(row []string, n int) []string {
	for len(row) < n {
		row = append(row, "")
	}

	return row
}

// Append adds a data row to the table, padding it to the header length.
func (t *Table) Append(row ...string) {
	t.Rows = append(t.Rows, padRow(row, len(t.ColumnHeaders)))
}

// WriteTSV writes the table as a tab-separated file to the given path.
func (t *Table) WriteTSV(path string) error {
	lines := make([]string, 0, len(t.Rows)+1)
	lines = append(lines, strings.Join(t.ColumnHeaders, "\t"))

	for _, row := range t.Rows {
		lines = append(lines, strings.Join(row, "\t"))
	}

	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), filePerm)
}

// ColumnIndex returns the position of the named column in the header row, or
// ErrMissingColumn if the table has no such column.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, header := range t.ColumnHeaders {
		if header == name {
			return i, nil
		}
	}

	return 0, ErrMissingColumn
}

// Column returns the values of the named column, one per data row.
func (t *Table) Column(name string) ([]string, error) {
	i, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}

	values := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		values[r] = row[i]
	}

	return values, nil
}

// Columns returns, for each data row, the values of the named columns in the
// order requested.
func (t *Table) Columns(names ...string) ([][]string, error) {
	indexes := make([]int, len(names))

	for i, name := range names {
		index, err := t.ColumnIndex(name)
		if err != nil {
			return nil, err
		}

		indexes[i] = index
	}

	rows := make([][]string, len(t.Rows))

	for r, row := range t.Rows {
		rows[r] = make([]string, len(indexes))
		for i, index := range indexes {
			rows[r][i] = row[index]
		}
	}

	return rows, nil
}

// MissingColumns returns which of the given column names are absent from the
// header row.
func (t *Table) MissingColumns(names ...string) []string {
	var missing []string

	for _, name := range names {
		if _, err := t.ColumnIndex(name); err != nil {
			missing = append(missing, name)
		}
	}

	return missing
}
