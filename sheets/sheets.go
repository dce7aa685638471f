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

// package sheets retrieves metadata tables kept in Google sheets, for labs
// that curate sample metadata in a shared spreadsheet rather than a TSV
// file.

package sheets

import (
	"context"
	"fmt"

	"github.com/tbcgit/omdctk/table"
	"google.golang.org/api/option"
	googleSheets "google.golang.org/api/sheets/v4"
)

type Error string

func (e Error) Error() string { return string(e) }

const ErrEmptySheet = Error("sheet has no rows")

// Sheets allows the retrieval of metadata tables from Google docs.
type Sheets struct {
	srv *googleSheets.Service
}

// New returns a Sheets that you can Read() metadata tables from Google docs
// with.
func New(sc *ServiceCredentials) (*Sheets, error) {
	ctx := context.Background()
	client := sc.toJWTConfig().Client(ctx)

	srv, err := googleSheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, err
	}

	return &Sheets{srv: srv}, nil
}

// Read retrieves the named sheet of the given document as a metadata table,
// first row as column headers. The id of a Google sheet is the long string
// of characters in the URL when viewing that document. Short rows are padded
// so every row has a cell per header, matching what reading a TSV would
// give.
func (s *Sheets) Read(docID, sheetName string) (*table.Table, error) {
	valRange, err := s.srv.Spreadsheets.Values.Get(docID, sheetName).Do()
	if err != nil {
		return nil, err
	}

	if len(valRange.Values) == 0 {
		return nil, ErrEmptySheet
	}

	t := table.New(rowToStringSlice(valRange.Values[0])...)

	for _, row := range valRange.Values[1:] {
		t.Append(rowToStringSlice(row)...)
	}

	return t, nil
}

func rowToStringSlice(in []any) []string {
	out := make([]string, len(in))

	for i, cell := range in {
		out[i] = fmt.Sprint(cell)
	}

	return out
}
