// Package excelsource loads Excel sheets (.xlsx, .xlsm, .xltm, .xltx)
// into the item and column shapes consumed by the htable engine,
// using excelize for parsing. The first row of a sheet is taken as
// column titles, empty rows and columns are trimmed from the edges.
package excelsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	fs "github.com/ungerik/go-fs"
	"github.com/xuri/excelize/v2"

	"github.com/pheuter/go-headless-table/csvsource"
)

// Options controls how sheet cells are read.
type Options struct {
	// RawCellStrings returns raw cell values instead of values
	// formatted per the cell's number format.
	RawCellStrings bool
}

// ReadFirstSheet reads the first sheet from Excel file data provided
// via an io.Reader.
func ReadFirstSheet(reader io.Reader, options Options) (source *csvsource.Source, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrSheetNotExist{SheetName: "<FirstSheet>"} // Should never happen (?)
	}
	return readSheet(f, sheet, options)
}

// Read reads all non-empty sheets from Excel file data provided via
// an io.Reader, returning the sheet names and one Source per sheet,
// in sheet order. Empty sheets are skipped.
func Read(reader io.Reader, options Options) (sheets []string, sources []*csvsource.Source, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	for _, sheet := range f.GetSheetList() {
		source, err := readSheet(f, sheet, options)
		if err != nil {
			if errors.Is(err, ErrEmptySheet) {
				continue
			}
			return nil, nil, err
		}
		sheets = append(sheets, sheet)
		sources = append(sources, source)
	}
	return sheets, sources, nil
}

// ReadSheet reads one named sheet from Excel file data provided via
// an io.Reader.
func ReadSheet(reader io.Reader, sheet string, options Options) (source *csvsource.Source, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	return readSheet(f, sheet, options)
}

// LoadFirstSheet reads the first sheet of an Excel file into a Source.
func LoadFirstSheet(ctx context.Context, file fs.FileReader, options Options) (*csvsource.Source, error) {
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading Excel file %s: %w", file.Name(), err)
	}
	return ReadFirstSheet(bytes.NewReader(data), options)
}

// Load reads all non-empty sheets of an Excel file.
func Load(ctx context.Context, file fs.FileReader, options Options) (sheets []string, sources []*csvsource.Source, err error) {
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("reading Excel file %s: %w", file.Name(), err)
	}
	return Read(bytes.NewReader(data), options)
}

// LoadSheet reads one named sheet of an Excel file into a Source.
func LoadSheet(ctx context.Context, file fs.FileReader, sheet string, options Options) (*csvsource.Source, error) {
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading Excel file %s: %w", file.Name(), err)
	}
	return ReadSheet(bytes.NewReader(data), sheet, options)
}

func readSheet(f *excelize.File, sheet string, options Options) (*csvsource.Source, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: options.RawCellStrings})
	if err != nil {
		return nil, err
	}
	rows = trimEmptyEdgeRows(rows)
	numCols := trimEmptyEdgeColumns(rows)
	if len(rows) == 0 || numCols == 0 {
		return nil, ErrEmptySheet
	}
	// pad every row to numCols so the header and all items align
	for i, row := range rows {
		if len(row) < numCols {
			rows[i] = append(row, make([]string, numCols-len(row))...)
		}
	}
	return csvsource.FromRows(rows)
}

// trimEmptyEdgeRows removes fully empty rows from the top and bottom.
func trimEmptyEdgeRows(rows [][]string) [][]string {
	for len(rows) > 0 && emptyRow(rows[0]) {
		rows = rows[1:]
	}
	for len(rows) > 0 && emptyRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// trimEmptyEdgeColumns removes fully empty columns from the left and
// right edges and returns the remaining column count.
func trimEmptyEdgeColumns(rows [][]string) int {
	first, last := -1, 0
	for _, row := range rows {
		l := len(row)
		for l > 0 && row[l-1] == "" {
			l--
		}
		if l > last {
			last = l
		}
		for i := 0; i < l; i++ {
			if row[i] != "" {
				if first == -1 || i < first {
					first = i
				}
				break
			}
		}
	}
	if last == 0 {
		return 0
	}
	if first == -1 {
		first = 0
	}
	for i, row := range rows {
		if len(row) > last {
			row = row[:last]
		}
		if first < len(row) {
			row = row[first:]
		} else {
			row = nil
		}
		rows[i] = row
	}
	return last - first
}

func emptyRow(row []string) bool {
	for _, field := range row {
		if field != "" {
			return false
		}
	}
	return true
}
