// Package csvsource loads CSV data into the item and column shapes
// consumed by the htable engine. Format detection covers encoding,
// separator and line endings; parsing handles quoted fields with
// embedded separators, doubled quotes and line breaks.
package csvsource

import (
	"context"
	"fmt"
	"strconv"

	fs "github.com/ungerik/go-fs"

	htable "github.com/pheuter/go-headless-table"
)

// Source is a loaded CSV table: a header row of column titles and the
// remaining rows as items. Rows shorter than the header are padded so
// every item has one field per column.
type Source struct {
	columns []string
	items   [][]string
}

// Load reads and parses a CSV file with automatic format detection.
func Load(ctx context.Context, file fs.FileReader) (*Source, error) {
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading CSV file %s: %w", file.Name(), err)
	}
	return LoadBytes(data)
}

// LoadBytes parses raw CSV bytes with automatic format detection.
func LoadBytes(data []byte) (*Source, error) {
	rows, _, err := ParseDetectFormat(data)
	if err != nil {
		return nil, err
	}
	return FromRows(rows)
}

// FromRows builds a Source from already-parsed rows, using the first
// row as column titles.
func FromRows(rows [][]string) (*Source, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV data has no rows")
	}
	columns := rows[0]
	items := rows[1:]
	for i, item := range items {
		if len(item) < len(columns) {
			items[i] = append(item, make([]string, len(columns)-len(item))...)
		}
	}
	return &Source{columns: columns, items: items}, nil
}

// Columns returns the column titles from the header row.
func (s *Source) Columns() []string { return s.columns }

// Items returns the data rows, one string slice per row.
func (s *Source) Items() [][]string { return s.items }

// TableColumns returns htable column definitions over the source's
// string-slice items, one per header title, with ids "0", "1", ...
// in header order.
func (s *Source) TableColumns() []htable.Column[[]string] {
	columns := make([]htable.Column[[]string], len(s.columns))
	for i, title := range s.columns {
		index := i
		columns[i] = htable.Column[[]string]{
			ID:     htable.ColumnID(strconv.Itoa(index)),
			Header: title,
			Value: func(item []string) any {
				if index >= len(item) {
					return ""
				}
				return item[index]
			},
		}
	}
	return columns
}

// NewTable builds a table over the source's items with the given
// options, a shorthand for htable.NewTable with TableColumns.
func (s *Source) NewTable(opts ...htable.TableOption[[]string]) *htable.Table[[]string] {
	return htable.NewTable(htable.NewWritable(s.items), s.TableColumns(), opts...)
}
