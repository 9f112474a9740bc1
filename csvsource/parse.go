package csvsource

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/domonda/go-types/charset"
)

// ParseDetectFormat parses CSV data with automatic format detection
// and returns the parsed rows together with the detected format.
func ParseDetectFormat(csv []byte) (rows [][]string, format *Format, err error) {
	format = DetectFormat(csv)
	rows, err = ParseWithFormat(csv, format)
	return rows, format, err
}

// ParseWithFormat parses CSV data using an explicitly specified
// format. The data is decoded to UTF-8 first: a UTF-8 BOM is trimmed,
// other encodings are decoded via the charset package. Quoted fields
// may contain separators, doubled quotes and line breaks.
func ParseWithFormat(csv []byte, format *Format) (rows [][]string, err error) {
	err = format.Validate()
	if err != nil {
		return nil, err
	}

	if format.Encoding == "UTF-8" {
		csv = charset.TrimBOM(csv, charset.BOMUTF8)
	} else {
		enc, err := charset.GetEncoding(format.Encoding)
		if err != nil {
			return nil, err
		}
		csv, err = enc.Decode(csv)
		if err != nil {
			return nil, err
		}
	}
	csv = sanitizeUTF8(csv)

	text := string(csv)
	if line, rest, found := strings.Cut(text, "\n"); found {
		if sep, ok := separatorHeaderLine([]byte(strings.TrimRight(line, "\r"))); ok {
			if sep != format.Separator {
				return nil, fmt.Errorf("declared separator %q contradicts format separator %q", sep, format.Separator)
			}
			text = rest
		}
	}

	rows = parseRows(text, format.Separator[0])
	return RemoveEmptyRows(rows), nil
}

// parseRows splits decoded CSV text into rows of fields.
// Fields quoted with '"' may contain the separator, line breaks and
// doubled quotes per RFC 4180.
func parseRows(data string, sep byte) [][]string {
	var (
		rows    [][]string
		fields  []string
		field   strings.Builder
		quoted  bool
		started bool
	)
	endField := func() {
		fields = append(fields, field.String())
		field.Reset()
	}
	endRow := func() {
		endField()
		rows = append(rows, fields)
		fields = nil
		started = false
	}
	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case quoted:
			if c == '"' {
				if i+1 < len(data) && data[i+1] == '"' {
					field.WriteByte('"')
					i++
				} else {
					quoted = false
				}
				continue
			}
			field.WriteByte(c)
		case c == '"' && field.Len() == 0:
			quoted = true
			started = true
		case c == sep:
			endField()
			started = true
		case c == '\n':
			endRow()
		case c == '\r':
			// swallowed, \r\n ends the row at the \n
		default:
			field.WriteByte(c)
			started = true
		}
	}
	if started || field.Len() > 0 || len(fields) > 0 {
		endRow()
	}
	return rows
}

// RemoveEmptyRows returns rows without rows that have no fields or
// only empty fields.
func RemoveEmptyRows(rows [][]string) [][]string {
	kept := make([][]string, 0, len(rows))
	for _, row := range rows {
		for _, field := range row {
			if field != "" {
				kept = append(kept, row)
				break
			}
		}
	}
	return kept
}

// sanitizeUTF8 replaces invalid UTF-8 bytes with the replacement rune
// and strips zero bytes.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) && !bytes.ContainsRune(data, 0) {
		return data
	}
	var b bytes.Buffer
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r == 0 {
			continue
		}
		b.WriteRune(r)
	}
	return b.Bytes()
}
