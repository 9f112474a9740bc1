package csvsource

import (
	"bytes"
	"fmt"
)

// Format describes how raw CSV bytes are encoded and separated.
type Format struct {
	// Encoding is the character encoding name, e.g. "UTF-8".
	Encoding string
	// Separator is the field separator, one of "," ";" "\t".
	Separator string
	// Newline is the line terminator, "\n" or "\r\n".
	Newline string
}

// Validate returns an error if the format is incomplete or uses an
// unsupported separator or newline.
func (f *Format) Validate() error {
	if f == nil {
		return fmt.Errorf("nil csvsource.Format")
	}
	if f.Encoding == "" {
		return fmt.Errorf("csvsource.Format without Encoding")
	}
	switch f.Separator {
	case ",", ";", "\t":
	default:
		return fmt.Errorf("invalid CSV separator %q", f.Separator)
	}
	switch f.Newline {
	case "\n", "\r\n":
	default:
		return fmt.Errorf("invalid CSV newline %q", f.Newline)
	}
	return nil
}

// DetectFormat analyzes raw CSV data and returns the most plausible
// format: UTF-8 encoding, the line ending actually present, and the
// most frequent candidate separator outside of quoted fields.
// An explicit "sep=X" header line overrides separator counting.
func DetectFormat(csv []byte) *Format {
	format := &Format{Encoding: "UTF-8", Separator: ",", Newline: "\n"}
	if bytes.Contains(csv, []byte("\r\n")) {
		format.Newline = "\r\n"
	}

	firstLine := csv
	if i := bytes.IndexByte(csv, '\n'); i >= 0 {
		firstLine = bytes.TrimRight(csv[:i], "\r")
	}
	if sep, ok := separatorHeaderLine(firstLine); ok {
		format.Separator = sep
		return format
	}

	counts := map[byte]int{',': 0, ';': 0, '\t': 0}
	quoted := false
	for _, c := range firstLine {
		switch {
		case c == '"':
			quoted = !quoted
		case !quoted:
			if _, ok := counts[c]; ok {
				counts[c]++
			}
		}
	}
	best := byte(',')
	for _, c := range []byte{';', '\t'} {
		if counts[c] > counts[best] {
			best = c
		}
	}
	format.Separator = string(best)
	return format
}

// separatorHeaderLine recognizes the "sep=X" declaration some
// spreadsheet applications write as the first line.
func separatorHeaderLine(line []byte) (separator string, ok bool) {
	line = bytes.Trim(line, `"`)
	if len(line) != 5 {
		return "", false
	}
	if !bytes.EqualFold(line[:4], []byte("sep=")) {
		return "", false
	}
	switch line[4] {
	case ',', ';', '\t':
		return string(line[4]), true
	}
	return "", false
}
