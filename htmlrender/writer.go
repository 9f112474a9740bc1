// Package htmlrender writes tables as HTML table elements.
// Header cells carry the attrs contributed by plugins as inline
// styles, body cells whose merged props mark them as filter matches
// get a highlight class, and hierarchical rows are flattened with a
// per-depth row class. All cell values are HTML-escaped.
package htmlrender

import (
	"context"
	"html/template"
	"io"
	"sort"
	"strconv"
	"strings"

	htable "github.com/pheuter/go-headless-table"
)

// Writer writes a table's current rows and headers as an HTML table.
//
// Writer is immutable after creation, all With* methods return a new
// Writer instance with the modified configuration.
type Writer[T any] struct {
	tableClass     string
	caption        string
	matchClass     string
	nilValue       template.HTML
	headerTemplate *template.Template
	rowTemplate    *template.Template
	footerTemplate *template.Template
}

// NewWriter creates a new HTML table writer for item type T
// with the default templates, the match class "match" and an empty
// string for value-less cells.
func NewWriter[T any]() *Writer[T] {
	return &Writer[T]{
		tableClass:     "",
		caption:        "",
		matchClass:     "match",
		nilValue:       "",
		headerTemplate: HeaderTemplate,
		rowTemplate:    RowTemplate,
		footerTemplate: FooterTemplate,
	}
}

func (w *Writer[T]) clone() *Writer[T] {
	c := new(Writer[T])
	*c = *w
	return c
}

// WithTableClass returns a new writer with the CSS class for the
// table element, rendered as <table class='tableClass'>.
func (w *Writer[T]) WithTableClass(tableClass string) *Writer[T] {
	mod := w.clone()
	mod.tableClass = tableClass
	return mod
}

// WithCaption returns a new writer with a table caption.
func (w *Writer[T]) WithCaption(caption string) *Writer[T] {
	mod := w.clone()
	mod.caption = caption
	return mod
}

// WithMatchClass returns a new writer with the CSS class put on body
// cells whose merged plugin props flag them as a filter match.
// An empty class disables match highlighting.
func (w *Writer[T]) WithMatchClass(matchClass string) *Writer[T] {
	mod := w.clone()
	mod.matchClass = matchClass
	return mod
}

// WithNilValue returns a new writer with the HTML to render for
// value-less placeholder cells.
func (w *Writer[T]) WithNilValue(nilValue template.HTML) *Writer[T] {
	mod := w.clone()
	mod.nilValue = nilValue
	return mod
}

// WithTemplate returns a new writer with custom templates for the
// opening table tag, the rows and the closing table tag. The templates
// receive TemplateContext and RowTemplateContext respectively.
func (w *Writer[T]) WithTemplate(tableTemplate, rowTemplate, footerTemplate *template.Template) *Writer[T] {
	mod := w.clone()
	mod.headerTemplate = tableTemplate
	mod.rowTemplate = rowTemplate
	mod.footerTemplate = footerTemplate
	return mod
}

// TableClass returns the CSS class configured for the table element.
func (w *Writer[T]) TableClass() string { return w.tableClass }

// MatchClass returns the CSS class configured for matching body cells.
func (w *Writer[T]) MatchClass() string { return w.matchClass }

// Write renders the table's current header rows and body rows as HTML.
// Reactive state is read once, Write does not subscribe to the table's
// stores; call it again after changes for updated output.
func (w *Writer[T]) Write(ctx context.Context, dest io.Writer, table *htable.Table[T]) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	templData := &RowTemplateContext{
		TemplateContext: TemplateContext{
			TableClass: w.tableClass,
			Caption:    w.caption,
		},
	}

	err := w.headerTemplate.Execute(dest, templData.TemplateContext)
	if err != nil {
		return err
	}

	templData.IsHeaderRow = true
	for _, headerRow := range table.HeaderRows() {
		templData.Cells = templData.Cells[:0]
		for _, cell := range headerRow.Cells {
			templCell := CellTemplateContext{
				Content: template.HTML(template.HTMLEscapeString(cell.Label())), //#nosec G203
			}
			if ids := cell.ColumnIDs(); len(ids) > 1 {
				templCell.Colspan = len(ids)
			}
			if attrs := table.HeaderOutput(cell).Attrs; attrs != nil {
				templCell.Style = inlineStyle(attrs.Get())
			}
			templData.Cells = append(templData.Cells, templCell)
		}
		err = w.rowTemplate.Execute(dest, templData)
		if err != nil {
			return err
		}
		templData.RowIndex++
	}
	templData.IsHeaderRow = false

	for _, row := range htable.FlattenRows(table.Rows().Get()) {
		templData.RowClass = depthClass(row.ID)
		templData.Cells = templData.Cells[:0]
		for _, cell := range row.Cells {
			templCell := CellTemplateContext{Content: w.nilValue}
			if data, ok := cell.(*htable.DataBodyCell[T]); ok {
				templCell.Content = template.HTML(template.HTMLEscapeString(data.ValueString())) //#nosec G203
			}
			if w.matchClass != "" {
				if props := table.BodyOutput(cell).Props; props != nil {
					if matches, _ := props.Get()["matches"].(bool); matches {
						templCell.Class = w.matchClass
					}
				}
			}
			templData.Cells = append(templData.Cells, templCell)
		}
		err = w.rowTemplate.Execute(dest, templData)
		if err != nil {
			return err
		}
		templData.RowIndex++
	}

	return w.footerTemplate.Execute(dest, templData.TemplateContext)
}

// inlineStyle renders attrs as an inline style string with the
// fields in sorted order for deterministic output.
func inlineStyle(attrs htable.Attrs) string {
	if len(attrs) == 0 {
		return ""
	}
	fields := make([]string, 0, len(attrs))
	for field, value := range attrs {
		fields = append(fields, field+": "+value)
	}
	sort.Strings(fields)
	return strings.Join(fields, "; ")
}

// depthClass returns "depth-N" for sub-rows at nesting depth N,
// or an empty string for top-level rows.
func depthClass(rowID string) string {
	depth := strings.Count(rowID, ".")
	if depth == 0 {
		return ""
	}
	return "depth-" + strconv.Itoa(depth)
}
