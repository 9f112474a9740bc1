package htmlrender

import "html/template"

var (
	HeaderTemplate = template.Must(template.New("header").Parse(
		"<table{{if .TableClass}} class='{{.TableClass}}'{{end}}>\n" +
			"{{if .Caption}}  <caption>{{.Caption}}</caption>\n{{end}}",
	))

	RowTemplate = template.Must(template.New("row").Parse("" +
		"{{if .IsHeaderRow}}" +
		"  <tr>{{range $cell := .Cells}}<th{{if $cell.Colspan}} colspan='{{$cell.Colspan}}'{{end}}{{if $cell.Style}} style='{{$cell.Style}}'{{end}}>{{$cell.Content}}</th>{{end}}</tr>\n" +
		"{{else}}" +
		"  <tr{{if .RowClass}} class='{{.RowClass}}'{{end}}>{{range $cell := .Cells}}<td{{if $cell.Class}} class='{{$cell.Class}}'{{end}}{{if $cell.Style}} style='{{$cell.Style}}'{{end}}>{{$cell.Content}}</td>{{end}}</tr>\n" +
		"{{end}}",
	))

	FooterTemplate = template.Must(template.New("footer").Parse(
		"</table>",
	))
)

type TemplateContext struct {
	TableClass string
	Caption    string
}

type RowTemplateContext struct {
	TemplateContext

	IsHeaderRow bool
	RowIndex    int
	RowClass    string
	Cells       []CellTemplateContext
}

type CellTemplateContext struct {
	Content template.HTML
	Class   string
	Style   string
	Colspan int
}
