package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/ademuri/ytm-wrapped/internal/analysis"
)

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<h2>Your {{.Report.Year}} Wrapped</h2>
<p><b>{{.Report.Persona}}</b>: {{.Report.TotalSongs}} songs, {{.Report.TotalMinutes}} minutes, mostly in the {{.Report.TimeOfDay}}.</p>
{{if .Image}}<img src="{{.Image}}" alt="{{.TopArtist}}" width="300">{{end}}
<h3>Top Songs</h3>
<table><thead><tr><th>#</th><th>Song</th><th>Artist</th><th>Plays</th></tr></thead><tbody>
{{- range $i, $s := .Report.TopSongs}}
<tr><td>{{inc $i}}</td><td>{{$s.Name}}</td><td>{{$s.Artist}}</td><td>{{$s.Count}}</td></tr>
{{- end}}
</tbody></table>
<h3>Top Artists</h3>
<table><thead><tr><th>#</th><th>Artist</th><th>Plays</th></tr></thead><tbody>
{{- range $i, $a := .Report.TopArtists}}
<tr><td>{{inc $i}}</td><td>{{$a.Name}}</td><td>{{$a.Count}}</td></tr>
{{- end}}
</tbody></table>
<h3>Months</h3>
<table><thead><tr><th>Month</th><th>Plays</th><th>Top Artist</th></tr></thead><tbody>
{{- range .Report.MonthlyStats}}
<tr><td>{{.Month}}</td><td>{{.Count}}</td><td>{{.TopArtist}}</td></tr>
{{- end}}
</tbody></table>
`))

// WriteHTML renders the email body for report. image, when not empty, is
// shown as the top artist's picture.
func WriteHTML(w io.Writer, r *analysis.Report, image string) error {
	data := struct {
		Report    *analysis.Report
		Image     string
		TopArtist string
	}{Report: r, Image: image}
	if len(r.TopArtists) > 0 {
		data.TopArtist = r.TopArtists[0].Name
	}
	if err := htmlTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	return nil
}
