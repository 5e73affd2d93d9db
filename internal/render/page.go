package render

import (
	"html/template"
	"io"
)

// Stylesheet is shared by the live feed page and exported pages
const Stylesheet = `
body { font-family: sans-serif; margin: 0 auto; max-width: 960px; }
.summary { padding: 8px; background: #fff4d6; border-bottom: 1px solid #e0c060; }
.content { display: flex; gap: 12px; padding: 12px 0; border-bottom: 1px solid #ddd; }
.thumbnail { width: 320px; height: 180px; object-fit: cover; }
.channelData .title { display: block; font-weight: bold; }
.commentsData { flex: 1; max-height: 180px; overflow-y: auto; }
.comment { font-size: 14px; padding: 2px 0; }
.timeStamp { color: #888; margin-right: 8px; }
.superChat { color: #c00; font-weight: bold; margin-right: 4px; }
.currency { color: #c00; }
`

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.Style}}</style>
</head>
<body>
<div id="contents">
{{- range .Fragments}}
{{.}}
{{- end}}
</div>
</body>
</html>
`))

// WritePage writes a standalone HTML document containing fragments in order
func WritePage(w io.Writer, title string, fragments []string) error {
	trusted := make([]template.HTML, len(fragments))
	for i, f := range fragments {
		// fragments come from Formatter and MaxTracker, which escape their input
		trusted[i] = template.HTML(f)
	}
	return pageTemplate.Execute(w, struct {
		Title     string
		Style     template.CSS
		Fragments []template.HTML
	}{
		Title:     title,
		Style:     template.CSS(Stylesheet),
		Fragments: trusted,
	})
}
