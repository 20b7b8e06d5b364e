package report

import (
	"bytes"
	"fmt"
	"html/template"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
    <head>
        <meta charset="{{.Charset}}" />
        <meta name="robots" content="noindex,nofollow" />
        <title>{{.Title}}</title>
        <style>{{.Style}}</style>
    </head>
    <body>
        {{.Body}}
    </body>
</html>
`))

type pageData struct {
	Charset string
	Title   string
	Style   template.CSS
	Body    template.HTML
}

func (r *Renderer) stylesheet() template.CSS {
	return template.CSS(fmt.Sprintf(
		"html { padding: 10px } img { border: 0; } "+
			"body { padding: 20px 30px 20px 30px; margin: 0; background-color: %s; }",
		r.theme.Color(RolePageBg),
	))
}

// page wraps an already escaped body into a standalone HTML document.
func (r *Renderer) page(title, body string) string {
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		Charset: r.charset,
		Title:   title,
		Style:   r.stylesheet(),
		Body:    template.HTML(body), //nolint:gosec // body is composed from escaped fragments
	})
	if err != nil {
		return r.fallback(nil, fmt.Errorf("report: render page: %w", err), true)
	}
	return buf.String()
}
