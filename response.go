package errorkit

import (
	"bytes"
	"encoding/json"
	"html/template"
	"mime"
	"net/http"
	"strings"
)

// ExpectsJSON reports whether r wants a JSON error body: the first
// accepted media type is JSON, or the request is an XMLHttpRequest that
// accepts any type.
func ExpectsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	first, _, _ := strings.Cut(accept, ",")
	if mt, _, err := mime.ParseMediaType(strings.TrimSpace(first)); err == nil {
		if strings.Contains(mt, "/json") || strings.Contains(mt, "+json") {
			return true
		}
	}

	ajax := strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
	pjax := r.Header.Get("X-PJAX") == "true"
	return ajax && !pjax && acceptsAny(accept)
}

func acceptsAny(accept string) bool {
	if strings.TrimSpace(accept) == "" {
		return true
	}
	for part := range strings.SplitSeq(accept, ",") {
		mt, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if mt == "*/*" || mt == "*" {
			return true
		}
	}
	return false
}

// jsonBody returns msg as is when it is a JSON object or array, and
// {"_message": msg} otherwise.
func jsonBody(msg, id string) []byte {
	trimmed := strings.TrimSpace(msg)
	if (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) && json.Valid([]byte(trimmed)) {
		return []byte(trimmed)
	}

	body := map[string]string{"_message": msg}
	if id != "" {
		body["_id"] = id
	}
	out, err := json.Marshal(body)
	if err != nil {
		return []byte(`{"_message":"Internal Server Error"}`)
	}
	return out
}

var statusTemplate = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="{{.Charset}}">
<meta name="robots" content="noindex,nofollow">
<title>{{.Code}} {{.Title}}</title>
<style>body{font:16px/1.5 system-ui,sans-serif;color:#333;margin:0;display:flex;min-height:100vh;align-items:center;justify-content:center}main{text-align:center}h1{font-size:3rem;margin:0;color:#555}small{color:#999}</style>
</head>
<body>
<main>
<h1>{{.Code}}</h1>
<p>{{.Title}}</p>
{{- if .Message}}
<p>{{.Message}}</p>
{{- end}}
{{- if .ID}}
<small>{{.ID}}</small>
{{- end}}
</main>
</body>
</html>
`))

type statusData struct {
	Charset string
	Title   string
	Message string
	ID      string
	Code    int
}

// statusPage renders the page shown outside debug mode.
func statusPage(charset string, code int, message, id string) string {
	title := http.StatusText(code)
	if message == title {
		message = ""
	}

	var buf bytes.Buffer
	err := statusTemplate.Execute(&buf, statusData{
		Charset: charset,
		Title:   title,
		Message: message,
		ID:      id,
		Code:    code,
	})
	if err != nil {
		return title
	}
	return buf.String()
}
