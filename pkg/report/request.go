package report

import (
	"context"
	"encoding/json"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/errorkit/pkg/redact"
)

// MaxCapturedBody caps the request body kept for reports.
const MaxCapturedBody = 64 << 10

// serverKeys lists the request headers copied into the SERVER section.
var serverKeys = []struct{ header, key string }{
	{"Accept-Language", "HTTP_ACCEPT_LANGUAGE"},
	{"Accept-Encoding", "HTTP_ACCEPT_ENCODING"},
	{"Referer", "HTTP_REFERER"},
	{"User-Agent", "HTTP_USER_AGENT"},
	{"Accept", "HTTP_ACCEPT"},
	{"Connection", "HTTP_CONNECTION"},
}

// Section is one labeled block of request data.
type Section struct {
	Data  map[string]any
	Label string
}

// RequestInfo is the request snapshot rendered in exception reports.
// Sensitive values are already masked.
type RequestInfo struct {
	RealMethod string
	Method     string
	URL        string
	Sections   []Section
}

// RequestInfoFunc returns the request associated with ctx, or nil.
type RequestInfoFunc func(ctx context.Context) *RequestInfo

type requestKey struct{}

type capturedRequest struct {
	at   time.Time
	r    *http.Request
	body []byte
}

// ContextWithRequest stores r and a copy of up to MaxCapturedBody bytes of
// its body for later reporting.
func ContextWithRequest(ctx context.Context, r *http.Request, body []byte) context.Context {
	if len(body) > MaxCapturedBody {
		body = body[:MaxCapturedBody]
	}
	return context.WithValue(ctx, requestKey{}, &capturedRequest{r: r, body: body, at: time.Now()})
}

// RequestFromContext collects the request stored by ContextWithRequest.
func RequestFromContext(ctx context.Context) *RequestInfo {
	c, ok := ctx.Value(requestKey{}).(*capturedRequest)
	if !ok || c.r == nil {
		return nil
	}
	return collect(c.r, c.body, c.at)
}

// CollectRequest builds a RequestInfo from r. body is the raw request body
// when the handler already consumed r.Body; it may be nil.
func CollectRequest(r *http.Request, body []byte) *RequestInfo {
	if r == nil {
		return nil
	}
	return collect(r, body, time.Now())
}

func collect(r *http.Request, body []byte, at time.Time) *RequestInfo {
	form := postForm(r, body)
	info := &RequestInfo{
		RealMethod: r.Method,
		Method:     effectiveMethod(r, form),
		URL:        requestURL(r),
	}

	post := valuesMap(form)
	if len(post) == 0 && hasBody(r.Method) && isJSON(r.Header.Get("Content-Type")) && len(body) > 0 {
		var decoded map[string]any
		if err := json.Unmarshal(body, &decoded); err == nil {
			post = decoded
		}
	}

	info.Sections = []Section{
		{Label: "GET", Data: redact.Map(valuesMap(r.URL.Query()))},
		{Label: "POST", Data: redact.Map(post)},
		{Label: "FILES", Data: redact.Map(filesMap(r))},
		{Label: "COOKIE", Data: redact.Map(cookiesMap(r))},
		{Label: "SERVER", Data: serverMap(r, at)},
	}
	return info
}

func effectiveMethod(r *http.Request, form url.Values) string {
	if r.Method != http.MethodPost {
		return r.Method
	}
	if m := r.Header.Get("X-HTTP-Method-Override"); m != "" {
		return strings.ToUpper(m)
	}
	if m := form.Get("_method"); m != "" {
		return strings.ToUpper(m)
	}
	return r.Method
}

func requestURL(r *http.Request) string {
	if r.URL == nil {
		return ""
	}
	if r.URL.IsAbs() {
		u := *r.URL
		u.RawQuery, u.Fragment = "", ""
		return u.String()
	}
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.Path
}

func postForm(r *http.Request, body []byte) url.Values {
	if r.MultipartForm != nil {
		return r.MultipartForm.Value
	}
	if r.PostForm != nil {
		return r.PostForm
	}
	if !hasBody(r.Method) || len(body) == 0 {
		return nil
	}
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "application/x-www-form-urlencoded" {
		return nil
	}
	form, err := url.ParseQuery(string(body))
	if err != nil {
		return nil
	}
	return form
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func valuesMap(v map[string][]string) map[string]any {
	out := make(map[string]any, len(v))
	for key, values := range v {
		if len(values) == 1 {
			out[key] = values[0]
			continue
		}
		out[key] = values
	}
	return out
}

func filesMap(r *http.Request) map[string]any {
	out := map[string]any{}
	if r.MultipartForm == nil {
		return out
	}
	for field, headers := range r.MultipartForm.File {
		files := make([]map[string]any, 0, len(headers))
		for _, fh := range headers {
			files = append(files, map[string]any{
				"name": fh.Filename,
				"type": fh.Header.Get("Content-Type"),
				"size": fh.Size,
			})
		}
		out[field] = files
	}
	return out
}

func cookiesMap(r *http.Request) map[string]any {
	out := map[string]any{}
	for _, c := range r.Cookies() {
		out[c.Name] = c.Value
	}
	return out
}

func serverMap(r *http.Request, at time.Time) map[string]any {
	out := map[string]any{}
	for _, k := range serverKeys {
		if v := r.Header.Get(k.header); v != "" {
			out[k.key] = v
		}
	}
	if r.Host != "" {
		out["HTTP_HOST"] = r.Host
	}
	if host, port, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		out["REMOTE_ADDR"] = host
		out["REMOTE_PORT"] = port
	} else if r.RemoteAddr != "" {
		out["REMOTE_ADDR"] = r.RemoteAddr
	}
	out["REQUEST_METHOD"] = r.Method
	if r.URL != nil {
		out["REQUEST_URI"] = redact.QueryString(r.URL.RequestURI())
		out["DOCUMENT_URI"] = r.URL.Path
		if r.URL.RawQuery != "" {
			out["QUERY_STRING"] = redact.QueryString(r.URL.RawQuery)
		}
	}
	out["REQUEST_TIME"] = at.Unix()
	out["REQUEST_TIME_FLOAT"] = strconv.FormatFloat(float64(at.UnixMicro())/1e6, 'f', 4, 64)
	return out
}
