package report

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/dmitrymomot/errorkit/pkg/redact"
	"github.com/dmitrymomot/errorkit/pkg/sanitizer"
)

const (
	sectionHeading = `<h2 style="margin: 20px 0 20px 0; text-align: center; font-weight: bold; font-size: 18px;"><b>%s</b><br></h2>`
	labelHeading   = `<h2 style="margin: 20px 0 20px 0; font-weight: bold; font-size: 18px;">%s</h2>`
)

func (r *Renderer) pre(content string) string {
	return fmt.Sprintf(`<pre style="border: 1px solid %s; background: %s; padding: 10px; font-size: 14px !important; `+
		`word-break: break-all; white-space: pre-wrap;">%s</pre>`,
		r.theme.Color(RoleJSONBlockBorder), r.theme.Color(RoleJSONBlockBg), content)
}

func openSection(b *strings.Builder, class, heading string) {
	fmt.Fprintf(b, `<div class="%s"><hr>`, class)
	fmt.Fprintf(b, sectionHeading, heading)
	b.WriteString(`<div style="font-size: 14px !important">`)
}

// renderContext dumps every context entry except the exception itself.
func (r *Renderer) renderContext(ev *Event) string {
	var entries []Field
	for _, f := range ev.Context {
		if f.Key == ExceptionKey {
			if _, ok := f.Value.(*Exception); ok {
				continue
			}
		}
		entries = append(entries, f)
	}
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	openSection(&b, "context-info", "Context")
	for _, f := range entries {
		fmt.Fprintf(&b, labelHeading, escape(f.Key))
		if redact.IsSensitiveKey(f.Key) {
			b.WriteString(r.pre(dumpContextValue(redact.Mask)))
			continue
		}
		b.WriteString(r.pre(dumpContextValue(f.Value)))
	}
	b.WriteString("</div></div>")
	return b.String()
}

func (r *Renderer) renderUserInfo(ctx context.Context) string {
	if r.userInfo == nil {
		return ""
	}
	var b strings.Builder
	openSection(&b, "user-info", "User Information")
	b.WriteString(r.userInfoContent(ctx))
	b.WriteString("</div></div>")
	return b.String()
}

func (r *Renderer) userInfoContent(ctx context.Context) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			_, msg := describePanic(rec)
			out = userInfoError(msg, string(debug.Stack()))
		}
	}()

	user, err := r.userInfo(ctx)
	switch {
	case err != nil:
		return userInfoError(err.Error(), fmt.Sprintf("%+v", err))
	case user == nil:
		return "<b>Not authenticated</b>"
	}
	return r.pre(dump(user.fields()))
}

func userInfoError(msg, stack string) string {
	return "<b>Exception: " + escape(msg) + `</b><pre style="word-break: break-all; white-space: pre-wrap;">` +
		escape(stack) + "</pre>"
}

func (r *Renderer) renderRequestInfo(ctx context.Context) string {
	if r.requestInfo == nil {
		return ""
	}
	info := r.requestInfo(ctx)
	if info == nil {
		return ""
	}
	url := info.URL
	if url == "" {
		url = "Probably console command"
	}

	var b strings.Builder
	openSection(&b, "request-info", "Request Information")
	fmt.Fprintf(&b, `<h2 style="font-size: 18px;">(%s -> %s) %s</h2><br>`,
		escape(info.RealMethod), escape(info.Method), escape(url))
	for _, s := range info.Sections {
		fmt.Fprintf(&b, labelHeading, escape(s.Label))
		b.WriteString(r.pre(dump(s.Data)))
	}
	b.WriteString("</div></div>")
	return b.String()
}

// emailMessage returns the logged e-mail in ev's context, if any.
func emailMessage(ev *Event) map[string]any {
	v, ok := ev.Lookup(EmailMessageKey)
	if !ok {
		return nil
	}
	m, ok := normalize(v, 0).(map[string]any)
	if !ok {
		return nil
	}
	_, hasHeaders := m["headers"]
	_, hasBody := m["body"]
	if !hasHeaders || !hasBody {
		return nil
	}
	return m
}

func (r *Renderer) renderEmailMessage(msg map[string]any) string {
	text := func(key string) string {
		switch v := msg[key].(type) {
		case nil:
			return ""
		case string:
			return v
		default:
			return fmt.Sprint(v)
		}
	}

	var b strings.Builder
	b.WriteString(`<div class="request-info"><hr><div style="font-size: 14px !important">`)
	fmt.Fprintf(&b, labelHeading, "E-mail subject")
	fmt.Fprintf(&b, "<p>%s</p>", escape(text("subject")))
	fmt.Fprintf(&b, labelHeading, "E-mail headers")
	if headers, ok := msg["headers"].(map[string]any); ok {
		b.WriteString(r.pre(dump(headers)))
	} else {
		b.WriteString(r.pre(escape(text("headers"))))
	}
	b.WriteString("</div></div>")
	fmt.Fprintf(&b, `<iframe width="100%%" height="400px" sandbox="" frameborder="0" srcdoc="%s"></iframe>`, escape(sanitizer.SanitizeEmail(text("body"))))
	return b.String()
}
