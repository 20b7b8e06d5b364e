package report

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Options select the optional parts of a report.
type Options struct {
	IncludeRequestInfo bool
	IncludeUserInfo    bool
	FullPage           bool
}

// DebugOptions includes everything and renders a full page.
var DebugOptions = Options{IncludeRequestInfo: true, IncludeUserInfo: true, FullPage: true}

// Renderer turns events into HTML reports. It is safe for concurrent use.
type Renderer struct {
	now         func() time.Time
	userInfo    UserInfoFunc
	requestInfo RequestInfoFunc
	// exceptionNode renders one node of the exception chain.
	exceptionNode func(*Exception) string
	charset       string
	theme         Theme
	roots         Roots
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTheme sets the color theme.
func WithTheme(t Theme) Option {
	return func(r *Renderer) { r.theme = t }
}

// WithRoots sets the roots used to colorize frame paths.
func WithRoots(roots Roots) Option {
	return func(r *Renderer) { r.roots = roots }
}

// WithCharset sets the charset announced by full pages.
func WithCharset(charset string) Option {
	return func(r *Renderer) {
		if charset != "" {
			r.charset = charset
		}
	}
}

// WithClock overrides the time source used in report headers.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// WithUserInfo replaces the collector used for the user section.
func WithUserInfo(fn UserInfoFunc) Option {
	return func(r *Renderer) { r.userInfo = fn }
}

// WithRequestInfo replaces the collector used for the request section.
func WithRequestInfo(fn RequestInfoFunc) Option {
	return func(r *Renderer) { r.requestInfo = fn }
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		now:         time.Now,
		userInfo:    UserFromContext,
		requestInfo: RequestFromContext,
		charset:     DefaultCharset,
		theme:       DefaultTheme(),
		roots:       DefaultRoots(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.exceptionNode == nil {
		r.exceptionNode = r.renderNode
	}
	return r
}

// Charset returns the charset announced by full pages.
func (r *Renderer) Charset() string { return r.charset }

// Render renders ev as an exception report when it carries an exception,
// as an e-mail preview when its context holds a logged e-mail, and as a
// plain log report otherwise. It never panics.
func (r *Renderer) Render(ctx context.Context, ev *Event, opts Options) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			out = r.fallback(ev, rec, opts.FullPage)
		}
	}()

	switch {
	case ev == nil:
		return r.fallback(ev, "nil event", opts.FullPage)
	case ev.Exception != nil:
		return r.RenderException(ctx, ev, opts)
	case emailMessage(ev) != nil:
		return r.renderEmailLog(ev, opts.FullPage)
	}
	return r.RenderLog(ev, opts.FullPage)
}

// RenderException renders the exception chain of ev with its context and,
// when enabled, user and request details.
func (r *Renderer) RenderException(ctx context.Context, ev *Event, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="html-exception-content" style="%s">`, r.contentStyle(ev.Severity))
	b.WriteString(r.renderExceptionContent(ev))
	b.WriteString(r.renderContext(ev))
	if opts.IncludeUserInfo {
		b.WriteString(r.renderUserInfo(ctx))
	}
	if opts.IncludeRequestInfo {
		b.WriteString(r.renderRequestInfo(ctx))
	}
	b.WriteString("</div>")

	if !opts.FullPage {
		return b.String()
	}
	msg := ""
	if ev.Exception != nil {
		msg = ev.Exception.Message
	}
	return r.page("Error report: "+msg, b.String())
}

// RenderLog renders a leveled message with its context.
func (r *Renderer) RenderLog(ev *Event, fullPage bool) string {
	body := r.logBody(ev, r.renderContext(ev))
	if !fullPage {
		return body
	}
	return r.page(ev.Severity.Title()+": "+messageOf(ev), body)
}

func (r *Renderer) renderEmailLog(ev *Event, fullPage bool) string {
	body := r.logBody(ev, r.renderEmailMessage(emailMessage(ev)))
	if !fullPage {
		return body
	}
	return r.page(ev.Severity.Title()+": "+messageOf(ev), body)
}

func (r *Renderer) logBody(ev *Event, section string) string {
	color := r.theme.SeverityColor(ev.Severity)
	channel := ev.Channel
	if channel == "" {
		channel = "*Channel not provided*"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="html-log-content" style="%s">`, r.contentStyle(ev.Severity))
	fmt.Fprintf(&b, `<h1 style="color: %s">%s %s</h1>`, color, escape(ev.Severity.Title()), r.dateLine(ev))
	fmt.Fprintf(&b, "<h2>%s</h2>", nl2br(messageOf(ev)))
	fmt.Fprintf(&b, "<h3>Channel: %s</h3>", escape(channel))
	b.WriteString(section)
	b.WriteString("</div>")
	return b.String()
}

// renderExceptionContent renders the header and every node of the chain.
// A panic while rendering nodes discards them and changes the title.
func (r *Renderer) renderExceptionContent(ev *Event) string {
	title := "Exception Report"
	content := func() (content string) {
		defer func() {
			if rec := recover(); rec != nil {
				content = ""
				class, msg := describePanic(rec)
				title = fmt.Sprintf("Exception thrown when handling an exception (%s: %s)", class, msg)
			}
		}()
		var b strings.Builder
		for _, node := range ev.Exception.Chain() {
			b.WriteString(r.exceptionNode(node))
		}
		return b.String()
	}()

	return fmt.Sprintf(`<h1 style="color: %s">%s %s</h1>%s`,
		r.theme.SeverityColor(ev.Severity), escape(title), r.dateLine(ev), content)
}

func (r *Renderer) renderNode(e *Exception) string {
	ff := frameFormatter{theme: r.theme, roots: r.roots}

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>%s</h2><h3>Type: %s</h3>", nl2br(e.Message), ff.class(e.Class))
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, "<h3>Status: %d</h3>", e.StatusCode)
	}
	b.WriteString(`<div style="margin-bottom: 50px;"><ol>` + "\n")
	for _, f := range e.Trace {
		fmt.Fprintf(&b, `<li style="border-bottom: 1px solid %s; padding: 5px 0 9px 0; margin: 0;">%s</li>`+"\n",
			r.theme.Color(RoleTraceItemDelimiter), ff.frame(f))
	}
	b.WriteString("</ol></div>")
	return b.String()
}

func (r *Renderer) dateLine(ev *Event) string {
	t := ev.Time
	if t.IsZero() {
		t = r.now()
	}
	zone := t.Location().String()
	if zone == "Local" {
		zone, _ = t.Zone()
	}
	line := fmt.Sprintf(" @ %s (%s)", t.Format(time.DateTime), zone)
	if ev.ID != "" {
		line += " #" + ev.ID
	}
	return fmt.Sprintf(`<span style="font-size: 13px; color: %s">%s</span>`, r.theme.Color(RoleMuted), escape(line))
}

func (r *Renderer) contentStyle(sev Severity) string {
	return fmt.Sprintf("background-color: %s; padding: 20px 30px 30px 30px; font: 11px Verdana, Arial, sans-serif; "+
		"margin: 0 auto 40px auto; border: 1px solid %s; width:100%%; max-width:900px;",
		r.theme.Color(RoleContentBg), r.theme.SeverityColor(sev))
}

// fallback is the last-resort output when rendering itself panicked.
func (r *Renderer) fallback(ev *Event, rec any, fullPage bool) string {
	class, msg := describePanic(rec)
	title := fmt.Sprintf("Exception thrown when handling an exception (%s: %s)", class, msg)
	body := "<h1>" + escape(title) + "</h1>"
	if ev != nil {
		body += "<h2>" + nl2br(messageOf(ev)) + "</h2>"
	}
	if !fullPage {
		return body
	}
	return "<!DOCTYPE html>\n<html lang=\"en\"><head><meta charset=\"" + escape(r.charset) +
		"\" /><meta name=\"robots\" content=\"noindex,nofollow\" /><title>" + escape(title) +
		"</title></head><body>" + body + "</body></html>"
}

func describePanic(rec any) (class, msg string) {
	if err, ok := rec.(error); ok {
		return fmt.Sprintf("%T", err), err.Error()
	}
	return fmt.Sprintf("%T", rec), fmt.Sprint(rec)
}

func messageOf(ev *Event) string {
	if ev.Message == "" {
		return "*Empty message*"
	}
	return ev.Message
}
