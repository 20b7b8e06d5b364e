// Package report renders diagnostic events as HTML reports.
//
// An Event is either an exception (an error flattened into an Exception
// chain with stack frames) or a leveled log message with structured context.
// A Renderer turns events into HTML fragments or standalone pages:
//
//	r := report.New(report.WithRoots(report.Roots{Project: "/srv/app", App: "/srv/app/internal"}))
//	ev := report.FromError(report.WithStack(err))
//	html := r.Render(ctx, ev, report.DebugOptions)
//
// Password-like keys are masked in every dumped map and query string.
// Request and user sections read their data from the context, see
// ContextWithRequest and ContextWithUser, or from collectors passed with
// WithRequestInfo and WithUserInfo.
//
// Rendering never panics. A failure inside the exception section replaces
// the title with "Exception thrown when handling an exception (...)" and a
// frame that cannot be formatted is shown as a placeholder line.
package report
