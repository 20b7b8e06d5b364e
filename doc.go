// Package errorkit reports unhandled errors of net/http services as HTML
// reports and answers the failed request.
//
// A Handler is the interception point. Errors returned from a HandlerFunc
// or recovered from a panic are reported to the configured sinks (rotating
// file, e-mail, Telegram, S3) and answered with:
//
//   - a JSON body for requests that expect JSON: the error message when it
//     is itself JSON, {"_message": "..."} otherwise;
//   - the full HTML report in debug mode;
//   - a status page with the message of an HTTP error (see pkg/httperr),
//     or a generic 500 page for any other error.
//
// Reports sent to sinks always include the stack trace, context, request
// and user sections regardless of debug mode.
//
// # Quick Start
//
//	cfg, err := config.Load("errorkit.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	kit, err := errorkit.FromConfig(cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer kit.Close()
//
//	r := chi.NewRouter()
//	r.Use(kit.Middleware)
//	r.Method(http.MethodGet, "/orders/{id}", kit.Wrap(func(w http.ResponseWriter, r *http.Request) error {
//	    order, err := repo.Find(r.Context(), chi.URLParam(r, "id"))
//	    if err != nil {
//	        return httperr.NotFound("order not found", httperr.WithError(err))
//	    }
//	    return json.NewEncoder(w).Encode(order)
//	}))
//
// # Reporting
//
// Canceled contexts and HTTP errors below 500 are answered but not
// reported. WithDontReport replaces that policy. Report sends an error
// without answering a request, e.g. from background work:
//
//	kit.Report(ctx, err, report.Field{Key: "job", Value: "sync"})
package errorkit
