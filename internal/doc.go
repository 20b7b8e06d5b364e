// Package internal holds the response writer wrapper shared by the error
// handler and its middleware.
//
// ResponseWriter records whether the response has started, which decides
// if an error page can still be written:
//
//	rw := internal.NewResponseWriter(w)
//	next.ServeHTTP(rw, r)
//	if rw.Written() {
//	    return
//	}
//
// It keeps http.Flusher and http.Hijacker working and exposes the wrapped
// writer through Unwrap for http.ResponseController.
package internal
