// Package httperr provides an error type that carries an HTTP status code
// and response headers.
//
// Handlers return these errors to choose the response status:
//
//	if order == nil {
//		return httperr.NotFound("order not found")
//	}
//
// Any error with a StatusCode() int method is treated the same way by
// StatusCode and IsHTTPError, so third-party error types work too.
package httperr
