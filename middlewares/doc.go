// Package middlewares provides net/http middleware used around the error
// handler: panic recovery with stack frames, request IDs and request
// capture for reports.
//
//	h := middlewares.RequestID()(
//		middlewares.CaptureRequest()(
//			middlewares.Recover(kit.HandleError, middlewares.WithRecoverLogger(log))(mux),
//		),
//	)
//
// Recover converts a panic into a *PanicError whose frames point at the
// panic site, so reports show where it happened.
package middlewares
