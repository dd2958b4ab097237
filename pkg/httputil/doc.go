// Package httputil provides HTTP utilities for standardized request and
// response handling.
//
// Error bodies always take the {"error": message} shape; both the web
// dashboard and the mobile app parse that key.
//
//	var req UpdateProfileRequest
//	if !httputil.ParseJSONOrError(w, r, &req) {
//		return // error response already written
//	}
//
// Middleware composes with Chain, outermost first:
//
//	httputil.Chain(
//		httputil.RequestIDMiddleware,
//		httputil.LoggingMiddleware(logger),
//		httputil.RecoveryMiddleware(logger),
//		httputil.MaxBytesMiddleware(1<<20),
//	)
package httputil
