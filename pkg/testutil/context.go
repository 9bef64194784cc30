package testutil

import (
	"net/http"
	"time"

	id "filingcontrol/pkg/domain"
	"filingcontrol/pkg/requestcontext"
)

// WithUserID stamps an authenticated user onto the request context, the way
// the auth middleware would for a valid bearer token.
func WithUserID(req *http.Request, userID id.UserID) *http.Request {
	return req.WithContext(requestcontext.WithUserID(req.Context(), userID))
}

// WithRequestTime pins the request observation time, the way the request-time
// middleware would. Tests use it to make deadline arithmetic deterministic.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
