package network

import (
	"context"
	"net/http"
	"time"
)

// Middleware is a http middleware function.
type Middleware func(http.Handler) http.Handler

// MiddlewareChain is a middleware slice type that could be used as a http.Handler.
type MiddlewareChain []Middleware

// Handle handles the chain of middlewares for given 'handle' http.Handle.
// The first middleware in the chain is the outermost one.
func (c MiddlewareChain) Handle(handle http.Handler) http.Handler {
	for i := range c {
		handle = c[len(c)-1-i](handle)
	}
	return handle
}

type subjectKey struct{}

// Subject gets the authenticated token subject from the request context.
func Subject(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(subjectKey{}).(string)
	return s, ok
}

// BearerAuth is the middleware that verifies the HS256 bearer token of the request.
// The token subject is stored in the request context.
func BearerAuth(secret []byte) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := verifyToken(secret, bearerToken(r))
			if err != nil {
				logger.Infof("Rejected connection from: %s: %v", r.RemoteAddr, err)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), subjectKey{}, claims.Subject)))
		})
	}
}

// LogRequests is the middleware that logs the incoming requests with the time they were served.
func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger.Debugf("%s %s from: %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		logger.Debugf("%s %s from: %s served in: %s", r.Method, r.URL.Path, r.RemoteAddr, time.Since(start))
	})
}
