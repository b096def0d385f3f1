package http

import (
	"context"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"community-hub/internal/app"
)

// RateLimiter reports whether a request from key may proceed within the
// current window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type contextKey string

const claimsContextKey contextKey = "claims"

// Logging logs method, path, status and duration for each request.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, sw.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// RateLimit rejects requests over the per-address budget with 429.
// Limiter failures fail open.
func RateLimit(limiter RateLimiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter != nil {
				ok, err := limiter.Allow(r.Context(), clientIP(r))
				if err != nil {
					log.Printf("rate limiter: %v", err)
				} else if !ok {
					respondJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth validates the bearer token and puts its claims on the context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "no token"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			return
		}
		claims, err := s.auth.ParseToken(parts[1])
		if err != nil {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			return
		}
		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next(w, r.WithContext(ctx))
	}
}

func claimsFrom(r *http.Request) (app.TokenClaims, bool) {
	claims, ok := r.Context().Value(claimsContextKey).(app.TokenClaims)
	return claims, ok
}

// clientIP is the identity used by the rate limiter and the answer gate:
// the first X-Forwarded-For value when present, else the connection's
// remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
