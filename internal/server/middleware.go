package server

import (
	"context"
	"net/http"
	"strings"

	"cascade/internal/domain"
	"cascade/internal/util"
	apperrors "cascade/pkg/errors"
)

type contextKey string

// userContextKey carries the authenticated staff user
const userContextKey contextKey = "user"

// requireAuth resolves the bearer token and puts the user on the request
// context
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, apperrors.New(apperrors.ErrCodeUnauthorized, "missing bearer token"))
			return
		}

		user, err := s.auth.Authenticate(r.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireStaff gates a route to staff or admin users. Must run after
// requireAuth.
func requireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := util.RequireStaff(currentUser(r)); err != nil {
			writeError(w, apperrors.New(apperrors.ErrCodeForbidden, "staff access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin gates a route to admin users. Must run after requireAuth.
func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := util.RequireAdmin(currentUser(r)); err != nil {
			writeError(w, apperrors.New(apperrors.ErrCodeForbidden, "admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// currentUser returns the authenticated user set by requireAuth
func currentUser(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userContextKey).(*domain.User)
	return user
}

// clientIP extracts the originating address, preferring the first
// X-Forwarded-For hop
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.IndexByte(forwarded, ','); idx > 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndexByte(addr, ':'); idx > 0 {
		return addr[:idx]
	}
	return addr
}
