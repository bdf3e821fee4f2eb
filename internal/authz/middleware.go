// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package authz

import (
	"net/http"

	"github.com/tomtom215/feedrank/internal/auth"
	"github.com/tomtom215/feedrank/internal/logging"
)

// Middleware enforces the policy on HTTP requests.
type Middleware struct {
	enforcer *Enforcer
}

// NewMiddleware creates a new authorization middleware.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{enforcer: enforcer}
}

// AuthorizeRequest derives the action from the HTTP method and authorizes
// the caller against the request path. Anonymous callers get 401.
func (m *Middleware) AuthorizeRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := auth.SubjectFromContext(r.Context())
		if subject == nil {
			http.Error(w, "Unauthorized: authentication required", http.StatusUnauthorized)
			return
		}

		allowed, err := m.enforcer.EnforceWithRole(subject.UserID, subject.Role, r.URL.Path, methodToAction(r.Method))
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if !allowed {
			logging.Ctx(r.Context()).Warn().
				Str("user_id", subject.UserID).
				Str("role", subject.Role).
				Str("path", r.URL.Path).
				Msg("Authorization denied")
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// methodToAction maps HTTP methods to Casbin actions.
func methodToAction(method string) string {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return "write"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}
