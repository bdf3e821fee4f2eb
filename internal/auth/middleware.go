// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/feedrank/internal/logging"
)

var errMalformedHeader = errors.New("unauthorized: invalid authorization header")

// Middleware attaches the caller to each request.
type Middleware struct {
	jwt *JWTManager
}

// NewMiddleware creates the middleware. A nil manager treats every request
// as anonymous.
func NewMiddleware(jwtManager *JWTManager) *Middleware {
	return &Middleware{jwt: jwtManager}
}

// Authenticate resolves the bearer token, if any, into a Subject. Missing
// credentials pass through as anonymous; invalid credentials get 401.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.jwt == nil {
			next.ServeHTTP(w, r)
			return
		}

		token, err := bearerToken(r.Header.Get("Authorization"))
		if err != nil {
			writeUnauthorized(w, err.Error())
			return
		}
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Token validation failed")
			writeUnauthorized(w, "Unauthorized: invalid token")
			return
		}

		ctx := ContextWithSubject(r.Context(), &Subject{UserID: claims.Subject, Role: claims.Role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects anonymous requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SubjectFromContext(r.Context()) == nil {
			writeUnauthorized(w, "Unauthorized: authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken returns "" with no error when the header is absent.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", nil
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errMalformedHeader
	}
	return strings.TrimSpace(parts[1]), nil
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="feedrank"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error": map[string]string{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}
