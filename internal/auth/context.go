// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package auth

import "context"

type contextKey string

const subjectContextKey contextKey = "subject"

// Subject is an authenticated caller.
type Subject struct {
	UserID string
	Role   string
}

// ContextWithSubject returns ctx carrying s.
func ContextWithSubject(ctx context.Context, s *Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey, s)
}

// SubjectFromContext returns the caller, or nil when anonymous.
func SubjectFromContext(ctx context.Context) *Subject {
	s, _ := ctx.Value(subjectContextKey).(*Subject)
	return s
}

// ActingUserID returns the caller's user id, or "" when anonymous.
func ActingUserID(ctx context.Context) string {
	if s := SubjectFromContext(ctx); s != nil {
		return s.UserID
	}
	return ""
}
