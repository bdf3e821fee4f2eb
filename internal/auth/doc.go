// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package auth derives the acting user of a request from an HS256 bearer token.

Tokens are issued elsewhere and carry the user id in the standard "sub"
claim plus an optional "role" claim:

	{"sub": "u1", "role": "admin", "exp": 1767225600}

The Authenticate middleware is permissive: a request without credentials
proceeds as anonymous, while a request with a malformed, expired or
wrongly signed token is rejected with 401. Handlers read the caller with
SubjectFromContext or ActingUserID.

When no secret is configured every request is anonymous, which is the
expected mode for local development.
*/
package auth
