// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package authz guards the administrative routes with a Casbin RBAC policy.

The model matches a request (subject, path, action) against policy rules with
keyMatch2 and follows role inheritance:

	[matchers]
	m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && r.act == p.act

Subjects are the caller's user id and the role carried in its bearer token.
The default policy grants the admin role everything under /api/v1/admin/ and
the operator role queue inspection and profile rebuilds:

	p, admin, /api/v1/admin/*, read
	p, operator, /api/v1/admin/interests/*, write
	g, admin, operator

Both files are embedded. EnforcerConfig.ModelPath and PolicyPath replace them
with files on disk, and a file policy may also assign roles to individual
user ids (g, u42, admin).

HTTP methods map to actions: GET, HEAD and OPTIONS are "read"; POST, PUT
and PATCH are "write"; DELETE is "delete".
*/
package authz
