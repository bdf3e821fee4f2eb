// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package authz

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/feedrank/internal/config"
)

func newTestEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(nil)
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	return e
}

func TestEnforcer_EmbeddedPolicy(t *testing.T) {
	t.Parallel()
	e := newTestEnforcer(t)

	tests := []struct {
		name    string
		subject string
		object  string
		action  string
		want    bool
	}{
		{"admin reads queue", "admin", "/api/v1/admin/views/queue", "read", true},
		{"admin rebuilds profile", "admin", "/api/v1/admin/interests/u1/rebuild", "write", true},
		{"operator inherits queue read", "operator", "/api/v1/admin/views/queue", "read", true},
		{"operator reads view counter", "operator", "/api/v1/admin/views/counters/c1", "read", true},
		{"operator rebuilds profile", "operator", "/api/v1/admin/interests/u1/rebuild", "write", true},
		{"admin cannot delete", "admin", "/api/v1/admin/views/queue", "delete", false},
		{"user denied", "user", "/api/v1/admin/views/queue", "read", false},
		{"outside admin prefix", "admin", "/api/v1/feed", "read", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := e.Enforce(tt.subject, tt.object, tt.action)
			if err != nil {
				t.Fatalf("Enforce: %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce(%s, %s, %s) = %v, want %v", tt.subject, tt.object, tt.action, got, tt.want)
			}
		})
	}
}

func TestEnforcer_EnforceWithRole(t *testing.T) {
	t.Parallel()
	e := newTestEnforcer(t)

	if ok, _ := e.EnforceWithRole("u1", "", "/api/v1/admin/views/queue", "read"); ok {
		t.Error("user without role should be denied")
	}
	if ok, _ := e.EnforceWithRole("u1", "admin", "/api/v1/admin/views/queue", "read"); !ok {
		t.Error("admin role should be allowed")
	}

	if _, err := e.AddRoleForUser("u2", "operator"); err != nil {
		t.Fatalf("AddRoleForUser: %v", err)
	}
	if ok, _ := e.EnforceWithRole("u2", "", "/api/v1/admin/views/queue", "read"); !ok {
		t.Error("user assigned operator should be allowed")
	}
	roles, err := e.GetRolesForUser("u2")
	if err != nil || len(roles) != 1 || roles[0] != "operator" {
		t.Errorf("roles = %v, %v", roles, err)
	}
}

func TestEnforcer_CacheInvalidatedOnRoleChange(t *testing.T) {
	t.Parallel()
	e := newTestEnforcer(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return now }

	if ok, _ := e.Enforce("u3", "/api/v1/admin/views/queue", "read"); ok {
		t.Fatal("u3 should start denied")
	}
	if _, err := e.AddRoleForUser("u3", "admin"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := e.Enforce("u3", "/api/v1/admin/views/queue", "read"); !ok {
		t.Error("cached denial survived a role change")
	}
}

func TestNewEnforcer_FilePolicy(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	policy := filepath.Join(dir, "policy.csv")
	if err := os.WriteFile(policy, []byte("p, auditor, /api/v1/admin/views/*, read\ng, u7, auditor\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	e, err := NewEnforcer(EnforcerConfigFrom(&config.SecurityConfig{CasbinPolicyPath: policy}))
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	if ok, _ := e.Enforce("u7", "/api/v1/admin/views/queue", "read"); !ok {
		t.Error("file policy role assignment not applied")
	}
	if ok, _ := e.Enforce("admin", "/api/v1/admin/views/queue", "read"); ok {
		t.Error("embedded policy should not be loaded alongside a file policy")
	}
}

func TestNewEnforcer_MissingFiles(t *testing.T) {
	t.Parallel()
	if _, err := NewEnforcer(&EnforcerConfig{ModelPath: "/nonexistent/model.conf"}); err == nil {
		t.Error("expected error for missing model")
	}
	if _, err := NewEnforcer(&EnforcerConfig{PolicyPath: "/nonexistent/policy.csv"}); err == nil {
		t.Error("expected error for missing policy")
	}
}
