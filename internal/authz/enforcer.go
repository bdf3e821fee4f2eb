// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package authz

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/tomtom215/feedrank/internal/config"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// EnforcerConfig holds configuration for the Casbin enforcer.
type EnforcerConfig struct {
	// ModelPath is the path to the Casbin model file.
	// If empty, uses embedded model.
	ModelPath string

	// PolicyPath is the path to the Casbin policy file.
	// If empty, uses embedded policy.
	PolicyPath string

	// CacheTTL is how long decisions are cached. Zero disables caching.
	CacheTTL time.Duration
}

// DefaultEnforcerConfig returns the embedded model and policy with a one
// minute decision cache.
func DefaultEnforcerConfig() *EnforcerConfig {
	return &EnforcerConfig{CacheTTL: time.Minute}
}

// EnforcerConfigFrom maps the security section onto an EnforcerConfig.
func EnforcerConfigFrom(cfg *config.SecurityConfig) *EnforcerConfig {
	c := DefaultEnforcerConfig()
	if cfg != nil {
		c.ModelPath = cfg.CasbinModelPath
		c.PolicyPath = cfg.CasbinPolicyPath
	}
	return c
}

// Enforcer wraps a synced Casbin enforcer with a decision cache.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
	ttl      time.Duration
	now      func() time.Time

	mu    sync.RWMutex
	cache map[string]decision
}

type decision struct {
	allowed   bool
	expiresAt time.Time
}

// NewEnforcer loads the model and policy.
func NewEnforcer(cfg *EnforcerConfig) (*Enforcer, error) {
	if cfg == nil {
		cfg = DefaultEnforcerConfig()
	}

	var m model.Model
	var err error
	if cfg.ModelPath != "" {
		if !fileExists(cfg.ModelPath) {
			return nil, fmt.Errorf("casbin model %s not found", cfg.ModelPath)
		}
		m, err = model.NewModelFromFile(cfg.ModelPath)
	} else {
		m, err = model.NewModelFromString(embeddedModel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if cfg.PolicyPath != "" {
		if !fileExists(cfg.PolicyPath) {
			return nil, fmt.Errorf("casbin policy %s not found", cfg.PolicyPath)
		}
		enforcer, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(cfg.PolicyPath))
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadEmbeddedPolicy(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	return &Enforcer{
		enforcer: enforcer,
		ttl:      cfg.CacheTTL,
		now:      time.Now,
		cache:    make(map[string]decision),
	}, nil
}

// loadEmbeddedPolicy parses and loads a policy CSV.
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch {
		case parts[0] == "p" && len(parts) == 4:
			if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", parts[1:], err)
			}
		case parts[0] == "g" && len(parts) == 3:
			if _, err := enforcer.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", parts[1:], err)
			}
		default:
			return fmt.Errorf("malformed policy line %q", line)
		}
	}
	return nil
}

// Enforce checks if the subject can perform the action on the object.
func (e *Enforcer) Enforce(subject, object, action string) (bool, error) {
	key := subject + "\x00" + object + "\x00" + action
	if allowed, ok := e.cached(key); ok {
		return allowed, nil
	}

	allowed, err := e.enforcer.Enforce(subject, object, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}

	if e.ttl > 0 {
		e.mu.Lock()
		e.cache[key] = decision{allowed: allowed, expiresAt: e.now().Add(e.ttl)}
		e.mu.Unlock()
	}
	return allowed, nil
}

// EnforceWithRole allows the request if either the user id or its role is
// permitted. An empty role is not consulted.
func (e *Enforcer) EnforceWithRole(userID, role, object, action string) (bool, error) {
	if userID != "" {
		if allowed, err := e.Enforce(userID, object, action); err != nil || allowed {
			return allowed, err
		}
	}
	if role == "" {
		return false, nil
	}
	return e.Enforce(role, object, action)
}

// AddRoleForUser assigns a role to a user and drops cached decisions.
func (e *Enforcer) AddRoleForUser(user, role string) (bool, error) {
	added, err := e.enforcer.AddGroupingPolicy(user, role)
	if err != nil {
		return false, fmt.Errorf("failed to add role: %w", err)
	}
	e.clear()
	return added, nil
}

// GetRolesForUser returns the direct roles of a user.
func (e *Enforcer) GetRolesForUser(user string) ([]string, error) {
	return e.enforcer.GetRolesForUser(user)
}

func (e *Enforcer) cached(key string) (bool, bool) {
	if e.ttl <= 0 {
		return false, false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	d, ok := e.cache[key]
	if !ok || e.now().After(d.expiresAt) {
		return false, false
	}
	return d.allowed, true
}

func (e *Enforcer) clear() {
	e.mu.Lock()
	e.cache = make(map[string]decision)
	e.mu.Unlock()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
