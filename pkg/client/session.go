// Package client is a Go consumer of the appointment API. Its SessionStore
// mirrors what the web frontend keeps in memory: a cached, advisory view of
// the authenticated identity. It is never the authority for anything; every
// protected endpoint re-checks the credential server-side.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/eshaafi/appointment-service/internal/domain"
)

// SessionState is an explicit tri-state so callers can tell "not yet checked"
// from "checked and rejected".
type SessionState int

const (
	StateUnknown SessionState = iota
	StateAnonymous
	StateAuthenticated
)

// Profile is the account shape returned by GET /api/users/profile.
type Profile struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// SessionStore caches the decoded identity derived from a profile fetch. The
// credential cookie itself lives in the HTTP client's jar and is resent on
// every call.
type SessionStore struct {
	baseURL string
	httpc   *http.Client

	mu    sync.RWMutex
	state SessionState
	user  *Profile
}

// New builds a store for the given API base URL, e.g. "https://api.eshaafi.example".
func New(baseURL string) (*SessionStore, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &SessionStore{
		baseURL: baseURL,
		httpc: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
		},
		state: StateUnknown,
	}, nil
}

// Refresh issues one profile fetch and derives the session from it. Any
// failure, including 401, degrades silently to the anonymous state; the error
// return covers only programmer mistakes like a malformed base URL.
func (s *SessionStore) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/users/profile", nil)
	if err != nil {
		return err
	}

	resp, err := s.httpc.Do(req)
	if err != nil {
		s.setAnonymous()
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.setAnonymous()
		return nil
	}

	var envelope struct {
		Data Profile `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		s.setAnonymous()
		return nil
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.user = &envelope.Data
	s.mu.Unlock()
	return nil
}

// Login authenticates and refreshes the session from the server's view.
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/users/login", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		s.setAnonymous()
		return fmt.Errorf("login failed: status %d", resp.StatusCode)
	}
	return s.Refresh(ctx)
}

// Logout revokes the credential server-side and drops the cached identity.
func (s *SessionStore) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/users/logout", nil)
	if err != nil {
		return err
	}
	resp, err := s.httpc.Do(req)
	if err == nil {
		resp.Body.Close()
	}
	s.setAnonymous()
	return nil
}

func (s *SessionStore) setAnonymous() {
	s.mu.Lock()
	s.state = StateAnonymous
	s.user = nil
	s.mu.Unlock()
}

// State returns the current session state.
func (s *SessionStore) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the cached profile, or nil unless authenticated.
func (s *SessionStore) User() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *SessionStore) hasRole(role domain.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateAuthenticated && s.user != nil && s.user.Role == role
}

// IsPatient reports whether the cached identity is a patient. Advisory only.
func (s *SessionStore) IsPatient() bool { return s.hasRole(domain.RolePatient) }

// IsDoctor reports whether the cached identity is a doctor. Advisory only.
func (s *SessionStore) IsDoctor() bool { return s.hasRole(domain.RoleDoctor) }

// IsAdmin reports whether the cached identity is a platform admin. Advisory only.
func (s *SessionStore) IsAdmin() bool { return s.hasRole(domain.RoleAdmin) }

// IsClinicAdmin reports whether the cached identity is a clinic admin. Advisory only.
func (s *SessionStore) IsClinicAdmin() bool { return s.hasRole(domain.RoleClinicAdmin) }

// IsSuperAdmin reports whether the cached identity is the super admin. Advisory only.
func (s *SessionStore) IsSuperAdmin() bool { return s.hasRole(domain.RoleSuperAdmin) }
