// Package router redirects to the role-appropriate landing screen whenever
// the session changes. It keeps no state of its own beyond the last role it
// acted on; it is a pure reaction to the session manager.
package router

import (
	"log/slog"
	"sync"

	"github.com/me/roadwatch/internal/session"
	"github.com/me/roadwatch/pkg/model"
)

// Screen identifies a landing destination.
type Screen string

const (
	// ScreenEntry is the anonymous entry screen (login/signup).
	ScreenEntry Screen = "entry"
	// ScreenUserHome is the reporter dashboard.
	ScreenUserHome Screen = "user-home"
	// ScreenAdminHome is the administrator dashboard.
	ScreenAdminHome Screen = "admin-home"
)

// Navigator performs the actual navigation. The CLI supplies one.
type Navigator interface {
	Navigate(screen Screen)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(Screen)

func (f NavigatorFunc) Navigate(s Screen) { f(s) }

// RoleRouter observes the session manager and navigates exactly once per
// actual role transition, never on repeated observations of the same role.
type RoleRouter struct {
	nav    Navigator
	logger *slog.Logger

	mu          sync.Mutex
	lastRole    model.Role
	unsubscribe func()
}

// New creates a role router and attaches it to the session manager. The
// session state at attach time is taken as the baseline, so only transitions
// that happen afterwards navigate. Call Close to detach.
func New(mgr *session.Manager, nav Navigator, logger *slog.Logger) *RoleRouter {
	r := &RoleRouter{
		nav:      nav,
		logger:   logger.With("component", "router"),
		lastRole: effectiveRole(mgr.Current()),
	}
	r.unsubscribe = mgr.Subscribe(r.onSession)
	return r
}

// Close detaches the router from the session manager.
func (r *RoleRouter) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
}

// effectiveRole reduces a session to the role the router keys on. Anything
// short of a fully authenticated session counts as anonymous.
func effectiveRole(sess model.Session) model.Role {
	if !sess.IsAuthenticated() {
		return ""
	}
	return sess.Role
}

// onSession reacts to a session change. An authenticated session navigates to
// its role's landing screen, once per role change. A transition back to
// anonymous lands on the entry screen. Restore completing with no stored
// session changes nothing and navigates nowhere.
func (r *RoleRouter) onSession(sess model.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	role := effectiveRole(sess)
	if role == r.lastRole {
		return
	}
	r.lastRole = role

	if role == "" {
		r.logger.Debug("navigating", "screen", ScreenEntry)
		r.nav.Navigate(ScreenEntry)
		return
	}

	screen := ScreenUserHome
	if role.IsAdmin() {
		screen = ScreenAdminHome
	}
	r.logger.Debug("navigating", "screen", screen, "role", role)
	r.nav.Navigate(screen)
}

// Landing returns the landing screen for a session without navigating.
func Landing(sess model.Session) Screen {
	switch {
	case !sess.IsAuthenticated():
		return ScreenEntry
	case sess.Role.IsAdmin():
		return ScreenAdminHome
	default:
		return ScreenUserHome
	}
}
