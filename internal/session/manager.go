// Package session owns the client's authentication state: who is logged in,
// restored from and persisted to local storage. Screens read it; the role
// router and polling loop observe it.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/me/roadwatch/pkg/model"
)

// ErrIncompleteCredentials is returned when Login is called with a partial
// credential set. Token, user id, and role change only as a unit.
var ErrIncompleteCredentials = errors.New("incomplete credentials: token, user id, and role are all required")

// Subscriber receives the new session after every state change.
type Subscriber func(model.Session)

// Manager is the single process-wide authority for the current session.
// All methods are safe for concurrent use.
type Manager struct {
	store  Store
	logger *slog.Logger

	mu        sync.RWMutex
	current   model.Session
	restoring bool

	subMu   sync.Mutex
	subs    map[int]Subscriber
	nextSub int
}

// NewManager creates a session manager over the given store. The manager
// starts anonymous with the restoring flag set; call Restore before making
// authorization decisions.
func NewManager(st Store, logger *slog.Logger) *Manager {
	return &Manager{
		store:     st,
		logger:    logger.With("component", "session"),
		restoring: true,
		subs:      make(map[int]Subscriber),
	}
}

// Restore loads a previously persisted session. Missing or malformed stored
// data leaves the session anonymous without failing: a storage fault must
// never prevent the app from starting. Clears the restoring flag.
func (m *Manager) Restore(ctx context.Context) {
	sess, found, err := m.store.Load(ctx)
	switch {
	case err != nil:
		m.logger.Warn("stored session unreadable, starting anonymous", "error", err)
		sess = model.Anonymous()
	case found && !sess.IsAuthenticated():
		// A partial credential set violates the all-or-nothing invariant;
		// treat it the same as corrupted data.
		m.logger.Warn("stored session incomplete, starting anonymous")
		sess = model.Anonymous()
	case !found:
		sess = model.Anonymous()
	}

	m.mu.Lock()
	m.current = sess
	m.restoring = false
	m.mu.Unlock()

	m.notify(sess)
}

// Login sets the full credential set atomically, persists it, and notifies
// subscribers. The caller has already obtained the credentials from the
// backend; no network call happens here.
func (m *Manager) Login(ctx context.Context, token, userID string, role model.Role) error {
	sess := model.Session{Token: token, UserID: userID, Role: role}
	if !sess.IsAuthenticated() {
		return ErrIncompleteCredentials
	}

	m.mu.Lock()
	m.current = sess
	m.restoring = false
	m.mu.Unlock()

	if err := m.store.Save(ctx, sess); err != nil {
		m.logger.Error("persisting session failed", "error", err)
	}

	m.notify(sess)
	return nil
}

// Logout clears the session and deletes the persisted entry. It returns only
// after persistence completes; callers may show a loading indicator for the
// duration. A storage fault is logged, not fatal: the in-memory session is
// cleared regardless.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.current = model.Anonymous()
	m.mu.Unlock()

	if err := m.store.Delete(ctx); err != nil {
		m.logger.Error("deleting persisted session failed", "error", err)
	}

	m.notify(model.Anonymous())
}

// Current returns the current session. It never blocks on storage.
func (m *Manager) Current() model.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Restoring reports whether the initial Restore has not finished yet.
// Consumers must defer role-based decisions while this is true.
func (m *Manager) Restoring() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.restoring
}

// Subscribe registers fn to run after every session change. The returned
// function removes the subscription.
func (m *Manager) Subscribe(fn Subscriber) func() {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

// notify runs subscribers synchronously, outside the state lock so they can
// read the manager without deadlocking.
func (m *Manager) notify(sess model.Session) {
	m.subMu.Lock()
	subs := make([]Subscriber, 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.subMu.Unlock()

	for _, fn := range subs {
		fn(sess)
	}
}
