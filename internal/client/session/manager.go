package session

import (
	"context"
	"sync"

	"github.com/BraisonWabwire/shopke-cli/internal/client/models"
	"github.com/BraisonWabwire/shopke-cli/internal/logging"
)

// Manager is the in-process observable for the current identity. It is the
// only path by which the rest of the client observes or mutates the
// session; nothing else reads the Store directly.
//
// It satisfies the gateway's TokenSource, and its Teardown method is the
// gateway's unauthorized hook.
type Manager struct {
	store Store
	log   logging.Logger

	mu      sync.RWMutex
	current *models.Session
	subs    []func(*models.User)
}

// NewManager initializes the manager from the store. A load failure is
// logged and treated as no session.
func NewManager(ctx context.Context, store Store, log logging.Logger) *Manager {
	m := &Manager{store: store, log: log.With("component", "session")}
	sess, err := store.Load(ctx)
	if err != nil {
		m.log.Warn(ctx, "could not load persisted session", "error", err)
		sess = nil
	}
	m.current = sess
	return m
}

// Identity returns a copy of the current identity, or nil when anonymous.
func (m *Manager) Identity() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	u := m.current.User
	return &u
}

// Token returns the current credential, or "" when anonymous.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Token
}

// Subscribe registers fn to run after every identity change, with the new
// identity (nil on logout). Callbacks run synchronously on the mutating
// goroutine and must be quick.
func (m *Manager) Subscribe(fn func(identity *models.User)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

func (m *Manager) swap(sess *models.Session) {
	m.mu.Lock()
	m.current = sess
	subs := make([]func(*models.User), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	var identity *models.User
	if sess != nil {
		u := sess.User
		identity = &u
	}
	for _, fn := range subs {
		fn(identity)
	}
}

// Set persists the session and publishes the new identity. Used exclusively
// by the login and register flows.
func (m *Manager) Set(ctx context.Context, sess *models.Session) error {
	if err := m.store.Save(ctx, sess); err != nil {
		return err
	}
	m.swap(sess)
	return nil
}

// Clear persists the logout and publishes the anonymous state.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return err
	}
	m.swap(nil)
	return nil
}

// Teardown is the forced variant used when the server rejects the
// credential: the in-memory identity is always dropped, even if the store
// write fails. Safe to call repeatedly.
func (m *Manager) Teardown(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.log.Error(ctx, "could not clear persisted session", "error", err)
	}
	m.swap(nil)
}

// Refresh re-reads the store and, when the persisted session differs from
// the in-memory one, adopts and publishes it. The watcher calls this when
// another instance writes the store.
func (m *Manager) Refresh(ctx context.Context) {
	sess, err := m.store.Load(ctx)
	if err != nil {
		m.log.Warn(ctx, "could not reload session", "error", err)
		return
	}

	m.mu.RLock()
	same := sameSession(m.current, sess)
	m.mu.RUnlock()
	if same {
		return
	}
	m.swap(sess)
}

func sameSession(a, b *models.Session) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Token == b.Token && a.User == b.User
}
