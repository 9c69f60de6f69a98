// Package session owns everything about the client's durable session: the
// key/value store shared by all running instances, the per-process manager
// that UI code observes, and the watcher that picks up writes made by other
// instances.
package session

import (
	"context"

	"github.com/BraisonWabwire/shopke-cli/internal/client/models"
)

// Store is durable key/value persistence for the current credential and
// identity. The token and the serialized identity are written and cleared
// atomically together, never independently.
//
// A corrupt or partial persisted record loads as absent, never as an error
// the caller has to handle specially.
type Store interface {
	// Load returns the persisted session, or nil when absent or corrupt.
	Load(ctx context.Context) (*models.Session, error)

	// Save persists the session atomically and bumps the change sequence.
	Save(ctx context.Context, s *models.Session) error

	// Clear removes both keys atomically and bumps the change sequence.
	Clear(ctx context.Context) error

	// Seq returns a counter that increases on every Save or Clear, from
	// any process sharing the store. Watchers poll it for cheap change
	// detection.
	Seq(ctx context.Context) (int64, error)
}
