// Package services contains the application services of the storefront
// client: authentication, the cart controller, the cart badge poller, and
// the owner dashboard aggregates.
package services

import (
	"context"
	"fmt"

	"github.com/BraisonWabwire/shopke-cli/internal/client/api"
	"github.com/BraisonWabwire/shopke-cli/internal/client/models"
	"github.com/BraisonWabwire/shopke-cli/internal/client/session"
)

// AuthService defines the authentication operations of the client.
//
// Contract:
//   - Login/Register: authenticate against the server and persist the
//     resulting session (token + identity together, never one alone).
//   - Logout: clear the persisted session and publish the anonymous state.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	Register(ctx context.Context, req api.RegisterRequest) (*models.User, error)
	Logout(ctx context.Context) error
}

type authService struct {
	client   api.Client
	sessions *session.Manager
}

// NewAuthService binds the auth flows to the API client and the session
// manager they are the only writers of.
func NewAuthService(client api.Client, sessions *session.Manager) AuthService {
	return &authService{client: client, sessions: sessions}
}

func (a *authService) Login(ctx context.Context, username, password string) (*models.User, error) {
	res, err := a.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	sess := &models.Session{Token: res.Token, User: res.User}
	if err := a.sessions.Set(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return &res.User, nil
}

func (a *authService) Register(ctx context.Context, req api.RegisterRequest) (*models.User, error) {
	if req.Password != req.Password2 {
		return nil, &api.ValidationError{
			Fields: map[string][]string{"password2": {"passwords do not match"}},
		}
	}
	if req.Role != models.RoleOwner && req.Role != models.RoleCustomer {
		return nil, &api.ValidationError{
			Fields: map[string][]string{"role": {"must be owner or customer"}},
		}
	}

	res, err := a.client.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	sess := &models.Session{Token: res.Token, User: res.User}
	if err := a.sessions.Set(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return &res.User, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.sessions.Clear(ctx)
}
