package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/BraisonWabwire/shopke-cli/internal/client/api"
	"github.com/BraisonWabwire/shopke-cli/internal/client/models"
)

// Login prompts for credentials and establishes a session. The resulting
// identity is published through the session manager, which also starts the
// badge poller for customers.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Already logged in. Log out first to switch accounts.")
		return nil
	}

	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword("Password", a.out)
	if err != nil {
		return err
	}

	user, err := a.auth.Login(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome back, %s! You are logged in as %s.\n", user.Username, user.Role)
	return nil
}

// Register walks through the signup form, validates what can be validated
// locally, and logs the new account in.
func (a *App) Register(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Already logged in. Log out first to register a new account.")
		return nil
	}

	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	role, err := GetSimpleText(a.reader, "Role (owner/customer)", a.out)
	if err != nil {
		return err
	}
	contact, err := GetSimpleText(a.reader, "Contact info (optional)", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword("Password", a.out)
	if err != nil {
		return err
	}
	password2, err := GetPassword("Repeat password", a.out)
	if err != nil {
		return err
	}

	user, err := a.auth.Register(ctx, api.RegisterRequest{
		Username:    username,
		Email:       email,
		Password:    password,
		Password2:   password2,
		Role:        models.Role(strings.ToLower(role)),
		ContactInfo: contact,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account created. You are logged in as %s (%s).\n", user.Username, user.Role)
	return nil
}

// Logout clears the session. The identity change propagates to every
// subscriber, including the poller sync, and to other instances through
// the shared store.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "You are not logged in.")
		return nil
	}
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}
