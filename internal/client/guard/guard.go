// Package guard holds the single role-based access decision used by every
// protected screen. Screens differ only in the role they require; the
// redirect logic lives here and nowhere else.
package guard

import "github.com/BraisonWabwire/shopke-cli/internal/client/models"

// Decision is the outcome of an access check.
type Decision int

const (
	// Allow lets the screen render.
	Allow Decision = iota
	// RedirectLogin sends an anonymous user to the login screen.
	RedirectLogin
	// RedirectHome sends an authenticated user of the wrong role to their
	// own dashboard.
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Evaluate maps (identity, required role) to a Decision.
//
// Rules:
//   - required == models.RoleAny always allows, authenticated or not.
//   - no identity allows nothing else: RedirectLogin.
//   - wrong role: RedirectHome (the caller resolves "home" per the
//     identity's actual role).
func Evaluate(identity *models.User, required models.Role) Decision {
	if required == models.RoleAny {
		return Allow
	}
	if identity == nil {
		return RedirectLogin
	}
	if identity.Role != required {
		return RedirectHome
	}
	return Allow
}
