package models

// Role determines which screens and mutations a user may reach.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleCustomer Role = "customer"

	// RoleAny marks a screen as role-agnostic: anonymous and any
	// authenticated user may view it.
	RoleAny Role = ""
)

// User is the authenticated identity as returned by the auth endpoints
// and persisted alongside the token.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
