package models

// Session pairs the opaque API token with the identity it was issued for.
// A session is only ever persisted or held in memory as a whole: a token
// without an identity (or vice versa) is treated as no session at all.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Valid reports whether the session carries both halves of the pair.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.User.ID != 0 && s.User.Username != ""
}
