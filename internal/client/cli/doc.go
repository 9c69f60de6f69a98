// Package cli implements the interactive storefront client: a REPL that
// authenticates against the commerce API, browses the catalog, and manages
// a customer's cart. Screens are guarded by role; the session survives
// restarts and is shared with other running instances.
package cli
