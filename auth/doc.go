// Package auth verifies approval tokens for mutating operations.
//
// A token is an HS256-signed JWT carrying the operation it approves in
// the "op" claim. Tokens are minted out of band (a change-management
// pipeline, a human with the shared secret) and presented per call, so
// a client can read freely but cannot reboot a node without one.
package auth
