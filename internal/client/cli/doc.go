// Package cli provides the interactive divelog command-line client.
//
// It wires configuration, the local cache, the Firestore-backed entry
// repository, identity resolution, and an interactive REPL that reads the
// reconciliation store. Typical flow: prompt for a session token, let the
// sync controller establish the scoped subscription, and execute user
// commands against the live entry set.
//
// Key features:
//   - Login / Logout (token-based, admin role resolved from the token)
//   - Add / Delete / Show / List dive entries
//   - Attach photos to entries via object storage
//   - Export / Import the journal, optionally passphrase-protected
//   - Refresh (one-shot re-query) and Clear (delete visible entries)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
