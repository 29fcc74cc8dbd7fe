// Package cli provides the interactive Ace in April command-line client.
//
// It wires configuration, the local session database, the record store
// client, and an interactive REPL. Typical flow: restore the persisted
// session, then prompt for commands; every protected command is checked
// against the route guard before it runs.
//
// Key features:
//   - Login / Logout with durable sessions
//   - Today's question for the user's category
//   - Submit an answer with an optional file attachment
//   - Admin: list users, create users, post questions
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
