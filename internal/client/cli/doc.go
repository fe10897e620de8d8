// Package cli provides the interactive country explorer command-line client.
//
// It wires configuration, the local key/value store, the session manager,
// the countries API client and browse preferences into a REPL. The REPL is
// started via App.Run(ctx), which blocks until the user exits or input ends.
//
// Key features:
//   - Register / Login / Logout against the local account store
//   - List countries with search, region and language filters and sorting
//   - Show country details
//   - Toggle and list favorites of the signed-in user
//
// Favorite commands require a signed-in user; otherwise a sign-in hint is
// printed. See runREPL for the command list.
package cli
