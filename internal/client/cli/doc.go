// Package cli provides the interactive marksync command-line client.
//
// It wires configuration, the local store, the remote store client and an
// interactive REPL. Typical flow: paste an access token at login, then run
// sync cycles and manage bookmarks, shortcuts and scheduled actions.
//
// Key features:
//   - Login / Logout (bearer token, hidden input)
//   - Bidirectional sync plus upload-only and download-only recovery runs
//   - Bookmark, trash, shortcut and scheduled action listings
//   - Durable sync status display
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
