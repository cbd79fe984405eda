// Package cli provides the interactive BhojanBox command-line client.
//
// It wires configuration, local storage, the resource client and the state
// stores, then runs a REPL that renders store state and dispatches actions.
// Typical flow: resume a saved session, browse the menu, fill the cart and
// check out.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher and runREPL for details.
package cli
