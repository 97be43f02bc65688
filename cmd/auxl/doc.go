// Package main hosts the auxl CLI entrypoint and command graph.
//
// The Cobra-based command tree opens a workspace over one .auxl session file
// per invocation, applies the requested review action, and saves when the
// session changed. Scriptable commands take paths as arguments; `auxl review`
// runs an interactive loop on the terminal. Configuration, logging and the
// workspace collaborators are resolved once in commandContext so subcommands
// only deal with presentation.
package main
