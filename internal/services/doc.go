// Package services defines shared context helpers consumed by the workspace
// actions and the CLI.
//
// The helpers stamp the action name, the session file path, and a correlation
// identifier on a context so the logging package can attach them to every line
// an action emits.
package services
