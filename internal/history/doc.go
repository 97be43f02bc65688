// Package history remembers recently used session, source, and export files.
//
// Entries live in a small SQLite database under the configured state
// directory. The workspace records an entry after every successful open,
// import, save, or export, and the CLI uses the newest entries for the
// `recent` listing and for suggesting save locations. History is advisory:
// callers log failures and carry on.
package history
