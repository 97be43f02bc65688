// Package workspace is the action boundary of a review.
//
// A Workspace owns one review.Session and performs the user-triggered actions
// that touch the outside world: Open, Import, Save, Save As and Export. Each
// action asks the Prompter for a path, goes through the TextStore or Parser,
// and swaps the result into the session only on success. Failures are logged
// with event_type, error_hint and impact fields, sent to the notifier, and
// returned wrapped so the caller can report them. A declined prompt is not an
// error: the action simply reports that nothing was performed.
package workspace
