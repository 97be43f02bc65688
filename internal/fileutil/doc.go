// Package fileutil provides the text file store used for session files,
// exports and spreadsheets.
//
// Writes go to a temporary file in the destination directory and are renamed
// into place, so readers never observe a half-written session. An advisory
// flock on "<path>.lock" keeps two auxl processes from interleaving writes to
// the same file, and an optional verified copy of the previous content is kept
// as "<path>.bak".
package fileutil
