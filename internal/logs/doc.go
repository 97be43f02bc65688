// Package logs reads the auxl log file for `auxl logs`.
//
// Last returns the final lines with bounded memory, From continues from a byte
// offset, and Follow polls for new lines until its context ends. The log file
// is rotated by lumberjack, so a file that shrinks below the saved offset is
// read again from the start.
package logs
