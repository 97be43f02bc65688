// Package sessionfile encodes and decodes the .auxl review session format.
//
// A session file is a UTF-8 JSON envelope holding the ordered papers, the
// per-paper rating map, the cursor (as a 1-based number plus the current paper
// and the two navigation flags) and, when any record has been judged, the
// per-paper dispositions. Files written before the envelope carried a version
// are read as version 0.
//
// Decode runs in strict mode by default: the document is validated against the
// embedded JSON Schema and then checked for internal consistency. Lenient mode
// keeps whatever can be salvaged and reports the rest as warnings.
package sessionfile
