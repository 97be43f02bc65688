// Package ingest turns an extraction spreadsheet into research records.
//
// The spreadsheet is a CSV file whose first row is a header. Columns 0-7 hold
// the bibliographic fields (title, authors, DOI, DOI link, venue, citation
// count, year, filename), columns 8-22 the fifteen reviewable values in field
// order, and columns 23-67 one quotes/tables/reasoning triple per field in the
// same order. Short rows are padded with empty strings and all text is NFC
// normalized.
package ingest
