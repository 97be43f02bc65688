// Package textutil provides small text helpers shared by the review engine
// and the record search.
//
// Term vectors tokenize free text into lowercase alphanumeric terms so
// records can be ranked against a query with cosine similarity, optionally
// weighted by inverse document frequency over the loaded catalog. Identity
// tokens turn arbitrary bibliographic strings into stable record keys.
package textutil
