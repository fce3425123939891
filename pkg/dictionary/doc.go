// Package dictionary loads the word list vanity numbers are matched against.
//
// Words are folded to lowercase ASCII before they enter a WordSet: diacritics
// are stripped, case is folded and anything that is not a run of at least two
// letters a-z is dropped. A WordSet is immutable once built.
//
// The process-wide set is initialized once through Init or Default and shared
// read-only by every request.
package dictionary
