// Package vanity generates vanity renderings of phone numbers.
//
// A raw phone string is normalized into a 10-digit DigitSequence. Every digit
// is expanded into the letters printed on its telephone key, the Cartesian
// product of those substitutions is streamed in odometer order, and every
// window of two or more letters is looked up in a WordSet. Each hit becomes a
// Candidate of the form
//
//	<prefix digits>-<WORD>-<suffix digits>
//
// Candidates are deduplicated and returned in ascending byte order.
//
// Digits 0 and 1 have no letters. They map to themselves and no matched word
// ever spans them.
//
// The engine never ranks candidates. Ranking, persistence and event delivery
// live outside this package.
package vanity
