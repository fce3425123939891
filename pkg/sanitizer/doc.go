// Package sanitizer normalizes caller-supplied input before it reaches the
// vanity engine or storage.
//
// All functions are idempotent and never fail: input that cannot be
// normalized comes back empty.
//
//   - Phone numbers: E.164 (+[country][number]) via libphonenumber
//   - Strings: collapse whitespace, trim leading/trailing spaces
package sanitizer
