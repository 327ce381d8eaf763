// Package dialect detects "foreign syntax" signals: a .sk file that is
// really Rust, Go, TypeScript or Python shaped. Evidence is collected
// passively during tokenization and never changes lexing or parsing;
// the driver turns a confident classification into one hint diagnostic
// when the file already failed to check.
package dialect
