// Package sqlparser recognizes the engine's SQL subset with a small
// hand-written dispatcher — one regular expression per statement shape,
// not a lexer/recursive-descent grammar — and converts each recognized
// statement into a typed Statement for internal/executor to run.
package sqlparser
