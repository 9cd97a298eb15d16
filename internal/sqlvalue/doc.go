// Package sqlvalue implements the tagged value domain shared by every
// layer of the engine: the literal parser, the column validator, the
// index keys, and the result rows handed back to callers.
package sqlvalue
