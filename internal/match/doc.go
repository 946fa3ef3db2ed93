// Package match ranks known names by edit distance. It backs the
// "did you mean" suggestions attached to unknown-name diagnostics.
package match
