// Package naming holds the pure string helpers shared by every stage of the
// build: path normalization, base identifiers, range expansion for override
// specs, natural ordering, and the question/solution filename convention.
//
// Nothing in this package touches the filesystem.
package naming
