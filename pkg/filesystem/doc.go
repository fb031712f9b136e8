// Package filesystem provides filesystem implementations for xmvnconf.
//
// This package contains implementations of the types.FS interface:
// the standard OS filesystem, an afero-backed filesystem rooted at a
// work directory, and an in-memory filesystem for tests.
package filesystem
