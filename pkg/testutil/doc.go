// Package testutil provides helpers for tests that work against a build
// tree on the real filesystem or behind a types.FS.
//
// Key components:
//   - CreateFile, FileExists: plain file setup and checks
//   - WriteIndex, ReadIndex, ReadFragment: the .xmvn layout of a build tree
//   - FailingFS: a types.FS wrapper that fails writes matching a predicate
package testutil
