// Package types holds the capabilities shared between xmvnconf packages.
package types
