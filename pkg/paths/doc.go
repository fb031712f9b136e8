// Package paths defines the on-disk layout xmvnconf writes into.
//
// The layout is relative to the invocation's working directory and is
// consumed by the XMvn configuration loader, so none of it is
// user-configurable:
//
//	.xmvn/javapackages-rule-index         last allocated sequence index
//	.xmvn/config.d/javapackages-config-00001.xml
//	.xmvn/config.d/javapackages-config-00002.xml
//	...
//
// Config file names are zero padded to IndexWidth digits so that
// lexicographic directory order equals emission order. The loader merges
// rules for the same artifact glob in file order, later files winning.
// Indices of 100000 and above widen the field instead of truncating.
package paths
