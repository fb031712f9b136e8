package xmvnconf

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Write XMvn configuration fragments for a package build"
	MsgAliasShort      = "Declare alternate coordinates for an artifact"
	MsgFileShort       = "Set the installation paths of an artifact"
	MsgPackageShort    = "Assign an artifact to a subpackage"
	MsgOptionShort     = "Set an arbitrary XMvn configuration option"
	MsgApplyShort      = "Emit every rule listed in a manifest"
	MsgStatusShort     = "Show the sequence index and the written fragments"
	MsgGenConfigShort  = "Print the default configuration file"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagWorkDir = "Build tree that holds the .xmvn directory"
	MsgFlagConfig  = "Config file loaded after the project config"
	MsgFlagFormat  = "Report format: auto, text, terminal or json"
	MsgFlagIndent  = "Spaces per indentation level in written fragments (0 uses tabs)"

	// Error messages
	MsgErrNoCommand  = "no command specified"
	MsgErrLoadConfig = "failed to load configuration: %w"
)

// Long descriptions
const (
	MsgRootLong = `xmvnconf records artifact mappings for XMvn during an RPM build.

Every invocation writes one numbered fragment under .xmvn/config.d in the
build tree, for example .xmvn/config.d/javapackages-config-00001.xml. The
last index used is stored in .xmvn/javapackages-rule-index, so fragments
accumulate across invocations and are read by XMvn in index order.

Only one xmvnconf process may run against a build tree at a time.`

	MsgAliasLong = `Declare that the artifact is also known under each of the given
coordinates. Coordinates are groupId:artifactId[:extension[:classifier]][:version].
With no alias an empty alias list is written.`

	MsgFileLong = `Set the paths, relative to the Java directories, where the artifact
is installed. Paths are written in the order given.`

	MsgOptionLong = `Set the XMvn option at a slash separated path to a text value.
Each path segment becomes one nested element, for example
buildSettings/compilerSource.`

	MsgApplyLong = `Read a TOML or YAML manifest listing rules under "rules" and emit
them in order. Every entry is validated before the first fragment is written;
the run stops at the first write failure.`

	MsgCompletionLong = `Generate a completion script for bash, zsh, fish or powershell.`
)

// Examples
const (
	MsgAliasExample = `  xmvnconf alias org.apache.commons:commons-lang3 commons-lang:commons-lang
  xmvnconf alias :guice com.google.inject:guice-parent`

	MsgFileExample = `  xmvnconf file org.foo:bar foo/bar bar
  xmvnconf file :x x/x`

	MsgPackageExample = `  xmvnconf package org.foo:bar-tests tests`

	MsgOptionExample = `  xmvnconf option buildSettings/compilerSource 1.8`

	MsgApplyExample = `  xmvnconf apply mappings.toml`
)
