// Package emitter writes one XMvn configuration fragment per call.
//
// An Emitter accumulates fragments across process invocations in the fixed
// layout described in package paths. Each Add* call is a complete emission:
// the rule is built and validated, the next sequence index is persisted,
// and a fresh document holding only that rule is written to the file named
// by the index. Failures are terminal for the call and never touch
// fragments written by earlier calls.
//
// The Emitter assumes a single writer per build tree. It takes no lock, so
// concurrent invocations against one directory can allocate the same index
// and overwrite each other's fragment.
package emitter

import (
	"github.com/arthur-debert/xmvnconf/pkg/document"
	"github.com/arthur-debert/xmvnconf/pkg/errors"
	"github.com/arthur-debert/xmvnconf/pkg/logging"
	"github.com/arthur-debert/xmvnconf/pkg/paths"
	"github.com/arthur-debert/xmvnconf/pkg/sequence"
	"github.com/arthur-debert/xmvnconf/pkg/types"
	"github.com/rs/zerolog"
)

// Options configures an Emitter
type Options struct {
	FS    types.FS
	Paths paths.Paths
	// Indent is the number of spaces per level; 0 indents with tabs
	Indent int
}

// Result describes one written fragment
type Result struct {
	Index int
	Path  string
	Kind  document.Kind
}

// Emitter is the entry point callers use to add rules
type Emitter struct {
	seq        *sequence.Store
	paths      paths.Paths
	serializer *document.Serializer
	logger     zerolog.Logger
}

// New loads the sequence index and prepares the config directory. It fails
// with CORRUPT_STATE when the index file is unreadable as an integer.
func New(opts Options) (*Emitter, error) {
	if opts.FS == nil || opts.Paths == nil {
		return nil, errors.New(errors.ErrInternal, "emitter needs a filesystem and a layout")
	}

	e := &Emitter{
		seq:        sequence.New(opts.FS, opts.Paths.IndexPath()),
		paths:      opts.Paths,
		serializer: document.NewSerializer(opts.FS, opts.Indent),
		logger:     logging.GetLogger("emitter"),
	}

	next, err := e.seq.Current()
	if err != nil {
		return nil, err
	}
	if err := opts.FS.MkdirAll(opts.Paths.ConfigDir(), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to create config directory %s", opts.Paths.ConfigDir()).
			WithDetail("path", opts.Paths.ConfigDir())
	}

	e.logger.Debug().
		Int("next", next).
		Str("configDir", opts.Paths.ConfigDir()).
		Msg("Emitter ready")
	return e, nil
}

// Next returns the index the next emission will use
func (e *Emitter) Next() int {
	next, _ := e.seq.Current()
	return next
}

// AddAliases declares alternate coordinates for artifact. An empty aliases
// slice is valid and yields an empty <aliases/>; a nil slice is missing
// content.
func (e *Emitter) AddAliases(artifact document.ArtifactDescriptor, aliases []document.ArtifactDescriptor) (Result, error) {
	return e.Emit(document.AliasRule{Artifact: artifact, Aliases: aliases})
}

// AddFileMapping sets where artifact is installed. Paths are written
// verbatim, in order, duplicates included.
func (e *Emitter) AddFileMapping(artifact document.ArtifactDescriptor, paths []string) (Result, error) {
	return e.Emit(document.FileRule{Artifact: artifact, Paths: paths})
}

// AddPackageMapping assigns artifact to a subpackage
func (e *Emitter) AddPackageMapping(artifact document.ArtifactDescriptor, pkg string) (Result, error) {
	return e.Emit(document.PackageRule{Artifact: artifact, Package: pkg})
}

// AddCustomOption sets the option at a slash separated path, for example
// "buildSettings/compilerSource", to value. value is text, never markup.
func (e *Emitter) AddCustomOption(optionPath, value string) (Result, error) {
	return e.Emit(document.CustomOption{Path: optionPath, Value: value})
}

// Emit writes rule as the next fragment. Caller errors are detected before
// an index is allocated; once the index is persisted an I/O failure burns
// it, leaving a gap in the file names.
func (e *Emitter) Emit(rule document.Rule) (Result, error) {
	done := logging.LogOperationStart(e.logger, "emit")
	defer done()

	subtree, err := document.Build(rule)
	if err != nil {
		return Result{}, err
	}

	index, err := e.seq.Advance()
	if err != nil {
		return Result{}, err
	}
	path := e.paths.ConfigFile(index)

	doc := document.New()
	if err := document.Attach(doc, subtree); err != nil {
		return Result{}, err
	}
	if err := e.serializer.Write(path, doc); err != nil {
		return Result{}, aborted(err, index, path)
	}

	result := Result{Index: index, Path: path, Kind: rule.Kind()}
	e.logger.Info().
		Int("index", index).
		Str("path", path).
		Str("kind", result.Kind.String()).
		Msg("Wrote configuration fragment")
	return result, nil
}

// aborted annotates a failure after index was persisted. The error keeps
// its own code; uncategorized errors are reported as IO.
func aborted(err error, index int, path string) error {
	code := errors.GetErrorCode(err)
	if code == errors.ErrUnknown {
		code = errors.ErrIO
	}
	return errors.Wrapf(err, code, "emission %d aborted", index).
		WithDetail("index", index).
		WithDetail("path", path)
}
