// Package sequence hands out the index that names each emitted config file.
//
// The index survives across process invocations in a small text file
// holding the decimal value of the last allocated index. The value is
// persisted as soon as it is allocated, before any document is written, so
// a crash can leave a gap in the file names but never a duplicate.
//
// There is no locking. Two processes constructing a Store against the same
// index file at the same time can read the same value and allocate the same
// index, and one document then overwrites the other. Callers must serialize
// invocations against one build tree.
package sequence

import (
	stderrors "errors"
	"io/fs"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arthur-debert/xmvnconf/pkg/errors"
	"github.com/arthur-debert/xmvnconf/pkg/logging"
	"github.com/arthur-debert/xmvnconf/pkg/types"
)

// Store is a persisted, strictly increasing counter
type Store struct {
	fs     types.FS
	path   string
	next   int
	loaded bool
}

// New creates a Store backed by the index file at path. Nothing is read
// until Current is called.
func New(fs types.FS, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Path returns the location of the index file
func (s *Store) Path() string {
	return s.path
}

// Current returns the index the next Advance will allocate. The first call
// loads the index file; when it does not exist yet the enclosing directory
// is created and counting starts at 1.
func (s *Store) Current() (int, error) {
	if s.loaded {
		return s.next, nil
	}

	logger := logging.GetLogger("sequence")

	data, err := s.fs.ReadFile(s.path)
	switch {
	case err == nil:
		last, perr := parseIndex(data)
		if perr != nil {
			return 0, errors.Wrapf(perr, errors.ErrCorruptState,
				"index file %s does not hold a valid index", s.path).
				WithDetail("path", s.path).
				WithDetail("content", string(data))
		}
		s.next = last + 1
		logger.Debug().Str("path", s.path).Int("last", last).Msg("Loaded sequence index")
	case stderrors.Is(err, fs.ErrNotExist):
		if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
			return 0, errors.Wrapf(err, errors.ErrIO,
				"failed to create state directory for %s", s.path).
				WithDetail("path", s.path)
		}
		s.next = 1
		logger.Debug().Str("path", s.path).Msg("No index file, starting at 1")
	default:
		return 0, errors.Wrapf(err, errors.ErrIO, "failed to read index file %s", s.path).
			WithDetail("path", s.path)
	}

	s.loaded = true
	return s.next, nil
}

// Advance persists the current index and moves past it. It returns the
// index that was allocated. When the write fails the in-memory counter is
// left unchanged and no index is allocated.
func (s *Store) Advance() (int, error) {
	index, err := s.Current()
	if err != nil {
		return 0, err
	}

	if err := s.fs.WriteFile(s.path, []byte(strconv.Itoa(index)), 0644); err != nil {
		return 0, errors.Wrapf(err, errors.ErrIO, "failed to persist index %d", index).
			WithDetail("path", s.path).
			WithDetail("index", index)
	}

	s.next = index + 1
	logger := logging.GetLogger("sequence")
	logger.Debug().Int("index", index).Msg("Allocated sequence index")
	return index, nil
}

// parseIndex accepts surrounding whitespace; anything else that is not a
// non-negative decimal integer below math.MaxInt is corrupt.
func parseIndex(data []byte) (int, error) {
	text := strings.TrimSpace(string(data))
	value, err := strconv.Atoi(text)
	if err != nil {
		return 0, err
	}
	if value < 0 {
		return 0, errors.Newf(errors.ErrCorruptState, "negative index %d", value)
	}
	if value == math.MaxInt {
		return 0, errors.Newf(errors.ErrCorruptState, "index %d leaves no next index", value)
	}
	return value, nil
}
