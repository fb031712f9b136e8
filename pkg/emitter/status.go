package emitter

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/xmvnconf/pkg/errors"
	"github.com/arthur-debert/xmvnconf/pkg/paths"
	"github.com/arthur-debert/xmvnconf/pkg/sequence"
	"github.com/arthur-debert/xmvnconf/pkg/types"
)

// Fragment is a config file found on disk
type Fragment struct {
	Index int
	Path  string
}

// Status summarizes the state of a build tree
type Status struct {
	// Next is the index the next emission will use
	Next      int
	Fragments []Fragment
	// Gaps lists indices below Next with no fragment on disk
	Gaps []int
}

// Inspect reads the index file and lists the fragments in the config
// directory without modifying anything.
func Inspect(fsys types.FS, layout paths.Paths) (Status, error) {
	var st Status

	next, err := peekNext(fsys, layout)
	if err != nil {
		return st, err
	}
	st.Next = next

	entries, err := fsys.ReadDir(layout.ConfigDir())
	if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return st, errors.Wrapf(err, errors.ErrIO, "failed to list %s", layout.ConfigDir()).
			WithDetail("path", layout.ConfigDir())
	}

	seen := make(map[int]bool)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		index, ok := paths.ParseConfigFileName(entry.Name())
		if !ok {
			continue
		}
		seen[index] = true
		st.Fragments = append(st.Fragments, Fragment{
			Index: index,
			Path:  filepath.Join(layout.ConfigDir(), entry.Name()),
		})
	}
	sort.Slice(st.Fragments, func(i, j int) bool {
		return st.Fragments[i].Index < st.Fragments[j].Index
	})

	for i := 1; i < st.Next; i++ {
		if !seen[i] {
			st.Gaps = append(st.Gaps, i)
		}
	}
	return st, nil
}

// peekNext reads the counter without creating the state directory
func peekNext(fsys types.FS, layout paths.Paths) (int, error) {
	if _, err := fsys.Stat(layout.IndexPath()); stderrors.Is(err, fs.ErrNotExist) {
		return 1, nil
	}
	return sequence.New(fsys, layout.IndexPath()).Current()
}
