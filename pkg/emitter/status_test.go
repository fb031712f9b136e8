// pkg/emitter/status_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: In-memory filesystem
// PURPOSE: Verify Inspect reports next index, fragments and gaps without side effects

package emitter_test

import (
	"testing"

	"github.com/arthur-debert/xmvnconf/pkg/artifact"
	"github.com/arthur-debert/xmvnconf/pkg/emitter"
	"github.com/arthur-debert/xmvnconf/pkg/errors"
	"github.com/arthur-debert/xmvnconf/pkg/filesystem"
	"github.com/arthur-debert/xmvnconf/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect_EmptyTree(t *testing.T) {
	fsys := filesystem.NewMemory()
	layout := paths.New("build")

	st, err := emitter.Inspect(fsys, layout)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Next)
	assert.Empty(t, st.Fragments)
	assert.Empty(t, st.Gaps)

	_, err = fsys.Stat(layout.StateDir())
	assert.Error(t, err, "inspect must not create the state directory")
}

func TestInspect_FragmentsAndGaps(t *testing.T) {
	fsys := filesystem.NewMemory()
	layout := paths.New("")
	opts := emitter.Options{FS: fsys, Paths: layout}

	e, err := emitter.New(opts)
	require.NoError(t, err)
	_, err = e.AddPackageMapping(artifact.MustParse("g:a"), "core")
	require.NoError(t, err)
	_, err = e.AddPackageMapping(artifact.MustParse("g:b"), "core")
	require.NoError(t, err)
	_, err = e.AddPackageMapping(artifact.MustParse("g:c"), "core")
	require.NoError(t, err)

	require.NoError(t, fsys.Remove(layout.ConfigFile(2)))
	require.NoError(t, fsys.WriteFile(layout.ConfigDir()+"/notes.txt", []byte("x"), 0644))

	st, err := emitter.Inspect(fsys, layout)
	require.NoError(t, err)
	assert.Equal(t, 4, st.Next)
	require.Len(t, st.Fragments, 2)
	assert.Equal(t, 1, st.Fragments[0].Index)
	assert.Equal(t, layout.ConfigFile(3), st.Fragments[1].Path)
	assert.Equal(t, []int{2}, st.Gaps)
}

func TestInspect_CorruptIndex(t *testing.T) {
	fsys := filesystem.NewMemory()
	layout := paths.New("")
	require.NoError(t, fsys.MkdirAll(layout.StateDir(), 0755))
	require.NoError(t, fsys.WriteFile(layout.IndexPath(), []byte("abc"), 0644))

	_, err := emitter.Inspect(fsys, layout)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCorruptState))
}
