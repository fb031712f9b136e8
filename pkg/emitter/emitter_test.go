// pkg/emitter/emitter_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (temp dirs through the base-path fs)
// PURPOSE: Verify emissions accumulate across emitters with unique, increasing indices

package emitter_test

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/arthur-debert/xmvnconf/pkg/artifact"
	"github.com/arthur-debert/xmvnconf/pkg/document"
	"github.com/arthur-debert/xmvnconf/pkg/emitter"
	"github.com/arthur-debert/xmvnconf/pkg/errors"
	"github.com/arthur-debert/xmvnconf/pkg/filesystem"
	"github.com/arthur-debert/xmvnconf/pkg/paths"
	"github.com/arthur-debert/xmvnconf/pkg/testutil"
	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (string, emitter.Options) {
	t.Helper()
	root := t.TempDir()
	return root, emitter.Options{FS: filesystem.NewBasePath(root), Paths: paths.New("")}
}

func newEmitter(t *testing.T, opts emitter.Options) *emitter.Emitter {
	t.Helper()
	e, err := emitter.New(opts)
	require.NoError(t, err)
	return e
}

// configFiles lists fragment names in directory order
func configFiles(t *testing.T, root string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(root, paths.StateDirName, paths.ConfigDirName))
	require.NoError(t, err)
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}

func readRoot(t *testing.T, root, name string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromFile(filepath.Join(root, paths.StateDirName, paths.ConfigDirName, name)))
	r := doc.Root()
	require.NotNil(t, r)
	assert.Equal(t, document.Namespace, r.NamespaceURI())
	require.Len(t, r.ChildElements(), 1)
	return r
}

func TestEmit_AccumulatesAcrossRuns(t *testing.T) {
	root, opts := setup(t)

	var indices []int
	for run := 0; run < 3; run++ {
		e := newEmitter(t, opts)
		for i := 0; i < 2; i++ {
			res, err := e.AddFileMapping(artifact.MustParse(":x"), []string{"file"})
			require.NoError(t, err)
			indices = append(indices, res.Index)
		}
	}

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, indices)

	names := configFiles(t, root)
	want := []string{}
	for _, idx := range indices {
		want = append(want, paths.ConfigFileName(idx))
	}
	assert.Equal(t, want, names)

	index, err := os.ReadFile(filepath.Join(root, paths.StateDirName, paths.IndexFileName))
	require.NoError(t, err)
	assert.Equal(t, "6", string(index))
}

func TestEmit_EachOperationShape(t *testing.T) {
	root, opts := setup(t)
	e := newEmitter(t, opts)

	res, err := e.AddAliases(artifact.MustParse("org.foo:bar"), []document.ArtifactDescriptor{
		artifact.MustParse("org.baz:bar"),
		artifact.MustParse(":bar-compat"),
	})
	require.NoError(t, err)
	assert.Equal(t, document.KindAliases, res.Kind)
	assert.Equal(t, filepath.Join(".xmvn", "config.d", "javapackages-config-00001.xml"), res.Path)

	_, err = e.AddFileMapping(artifact.MustParse("a:b"), []string{"a/file1", "../file1"})
	require.NoError(t, err)
	_, err = e.AddPackageMapping(artifact.MustParse(":x"), "x-extras")
	require.NoError(t, err)
	_, err = e.AddCustomOption("buildSettings/compilerSource", "1.8")
	require.NoError(t, err)
	_, err = e.AddCustomOption("buildSettings/compilerTarget", "1.8")
	require.NoError(t, err)

	names := configFiles(t, root)
	require.Len(t, names, 5)

	aliases := readRoot(t, root, names[0])
	rule := aliases.FindElement("artifactManagement/rule")
	require.NotNil(t, rule)
	assert.Equal(t, "artifactGlob", rule.ChildElements()[0].Tag)
	assert.Equal(t, "org.foo", rule.FindElement("artifactGlob/groupId").Text())
	assert.Len(t, rule.FindElements("aliases/alias"), 2)

	files := readRoot(t, root, names[1])
	var got []string
	for _, f := range files.FindElements("artifactManagement/rule/files/file") {
		got = append(got, f.Text())
	}
	assert.Equal(t, []string{"a/file1", "../file1"}, got)

	pkg := readRoot(t, root, names[2])
	assert.Equal(t, "x-extras", pkg.FindElement("artifactManagement/rule/targetPackage").Text())

	source := readRoot(t, root, names[3])
	assert.Equal(t, "1.8", source.FindElement("buildSettings/compilerSource").Text())
	assert.Nil(t, source.FindElement("buildSettings/compilerTarget"))

	target := readRoot(t, root, names[4])
	assert.Equal(t, "1.8", target.FindElement("buildSettings/compilerTarget").Text())
	assert.Nil(t, target.FindElement("buildSettings/compilerSource"), "no merge with an earlier document")
}

func TestEmit_EmptyAliasesAllowed(t *testing.T) {
	root, opts := setup(t)
	_, err := newEmitter(t, opts).AddAliases(artifact.MustParse(":x"), []document.ArtifactDescriptor{})
	require.NoError(t, err)

	r := readRoot(t, root, configFiles(t, root)[0])
	aliases := r.FindElement("artifactManagement/rule/aliases")
	require.NotNil(t, aliases)
	assert.Empty(t, aliases.ChildElements())
}

func TestEmit_TextRoundTripsThroughFile(t *testing.T) {
	root, opts := setup(t)
	e := newEmitter(t, opts)

	_, err := e.AddFileMapping(artifact.MustParse("g:a"), []string{"a\r\nb", " lead\ttab", `&<>"'`})
	require.NoError(t, err)

	r := readRoot(t, root, "javapackages-config-00001.xml")
	var got []string
	for _, f := range r.FindElements("artifactManagement/rule/files/file") {
		got = append(got, f.Text())
	}
	assert.Equal(t, []string{"a\r\nb", " lead\ttab", `&<>"'`}, got)
}

func TestEmit_CallerErrorsDoNotBurnIndices(t *testing.T) {
	root, opts := setup(t)
	e := newEmitter(t, opts)

	tests := []struct {
		name string
		emit func() error
		code errors.ErrorCode
	}{
		{"empty_option_path", func() error { _, err := e.AddCustomOption("", "x"); return err }, errors.ErrInvalidOptionPath},
		{"separator_option_path", func() error { _, err := e.AddCustomOption("/", "x"); return err }, errors.ErrInvalidOptionPath},
		{"nil_aliases", func() error { _, err := e.AddAliases(artifact.MustParse(":x"), nil); return err }, errors.ErrMissingContent},
		{"nil_paths", func() error { _, err := e.AddFileMapping(artifact.MustParse(":x"), nil); return err }, errors.ErrMissingContent},
		{"nil_artifact", func() error { _, err := e.AddPackageMapping(nil, "p"); return err }, errors.ErrMissingContent},
		{"control_char_path", func() error { _, err := e.AddFileMapping(artifact.MustParse(":x"), []string{"c\x01d"}); return err }, errors.ErrInvalidInput},
		{"invalid_utf8_value", func() error { _, err := e.AddCustomOption("opt", "\xff"); return err }, errors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.emit()
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
		})
	}

	assert.Empty(t, configFiles(t, root))
	assert.Equal(t, 1, e.Next())

	res, err := e.AddPackageMapping(artifact.MustParse(":x"), "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Index)
}

func TestNew_CorruptState(t *testing.T) {
	root, opts := setup(t)
	stateDir := filepath.Join(root, paths.StateDirName)
	require.NoError(t, os.MkdirAll(stateDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(stateDir, paths.IndexFileName), []byte("not-a-number"), 0644))

	_, err := emitter.New(opts)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCorruptState))

	_, statErr := os.Stat(filepath.Join(stateDir, paths.ConfigDirName))
	assert.True(t, os.IsNotExist(statErr), "no fragment directory and no document are written")
}

func TestNew_RecreatesConfigDir(t *testing.T) {
	root, opts := setup(t)
	stateDir := filepath.Join(root, paths.StateDirName)
	require.NoError(t, os.MkdirAll(stateDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(stateDir, paths.IndexFileName), []byte("41\n"), 0644))

	e := newEmitter(t, opts)
	assert.Equal(t, 42, e.Next())

	res, err := e.AddCustomOption("a", "b")
	require.NoError(t, err)
	assert.Equal(t, 42, res.Index)
	assert.Equal(t, []string{"javapackages-config-00042.xml"}, configFiles(t, root))
}

func TestNew_RequiresFilesystemAndLayout(t *testing.T) {
	_, err := emitter.New(emitter.Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
}

func TestEmit_WriteFailureBurnsIndex(t *testing.T) {
	root, opts := setup(t)

	good := newEmitter(t, opts)
	_, err := good.AddCustomOption("first", "1")
	require.NoError(t, err)

	broken := opts
	broken.FS = testutil.FailSuffix(opts.FS, ".tmp")
	e := newEmitter(t, broken)
	_, err = e.AddCustomOption("second", "2")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIO))
	assert.Equal(t, 2, errors.GetErrorDetails(err)["index"])

	again := newEmitter(t, opts)
	res, err := again.AddCustomOption("third", "3")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Index, "the failed emission leaves a gap")

	assert.Equal(t, []string{
		"javapackages-config-00001.xml",
		"javapackages-config-00003.xml",
	}, configFiles(t, root))
	assert.Equal(t, "1", readRoot(t, root, "javapackages-config-00001.xml").SelectElement("first").Text())
}
