// pkg/document/document_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: afero memory filesystem
// PURPOSE: Verify document construction, single-rule attachment and serialization

package document_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/xmvnconf/pkg/document"
	"github.com/arthur-debert/xmvnconf/pkg/errors"
	"github.com/arthur-debert/xmvnconf/pkg/filesystem"
	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, data []byte) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	root := doc.Root()
	require.NotNil(t, root)
	return root
}

func TestNew(t *testing.T) {
	doc := document.New()
	root := doc.Root()
	require.NotNil(t, root)

	assert.Equal(t, document.RootTag, root.Tag)
	assert.Equal(t, document.Namespace, root.SelectAttrValue("xmlns", ""))
	assert.Empty(t, root.ChildElements())

	var comments []string
	for _, tok := range root.Child {
		if c, ok := tok.(*etree.Comment); ok {
			comments = append(comments, c.Data)
		}
	}
	assert.Equal(t, []string{document.ProvenanceComment}, comments)
}

func TestAttach(t *testing.T) {
	subtree, err := document.Build(document.CustomOption{Path: "a", Value: "1"})
	require.NoError(t, err)

	doc := document.New()
	require.NoError(t, document.Attach(doc, subtree))
	assert.Equal(t, []string{"a"}, childTags(doc.Root()))

	another, err := document.Build(document.CustomOption{Path: "b", Value: "2"})
	require.NoError(t, err)
	err = document.Attach(doc, another)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal), "a document carries one rule")

	assert.True(t, errors.IsErrorCode(document.Attach(document.New(), nil), errors.ErrMissingContent))
	assert.True(t, errors.IsErrorCode(document.Attach(etree.NewDocument(), another), errors.ErrInternal))
}

func TestRender(t *testing.T) {
	doc, err := document.Assemble(document.FileRule{
		Artifact: fakeArtifact("x"),
		Paths:    []string{"file"},
	})
	require.NoError(t, err)

	t.Run("tabs", func(t *testing.T) {
		data, err := document.NewSerializer(filesystem.NewMemory(), 0).Render(doc)
		require.NoError(t, err)

		out := string(data)
		assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`), out)
		assert.Contains(t, out, `<configuration xmlns="http://fedorahosted.org/xmvn/CONFIG/0.6.0">`)
		assert.Contains(t, out, "\n\t<!--"+document.ProvenanceComment+"-->")
		assert.Contains(t, out, "\n\t\t\t\t<file>file</file>")
	})

	t.Run("spaces", func(t *testing.T) {
		data, err := document.NewSerializer(filesystem.NewMemory(), 2).Render(doc)
		require.NoError(t, err)
		assert.Contains(t, string(data), "\n        <file>file</file>")
	})

	t.Run("render_leaves_document_untouched", func(t *testing.T) {
		before, err := doc.WriteToString()
		require.NoError(t, err)
		_, err = document.NewSerializer(filesystem.NewMemory(), 0).Render(doc)
		require.NoError(t, err)
		after, err := doc.WriteToString()
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		rule  document.Rule
		check func(t *testing.T, root *etree.Element)
	}{
		{
			name: "file_paths_with_metacharacters",
			rule: document.FileRule{Artifact: fakeArtifact("a&b"), Paths: []string{"a/<file1>", "../file1", "x & y"}},
			check: func(t *testing.T, root *etree.Element) {
				rule := root.FindElement("artifactManagement/rule")
				require.NotNil(t, rule)
				assert.Equal(t, []string{"artifactGlob", "files"}, childTags(rule))
				assert.Equal(t, "a&b", rule.FindElement("artifactGlob/artifactId").Text())
				assert.Equal(t, []string{"a/<file1>", "../file1", "x & y"}, texts(rule.FindElements("files/file")))
			},
		},
		{
			name: "package",
			rule: document.PackageRule{Artifact: fakeArtifact("x"), Package: "foo-<extras>"},
			check: func(t *testing.T, root *etree.Element) {
				assert.Equal(t, "foo-<extras>", root.FindElement("artifactManagement/rule/targetPackage").Text())
			},
		},
		{
			name: "empty_aliases",
			rule: document.AliasRule{Artifact: fakeArtifact("x"), Aliases: []document.ArtifactDescriptor{}},
			check: func(t *testing.T, root *etree.Element) {
				aliases := root.FindElement("artifactManagement/rule/aliases")
				require.NotNil(t, aliases)
				assert.Empty(t, aliases.ChildElements())
			},
		},
		{
			name: "custom_option",
			rule: document.CustomOption{Path: "buildSettings/compilerSource", Value: "1.8 <&> ' \""},
			check: func(t *testing.T, root *etree.Element) {
				assert.Equal(t, []string{"buildSettings"}, childTags(root))
				assert.Equal(t, "1.8 <&> ' \"", root.FindElement("buildSettings/compilerSource").Text())
			},
		},
		{
			name: "carriage_returns_preserved",
			rule: document.FileRule{Artifact: fakeArtifact("x"), Paths: []string{"a\r\nb", "\r"}},
			check: func(t *testing.T, root *etree.Element) {
				assert.Equal(t, []string{"a\r\nb", "\r"}, texts(root.FindElements("artifactManagement/rule/files/file")))
			},
		},
		{
			name: "carriage_return_in_option_value",
			rule: document.CustomOption{Path: "opt", Value: "line1\rline2"},
			check: func(t *testing.T, root *etree.Element) {
				assert.Equal(t, "line1\rline2", root.SelectElement("opt").Text())
			},
		},
		{
			name: "non_ascii_and_replacement_char_preserved",
			rule: document.PackageRule{Artifact: fakeArtifact("x"), Package: "caf\u00e9-\uFFFD-\U0001F600"},
			check: func(t *testing.T, root *etree.Element) {
				assert.Equal(t, "caf\u00e9-\uFFFD-\U0001F600", root.FindElement("artifactManagement/rule/targetPackage").Text())
			},
		},
		{
			name: "whitespace_value_preserved",
			rule: document.CustomOption{Path: "opt", Value: "  "},
			check: func(t *testing.T, root *etree.Element) {
				assert.Equal(t, "  ", root.SelectElement("opt").Text())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := document.Assemble(tt.rule)
			require.NoError(t, err)

			data, err := document.NewSerializer(filesystem.NewMemory(), 0).Render(doc)
			require.NoError(t, err)

			root := parse(t, data)
			assert.Equal(t, document.RootTag, root.Tag)
			assert.Equal(t, document.Namespace, root.NamespaceURI())
			require.Len(t, root.ChildElements(), 1, "exactly one rule subtree")
			tt.check(t, root)
		})
	}
}

func TestWrite(t *testing.T) {
	mem := filesystem.NewMemory()
	dir := filepath.Join("/work", ".xmvn", "config.d")
	require.NoError(t, mem.MkdirAll(dir, 0755))

	doc, err := document.Assemble(document.CustomOption{Path: "a/b", Value: "c"})
	require.NoError(t, err)

	path := filepath.Join(dir, "javapackages-config-00001.xml")
	s := document.NewSerializer(mem, 0)
	require.NoError(t, s.Write(path, doc))

	data, err := mem.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "c", parse(t, data).FindElement("a/b").Text())

	entries, err := mem.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary file is left behind")

	t.Run("overwrites", func(t *testing.T) {
		other, err := document.Assemble(document.CustomOption{Path: "a/b", Value: "d"})
		require.NoError(t, err)
		require.NoError(t, s.Write(path, other))

		data, err := mem.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "d", parse(t, data).FindElement("a/b").Text())
	})
}

func TestWrite_MissingDirectory(t *testing.T) {
	doc := document.New()
	err := document.NewSerializer(filesystem.NewBasePath(t.TempDir()), 0).
		Write(filepath.Join("missing", "javapackages-config-00001.xml"), doc)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIO), "got %v", err)
}
