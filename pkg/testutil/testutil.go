package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/xmvnconf/pkg/paths"
	"github.com/arthur-debert/xmvnconf/pkg/types"
	"github.com/beevik/etree"
)

// CreateFile creates a file with the given content in the specified directory.
// It fails the test if the file cannot be created.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)

	// Create parent directories if needed
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}

	return path
}

// FileExists checks if a file exists and is not a directory.
func FileExists(t *testing.T, path string) bool {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir()
}

// WriteIndex stores raw content as the index file of the tree at root
func WriteIndex(t *testing.T, root, content string) {
	t.Helper()
	CreateFile(t, root, paths.New("").IndexPath(), content)
}

// ReadIndex returns the raw index file content, or "" if there is none
func ReadIndex(t *testing.T, root string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, paths.New("").IndexPath()))
	if err != nil {
		return ""
	}
	return string(data)
}

// ReadFragment parses the fragment for index and returns its single rule
// subtree. It fails the test unless the root is a configuration element
// holding exactly one child element.
func ReadFragment(t *testing.T, root string, index int) *etree.Element {
	t.Helper()

	path := filepath.Join(root, paths.New("").ConfigFile(index))
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		t.Fatalf("Failed to parse fragment %s: %v", path, err)
	}
	r := doc.Root()
	if r == nil || r.Tag != "configuration" {
		t.Fatalf("Fragment %s has no configuration root", path)
	}
	children := r.ChildElements()
	if len(children) != 1 {
		t.Fatalf("Fragment %s holds %d rules, want 1", path, len(children))
	}
	return children[0]
}

// FailingFS fails WriteFile for every name Match accepts
type FailingFS struct {
	types.FS
	Match func(name string) bool
}

// FailSuffix returns a FailingFS that fails writes to names ending in suffix
func FailSuffix(inner types.FS, suffix string) *FailingFS {
	return &FailingFS{FS: inner, Match: func(name string) bool {
		return strings.HasSuffix(name, suffix)
	}}
}

func (f *FailingFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if f.Match != nil && f.Match(name) {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrPermission}
	}
	return f.FS.WriteFile(name, data, perm)
}
