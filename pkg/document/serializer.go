package document

import (
	"path/filepath"

	"github.com/arthur-debert/xmvnconf/pkg/errors"
	"github.com/arthur-debert/xmvnconf/pkg/logging"
	"github.com/arthur-debert/xmvnconf/pkg/types"
	"github.com/beevik/etree"
)

// tempSuffix marks a document that has not been renamed into place yet.
// The loader only reads *.xml so a leftover temp file is inert.
const tempSuffix = ".tmp"

// Serializer renders documents as indented UTF-8 XML files
type Serializer struct {
	fs     types.FS
	indent int
}

// NewSerializer creates a Serializer writing through fs. indent is the
// number of spaces per level; 0 indents with tabs.
func NewSerializer(fs types.FS, indent int) *Serializer {
	if indent < 0 {
		indent = 0
	}
	return &Serializer{fs: fs, indent: indent}
}

// Render returns the serialized form of doc. The document is not modified.
func (s *Serializer) Render(doc *etree.Document) ([]byte, error) {
	out := doc.Copy()
	// \r is written as &#xD; so readers do not normalize it away
	out.WriteSettings.CanonicalText = true

	settings := etree.NewIndentSettings()
	settings.PreserveLeafWhitespace = true
	if s.indent == 0 {
		settings.UseTabs = true
	} else {
		settings.Spaces = s.indent
	}
	out.IndentWithSettings(settings)

	data, err := out.WriteToBytes()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to serialize document")
	}
	return data, nil
}

// Write serializes doc to path, replacing any existing file. The bytes go
// to a temporary sibling first and are renamed into place, so path either
// holds a complete document or is left untouched.
func (s *Serializer) Write(path string, doc *etree.Document) error {
	data, err := s.Render(doc)
	if err != nil {
		return err
	}

	tmp := path + tempSuffix
	if err := s.fs.WriteFile(tmp, data, 0644); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrIO, "failed to write %s", path).
			WithDetail("path", path)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrIO, "failed to move document into place at %s", path).
			WithDetail("path", path)
	}

	logger := logging.GetLogger("document")
	logger.Debug().
		Str("path", path).
		Str("dir", filepath.Dir(path)).
		Int("bytes", len(data)).
		Msg("Wrote document")
	return nil
}
