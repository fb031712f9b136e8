package document

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/arthur-debert/xmvnconf/pkg/errors"
	"github.com/beevik/etree"
)

// ArtifactDescriptor is supplied by the coordinate parser. It renders itself
// as an element named root; the element's content is opaque to this package.
type ArtifactDescriptor interface {
	RenderAs(root string) *etree.Element
}

// Kind identifies the shape of a rule
type Kind int

const (
	KindAliases Kind = iota
	KindFiles
	KindPackage
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindAliases:
		return "aliases"
	case KindFiles:
		return "files"
	case KindPackage:
		return "package"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Rule is one of AliasRule, FileRule, PackageRule or CustomOption
type Rule interface {
	Kind() Kind
	build() (*etree.Element, error)
}

// AliasRule declares alternate coordinates for Artifact. A nil Aliases slice
// is missing content; an empty one yields an empty <aliases/>.
type AliasRule struct {
	Artifact ArtifactDescriptor
	Aliases  []ArtifactDescriptor
}

// FileRule maps Artifact onto installed file paths, kept verbatim and in
// order. A nil Paths slice is missing content.
type FileRule struct {
	Artifact ArtifactDescriptor
	Paths    []string
}

// PackageRule assigns Artifact to a target package. An empty Package is
// written as an empty element.
type PackageRule struct {
	Artifact ArtifactDescriptor
	Package  string
}

// CustomOption sets an arbitrary option addressed by a slash separated path
// from the document root, for example "buildSettings/compilerSource".
type CustomOption struct {
	Path  string
	Value string
}

func (AliasRule) Kind() Kind    { return KindAliases }
func (FileRule) Kind() Kind     { return KindFiles }
func (PackageRule) Kind() Kind  { return KindPackage }
func (CustomOption) Kind() Kind { return KindCustom }

// Build renders rule into a detached subtree that can be attached directly
// under the document root. Every call returns new elements.
func Build(rule Rule) (*etree.Element, error) {
	if rule == nil {
		return nil, errors.New(errors.ErrMissingContent, "no rule given")
	}
	return rule.build()
}

func (r AliasRule) build() (*etree.Element, error) {
	if r.Aliases == nil {
		return nil, errors.New(errors.ErrMissingContent, "alias rule needs an alias list")
	}
	aliases := etree.NewElement("aliases")
	for i, alias := range r.Aliases {
		elem, err := render(alias, "alias")
		if err != nil {
			return nil, errors.Wrapf(err, errors.GetErrorCode(err), "alias %d", i)
		}
		aliases.AddChild(elem)
	}
	return artifactRule(r.Artifact, aliases)
}

func (r FileRule) build() (*etree.Element, error) {
	if r.Paths == nil {
		return nil, errors.New(errors.ErrMissingContent, "file rule needs a path list")
	}
	files := etree.NewElement("files")
	for _, path := range r.Paths {
		if err := checkText("file path", path); err != nil {
			return nil, err
		}
		files.CreateElement("file").SetText(path)
	}
	return artifactRule(r.Artifact, files)
}

func (r PackageRule) build() (*etree.Element, error) {
	if err := checkText("package name", r.Package); err != nil {
		return nil, err
	}
	target := etree.NewElement("targetPackage")
	target.SetText(r.Package)
	return artifactRule(r.Artifact, target)
}

func (r CustomOption) build() (*etree.Element, error) {
	tokens, err := SplitOptionPath(r.Path)
	if err != nil {
		return nil, err
	}
	if err := checkText("option value", r.Value); err != nil {
		return nil, err
	}

	top := etree.NewElement(tokens[0])
	leaf := top
	for _, token := range tokens[1:] {
		leaf = leaf.CreateElement(token)
	}
	leaf.SetText(r.Value)
	return top, nil
}

// SplitOptionPath splits a custom option path on "/" dropping empty
// segments. Each segment must be a valid unprefixed XML element name.
func SplitOptionPath(path string) ([]string, error) {
	var tokens []string
	for _, token := range strings.Split(path, "/") {
		if token == "" {
			continue
		}
		if !isElementName(token) {
			return nil, errors.Newf(errors.ErrInvalidOptionPath,
				"%q is not a valid element name in option path %q", token, path).
				WithDetail("path", path)
		}
		tokens = append(tokens, token)
	}
	if len(tokens) == 0 {
		return nil, errors.Newf(errors.ErrInvalidOptionPath, "option path %q names no element", path).
			WithDetail("path", path)
	}
	return tokens, nil
}

// artifactRule wraps glob and payload in artifactManagement/rule with the
// glob as the first child of rule.
func artifactRule(artifact ArtifactDescriptor, payload *etree.Element) (*etree.Element, error) {
	glob, err := render(artifact, "artifactGlob")
	if err != nil {
		return nil, err
	}

	management := etree.NewElement("artifactManagement")
	rule := management.CreateElement("rule")
	rule.AddChild(glob)
	rule.AddChild(payload)
	return management, nil
}

// render asks a descriptor for its element and copies it so the caller's
// tree is never shared with ours.
func render(artifact ArtifactDescriptor, root string) (*etree.Element, error) {
	if artifact == nil {
		return nil, errors.Newf(errors.ErrMissingContent, "no artifact to render as %s", root)
	}
	elem := artifact.RenderAs(root)
	if elem == nil {
		return nil, errors.Newf(errors.ErrMissingContent, "artifact rendered nothing for %s", root)
	}
	elem = elem.Copy()
	if err := checkTree(elem); err != nil {
		return nil, err
	}
	return elem, nil
}

// checkText rejects text that cannot be written as XML character data
// without being altered: invalid UTF-8 or characters outside the XML Char
// production.
func checkText(what, s string) error {
	for i, r := range s {
		if r == utf8.RuneError {
			if _, width := utf8.DecodeRuneInString(s[i:]); width == 1 {
				return errors.Newf(errors.ErrInvalidInput, "%s %q is not valid UTF-8", what, s).
					WithDetail("offset", i)
			}
		}
		if !isXMLChar(r) {
			return errors.Newf(errors.ErrInvalidInput, "%s %q contains character %U not allowed in XML", what, s, r).
				WithDetail("offset", i)
		}
	}
	return nil
}

// checkTree applies checkText to every text node of a rendered descriptor
func checkTree(elem *etree.Element) error {
	if err := checkText("artifact field "+elem.Tag, elem.Text()); err != nil {
		return err
	}
	for _, child := range elem.ChildElements() {
		if err := checkTree(child); err != nil {
			return err
		}
	}
	return nil
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}

// isElementName reports whether s is an XML name without a namespace prefix
func isElementName(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)):
		default:
			return false
		}
	}
	return s != ""
}
