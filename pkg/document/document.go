package document

import (
	"github.com/arthur-debert/xmvnconf/pkg/errors"
	"github.com/beevik/etree"
)

const (
	// Namespace is the XMvn configuration schema the loader validates against
	Namespace = "http://fedorahosted.org/xmvn/CONFIG/0.6.0"

	// RootTag is the document element of every fragment
	RootTag = "configuration"

	// ProvenanceComment identifies the generating tool
	ProvenanceComment = "XMvn configuration file generated by xmvnconf (part of javapackages-tools)"
)

// New returns an empty configuration document ready to receive one rule
func New() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement(RootTag)
	root.CreateAttr("xmlns", Namespace)
	root.CreateComment(ProvenanceComment)

	return doc
}

// Attach places a rule subtree produced by Build under the document root.
// A document carries at most one rule.
func Attach(doc *etree.Document, subtree *etree.Element) error {
	root := doc.Root()
	if root == nil || root.Tag != RootTag {
		return errors.New(errors.ErrInternal, "document has no configuration root")
	}
	if subtree == nil {
		return errors.New(errors.ErrMissingContent, "no rule to attach")
	}
	if len(root.ChildElements()) > 0 {
		return errors.New(errors.ErrInternal, "document already carries a rule")
	}
	root.AddChild(subtree)
	return nil
}

// Assemble builds rule and attaches it to a fresh document
func Assemble(rule Rule) (*etree.Document, error) {
	subtree, err := Build(rule)
	if err != nil {
		return nil, err
	}
	doc := New()
	if err := Attach(doc, subtree); err != nil {
		return nil, err
	}
	return doc, nil
}
