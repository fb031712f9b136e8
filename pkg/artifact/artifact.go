// Package artifact provides Maven coordinates as a document.ArtifactDescriptor.
//
// Coordinates are written the way the javapackages tools accept them:
//
//	groupId:artifactId
//	groupId:artifactId:version
//	groupId:artifactId:extension:version
//	groupId:artifactId:extension:classifier:version
//
// Any field may be empty, which leaves it out of the rendered glob so the
// loader treats it as a wildcard. Parse does not expand braces, wildcards
// or backreferences; fields are taken literally.
package artifact

import (
	"strings"

	"github.com/arthur-debert/xmvnconf/pkg/errors"
	"github.com/beevik/etree"
)

// Artifact is a set of Maven coordinates
type Artifact struct {
	GroupID    string
	ArtifactID string
	Extension  string
	Classifier string
	Version    string
}

// Parse splits a colon separated coordinate string
func Parse(coordinates string) (Artifact, error) {
	parts := strings.Split(coordinates, ":")

	var a Artifact
	switch len(parts) {
	case 2:
		a = Artifact{GroupID: parts[0], ArtifactID: parts[1]}
	case 3:
		a = Artifact{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}
	case 4:
		a = Artifact{GroupID: parts[0], ArtifactID: parts[1], Extension: parts[2], Version: parts[3]}
	case 5:
		a = Artifact{GroupID: parts[0], ArtifactID: parts[1], Extension: parts[2], Classifier: parts[3], Version: parts[4]}
	default:
		return Artifact{}, errors.Newf(errors.ErrInvalidInput,
			"artifact %q must have 2 to 5 colon separated fields, got %d", coordinates, len(parts)).
			WithDetail("artifact", coordinates)
	}
	return a, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// static tables.
func MustParse(coordinates string) Artifact {
	a, err := Parse(coordinates)
	if err != nil {
		panic(err)
	}
	return a
}

// RenderAs implements document.ArtifactDescriptor
func (a Artifact) RenderAs(root string) *etree.Element {
	elem := etree.NewElement(root)
	for _, field := range []struct{ tag, value string }{
		{"groupId", a.GroupID},
		{"artifactId", a.ArtifactID},
		{"extension", a.Extension},
		{"classifier", a.Classifier},
		{"version", a.Version},
	} {
		if field.value != "" {
			elem.CreateElement(field.tag).SetText(field.value)
		}
	}
	return elem
}

// String returns the canonical coordinate form
func (a Artifact) String() string {
	parts := []string{a.GroupID, a.ArtifactID}
	switch {
	case a.Classifier != "":
		parts = append(parts, a.Extension, a.Classifier, a.Version)
	case a.Extension != "":
		parts = append(parts, a.Extension, a.Version)
	case a.Version != "":
		parts = append(parts, a.Version)
	}
	return strings.Join(parts, ":")
}
