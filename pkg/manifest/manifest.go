// Package manifest applies many mappings in one invocation.
//
// A manifest lists rules in emission order. TOML:
//
//	[[rules]]
//	artifact = "org.foo:bar"
//	files = ["foo/bar", "bar"]
//
//	[[rules]]
//	option = "buildSettings/compilerSource"
//	value = "1.8"
//
// YAML uses the same keys under a top level "rules" list. Each entry sets
// exactly one of aliases, files, package or option.
package manifest

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/xmvnconf/pkg/artifact"
	"github.com/arthur-debert/xmvnconf/pkg/document"
	"github.com/arthur-debert/xmvnconf/pkg/emitter"
	"github.com/arthur-debert/xmvnconf/pkg/errors"
	"github.com/arthur-debert/xmvnconf/pkg/logging"
	"github.com/arthur-debert/xmvnconf/pkg/types"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Entry is one manifest rule as written
type Entry struct {
	Artifact string   `toml:"artifact" yaml:"artifact"`
	Aliases  []string `toml:"aliases" yaml:"aliases"`
	Files    []string `toml:"files" yaml:"files"`
	Package  *string  `toml:"package" yaml:"package"`
	Option   string   `toml:"option" yaml:"option"`
	Value    string   `toml:"value" yaml:"value"`
}

// Manifest is the decoded file
type Manifest struct {
	Entries []Entry `toml:"rules" yaml:"rules"`
}

// Emitter is the part of emitter.Emitter a manifest needs
type Emitter interface {
	Emit(rule document.Rule) (emitter.Result, error)
}

// Load reads and decodes the manifest at path; the format follows the
// file extension.
func Load(fs types.FS, path string) (*Manifest, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to read manifest %s", path).
			WithDetail("path", path)
	}
	return Decode(data, filepath.Ext(path))
}

// Decode parses data in the format named by ext (".toml", ".yaml", ".yml")
func Decode(data []byte, ext string) (*Manifest, error) {
	var m Manifest
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrap(err, errors.ErrManifestParse, "invalid TOML manifest")
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrap(err, errors.ErrManifestParse, "invalid YAML manifest")
		}
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported manifest format %q", ext).
			WithDetail("ext", ext)
	}
	return &m, nil
}

// Rules validates every entry and converts it to a document rule. Nothing
// is returned unless all entries are valid.
func (m *Manifest) Rules() ([]document.Rule, error) {
	rules := make([]document.Rule, 0, len(m.Entries))
	for i, entry := range m.Entries {
		rule, err := entry.rule()
		if err != nil {
			return nil, errors.Wrapf(err, errors.GetErrorCode(err), "manifest rule %d", i+1).
				WithDetail("rule", i+1)
		}
		if _, err := document.Build(rule); err != nil {
			return nil, errors.Wrapf(err, errors.GetErrorCode(err), "manifest rule %d", i+1).
				WithDetail("rule", i+1)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (e Entry) rule() (document.Rule, error) {
	var shapes []string
	if e.Aliases != nil {
		shapes = append(shapes, "aliases")
	}
	if e.Files != nil {
		shapes = append(shapes, "files")
	}
	if e.Package != nil {
		shapes = append(shapes, "package")
	}
	if e.Option != "" {
		shapes = append(shapes, "option")
	}
	if len(shapes) != 1 {
		return nil, errors.Newf(errors.ErrInvalidInput,
			"entry must set exactly one of aliases, files, package or option, got %v", shapes)
	}

	if e.Option != "" {
		if e.Artifact != "" {
			return nil, errors.New(errors.ErrInvalidInput, "option entries take no artifact")
		}
		return document.CustomOption{Path: e.Option, Value: e.Value}, nil
	}

	if e.Artifact == "" {
		return nil, errors.Newf(errors.ErrMissingContent, "%s entry needs an artifact", shapes[0])
	}
	main, err := artifact.Parse(e.Artifact)
	if err != nil {
		return nil, err
	}

	switch {
	case e.Aliases != nil:
		aliases := make([]document.ArtifactDescriptor, 0, len(e.Aliases))
		for _, coords := range e.Aliases {
			alias, err := artifact.Parse(coords)
			if err != nil {
				return nil, err
			}
			aliases = append(aliases, alias)
		}
		return document.AliasRule{Artifact: main, Aliases: aliases}, nil
	case e.Files != nil:
		return document.FileRule{Artifact: main, Paths: e.Files}, nil
	default:
		return document.PackageRule{Artifact: main, Package: *e.Package}, nil
	}
}

// Apply emits rules in order and stops at the first failure. Fragments
// written before the failure stay in place and are returned with the error.
func Apply(e Emitter, rules []document.Rule) ([]emitter.Result, error) {
	logger := logging.GetLogger("manifest")
	results := make([]emitter.Result, 0, len(rules))
	for i, rule := range rules {
		res, err := e.Emit(rule)
		if err != nil {
			logger.Error().Err(err).Int("rule", i+1).Int("written", len(results)).Msg("Manifest aborted")
			return results, err
		}
		results = append(results, res)
	}
	logger.Info().Int("written", len(results)).Msg("Manifest applied")
	return results, nil
}
