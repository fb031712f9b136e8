package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/xmvnconf/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// ProjectConfigFile is looked up in the work directory
	ProjectConfigFile = ".xmvnconf.toml"

	// EnvPrefix prefixes every environment override
	EnvPrefix = "XMVNCONF_"
)

// Output formats accepted by output.format
const (
	FormatAuto     = "auto"
	FormatText     = "text"
	FormatTerminal = "terminal"
	FormatJSON     = "json"
)

// Output holds fragment and report formatting settings
type Output struct {
	Indent int    `koanf:"indent"`
	Format string `koanf:"format"`
}

// Logging holds log sink settings
type Logging struct {
	File bool `koanf:"file"`
}

// Config is the main configuration structure
type Config struct {
	WorkDir string  `koanf:"workdir"`
	Output  Output  `koanf:"output"`
	Logging Logging `koanf:"logging"`
}

// LoadOptions selects the optional layers
type LoadOptions struct {
	// WorkDir overrides the workdir setting and locates the project file
	WorkDir string
	// File is an explicit config file loaded after the project file
	File string
	// Overrides are applied last, keyed with "." delimited paths
	Overrides map[string]interface{}
}

// Load builds the effective configuration
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	workDir := resolveWorkDir(opts.WorkDir)

	// 2. Project config in the work dir, if present
	projectPath := filepath.Join(workDir, ProjectConfigFile)
	if _, err := os.Stat(projectPath); err == nil {
		if err := k.Load(file.Provider(projectPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load project config from %s", projectPath).
				WithDetail("path", projectPath)
		}
	}

	// 3. Explicit config file
	if opts.File != "" {
		if err := k.Load(file.Provider(opts.File), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", opts.File).
				WithDetail("path", opts.File)
		}
	}

	// 4. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 5. Overrides, with the resolved work dir pinned
	overrides := map[string]interface{}{"workdir": workDir}
	for key, value := range opts.Overrides {
		overrides[key] = value
	}
	if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveWorkDir picks the flag value, then the environment, then "."
func resolveWorkDir(flag string) string {
	if flag != "" {
		return flag
	}
	if dir := os.Getenv(EnvPrefix + "WORKDIR"); dir != "" {
		return dir
	}
	return "."
}

func validate(cfg *Config) error {
	if cfg.Output.Indent < 0 {
		return errors.Newf(errors.ErrConfigParse, "output.indent must not be negative, got %d", cfg.Output.Indent)
	}
	switch cfg.Output.Format {
	case FormatAuto, FormatText, FormatTerminal, FormatJSON:
	default:
		return errors.Newf(errors.ErrConfigParse, "unknown output.format %q", cfg.Output.Format)
	}
	return nil
}
