package paths

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Default directories and files
// IMPORTANT: These constants are a contract with the XMvn configuration
// loader and with earlier runs of xmvnconf in the same build tree. They
// must not change between releases.
const (
	// StateDirName is the directory holding all xmvnconf state
	StateDirName = ".xmvn"

	// IndexFileName holds the decimal value of the last allocated index
	IndexFileName = "javapackages-rule-index"

	// ConfigDirName is the subdirectory the loader scans for fragments
	ConfigDirName = "config.d"

	// ConfigFilePrefix and ConfigFileSuffix surround the padded index
	ConfigFilePrefix = "javapackages-config-"
	ConfigFileSuffix = ".xml"

	// IndexWidth is the minimum number of digits in a config file name
	IndexWidth = 5
)

// Paths resolves the fixed layout against a root directory
type Paths interface {
	Root() string
	StateDir() string
	IndexPath() string
	ConfigDir() string
	ConfigFile(index int) string
}

type paths struct {
	root string
}

// New creates a Paths instance rooted at root. An empty root keeps every
// path relative, which is what the base-path filesystem expects.
func New(root string) Paths {
	return &paths{root: root}
}

func (p *paths) Root() string {
	return p.root
}

func (p *paths) StateDir() string {
	return filepath.Join(p.root, StateDirName)
}

func (p *paths) IndexPath() string {
	return filepath.Join(p.StateDir(), IndexFileName)
}

func (p *paths) ConfigDir() string {
	return filepath.Join(p.StateDir(), ConfigDirName)
}

func (p *paths) ConfigFile(index int) string {
	return filepath.Join(p.ConfigDir(), ConfigFileName(index))
}

// ConfigFileName returns the base name of the config file for index
func ConfigFileName(index int) string {
	return fmt.Sprintf("%s%0*d%s", ConfigFilePrefix, IndexWidth, index, ConfigFileSuffix)
}

// ParseConfigFileName extracts the index from a config file base name.
// It reports false for names that do not follow the layout.
func ParseConfigFileName(name string) (int, bool) {
	if !strings.HasPrefix(name, ConfigFilePrefix) || !strings.HasSuffix(name, ConfigFileSuffix) {
		return 0, false
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(name, ConfigFilePrefix), ConfigFileSuffix)
	if len(digits) < IndexWidth {
		return 0, false
	}
	index, err := strconv.Atoi(digits)
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}
