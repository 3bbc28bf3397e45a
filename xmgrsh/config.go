// =============================================================================
// config.go - Shell Configuration (~/.xmgrsh.yaml)
// =============================================================================
//
// The shell reads an optional YAML file. Command-line flags override it.
//
//	program: xmgr           # executable name or path
//	wire: named             # named (xmgr -npipe) or stream (xmgr -pipe)
//	args: [-noask]          # extra arguments for xmgr
//	log: ~/.xmgrsh.log      # trace of every line sent
//	history: ~/.xmgrsh_history
//	defaults:               # option defaults for every plot
//	  symbol: circle
//	  linecolour: blue
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/timj/xmgr-go/xmgrprotocol"
	"gopkg.in/yaml.v3"
)

// configFileName is the default config file in the user's home directory.
const configFileName = ".xmgrsh.yaml"

const defaultConfigYAML = `# xmgrsh configuration
program: xmgr

# named: xmgr -npipe <fifo>, points sent as POINT commands (two columns)
# stream: xmgr -pipe, rows sent as-is (any number of columns)
wire: named

# Extra arguments passed to xmgr after the pipe flag.
args: []

# Append a timestamped trace of every line sent to this file.
# log: ~/.xmgrsh.log

history: ~/.xmgrsh_history

# Option defaults applied to every plot. Names may be abbreviated.
defaults:
  symbol: circle
  linestyle: solid
`

// Config models ~/.xmgrsh.yaml.
type Config struct {
	Program  string         `yaml:"program"`
	Wire     string         `yaml:"wire"`
	Args     []string       `yaml:"args,omitempty"`
	Log      string         `yaml:"log,omitempty"`
	History  string         `yaml:"history,omitempty"`
	Defaults map[string]any `yaml:"defaults,omitempty"`
}

// defaultConfig is used when no config file exists.
func defaultConfig() Config {
	return Config{
		Program: xmgrprotocol.DefaultProgram,
		Wire:    xmgrprotocol.Addressable.String(),
		History: filepath.Join("~", historyFileName),
	}
}

// defaultConfigPath returns ~/.xmgrsh.yaml.
func defaultConfigPath() string {
	return filepath.Join(homeDir(), configFileName)
}

// loadConfig reads path over the defaults. A missing file is only an error
// when the path was given explicitly.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// writeDefaultConfig creates path with the commented default config unless
// it already exists.
func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: ensure dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// validate checks fields that cannot be checked later without side effects.
func (c Config) validate() error {
	if _, ok := xmgrprotocol.ParseWireMode(strings.ToLower(c.Wire)); !ok {
		return fmt.Errorf("unknown wire mode %q (want named or stream)", c.Wire)
	}
	if strings.TrimSpace(c.Program) == "" {
		return errors.New("program must not be empty")
	}
	return nil
}

// applyArguments overrides config fields with command-line flags.
func (c *Config) applyArguments(args arguments) {
	if args.program != "" {
		c.Program = args.program
	}
	if args.wire != "" {
		c.Wire = args.wire
	}
	if args.logPath != "" {
		c.Log = args.logPath
	}
}

// wireMode returns the configured wire mode.
func (c Config) wireMode() xmgrprotocol.WireMode {
	m, _ := xmgrprotocol.ParseWireMode(strings.ToLower(c.Wire))
	return m
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// homeDir returns the current user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
