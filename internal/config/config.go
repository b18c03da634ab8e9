package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedPlatform is returned when no home directory variable is
// known for the running OS.
var ErrUnsupportedPlatform = errors.New("current OS is unsupported")

const (
	DefaultProjectsDir = "Projects"
	DefaultIgnoreDir   = "_ignore"
	DefaultEditor      = "nvim"
	DefaultWorkers     = 6
	DefaultBufferRows  = 10
	DefaultTheme       = "mocha"

	BackendCLI   = "cli"
	BackendGoGit = "go-git"

	legacyConfigName = ".opconfig"
)

type Config struct {
	ProjectsRoot  string   `yaml:"projects_root"`
	ExtraRoots    []string `yaml:"extra_roots,omitempty"`
	IgnoreDir     string   `yaml:"ignore_dir"`
	Include       []string `yaml:"include,omitempty"`
	Editor        string   `yaml:"editor,omitempty"`
	Workers       int      `yaml:"workers,omitempty"`
	BufferRows    int      `yaml:"buffer_rows,omitempty"`
	StatusBackend string   `yaml:"status_backend,omitempty"`
	Theme         string   `yaml:"theme,omitempty"`
	LogFile       string   `yaml:"log_file,omitempty"`
	LogLevel      string   `yaml:"log_level,omitempty"`

	// Source is the file the config was read from, empty for defaults.
	Source string `yaml:"-"`
}

// HomeDir returns the user's home directory from the platform's variable.
func HomeDir() (string, error) {
	var key string
	switch runtime.GOOS {
	case "windows":
		key = "USERPROFILE"
	case "linux", "darwin", "freebsd", "openbsd", "netbsd", "dragonfly", "solaris":
		key = "HOME"
	default:
		return "", ErrUnsupportedPlatform
	}

	home := os.Getenv(key)
	if strings.TrimSpace(home) == "" {
		return "", fmt.Errorf("environment variable %s is not set", key)
	}
	return home, nil
}

func DefaultConfig() *Config {
	home, _ := HomeDir()
	return &Config{
		ProjectsRoot:  filepath.Join(home, DefaultProjectsDir),
		IgnoreDir:     DefaultIgnoreDir,
		Workers:       DefaultWorkers,
		BufferRows:    DefaultBufferRows,
		StatusBackend: BackendCLI,
		Theme:         DefaultTheme,
		LogFile:       defaultLogFile(home),
		LogLevel:      "info",
	}
}

// Load reads the first config file found in the search path. A missing
// file is not an error; defaults are returned instead.
func Load(configPath string) (*Config, error) {
	if _, err := HomeDir(); err != nil {
		return nil, err
	}

	for _, path := range getConfigPaths(configPath) {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}

		cfg := DefaultConfig()
		if filepath.Base(path) == legacyConfigName {
			err = parseLegacy(data, cfg)
		} else {
			err = yaml.Unmarshal(data, cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}

		cfg.Source = path
		cfg.normalize()
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
		return cfg, nil
	}

	cfg := DefaultConfig()
	cfg.normalize()
	return cfg, nil
}

func getConfigPaths(explicit string) []string {
	home, _ := HomeDir()

	var paths []string

	if explicit != "" {
		paths = append(paths, explicit)
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "op", "config.yaml"))

	paths = append(paths, filepath.Join(home, legacyConfigName))

	return paths
}

func defaultLogFile(home string) string {
	state := os.Getenv("XDG_STATE_HOME")
	if state == "" {
		state = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(state, "op", "op.log")
}

// parseLegacy reads the key=value format used by ~/.opconfig.
func parseLegacy(data []byte, cfg *Config) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch key {
		case "projects_root":
			cfg.ProjectsRoot = value
		case "extra_projects_root":
			cfg.ExtraRoots = append(cfg.ExtraRoots, value)
		case "ignore_dir":
			cfg.IgnoreDir = value
		case "include":
			cfg.Include = append(cfg.Include, value)
		case "editor":
			cfg.Editor = value
		case "workers":
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("workers: %w", err)
			}
			cfg.Workers = n
		}
	}
	return scanner.Err()
}

func (c *Config) normalize() {
	c.ProjectsRoot = expandHome(c.ProjectsRoot)
	for i, root := range c.ExtraRoots {
		c.ExtraRoots[i] = expandHome(root)
	}
	for i, inc := range c.Include {
		c.Include[i] = expandHome(inc)
	}
	c.LogFile = expandHome(c.LogFile)

	if c.Workers < 1 {
		c.Workers = DefaultWorkers
	}
	if c.BufferRows < 1 {
		c.BufferRows = DefaultBufferRows
	}
	if c.StatusBackend == "" {
		c.StatusBackend = BackendCLI
	}
}

func (c *Config) validate() error {
	switch c.StatusBackend {
	case BackendCLI, BackendGoGit:
		return nil
	default:
		return fmt.Errorf("unknown status_backend %q (want %s or %s)", c.StatusBackend, BackendCLI, BackendGoGit)
	}
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, _ := HomeDir()
	return filepath.Join(home, path[1:])
}

// EditorCommand returns the editor executable and its leading arguments,
// from the config, then $VISUAL, then $EDITOR, then nvim.
func (c *Config) EditorCommand() (string, []string) {
	editor := strings.TrimSpace(c.Editor)
	if editor == "" {
		editor = strings.TrimSpace(os.Getenv("VISUAL"))
	}
	if editor == "" {
		editor = strings.TrimSpace(os.Getenv("EDITOR"))
	}
	if editor == "" {
		editor = DefaultEditor
	}
	fields := strings.Fields(editor)
	return fields[0], fields[1:]
}

// Roots returns the primary root followed by the extra roots.
func (c *Config) Roots() []string {
	return append([]string{c.ProjectsRoot}, c.ExtraRoots...)
}
