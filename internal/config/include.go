package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// IncludeFileName is the include list kept in the projects root.
const IncludeFileName = ".opinclude"

var ErrNoIncludes = errors.New("include list is empty")

func (c *Config) IncludeFilePath() string {
	return filepath.Join(c.ProjectsRoot, IncludeFileName)
}

func (c *Config) includeLockPath() string {
	return c.IncludeFilePath() + ".lock"
}

// IncludePaths returns the include entries from the config and the include
// file, made absolute. Entries that do not exist on disk are returned in
// skipped instead.
func (c *Config) IncludePaths() (paths []string, skipped []string, err error) {
	lines, err := readIncludeLines(c.IncludeFilePath())
	if err != nil {
		return nil, nil, err
	}

	candidates := append(append([]string{}, c.Include...), lines...)
	for _, raw := range candidates {
		entry := strings.TrimSpace(raw)
		if entry == "" || strings.HasPrefix(entry, "#") {
			continue
		}
		abs, err := filepath.Abs(expandHome(entry))
		if err != nil {
			skipped = append(skipped, entry)
			continue
		}
		if _, err := os.Stat(abs); err != nil {
			skipped = append(skipped, entry)
			continue
		}
		paths = append(paths, abs)
	}
	return paths, skipped, nil
}

// AddInclude appends path to the include file. The path must exist.
func (c *Config) AddInclude(path string) (string, error) {
	abs, err := filepath.Abs(expandHome(path))
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("cannot include %s: %w", path, err)
	}
	if _, err := os.Stat(c.ProjectsRoot); err != nil {
		return "", fmt.Errorf("projects root %s: %w", c.ProjectsRoot, err)
	}

	unlock, err := c.lockIncludes()
	if err != nil {
		return "", err
	}
	defer unlock()

	f, err := os.OpenFile(c.IncludeFilePath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return "", err
	}
	if _, err := fmt.Fprintln(f, abs); err != nil {
		f.Close()
		return "", err
	}
	return abs, f.Close()
}

// PopInclude removes the last entry of the include file and returns it.
// Comments and blank lines are kept.
func (c *Config) PopInclude() (string, error) {
	unlock, err := c.lockIncludes()
	if err != nil {
		return "", err
	}
	defer unlock()

	path := c.IncludeFilePath()
	lines, err := readIncludeLines(path)
	if err != nil {
		return "", err
	}

	last := -1
	for i := len(lines) - 1; i >= 0; i-- {
		entry := strings.TrimSpace(lines[i])
		if entry != "" && !strings.HasPrefix(entry, "#") {
			last = i
			break
		}
	}
	if last < 0 {
		return "", ErrNoIncludes
	}

	popped := strings.TrimSpace(lines[last])
	lines = append(lines[:last], lines[last+1:]...)

	tmpPath := path + ".tmp"
	var content string
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	if err := os.WriteFile(tmpPath, []byte(content), 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	return popped, nil
}

func (c *Config) lockIncludes() (func(), error) {
	fl := flock.New(c.includeLockPath())
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("failed to lock include file: %w", err)
	}
	return func() { _ = fl.Unlock() }, nil
}

func readIncludeLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
