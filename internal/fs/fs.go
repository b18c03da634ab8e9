package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultCategories are the category directories created by CreateLayout.
var DefaultCategories = []string{"python", "javascript", "rust", "go", "plain_txt"}

// ListProjectDirs returns the directories exactly two levels below root
// (root/<category>/<project>), in directory order. The category named
// ignoreDir is skipped entirely. A missing or unreadable root, or an
// unreadable category, is an error.
func ListProjectDirs(root, ignoreDir string) ([]string, error) {
	categories, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, category := range categories {
		if ignoreDir != "" && category.Name() == ignoreDir {
			continue
		}
		categoryPath := filepath.Join(root, category.Name())
		if !isDir(categoryPath, category) {
			continue
		}

		projects, err := os.ReadDir(categoryPath)
		if err != nil {
			return nil, err
		}
		for _, project := range projects {
			projectPath := filepath.Join(categoryPath, project.Name())
			if isDir(projectPath, project) {
				dirs = append(dirs, projectPath)
			}
		}
	}

	return dirs, nil
}

// isDir follows symlinks so linked project directories are listed too.
func isDir(path string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// LayoutStep records what CreateLayout did for one path.
type LayoutStep struct {
	Path    string
	Created bool
}

// CreateLayout creates root/<category> for each category, and an empty file
// at root/includeFile when includeFile is set. Existing entries are left
// untouched and reported with Created=false.
func CreateLayout(root string, categories []string, includeFile string) ([]LayoutStep, error) {
	var steps []LayoutStep

	if !DirExists(root) {
		if err := EnsureDir(root); err != nil {
			return steps, err
		}
		steps = append(steps, LayoutStep{Path: root, Created: true})
	}

	for _, category := range categories {
		path := filepath.Join(root, category)
		if DirExists(path) {
			steps = append(steps, LayoutStep{Path: path})
			continue
		}
		if err := os.Mkdir(path, 0755); err != nil {
			return steps, fmt.Errorf("failed to create %s: %w", path, err)
		}
		steps = append(steps, LayoutStep{Path: path, Created: true})
	}

	if includeFile != "" {
		path := filepath.Join(root, includeFile)
		if _, err := os.Stat(path); err == nil {
			steps = append(steps, LayoutStep{Path: path})
		} else {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				return steps, fmt.Errorf("failed to create %s: %w", path, err)
			}
			f.Close()
			steps = append(steps, LayoutStep{Path: path, Created: true})
		}
	}

	return steps, nil
}
