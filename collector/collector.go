// Package collector finds the leaf directories of a tree.
package collector

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"leafmerge/models"
)

// CollectLeaves returns every directory under root that has no child
// directories, sorted lexicographically by absolute path. If root itself
// has no child directories the result is [root].
//
// The walk is iterative and does not follow symlinks. Directories listed
// in exclude are neither returned nor entered, but still count as a child
// of their parent.
func CollectLeaves(root string, exclude ...string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, &models.FilesystemError{Op: "collect", Path: root, Err: err}
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, &models.FilesystemError{Op: "collect", Path: absRoot, Err: err}
	}
	if !info.IsDir() {
		return nil, &models.FilesystemError{Op: "collect", Path: absRoot, Err: fmt.Errorf("not a directory")}
	}

	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		if abs, err := filepath.Abs(e); err == nil {
			skip[abs] = true
		}
	}

	var visited []string
	hasSubdir := make(map[string]bool)
	stack := []string{absRoot}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visited = append(visited, dir)

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, &models.FilesystemError{Op: "collect", Path: dir, Err: err}
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			hasSubdir[dir] = true
			child := filepath.Join(dir, entry.Name())
			if skip[child] {
				continue
			}
			stack = append(stack, child)
		}
	}

	leaves := make([]string, 0, len(visited))
	for _, dir := range visited {
		if !hasSubdir[dir] {
			leaves = append(leaves, dir)
		}
	}
	sort.Strings(leaves)

	return leaves, nil
}
