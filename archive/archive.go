// Package archive relocates or deletes the original segments of a leaf
// once its concatenated artifact has been verified.
package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"leafmerge/models"
)

// RootName is the directory created under the run root to hold archived
// originals.
const RootName = "files to delete"

// renameFunc is swapped in tests to simulate cross-device moves.
var renameFunc = os.Rename

// Manager owns the archive root of one run.
//
// The archive root is created on first use and shared by every leaf.
type Manager struct {
	archiveRoot string
}

// NewManager creates a manager whose archive root is <root>/files to delete.
func NewManager(root string) *Manager {
	return &Manager{archiveRoot: filepath.Join(root, RootName)}
}

// Root returns the archive root path.
func (m *Manager) Root() string {
	return m.archiveRoot
}

// Destination returns where Archive moves the originals of leaf.
func (m *Manager) Destination(leaf *models.LeafDirectory) string {
	return filepath.Join(m.archiveRoot, leaf.ArchiveDirName())
}

// stagingDir is where Archive gathers the originals inside the leaf.
func stagingDir(leaf *models.LeafDirectory) string {
	return filepath.Join(leaf.Path, leaf.ArchiveDirName())
}

// CheckDestination fails with fs.ErrExist when Archive would collide with
// an existing directory, either the destination under the archive root
// (typically a same-named leaf elsewhere in the tree) or the staging
// directory inside the leaf.
func (m *Manager) CheckDestination(leaf *models.LeafDirectory) error {
	for _, p := range []string{m.Destination(leaf), stagingDir(leaf)} {
		if _, err := os.Lstat(p); err == nil {
			return &models.FilesystemError{Op: "archive", Path: p, Err: fs.ErrExist}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return &models.FilesystemError{Op: "archive", Path: p, Err: err}
		}
	}
	return nil
}

// Archive moves every selected input of leaf into
// <leaf>/<name> split files and then moves that directory into the
// archive root. It returns the final directory.
//
// An existing destination is refused before any file moves.
func (m *Manager) Archive(leaf *models.LeafDirectory) (string, error) {
	if err := m.CheckDestination(leaf); err != nil {
		return "", err
	}
	dest := m.Destination(leaf)
	staging := stagingDir(leaf)

	if err := os.Mkdir(staging, 0755); err != nil {
		return "", &models.FilesystemError{Op: "create archive dir", Path: staging, Err: err}
	}

	for _, f := range leaf.Files {
		if err := move(f.Path, filepath.Join(staging, f.Name())); err != nil {
			return "", &models.FilesystemError{Op: "move original", Path: f.Path, Err: err}
		}
	}

	if err := os.MkdirAll(m.archiveRoot, 0755); err != nil {
		return "", &models.FilesystemError{Op: "create archive root", Path: m.archiveRoot, Err: err}
	}

	if err := move(staging, dest); err != nil {
		return "", &models.FilesystemError{Op: "move archive dir", Path: staging, Err: err}
	}

	return dest, nil
}

// DeleteOriginals permanently removes every selected input of leaf.
func (m *Manager) DeleteOriginals(leaf *models.LeafDirectory) error {
	for _, f := range leaf.Files {
		if err := os.Remove(f.Path); err != nil {
			return &models.FilesystemError{Op: "delete original", Path: f.Path, Err: err}
		}
	}
	return nil
}

// Finalize replaces the concatenated artifact with the compressed one, so
// that <leaf>/<name>(cp).mp4 becomes <leaf>/<name>.mp4.
func (m *Manager) Finalize(leaf *models.LeafDirectory) error {
	from, to := leaf.CompressedPath(), leaf.OutputPath()

	if _, err := os.Stat(from); err != nil {
		return &models.FilesystemError{Op: "finalize", Path: from, Err: err}
	}
	if err := os.Remove(to); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &models.FilesystemError{Op: "remove concatenated artifact", Path: to, Err: err}
	}
	if err := renameFunc(from, to); err != nil {
		return &models.FilesystemError{Op: "finalize", Path: from, Err: err}
	}
	return nil
}

// move renames src to dst, falling back to copy and remove when the two
// paths are on different filesystems.
func move(src, dst string) error {
	err := renameFunc(src, dst)
	if err == nil || !isCrossDevice(err) {
		return err
	}

	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%s: %w", dst, fs.ErrExist)
	}

	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		err = copyDir(src, dst)
	} else {
		err = copyFile(src, dst, info.Mode().Perm())
	}
	if err != nil {
		_ = os.RemoveAll(dst)
		return fmt.Errorf("copy across devices: %w", err)
	}
	return os.RemoveAll(src)
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm())
		case info.Mode().IsRegular():
			return copyFile(path, target, info.Mode().Perm())
		default:
			return fmt.Errorf("cannot copy non-regular file %s", path)
		}
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
