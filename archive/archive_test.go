package archive

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"leafmerge/models"
)

// makeLeaf creates root/<name> with the given files and returns the leaf.
func makeLeaf(t *testing.T, root, name string, files map[string]string) *models.LeafDirectory {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	var media []*models.MediaFile
	for _, n := range []string{"clip1.mp4", "clip2.mp4", "clip10.mp4"} {
		content, ok := files[n]
		if !ok {
			continue
		}
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		mf, err := models.NewMediaFile(p, int64(len(content)))
		if err != nil {
			t.Fatal(err)
		}
		media = append(media, mf)
	}

	leaf, err := models.NewLeafDirectory(dir, media)
	if err != nil {
		t.Fatal(err)
	}
	return leaf
}

func TestManager_Archive(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{"clip1.mp4": "one", "clip2.mp4": "two"}
	leaf := makeLeaf(t, root, "day1", files)

	m := NewManager(root)
	dest, err := m.Archive(leaf)
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	want := filepath.Join(root, "files to delete", "day1 split files")
	if dest != want {
		t.Errorf("Expected destination %s, got %s", want, dest)
	}

	for name, content := range files {
		if _, err := os.Stat(filepath.Join(leaf.Path, name)); !os.IsNotExist(err) {
			t.Errorf("Expected %s to leave the leaf", name)
		}
		data, err := os.ReadFile(filepath.Join(dest, name))
		if err != nil {
			t.Errorf("Expected %s in archive: %v", name, err)
			continue
		}
		if string(data) != content {
			t.Errorf("Archived %s modified: got %q", name, data)
		}
	}

	if _, err := os.Stat(filepath.Join(leaf.Path, "day1 split files")); !os.IsNotExist(err) {
		t.Error("Expected staging directory to be moved out of the leaf")
	}
}

func TestManager_ArchiveSharedRoot(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root)

	for _, name := range []string{"day1", "day2"} {
		leaf := makeLeaf(t, root, name, map[string]string{"clip1.mp4": name})
		if _, err := m.Archive(leaf); err != nil {
			t.Fatalf("Archive %s failed: %v", name, err)
		}
	}

	entries, err := os.ReadDir(m.Root())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 archive dirs, got %d", len(entries))
	}
}

func TestManager_ArchiveRefusesExistingDestination(t *testing.T) {
	root := t.TempDir()
	leaf := makeLeaf(t, root, "day1", map[string]string{"clip1.mp4": "one"})
	m := NewManager(root)

	if err := os.MkdirAll(m.Destination(leaf), 0755); err != nil {
		t.Fatal(err)
	}

	_, err := m.Archive(leaf)

	var fsErr *models.FilesystemError
	if !errors.As(err, &fsErr) {
		t.Fatalf("Expected FilesystemError, got %v", err)
	}
	if !errors.Is(err, fs.ErrExist) {
		t.Errorf("Expected fs.ErrExist, got %v", err)
	}
	if _, err := os.Stat(leaf.Files[0].Path); err != nil {
		t.Errorf("Original must not move when destination exists: %v", err)
	}
}

func TestManager_DeleteOriginals(t *testing.T) {
	root := t.TempDir()
	leaf := makeLeaf(t, root, "day1", map[string]string{"clip1.mp4": "a", "clip2.mp4": "b"})
	keep := filepath.Join(leaf.Path, "notes.txt")
	if err := os.WriteFile(keep, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(root)
	if err := m.DeleteOriginals(leaf); err != nil {
		t.Fatalf("DeleteOriginals failed: %v", err)
	}

	for _, f := range leaf.Files {
		if _, err := os.Stat(f.Path); !os.IsNotExist(err) {
			t.Errorf("Expected %s to be deleted", f.Path)
		}
	}
	if _, err := os.Stat(keep); err != nil {
		t.Errorf("Unselected file must be kept: %v", err)
	}
	if _, err := os.Stat(m.Root()); !os.IsNotExist(err) {
		t.Error("DeleteOriginals must not create the archive root")
	}
}

func TestManager_DeleteOriginalsMissingFile(t *testing.T) {
	root := t.TempDir()
	leaf := makeLeaf(t, root, "day1", map[string]string{"clip1.mp4": "a"})
	os.Remove(leaf.Files[0].Path)

	var fsErr *models.FilesystemError
	if err := NewManager(root).DeleteOriginals(leaf); !errors.As(err, &fsErr) {
		t.Errorf("Expected FilesystemError, got %v", err)
	}
}

func TestManager_Finalize(t *testing.T) {
	root := t.TempDir()
	leaf := makeLeaf(t, root, "day1", nil)

	if err := os.WriteFile(leaf.OutputPath(), []byte("concatenated"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(leaf.CompressedPath(), []byte("small"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := NewManager(root).Finalize(leaf); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	data, err := os.ReadFile(leaf.OutputPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "small" {
		t.Errorf("Expected compressed content at output path, got %q", data)
	}
	if _, err := os.Stat(leaf.CompressedPath()); !os.IsNotExist(err) {
		t.Error("Expected compressed path to be gone after finalize")
	}
}

func TestManager_FinalizeWithoutCompressed(t *testing.T) {
	root := t.TempDir()
	leaf := makeLeaf(t, root, "day1", nil)
	if err := os.WriteFile(leaf.OutputPath(), []byte("concatenated"), 0644); err != nil {
		t.Fatal(err)
	}

	var fsErr *models.FilesystemError
	if err := NewManager(root).Finalize(leaf); !errors.As(err, &fsErr) {
		t.Fatalf("Expected FilesystemError, got %v", err)
	}
	if _, err := os.Stat(leaf.OutputPath()); err != nil {
		t.Errorf("Concatenated artifact must survive a failed finalize: %v", err)
	}
}

func TestManager_CheckDestination(t *testing.T) {
	root := t.TempDir()
	leaf := makeLeaf(t, root, "day1", map[string]string{"clip1.mp4": "one"})
	m := NewManager(root)

	if err := m.CheckDestination(leaf); err != nil {
		t.Fatalf("Unexpected error for a fresh tree: %v", err)
	}

	staging := filepath.Join(leaf.Path, "day1 split files")
	if err := os.Mkdir(staging, 0755); err != nil {
		t.Fatal(err)
	}
	err := m.CheckDestination(leaf)
	var fsErr *models.FilesystemError
	if !errors.As(err, &fsErr) || fsErr.Path != staging || !errors.Is(err, fs.ErrExist) {
		t.Errorf("Expected fs.ErrExist for %s, got %v", staging, err)
	}
	if _, err := m.Archive(leaf); !errors.Is(err, fs.ErrExist) {
		t.Errorf("Archive must refuse too, got %v", err)
	}
}
