// Package selector picks the media files of a leaf directory, in
// concatenation order.
package selector

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"leafmerge/models"
)

const (
	// Extension is the eligible file extension, matched case-insensitively.
	Extension = ".mp4"

	// MaxFileSize is the exclusive upper bound on an eligible file's size.
	// Larger files are camera segments the concat step cannot handle.
	MaxFileSize int64 = 4_200_000_000
)

// Select returns the eligible media files directly inside dir, in natural
// order ("clip2.mp4" before "clip10.mp4").
//
// A file is eligible when it is a regular file, its extension is .mp4 in
// any case, it is not a dot-file, and it is strictly smaller than
// MaxFileSize. An empty result is not an error.
func Select(dir string) ([]*models.MediaFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &models.FilesystemError{Op: "select", Path: dir, Err: err}
	}

	var files []*models.MediaFile
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || !IsEligibleName(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, &models.FilesystemError{Op: "select", Path: filepath.Join(dir, name), Err: err}
		}
		if info.Size() >= MaxFileSize {
			continue
		}

		f, err := models.NewMediaFile(filepath.Join(dir, name), info.Size())
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	sort.SliceStable(files, func(i, j int) bool {
		return natural.Less(files[i].Name(), files[j].Name())
	})

	return files, nil
}

// IsEligibleName reports whether a file name has the target extension and
// is not hidden.
func IsEligibleName(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), Extension)
}
