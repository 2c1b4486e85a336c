// Package stack enumerates the slice images of a tomographic dataset.
// It lists the eligible image files of an input directory in a stable
// lexicographic order, so that slice ordinals are reproducible across
// runs, and derives the common filename prefix used to name exported
// files.
package stack

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/habi/STEPanizerizer/internal/models"
	"github.com/habi/STEPanizerizer/pkg/stepanizer"
)

// Slice image formats accepted as stack members (lowercase, with dot).
// Reconstruction software commonly writes PNG or TIFF; JPEG and BMP
// stacks occur in converted datasets.
var sliceExtensions = map[string]bool{
	".png":  true,
	".tif":  true,
	".tiff": true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
}

// List enumerates the slice images in dir, sorted lexicographically.
// The ordinal of each returned Slice is its position in that order.
// A missing directory or a directory without any eligible image file
// fails with an error wrapping stepanizer.ErrNotFound.
func List(dir string) ([]models.Slice, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("slice directory %s: %w: %v", dir, stepanizer.ErrNotFound, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if sliceExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			names = append(names, entry.Name())
		}
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("no slice images in %s: %w", dir, stepanizer.ErrNotFound)
	}

	// Lexicographic order keeps the ordinals stable between runs.
	sort.Strings(names)

	slices := make([]models.Slice, len(names))
	for i, name := range names {
		slices[i] = models.Slice{
			Path:  filepath.Join(dir, name),
			Index: i,
		}
	}
	return slices, nil
}

// CommonPrefix returns the longest common filename prefix of the
// stack, stripped of the numbering zeros and the reconstruction
// suffixes ("_rec", "_IR") that Bruker tooling appends. The result is
// suitable as an output filename prefix; it is empty when the stack
// shares no usable prefix.
func CommonPrefix(slices []models.Slice) string {
	if len(slices) == 0 {
		return ""
	}

	prefix := filepath.Base(slices[0].Path)
	for _, s := range slices[1:] {
		name := filepath.Base(s.Path)
		for !strings.HasPrefix(name, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}

	// Drop the zero-padded counter and reconstruction markers.
	prefix = strings.TrimRight(prefix, "0")
	prefix = strings.TrimSuffix(prefix, "_IR")
	prefix = strings.TrimSuffix(prefix, "_rec")
	return strings.TrimRight(prefix, "_")
}
