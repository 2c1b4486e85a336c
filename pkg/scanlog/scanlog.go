// Package scanlog reads acquisition metadata from Bruker
// reconstruction log files. Only the isometric pixel size is
// extracted; it calibrates the scale bar of the exported slices.
package scanlog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/habi/STEPanizerizer/pkg/stepanizer"
)

// FindLog returns the first *.log file (in lexicographic order) in
// dir, or an error wrapping stepanizer.ErrNotFound when none exists.
func FindLog(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.log"))
	if err != nil {
		return "", fmt.Errorf("scanning %s for log files: %w", dir, stepanizer.ErrNotFound)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no scan log file in %s: %w", dir, stepanizer.ErrNotFound)
	}
	sort.Strings(matches)
	return matches[0], nil
}

// PixelSize extracts the pixel size in micrometers from a Bruker scan
// log. The value comes from the "Image Pixel Size" line; the "Scaled
// Image Pixel Size" line written by some reconstruction versions is
// ignored. When the line occurs more than once the last occurrence
// wins, matching the order the reconstruction software writes them.
func PixelSize(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening scan log %s: %w: %v", path, stepanizer.ErrIO, err)
	}
	defer f.Close()

	var pixelSize float64
	found := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "Image Pixel") || strings.Contains(line, "Scaled") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			continue
		}
		pixelSize = value
		found = true
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("reading scan log %s: %w: %v", path, stepanizer.ErrIO, err)
	}

	if !found {
		return 0, fmt.Errorf("no pixel size entry in %s: %w", path, stepanizer.ErrNotFound)
	}
	return pixelSize, nil
}
