// Package scalebar computes and draws the calibration bar overlaid on
// exported slices. The bar is a filled white rectangle in the bottom
// right corner whose pixel length corresponds to a fixed physical
// length at the dataset's voxel size, optionally captioned with that
// length.
package scalebar

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/habi/STEPanizerizer/pkg/stepanizer"
)

// Spec describes one scale bar to draw
type Spec struct {
	// LengthPx is the bar length in pixels
	LengthPx int

	// MarginPx is the distance from the bar to the right and bottom
	// image edges
	MarginPx int

	// Label is an optional caption drawn above the bar, typically the
	// physical length ("1000 um"). Empty disables the caption.
	Label string
}

// PixelLength converts a physical length to pixels at the given voxel
// size, rounding to the nearest pixel. Both arguments must be
// positive.
func PixelLength(physicalLength, voxelSize float64) (int, error) {
	if physicalLength <= 0 {
		return 0, fmt.Errorf("scale bar length %g must be positive: %w", physicalLength, stepanizer.ErrInvalidArgument)
	}
	if voxelSize <= 0 {
		return 0, fmt.Errorf("voxel size %g must be positive: %w", voxelSize, stepanizer.ErrInvalidArgument)
	}
	return int(math.Round(physicalLength / voxelSize)), nil
}

// Draw paints the bar described by spec onto img. The bar sits at the
// bottom right with spec.MarginPx of clearance; its height is one
// tenth of its length, at least one pixel. A bar or margin too large
// for the image is clamped so the bar always stays inside the bounds.
func Draw(img draw.Image, spec Spec) {
	if spec.LengthPx <= 0 {
		return
	}
	b := img.Bounds()

	margin := spec.MarginPx
	if margin < 0 {
		margin = 0
	}
	if 2*margin >= b.Dx() || 2*margin >= b.Dy() {
		margin = minInt(b.Dx(), b.Dy()) / 10
	}

	length := spec.LengthPx
	if maxLen := b.Dx() - 2*margin; length > maxLen {
		length = maxLen
	}
	if length < 1 {
		return
	}

	height := int(math.Round(float64(length) / 10))
	if height < 1 {
		height = 1
	}

	x1 := b.Max.X - margin
	y1 := b.Max.Y - margin
	bar := image.Rect(x1-length, y1-height, x1, y1)
	draw.Draw(img, bar, image.NewUniform(color.White), image.Point{}, draw.Src)

	if spec.Label != "" {
		drawLabel(img, spec.Label, x1, bar.Min.Y)
	}
}

// drawLabel writes text right-aligned at (x, barTop), sitting just
// above the bar. Labels that would leave the image are skipped.
func drawLabel(img draw.Image, label string, x, barTop int) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}

	width := d.MeasureString(label)
	baseline := barTop - 4
	if baseline-face.Ascent < img.Bounds().Min.Y {
		return
	}
	d.Dot = fixed.Point26_6{
		X: fixed.I(x) - width,
		Y: fixed.I(baseline),
	}
	d.DrawString(label)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
