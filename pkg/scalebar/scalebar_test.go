package scalebar

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/habi/STEPanizerizer/pkg/stepanizer"
)

// TestPixelLength verifies the physical-to-pixel conversion
func TestPixelLength(t *testing.T) {
	cases := []struct {
		physical  float64
		voxelSize float64
		want      int
	}{
		{100, 2.0, 50},
		{1000, 11.0, 91},  // 90.909... rounds up
		{1000, 3.0, 333},  // 333.33... rounds down
		{0.5, 0.5, 1},
	}

	for _, tc := range cases {
		got, err := PixelLength(tc.physical, tc.voxelSize)
		if err != nil {
			t.Fatalf("PixelLength(%g, %g) failed: %v", tc.physical, tc.voxelSize, err)
		}
		if got != tc.want {
			t.Errorf("PixelLength(%g, %g) = %d, want %d", tc.physical, tc.voxelSize, got, tc.want)
		}
	}
}

// TestPixelLengthInvalid verifies rejection of non-positive inputs
func TestPixelLengthInvalid(t *testing.T) {
	if _, err := PixelLength(0, 2.0); !errors.Is(err, stepanizer.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for zero length, got %v", err)
	}
	if _, err := PixelLength(100, 0); !errors.Is(err, stepanizer.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for zero voxel size, got %v", err)
	}
	if _, err := PixelLength(-1, -1); !errors.Is(err, stepanizer.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for negative inputs, got %v", err)
	}
}

// isWhite reports whether the pixel at (x, y) is fully white
func isWhite(img image.Image, x, y int) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff
}

// TestDrawGeometry verifies the exact extent of the drawn bar
func TestDrawGeometry(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			img.Set(x, y, color.Black)
		}
	}

	// Bar of 50 px with a 10 px margin: height 5, so the rectangle
	// spans x [140, 190) and y [85, 90)
	Draw(img, Spec{LengthPx: 50, MarginPx: 10})

	corners := []struct {
		x, y  int
		white bool
	}{
		{140, 85, true},
		{189, 89, true},
		{165, 87, true},
		{139, 87, false}, // left of the bar
		{190, 87, false}, // inside the right margin
		{165, 84, false}, // above the bar
		{165, 90, false}, // inside the bottom margin
	}
	for _, c := range corners {
		if got := isWhite(img, c.x, c.y); got != c.white {
			t.Errorf("Pixel (%d, %d): white = %v, want %v", c.x, c.y, got, c.white)
		}
	}

	// The bar must span exactly 50 px
	count := 0
	for x := 0; x < 200; x++ {
		if isWhite(img, x, 87) {
			count++
		}
	}
	if count != 50 {
		t.Errorf("Bar spans %d px, expected 50", count)
	}
}

// TestDrawClamping verifies that oversized bars and margins stay
// inside the image
func TestDrawClamping(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))

	// Both the 200 px margin and the 500 px bar exceed the image
	Draw(img, Spec{LengthPx: 500, MarginPx: 200})

	found := false
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if isWhite(img, x, y) {
				found = true
			}
		}
	}
	if !found {
		t.Error("Expected a clamped bar to be drawn on a small image")
	}
}

// TestDrawLabel verifies that a caption is painted above the bar
// without disturbing the bar itself
func TestDrawLabel(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 300, 150))

	Draw(img, Spec{LengthPx: 100, MarginPx: 20, Label: "1000 um"})

	// Bar: x [180, 280), y [120, 130)
	if !isWhite(img, 180, 125) || !isWhite(img, 279, 125) {
		t.Error("Bar geometry changed when a label was requested")
	}

	// Some label pixels must appear in the band above the bar
	found := false
	for y := 100; y < 120; y++ {
		for x := 180; x < 280; x++ {
			if isWhite(img, x, y) {
				found = true
			}
		}
	}
	if !found {
		t.Error("Expected label pixels above the bar")
	}
}

// TestDrawZeroLength verifies that a degenerate spec is a no-op
func TestDrawZeroLength(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 50, 50))
	Draw(img, Spec{LengthPx: 0, MarginPx: 10})

	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			if isWhite(img, x, y) {
				t.Fatalf("Unexpected pixel drawn at (%d, %d)", x, y)
			}
		}
	}
}
