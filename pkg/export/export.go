// Package export converts sampled slices into the numbered JPEG files
// that STEPanizer reads. For each sampled ordinal it loads the slice
// image, optionally shrinks it, overlays the scale bar and writes the
// result to the output directory under a zero-padded sequential name.
package export

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/habi/STEPanizerizer/internal/logging"
	"github.com/habi/STEPanizerizer/internal/models"
	"github.com/habi/STEPanizerizer/pkg/scalebar"
	"github.com/habi/STEPanizerizer/pkg/stepanizer"
)

// Options configures an export run
type Options struct {
	// OutputDir receives the numbered JPEG files; it is created if
	// absent
	OutputDir string

	// VoxelSize is the physical pixel size of the scan in micrometers
	VoxelSize models.VoxelSize

	// BarLengthUm is the physical length of the scale bar in
	// micrometers. Zero disables the bar.
	BarLengthUm float64

	// BarMarginPx is the clearance between the bar and the image edges
	BarMarginPx int

	// BarLabel captions the bar with its physical length
	BarLabel bool

	// JPEGQuality is the encoder quality in [1, 100]; zero selects
	// the default of 90
	JPEGQuality int

	// ResizeTo shrinks each slice so its longest side has this many
	// pixels. Zero disables resizing; upscaling is refused.
	ResizeTo int

	// Prefix, when non-empty, is prepended to the numbered filenames
	// as "<prefix>_<NNNN>.jpg"
	Prefix string

	// Log, when set, receives per-slice progress
	Log *logging.Logger
}

// DefaultJPEGQuality is used when Options.JPEGQuality is zero.
const DefaultJPEGQuality = 90

// Exporter writes the sampled subset of a slice stack
type Exporter struct {
	slices []models.Slice
	sample models.Sample
	opts   Options
}

// NewExporter creates an exporter for the given stack and sample.
func NewExporter(slices []models.Slice, sample models.Sample, opts Options) *Exporter {
	return &Exporter{
		slices: slices,
		sample: sample,
		opts:   opts,
	}
}

// Run exports the sampled slices in ascending ordinal order and
// returns a record per written file. The run aborts on the first
// failure: decoding or writing problems surface as stepanizer.ErrIO,
// parameter problems as stepanizer.ErrInvalidArgument. Cancellation
// of ctx is checked between slices.
func (e *Exporter) Run(ctx context.Context) ([]models.ExportedSlice, error) {
	if len(e.sample) == 0 {
		return nil, fmt.Errorf("empty sample: %w", stepanizer.ErrInvalidArgument)
	}
	if max := e.sample[len(e.sample)-1]; max >= len(e.slices) {
		return nil, fmt.Errorf("sampled ordinal %d exceeds stack size %d: %w",
			max, len(e.slices), stepanizer.ErrInvalidArgument)
	}
	if e.opts.BarLengthUm > 0 && !e.opts.VoxelSize.Valid() {
		return nil, fmt.Errorf("voxel size %g must be positive: %w",
			float64(e.opts.VoxelSize), stepanizer.ErrInvalidArgument)
	}

	quality := e.opts.JPEGQuality
	if quality == 0 {
		quality = DefaultJPEGQuality
	}
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("jpeg quality %d outside [1, 100]: %w", quality, stepanizer.ErrInvalidArgument)
	}

	if err := os.MkdirAll(e.opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w: %v",
			e.opts.OutputDir, stepanizer.ErrIO, err)
	}

	pad := PadWidth(len(e.sample))
	records := make([]models.ExportedSlice, 0, len(e.sample))

	for i, ordinal := range e.sample {
		select {
		case <-ctx.Done():
			return records, ctx.Err()
		default:
		}

		slice := e.slices[ordinal]
		record, err := e.exportOne(slice, i+1, pad, quality)
		if err != nil {
			return records, err
		}
		records = append(records, record)

		if e.opts.Log != nil {
			e.opts.Log.Info("%d/%d: %s -> %s", i+1, len(e.sample),
				filepath.Base(slice.Path), filepath.Base(record.OutputPath))
		}
	}
	return records, nil
}

// exportOne converts a single slice to its numbered output file
func (e *Exporter) exportOne(slice models.Slice, number, pad, quality int) (models.ExportedSlice, error) {
	var record models.ExportedSlice

	img, err := imaging.Open(slice.Path)
	if err != nil {
		return record, fmt.Errorf("decoding slice %s: %w: %v", slice.Path, stepanizer.ErrIO, err)
	}

	bounds := img.Bounds()
	longest := bounds.Dx()
	if bounds.Dy() > longest {
		longest = bounds.Dy()
	}

	// The effective pixel size grows when the image shrinks; the bar
	// length is computed after resizing so it stays exact.
	voxelSize := float64(e.opts.VoxelSize)
	if e.opts.ResizeTo > 0 {
		if e.opts.ResizeTo > longest {
			return record, fmt.Errorf("refusing to upscale %s from %d px to %d px: %w",
				filepath.Base(slice.Path), longest, e.opts.ResizeTo, stepanizer.ErrInvalidArgument)
		}
		img = imaging.Fit(img, e.opts.ResizeTo, e.opts.ResizeTo, imaging.Lanczos)
		voxelSize *= float64(longest) / float64(e.opts.ResizeTo)
	}

	canvas := imaging.Clone(img)

	barPx := 0
	if e.opts.BarLengthUm > 0 {
		barPx, err = scalebar.PixelLength(e.opts.BarLengthUm, voxelSize)
		if err != nil {
			return record, err
		}
		label := ""
		if e.opts.BarLabel {
			label = fmt.Sprintf("%g um", e.opts.BarLengthUm)
		}
		scalebar.Draw(canvas, scalebar.Spec{
			LengthPx: barPx,
			MarginPx: e.opts.BarMarginPx,
			Label:    label,
		})
	}

	name := fmt.Sprintf("%0*d.jpg", pad, number)
	if e.opts.Prefix != "" {
		name = fmt.Sprintf("%s_%s", e.opts.Prefix, name)
	}
	outPath := filepath.Join(e.opts.OutputDir, name)

	if err := imaging.Save(canvas, outPath, imaging.JPEGQuality(quality)); err != nil {
		return record, fmt.Errorf("writing %s: %w: %v", outPath, stepanizer.ErrIO, err)
	}

	return models.ExportedSlice{
		SourcePath:  slice.Path,
		OutputPath:  outPath,
		Index:       number,
		BarLengthPx: barPx,
	}, nil
}

// PadWidth returns the zero-pad width for k sequential output names:
// enough digits for k, and at least two so small runs still sort.
func PadWidth(k int) int {
	width := int(math.Ceil(math.Log10(float64(k) + 1)))
	if width < 2 {
		width = 2
	}
	return width
}
