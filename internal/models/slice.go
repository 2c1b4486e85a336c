package models

// Slice represents a single 2D cross-sectional image in a tomographic stack
type Slice struct {
	// Path is the location of the slice image file
	Path string

	// Index is the ordinal position of this slice in the stack,
	// after lexicographic sorting of the filenames
	Index int

	// Width and Height are the pixel dimensions of the slice.
	// They are zero until the image has been loaded.
	Width  int
	Height int
}

// Sample is a set of distinct slice ordinals drawn from [0, N),
// where N is the total slice count. The ordinals are kept in
// ascending order and contain no duplicates.
type Sample []int

// VoxelSize is the physical length represented by one pixel edge,
// in micrometers. The scan is assumed isometric, so the same value
// applies along all three axes.
type VoxelSize float64

// Valid reports whether the voxel size is usable, i.e. positive.
func (v VoxelSize) Valid() bool {
	return v > 0
}

// ExportedSlice records one output file written during an export run
type ExportedSlice struct {
	// SourcePath is the slice image the output was derived from
	SourcePath string

	// OutputPath is the written JPEG file
	OutputPath string

	// Index is the 1-based sequential output number encoded in the filename
	Index int

	// BarLengthPx is the drawn scale bar length in pixels
	BarLengthPx int
}
