package errors

import (
	"strings"
	"unicode"
)

// MaxCellSize bounds the cell size accepted from user input.
const MaxCellSize = 4096

// ValidateCellSize checks that a cell size in pixels is usable for sampling.
// Zero and negative sizes are rejected as malformed input.
func ValidateCellSize(size int) error {
	if size <= 0 {
		return New(ErrCodeMalformedInput, "cell size must be positive, got %d", size)
	}
	if size > MaxCellSize {
		return New(ErrCodeMalformedInput, "cell size too large (max %d), got %d", MaxCellSize, size)
	}
	return nil
}

// ValidateGridShape checks that declared grid dimensions match the row lengths
// of a serialized square matrix. rowLens holds len(row) for each row.
func ValidateGridShape(gridWidth, gridHeight int, rowLens []int) error {
	if gridWidth < 0 || gridHeight < 0 {
		return New(ErrCodeMalformedInput, "negative grid dimensions %dx%d", gridWidth, gridHeight)
	}
	if len(rowLens) != gridHeight {
		return New(ErrCodeMalformedInput, "grid height %d does not match %d rows", gridHeight, len(rowLens))
	}
	for y, n := range rowLens {
		if n != gridWidth {
			return New(ErrCodeMalformedInput, "row %d has %d squares, want grid width %d", y, n, gridWidth)
		}
	}
	return nil
}

// ValidateFilename validates an uploaded file name for safety.
// It ensures the name is a simple basename without path components.
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "file name cannot be empty")
	}
	if len(name) > 255 {
		return New(ErrCodeInvalidInput, "file name too long (max 255 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "file name contains invalid control characters")
		}
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "file name cannot contain path separators")
	}
	if name == "." || name == ".." {
		return New(ErrCodeInvalidInput, "file name cannot be %q", name)
	}
	return nil
}
