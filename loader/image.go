// Package loader reads raw flat binary images.
//
// An image has no header and no metadata. Its bytes are placed verbatim in
// memory starting at address zero, which is also where execution begins.
package loader

import (
	"fmt"
	"io"
	"os"
)

// LoadAddress is the address at which every image is placed.
const LoadAddress = 0

// Image is a raw binary ready to be copied into memory.
type Image struct {
	// Path is the file the image was read from, if any.
	Path string
	// Data holds the image contents.
	Data []byte
}

// Size returns the length of the image in bytes.
func (img *Image) Size() uint64 {
	return uint64(len(img.Data))
}

// Truncate returns the prefix of the image that fits in limit bytes.
func (img *Image) Truncate(limit uint64) []byte {
	if img.Size() > limit {
		return img.Data[:limit]
	}
	return img.Data
}

// Load reads a raw binary image from a file.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	img.Path = path

	return img, nil
}

// Read reads a raw binary image from r until EOF.
func Read(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &Image{Data: data}, nil
}
