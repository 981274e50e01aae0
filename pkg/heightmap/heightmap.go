// Package heightmap loads terrain heightmaps and samples grid elevations from them.
package heightmap

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png" // PNG decoder registration
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
)

// Heightmap errors.
var (
	ErrTruncatedRAWData  = errors.New("truncated RAW heightmap data")
	ErrNotSquareRAW      = errors.New("RAW heightmap is not square")
	ErrUnsupportedFormat = errors.New("unsupported heightmap format")
)

// maxSample is the full-scale value of a 16-bit sample.
const maxSample = math.MaxUint16

// maxEdge bounds heightmap dimensions (Unity terrains top out at 4097).
const maxEdge = 8192

// Heightmap is a grid of normalized 16-bit elevation samples.
type Heightmap struct {
	Width   int
	Height  int
	Samples []uint16 // row-major: Samples[y*Width+x]
	Scale   float64  // World height of a full-scale sample
}

// New wraps samples in a heightmap after checking their count.
func New(width, height int, samples []uint16, scale float64) (*Heightmap, error) {
	if width <= 0 || height <= 0 || width > maxEdge || height > maxEdge {
		return nil, fmt.Errorf("invalid heightmap dimensions: %dx%d", width, height)
	}
	if len(samples) != width*height {
		return nil, fmt.Errorf("heightmap has %d samples, want %d", len(samples), width*height)
	}
	return &Heightmap{Width: width, Height: height, Samples: samples, Scale: scale}, nil
}

// Resolution returns the number of samples along X and Z, the per-axis
// resolution of the terrain coordinate mapping.
func (h *Heightmap) Resolution() (x, z int) {
	return h.Width, h.Height
}

// Bounds reports the sample area so that navgrid.Build can reject grids
// that would read past it.
func (h *Heightmap) Bounds() (width, height int) {
	return h.Width, h.Height
}

// Sample returns the raw sample at (x, y), clamping coordinates to the map edge.
func (h *Heightmap) Sample(x, y int) uint16 {
	x = clamp(x, 0, h.Width-1)
	y = clamp(y, 0, h.Height-1)
	return h.Samples[y*h.Width+x]
}

// SampleElevation returns the world elevation at (x, y), truncated to an integer.
func (h *Heightmap) SampleElevation(x, y int) int {
	return int(float64(h.Sample(x, y)) * h.Scale / maxSample)
}

// ParseRAW parses a square 16-bit little-endian RAW heightmap, the format Unity exports.
func ParseRAW(data []byte, scale float64) (*Heightmap, error) {
	if len(data) == 0 || len(data)%2 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedRAWData, len(data))
	}

	count := len(data) / 2
	side := int(math.Sqrt(float64(count)))
	for side*side < count {
		side++
	}
	if side*side != count {
		return nil, fmt.Errorf("%w: %d samples", ErrNotSquareRAW, count)
	}

	return ParseRAWSize(data, side, side, scale)
}

// ParseRAWSize parses a 16-bit little-endian RAW heightmap of known dimensions.
func ParseRAWSize(data []byte, width, height int, scale float64) (*Heightmap, error) {
	if width <= 0 || height <= 0 || width > maxEdge || height > maxEdge {
		return nil, fmt.Errorf("invalid heightmap dimensions: %dx%d", width, height)
	}
	if len(data) < width*height*2 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrTruncatedRAWData, len(data), width, height)
	}

	samples := make([]uint16, width*height)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedRAWData, err)
	}

	return New(width, height, samples, scale)
}

// DecodeImage reads a grayscale heightmap from a PNG, BMP or TIFF image.
// Colour images are converted to luminance.
func DecodeImage(r io.Reader, scale float64) (*Heightmap, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding heightmap image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	samples := make([]uint16, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gray := color.Gray16Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray16)
			samples[y*width+x] = gray.Y
		}
	}

	hm, err := New(width, height, samples, scale)
	if err != nil {
		return nil, fmt.Errorf("%s heightmap: %w", format, err)
	}
	return hm, nil
}

// Load reads a heightmap file, choosing the parser by extension.
func Load(path string, scale float64) (*Heightmap, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".raw", ".r16":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading heightmap: %w", err)
		}
		return ParseRAW(data, scale)
	case ".gat":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading heightmap: %w", err)
		}
		return ParseGAT(data, scale)
	case ".png", ".bmp", ".tif", ".tiff":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("reading heightmap: %w", err)
		}
		defer f.Close()
		return DecodeImage(f, scale)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
