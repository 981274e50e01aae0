package heightmap

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// GAT format errors.
var (
	ErrInvalidGATMagic       = errors.New("invalid GAT magic: expected 'GRAT'")
	ErrUnsupportedGATVersion = errors.New("unsupported GAT version")
	ErrTruncatedGATData      = errors.New("truncated GAT data")
	ErrInvalidGATAltitude    = errors.New("non-finite GAT altitude")
)

const gatHeaderSize = 14

// gatCell is one on-disk GAT cell: four corner altitudes and a surface type.
type gatCell struct {
	Heights [4]float32
	Type    uint32
}

// ParseGAT reads a Ragnarok Online ground altitude table as a heightmap.
//
// GAT altitudes grow downwards, so each cell's corner average is negated.
// The lowest cell maps to sample 0 and the highest to full scale, the same
// normalisation image heightmaps carry.
func ParseGAT(data []byte, scale float64) (*Heightmap, error) {
	if len(data) < gatHeaderSize {
		return nil, ErrTruncatedGATData
	}
	if string(data[0:4]) != "GRAT" {
		return nil, ErrInvalidGATMagic
	}

	// Version is stored as [minor, major]; the cell layout is the same for 1.x to 3.x
	major, minor := data[5], data[4]
	if major < 1 || major > 3 {
		return nil, fmt.Errorf("%w: %d.%d", ErrUnsupportedGATVersion, major, minor)
	}

	width := int(binary.LittleEndian.Uint32(data[6:10]))
	height := int(binary.LittleEndian.Uint32(data[10:14]))
	if width <= 0 || height <= 0 || width > maxEdge || height > maxEdge {
		return nil, fmt.Errorf("invalid GAT dimensions: %dx%d", width, height)
	}

	cells := make([]gatCell, width*height)
	if err := binary.Read(bytes.NewReader(data[gatHeaderSize:]), binary.LittleEndian, cells); err != nil {
		return nil, fmt.Errorf("%w: %d cells", ErrTruncatedGATData, len(cells))
	}

	altitudes := make([]float64, len(cells))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, c := range cells {
		a := -(float64(c.Heights[0]) + float64(c.Heights[1]) + float64(c.Heights[2]) + float64(c.Heights[3])) / 4
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return nil, fmt.Errorf("%w: cell (%d,%d)", ErrInvalidGATAltitude, i%width, i/width)
		}
		altitudes[i] = a
		lo = math.Min(lo, a)
		hi = math.Max(hi, a)
	}

	samples := make([]uint16, len(cells))
	if span := hi - lo; span > 0 {
		for i, a := range altitudes {
			samples[i] = uint16(math.Round((a - lo) / span * maxSample))
		}
	}

	return New(width, height, samples, scale)
}
