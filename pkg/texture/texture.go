// Package texture reads and writes the two containers a conversion moves
// between: DDS files (magic + 124-byte header, optional DX10 extension) and
// TEX files (52-byte header) as shipped by Ghostbusters: The Video Game.
//
// The body bytes are never touched here; re-addressing them for a platform
// is the job of package transcode.
package texture

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/KeyofBlueS/GBTVGRAC/pkg/format"
)

// ErrInvalidContainer is returned when a header is truncated or its magic
// does not match.
var ErrInvalidContainer = errors.New("invalid container")

// Meta is what both containers agree on about a texture.
type Meta struct {
	Width    uint32
	Height   uint32
	MipCount uint32 // number of levels, at least 1
	Cubemap  bool
}

// Faces returns 6 for cubemaps and 1 otherwise.
func (m Meta) Faces() int {
	if m.Cubemap {
		return 6
	}
	return 1
}

// Levels returns MipCount, treating 0 as a single level and capping it at
// the length of the full chain down to 1x1.
func (m Meta) Levels() int {
	full := bits.Len32(max(m.Width, m.Height))
	return max(1, min(int(m.MipCount), full))
}

func (m Meta) String() string {
	cube := ""
	if m.Cubemap {
		cube = ", cubemap"
	}
	return fmt.Sprintf("%dx%d, %d mips%s", m.Width, m.Height, m.Levels(), cube)
}

// MipSize returns the dimensions of mip level i.
func MipSize(width, height uint32, level int) (uint32, uint32) {
	return max(1, width>>level), max(1, height>>level)
}

// SurfaceSize returns the byte size of one width x height surface of kind.
// Sizes that do not fit an int are reported as math.MaxInt so that no
// buffer can hold them.
func SurfaceSize(k format.Kind, width, height uint32) int {
	bp := uint64(k.BlockPixels())
	if bp == 0 {
		return 0
	}
	blocks := ((uint64(width) + bp - 1) / bp) * ((uint64(height) + bp - 1) / bp)
	bpb := uint64(k.BytesPerBlock())
	if bpb != 0 && blocks > math.MaxInt/bpb {
		return math.MaxInt
	}
	return int(blocks * bpb)
}

// ChainSize returns the size of every face and mip level of the texture,
// laid out face by face with each face's mips smallest last. Like
// SurfaceSize it saturates at math.MaxInt.
func ChainSize(k format.Kind, m Meta) int {
	var face int
	for i := 0; i < m.Levels(); i++ {
		w, h := MipSize(m.Width, m.Height, i)
		face = addSize(face, SurfaceSize(k, w, h))
	}

	total := 0
	for i := 0; i < m.Faces(); i++ {
		total = addSize(total, face)
	}
	return total
}

func addSize(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
