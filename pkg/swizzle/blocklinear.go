package swizzle

import "fmt"

const (
	gobWidth  = 64 // bytes
	gobHeight = 8  // rows
	gobSize   = gobWidth * gobHeight

	maxGobBlockHeight = 16

	// DefaultTileSize is the pixel alignment applied before block-linear
	// swizzling.
	DefaultTileSize = 8
)

// GobBlockHeight picks the number of GOBs stacked per block for a surface
// heightInBlocks tall: the next power of two covering the height, capped
// at 16.
func GobBlockHeight(heightInBlocks int) int {
	bh := 1
	for bh < maxGobBlockHeight && bh*gobHeight < heightInBlocks {
		bh <<= 1
	}
	return bh
}

// BlockLinearAddress returns the byte offset of block (x, y) in a
// block-linear surface widthInGobs GOBs wide.
func BlockLinearAddress(x, y, widthInGobs, bytesPerBlock, gobBlockHeight int) int {
	xb := x * bytesPerBlock
	rowsPerBlock := gobHeight * gobBlockHeight

	base := (y/rowsPerBlock)*gobSize*gobBlockHeight*widthInGobs +
		(xb/gobWidth)*gobSize*gobBlockHeight +
		(y%rowsPerBlock/gobHeight)*gobSize

	return base | ((xb & 0x20) << 3) | ((y & 6) << 5) | ((xb & 0x10) << 1) | ((y & 1) << 4) | (xb & 0xf)
}

// PaddedSize aligns pixel dimensions up to the tile size.
func PaddedSize(width, height, tileSize int) (int, int) {
	return align(width, tileSize), align(height, tileSize)
}

// BlockLinear swizzles one linear surface of width x height pixels into
// block-linear order. The surface is padded to the tile size first; when
// padding was needed the swizzled result is cropped back row by row to the
// original row pitch, so the returned slice is as long as the surface.
func BlockLinear(src []byte, width, height, blockPixels, bytesPerBlock, tileSize int) ([]byte, error) {
	wb, hb := ceilDiv(width, blockPixels), ceilDiv(height, blockPixels)
	rowBytes := wb * bytesPerBlock
	size := rowBytes * hb
	if len(src) < size {
		return nil, fmt.Errorf("%w: surface needs %d bytes, got %d", ErrMalformedBuffer, size, len(src))
	}

	pw, ph := PaddedSize(width, height, tileSize)
	pwb, phb := ceilDiv(pw, blockPixels), ceilDiv(ph, blockPixels)
	paddedRow := pwb * bytesPerBlock

	padded := src[:size]
	if pwb != wb || phb != hb {
		padded = make([]byte, paddedRow*phb)
		for y := 0; y < hb; y++ {
			copy(padded[y*paddedRow:y*paddedRow+rowBytes], src[y*rowBytes:(y+1)*rowBytes])
		}
	}

	bh := GobBlockHeight(phb)
	widthInGobs := ceilDiv(paddedRow, gobWidth)
	swizzled := make([]byte, widthInGobs*gobSize*ceilDiv(phb, gobHeight*bh)*bh)

	for y := 0; y < phb; y++ {
		for x := 0; x < pwb; x++ {
			from := (y*pwb + x) * bytesPerBlock
			to := BlockLinearAddress(x, y, widthInGobs, bytesPerBlock, bh)
			copy(swizzled[to:to+bytesPerBlock], padded[from:from+bytesPerBlock])
		}
	}

	out := make([]byte, size)
	for y := 0; y < hb; y++ {
		copy(out[y*rowBytes:(y+1)*rowBytes], swizzled[y*paddedRow:y*paddedRow+rowBytes])
	}
	return out, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func align(v, to int) int {
	return ceilDiv(v, to) * to
}
