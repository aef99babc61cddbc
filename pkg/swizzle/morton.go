package swizzle

// MortonIndex returns the linear block index stored at swizzled position t
// of a widthInBlocks x heightInBlocks grid. Bits of t are dealt alternately
// to x and y for as long as the respective dimension has bits left, so
// non-square grids keep their extra bits in the longer axis.
//
// The mapping is a bijection only when both dimensions are powers of two.
// On other grids several positions share an index; on a 3x3 grid t=4 maps
// back to block 0.
func MortonIndex(t, widthInBlocks, heightInBlocks int) int {
	x, y := 0, 0
	xb, yb := 1, 1
	w, h := widthInBlocks, heightInBlocks

	for w > 1 || h > 1 {
		if w > 1 {
			x += xb * (t & 1)
			t >>= 1
			xb <<= 1
			w >>= 1
		}
		if h > 1 {
			y += yb * (t & 1)
			t >>= 1
			yb <<= 1
			h >>= 1
		}
	}

	return y*widthInBlocks + x
}

// Morton copies a linear surface from src into Morton order in dst.
func Morton(dst, src []byte, widthInBlocks, heightInBlocks, bytesPerBlock int) int {
	return mortonCopy(dst, src, widthInBlocks, heightInBlocks, bytesPerBlock, false)
}

// Unmorton is the inverse of Morton.
func Unmorton(dst, src []byte, widthInBlocks, heightInBlocks, bytesPerBlock int) int {
	return mortonCopy(dst, src, widthInBlocks, heightInBlocks, bytesPerBlock, true)
}

// mortonCopy moves every block of a w x h grid. Blocks that would land
// outside dst or src are counted and skipped, as are swizzled positions
// whose index was already taken by an earlier position on grids that are
// not powers of two.
func mortonCopy(dst, src []byte, w, h, bpb int, reverse bool) (skipped int) {
	var taken []bool
	if !isPow2(w) || !isPow2(h) {
		taken = make([]bool, w*h)
	}

	for t := 0; t < w*h; t++ {
		index := MortonIndex(t, w, h)
		if taken != nil {
			if taken[index] {
				skipped++
				continue
			}
			taken[index] = true
		}

		swizzled := t * bpb
		linear := index * bpb

		from, to := linear, swizzled
		if reverse {
			from, to = swizzled, linear
		}

		if from+bpb > len(src) || to+bpb > len(dst) {
			skipped++
			continue
		}
		copy(dst[to:to+bpb], src[from:from+bpb])
	}
	return skipped
}

func isPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}
