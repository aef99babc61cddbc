package swizzle

// Xbox 360 2-D tiled surfaces: 32x32 block macro tiles, rows aligned to 32
// blocks, with a micro tile interleave that depends on the block size.

func log2Bpp(bytesPerBlock int) int {
	return (bytesPerBlock >> 2) + ((bytesPerBlock >> 1) >> (bytesPerBlock >> 2))
}

// tiledIndex returns the tiled position, in blocks, of block (x, y).
func tiledIndex(x, y, widthInBlocks, bytesPerBlock int) int {
	alignedWidth := (widthInBlocks + 31) &^ 31
	logBpp := log2Bpp(bytesPerBlock)

	macro := ((x >> 5) + (y>>5)*(alignedWidth>>5)) << (logBpp + 7)
	micro := ((x & 7) + ((y & 6) << 2)) << logBpp
	offset := macro + ((micro &^ 15) << 1) + (micro & 15) + ((y & 8) << (3 + logBpp)) + ((y & 1) << 4)

	return (((offset &^ 511) << 3) + ((offset & 448) << 2) + (offset & 63) +
		((y & 16) << 7) + (((((y & 8) >> 2) + (x >> 3)) & 3) << 6)) >> logBpp
}

// TiledOffset returns the byte offset in a tiled surface of the block at
// linear index blockIndex.
func TiledOffset(blockIndex, widthInBlocks, bytesPerBlock int) int {
	x := blockIndex % widthInBlocks
	y := blockIndex / widthInBlocks
	return tiledIndex(x, y, widthInBlocks, bytesPerBlock) * bytesPerBlock
}

// Tile copies a linear surface from src into its tiled layout in dst.
// Blocks whose tiled address falls outside dst are skipped and counted;
// their destination bytes are left as they were.
func Tile(dst, src []byte, widthInBlocks, heightInBlocks, bytesPerBlock int) int {
	return tileCopy(dst, src, widthInBlocks, heightInBlocks, bytesPerBlock, false)
}

// Untile is the inverse of Tile: dst receives the linear surface.
func Untile(dst, src []byte, widthInBlocks, heightInBlocks, bytesPerBlock int) int {
	return tileCopy(dst, src, widthInBlocks, heightInBlocks, bytesPerBlock, true)
}

func tileCopy(dst, src []byte, w, h, bpb int, reverse bool) (skipped int) {
	for i := 0; i < w*h; i++ {
		linear := i * bpb
		tiled := TiledOffset(i, w, bpb)

		from, to := linear, tiled
		if reverse {
			from, to = tiled, linear
		}

		if from+bpb > len(src) || to+bpb > len(dst) {
			skipped++
			continue
		}
		copy(dst[to:to+bpb], src[from:from+bpb])
	}
	return skipped
}
