package transcode

import (
	"bytes"
	"errors"
	"testing"

	"github.com/KeyofBlueS/GBTVGRAC/pkg/format"
	"github.com/KeyofBlueS/GBTVGRAC/pkg/swizzle"
	"github.com/KeyofBlueS/GBTVGRAC/pkg/texture"
)

func pattern(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i*13 + i/256)
	}
	return data
}

func TestParamsFor(t *testing.T) {
	tests := []struct {
		name     string
		code     format.Code
		platform format.Platform
		expected Params
	}{
		{"pc dxt1", 0x2B, format.PC, Params{Algorithm: None, BlockPixels: 4, BytesPerBlock: 8}},
		{"xbox dxt1", 0x28, format.Xbox360, Params{Algorithm: Tiled, BlockPixels: 4, BytesPerBlock: 8, Post: Swap16}},
		{"xbox argb", 0x16, format.Xbox360, Params{Algorithm: Tiled, BlockPixels: 1, BytesPerBlock: 4, Post: Swap16 | ReorderARGB}},
		{"xbox argb cube alias", 0x1B, format.Xbox360, Params{Algorithm: Tiled, BlockPixels: 1, BytesPerBlock: 4, Post: Swap16 | ReorderARGB}},
		{"xbox rgba", 0x19, format.Xbox360, Params{Algorithm: Tiled, BlockPixels: 1, BytesPerBlock: 4, Post: Swap16}},
		{"ps3 dxt5", 0x34, format.PS3, Params{Algorithm: None, BlockPixels: 4, BytesPerBlock: 16}},
		{"ps3 argb cube", 0x26, format.PS3, Params{Algorithm: Morton, BlockPixels: 1, BytesPerBlock: 4, Post: ReverseTexel}},
		{"ps3 a4r4g4b4", 0x05, format.PS3, Params{Algorithm: Morton, BlockPixels: 1, BytesPerBlock: 2, Post: ReverseTexel | NibbleSwap}},
		{"ps3 half float", 0x2E, format.PS3, Params{Algorithm: Morton, BlockPixels: 1, BytesPerBlock: 8, Post: Swap16}},
		{"ps3 l8", 0x37, format.PS3, Params{Algorithm: Morton, BlockPixels: 1, BytesPerBlock: 1}},
		{"switch dxt5", 0x32, format.Switch, Params{Algorithm: BlockLinear, BlockPixels: 4, BytesPerBlock: 16, TileWidth: 8, TileHeight: 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got, err := Lookup(tt.code, tt.platform)
			if err != nil {
				t.Fatalf("lookup: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestDXT1ToXbox(t *testing.T) {
	pcCode, err := format.Resolve(format.DXT1.Descriptor(), false, format.PC)
	if err != nil || pcCode != 0x2B {
		t.Fatalf("expected pc code 0x2B, got %s (%v)", pcCode, err)
	}
	xboxCode, err := format.Resolve(format.DXT1.Descriptor(), false, format.Xbox360)
	if err != nil || xboxCode != 0x28 {
		t.Fatalf("expected xbox code 0x28, got %s (%v)", xboxCode, err)
	}

	src := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	res, err := Transcode(src, texture.Meta{Width: 4, Height: 4, MipCount: 1}, xboxCode, format.Xbox360, ToNative)
	if err != nil {
		t.Fatalf("transcode: %v", err)
	}

	expected := []byte{0x02, 0x01, 0x04, 0x03, 0x06, 0x05, 0x08, 0x07}
	if !bytes.Equal(res.Data, expected) {
		t.Errorf("expected %x, got %x", expected, res.Data)
	}
	if res.Skipped != 0 {
		t.Errorf("expected no skipped blocks, got %d", res.Skipped)
	}
}

func TestPS3CubemapMorton(t *testing.T) {
	code, err := format.Resolve(format.A8R8G8B8.Descriptor(), true, format.PS3)
	if err != nil || code != 0x26 {
		t.Fatalf("expected code 0x26, got %s (%v)", code, err)
	}

	meta := texture.Meta{Width: 128, Height: 128, MipCount: 1, Cubemap: true}
	const face = 128 * 128 * 4
	src := pattern(face * 6)

	res, err := Transcode(src, meta, code, format.PS3, ToNative)
	if err != nil {
		t.Fatalf("transcode: %v", err)
	}
	if len(res.Data) != len(src) {
		t.Fatalf("expected length %d, got %d", len(src), len(res.Data))
	}

	for _, f := range []int{0, 5} {
		for _, i := range []int{0, 1, 2, 3, 100, 16383} {
			got := res.Data[f*face+i*4 : f*face+i*4+4]
			from := f*face + swizzle.MortonIndex(i, 128, 128)*4
			want := []byte{src[from+3], src[from+2], src[from+1], src[from]}
			if !bytes.Equal(got, want) {
				t.Errorf("face %d texel %d: expected %x, got %x", f, i, want, got)
			}
		}
	}

	back, err := Transcode(res.Data, meta, code, format.PS3, ToLinear)
	if err != nil {
		t.Fatalf("transcode back: %v", err)
	}
	if !bytes.Equal(back.Data, src) {
		t.Error("round-trip mismatch")
	}
}

func TestXboxReorder(t *testing.T) {
	meta := texture.Meta{Width: 32, Height: 32, MipCount: 1}
	src := pattern(32 * 32 * 4)

	res, err := Transcode(src, meta, 0x16, format.Xbox360, ToNative)
	if err != nil {
		t.Fatalf("transcode: %v", err)
	}

	// texel 0 stays in place: bytes are swapped in pairs, then A,R,G,B
	// becomes R,G,B,A
	want := []byte{src[0], src[3], src[2], src[1]}
	if !bytes.Equal(res.Data[:4], want) {
		t.Errorf("expected %x, got %x", want, res.Data[:4])
	}
}

func TestPS3NibbleSwap(t *testing.T) {
	src := make([]byte, 4*4*2)
	src[0], src[1] = 0x12, 0x34

	res, err := Transcode(src, texture.Meta{Width: 4, Height: 4, MipCount: 1}, 0x05, format.PS3, ToNative)
	if err != nil {
		t.Fatalf("transcode: %v", err)
	}
	if res.Data[0] != 0x43 || res.Data[1] != 0x21 {
		t.Errorf("expected 4321, got %x", res.Data[:2])
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		code     format.Code
		platform format.Platform
		meta     texture.Meta
		kind     format.Kind
	}{
		{"xbox dxt1 mips", 0x28, format.Xbox360, texture.Meta{Width: 256, Height: 256, MipCount: 2}, format.DXT1},
		{"xbox argb", 0x16, format.Xbox360, texture.Meta{Width: 64, Height: 64, MipCount: 1}, format.A8R8G8B8},
		{"xbox dxt5", 0x33, format.Xbox360, texture.Meta{Width: 128, Height: 128, MipCount: 1}, format.DXT5},
		{"ps3 argb mips", 0x27, format.PS3, texture.Meta{Width: 64, Height: 32, MipCount: 7}, format.A8R8G8B8},
		{"ps3 a4r4g4b4", 0x05, format.PS3, texture.Meta{Width: 16, Height: 16, MipCount: 1}, format.A4R4G4B4},
		{"ps3 a8l8", 0x31, format.PS3, texture.Meta{Width: 32, Height: 32, MipCount: 1}, format.A8L8},
		{"ps3 half float", 0x2E, format.PS3, texture.Meta{Width: 8, Height: 8, MipCount: 4}, format.A16B16G16R16F},
		{"pc dxt5", 0x32, format.PC, texture.Meta{Width: 64, Height: 64, MipCount: 7}, format.DXT5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := pattern(texture.ChainSize(tt.kind, tt.meta))

			res, err := Transcode(src, tt.meta, tt.code, tt.platform, ToNative)
			if err != nil {
				t.Fatalf("transcode: %v", err)
			}
			if res.Skipped != 0 {
				t.Errorf("expected no skipped blocks, got %d", res.Skipped)
			}

			back, err := Transcode(res.Data, tt.meta, tt.code, tt.platform, ToLinear)
			if err != nil {
				t.Fatalf("transcode back: %v", err)
			}
			if !bytes.Equal(back.Data, src) {
				t.Error("round-trip mismatch")
			}
		})
	}
}

func TestInputUntouchedAndDeterministic(t *testing.T) {
	meta := texture.Meta{Width: 64, Height: 64, MipCount: 1}
	src := pattern(64 * 64 * 4)
	orig := append([]byte(nil), src...)

	for _, p := range format.AllPlatforms {
		code, err := format.Resolve(format.A8R8G8B8.Descriptor(), false, p)
		if err != nil {
			t.Fatalf("%s: resolve: %v", p, err)
		}

		a, err := Transcode(src, meta, code, p, ToNative)
		if err != nil {
			t.Fatalf("%s: transcode: %v", p, err)
		}
		b, err := Transcode(src, meta, code, p, ToNative)
		if err != nil {
			t.Fatalf("%s: transcode: %v", p, err)
		}

		if !bytes.Equal(src, orig) {
			t.Fatalf("%s: input was modified", p)
		}
		if len(a.Data) != len(src) {
			t.Errorf("%s: expected length %d, got %d", p, len(src), len(a.Data))
		}
		if !bytes.Equal(a.Data, b.Data) {
			t.Errorf("%s: output differs between runs", p)
		}
	}
}

func TestTrailingBytes(t *testing.T) {
	// three levels declared, only the first fits
	meta := texture.Meta{Width: 4, Height: 4, MipCount: 3}
	src := pattern(64 + 6)

	res, err := Transcode(src, meta, 0x27, format.PS3, ToNative)
	if err != nil {
		t.Fatalf("transcode: %v", err)
	}
	if len(res.Data) != len(src) {
		t.Fatalf("expected length %d, got %d", len(src), len(res.Data))
	}
	if !bytes.Equal(res.Data[64:], src[64:]) {
		t.Errorf("expected trailing bytes %x, got %x", src[64:], res.Data[64:])
	}
	if bytes.Equal(res.Data[:64], src[:64]) {
		t.Error("first surface was not re-addressed")
	}
}

func TestSwitch(t *testing.T) {
	meta := texture.Meta{Width: 10, Height: 10, MipCount: 1}
	src := pattern(10 * 10 * 4)

	res, err := Transcode(src, meta, 0x03, format.Switch, ToNative)
	if err != nil {
		t.Fatalf("transcode: %v", err)
	}

	want, err := swizzle.BlockLinear(src, 10, 10, 1, 4, swizzle.DefaultTileSize)
	if err != nil {
		t.Fatalf("block linear: %v", err)
	}
	if !bytes.Equal(res.Data, want) {
		t.Error("expected block-linear surface")
	}

	_, err = Transcode(res.Data, meta, 0x03, format.Switch, ToLinear)
	if !errors.Is(err, ErrUnsupportedDirection) {
		t.Errorf("expected ErrUnsupportedDirection, got %v", err)
	}
}

func TestTranscodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		buf      []byte
		meta     texture.Meta
		code     format.Code
		platform format.Platform
		expected error
	}{
		{"short body", make([]byte, 16), texture.Meta{Width: 8, Height: 8, MipCount: 1}, 0x2B, format.PC, ErrMalformedBuffer},
		{"odd swap length", make([]byte, 1), texture.Meta{Width: 1, Height: 1, MipCount: 1}, 0x37, format.Xbox360, ErrMalformedBuffer},
		{"unknown code", make([]byte, 64), texture.Meta{Width: 4, Height: 4, MipCount: 1}, 0xFF, format.PS3, format.ErrUnsupportedFormat},
		{"oversized xbox surface", make([]byte, 65536), texture.Meta{Width: 65536, Height: 65537, MipCount: 1}, 0x37, format.Xbox360, ErrMalformedBuffer},
		{"oversized ps3 surface", make([]byte, 65536), texture.Meta{Width: 65536, Height: 65536, MipCount: 1}, 0x37, format.PS3, ErrMalformedBuffer},
		{"overflowing surface", make([]byte, 64), texture.Meta{Width: 0xFFFFFFFF, Height: 0xFFFFFFFF, MipCount: 0x7FFFFFFE}, 0x2E, format.PS3, ErrMalformedBuffer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transcode(tt.buf, tt.meta, tt.code, tt.platform, ToNative)
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func BenchmarkTranscodeXbox(b *testing.B) {
	meta := texture.Meta{Width: 1024, Height: 1024, MipCount: 1}
	src := pattern(texture.ChainSize(format.DXT5, meta))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Transcode(src, meta, 0x33, format.Xbox360, ToNative); err != nil {
			b.Fatal(err)
		}
	}
}
