package format

import (
	"fmt"
	"strings"
)

// DDS_PIXELFORMAT flag bits
const (
	FlagAlphaPixels = 0x00000001
	FlagFourCC      = 0x00000004
	FlagRGB         = 0x00000040
	FlagRGBA        = FlagRGB | FlagAlphaPixels
	FlagLuminance   = 0x00020000
	FlagLuminanceA  = FlagLuminance | FlagAlphaPixels
)

// FourCC is a four-character code packed little-endian into a uint32.
type FourCC uint32

// MakeFourCC packs four characters the way DDS headers store them.
func MakeFourCC(c0, c1, c2, c3 byte) FourCC {
	return FourCC(uint32(c0) | uint32(c1)<<8 | uint32(c2)<<16 | uint32(c3)<<24)
}

var (
	FourCCNone = FourCC(0)
	FourCCDXT1 = MakeFourCC('D', 'X', 'T', '1')
	FourCCDXT3 = MakeFourCC('D', 'X', 'T', '3')
	FourCCDXT5 = MakeFourCC('D', 'X', 'T', '5')

	// D3DFMT_A16B16G16R16F is stored as a bare numeric code, not characters.
	FourCCA16B16G16R16F = FourCC(113)
)

func (f FourCC) String() string {
	if f == FourCCNone {
		return "none"
	}

	b := []byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("%d", uint32(f))
		}
	}
	return strings.TrimRight(string(b), " ")
}

// Descriptor is the DDS_PIXELFORMAT view of a pixel format.
type Descriptor struct {
	Flags       uint32
	FourCC      FourCC
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

func (d Descriptor) String() string {
	if d.FourCC != FourCCNone {
		return fmt.Sprintf("fourcc=%s", d.FourCC)
	}
	return fmt.Sprintf("bits=%d r=0x%08x g=0x%08x b=0x%08x a=0x%08x",
		d.RGBBitCount, d.RBitMask, d.GBitMask, d.BBitMask, d.ABitMask)
}

// Kind is the identity a descriptor classifies to, independent of the
// container and the platform.
type Kind uint8

const (
	KindUnknown Kind = iota
	DXT1
	DXT3
	DXT5
	A8R8G8B8
	A8B8G8R8
	R5G6B5
	A4R4G4B4
	A8L8
	L8
	A16B16G16R16F
)

type kindInfo struct {
	name          string
	descriptor    Descriptor
	blockPixels   int
	bytesPerBlock int
}

var kinds = map[Kind]kindInfo{
	DXT1: {"DXT1", Descriptor{Flags: FlagFourCC, FourCC: FourCCDXT1}, 4, 8},
	DXT3: {"DXT3", Descriptor{Flags: FlagFourCC, FourCC: FourCCDXT3}, 4, 16},
	DXT5: {"DXT5", Descriptor{Flags: FlagFourCC, FourCC: FourCCDXT5}, 4, 16},
	A8R8G8B8: {"A8R8G8B8", Descriptor{
		Flags: FlagRGBA, RGBBitCount: 32,
		RBitMask: 0x00FF0000, GBitMask: 0x0000FF00, BBitMask: 0x000000FF, ABitMask: 0xFF000000,
	}, 1, 4},
	A8B8G8R8: {"RGBA8888", Descriptor{
		Flags: FlagRGBA, RGBBitCount: 32,
		RBitMask: 0x000000FF, GBitMask: 0x0000FF00, BBitMask: 0x00FF0000, ABitMask: 0xFF000000,
	}, 1, 4},
	R5G6B5: {"R5G6B5", Descriptor{
		Flags: FlagRGB, RGBBitCount: 16,
		RBitMask: 0xF800, GBitMask: 0x07E0, BBitMask: 0x001F,
	}, 1, 2},
	A4R4G4B4: {"A4R4G4B4", Descriptor{
		Flags: FlagRGBA, RGBBitCount: 16,
		RBitMask: 0x0F00, GBitMask: 0x00F0, BBitMask: 0x000F, ABitMask: 0xF000,
	}, 1, 2},
	A8L8: {"A8L8", Descriptor{
		Flags: FlagLuminanceA, RGBBitCount: 16,
		RBitMask: 0x00FF, ABitMask: 0xFF00,
	}, 1, 2},
	L8: {"L8", Descriptor{
		Flags: FlagLuminance, RGBBitCount: 8,
		RBitMask: 0xFF,
	}, 1, 1},
	A16B16G16R16F: {"A16B16G16R16F", Descriptor{Flags: FlagFourCC, FourCC: FourCCA16B16G16R16F}, 1, 8},
}

func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Descriptor returns the canonical pixel format written for k.
func (k Kind) Descriptor() Descriptor {
	return kinds[k].descriptor
}

// BlockPixels is the edge length in pixels of one addressable unit:
// 4 for block-compressed kinds, 1 for uncompressed ones.
func (k Kind) BlockPixels() int {
	return kinds[k].blockPixels
}

// BytesPerBlock is the size of one addressable unit (block or texel).
func (k Kind) BytesPerBlock() int {
	return kinds[k].bytesPerBlock
}

// Compressed reports whether k is a block-compressed kind.
func (k Kind) Compressed() bool {
	return kinds[k].blockPixels > 1
}

// matchers classify a descriptor. Compression tags are tested first, then
// channel layouts, then the bit-depth-only fallback.
var matchers = []struct {
	kind  Kind
	match func(Descriptor) bool
}{
	{DXT1, func(d Descriptor) bool { return d.FourCC == FourCCDXT1 }},
	{DXT3, func(d Descriptor) bool { return d.FourCC == FourCCDXT3 }},
	{DXT5, func(d Descriptor) bool { return d.FourCC == FourCCDXT5 }},
	{A16B16G16R16F, func(d Descriptor) bool { return d.FourCC == FourCCA16B16G16R16F }},
	{A8R8G8B8, func(d Descriptor) bool { return d.RGBBitCount == 32 && d.RBitMask == 0x00FF0000 }},
	{A8B8G8R8, func(d Descriptor) bool { return d.RGBBitCount == 32 && d.RBitMask == 0x000000FF }},
	{A8L8, func(d Descriptor) bool {
		return d.RGBBitCount == 16 && d.RBitMask == 0x00FF && d.ABitMask == 0xFF00
	}},
	{R5G6B5, func(d Descriptor) bool { return d.RGBBitCount == 16 && d.RBitMask == 0xF800 }},
	{A4R4G4B4, func(d Descriptor) bool { return d.RGBBitCount == 16 && d.RBitMask == 0x0F00 }},
	{L8, func(d Descriptor) bool { return d.FourCC == FourCCNone && d.RGBBitCount == 8 }},
}

// Classify returns the kind d describes, or KindUnknown.
func Classify(d Descriptor) Kind {
	for _, m := range matchers {
		if m.match(d) {
			return m.kind
		}
	}
	return KindUnknown
}
