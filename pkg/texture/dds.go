package texture

import (
	"encoding/binary"
	"fmt"

	"github.com/KeyofBlueS/GBTVGRAC/pkg/format"
)

// DDS header constants
const (
	DDS_MAGIC        = 0x20534444 // "DDS "
	DDS_HEADER_SIZE  = 124
	DDS_FILE_HEADER  = 4 + DDS_HEADER_SIZE
	DX10_HEADER_SIZE = 20

	DDS_HEADER_FLAGS_CAPS        = 0x1
	DDS_HEADER_FLAGS_HEIGHT      = 0x2
	DDS_HEADER_FLAGS_WIDTH       = 0x4
	DDS_HEADER_FLAGS_PITCH       = 0x8
	DDS_HEADER_FLAGS_PIXELFORMAT = 0x1000
	DDS_HEADER_FLAGS_MIPMAPCOUNT = 0x20000
	DDS_HEADER_FLAGS_LINEARSIZE  = 0x80000
	DDS_HEADER_FLAGS_TEXTURE     = DDS_HEADER_FLAGS_CAPS | DDS_HEADER_FLAGS_HEIGHT |
		DDS_HEADER_FLAGS_WIDTH | DDS_HEADER_FLAGS_PIXELFORMAT

	DDS_SURFACE_FLAGS_COMPLEX = 0x8
	DDS_SURFACE_FLAGS_TEXTURE = 0x1000
	DDS_SURFACE_FLAGS_MIPMAP  = 0x400000

	DDS_CUBEMAP          = 0x200
	DDS_CUBEMAP_ALLFACES = 0xFC00 | DDS_CUBEMAP

	DDS_PIXELFORMAT_SIZE = 32

	DX10_FOURCC              = 0x30315844 // "DX10"
	DX10_MISC_TEXTURECUBE    = 0x4
	DX10_DIMENSION_TEXTURE2D = 3
)

// DXGI_FORMAT values that have a legacy pixel format equivalent
const (
	DXGI_FORMAT_R16G16B16A16_FLOAT  = 10
	DXGI_FORMAT_R8G8B8A8_UNORM      = 28
	DXGI_FORMAT_R8G8B8A8_UNORM_SRGB = 29
	DXGI_FORMAT_R8_UNORM            = 61
	DXGI_FORMAT_BC1_UNORM           = 71
	DXGI_FORMAT_BC1_UNORM_SRGB      = 72
	DXGI_FORMAT_BC2_UNORM           = 74
	DXGI_FORMAT_BC2_UNORM_SRGB      = 75
	DXGI_FORMAT_BC3_UNORM           = 77
	DXGI_FORMAT_BC3_UNORM_SRGB      = 78
	DXGI_FORMAT_B5G6R5_UNORM        = 85
	DXGI_FORMAT_B8G8R8A8_UNORM      = 87
	DXGI_FORMAT_B8G8R8A8_UNORM_SRGB = 91
	DXGI_FORMAT_B4G4R4A4_UNORM      = 115
)

var dxgiKinds = map[uint32]format.Kind{
	DXGI_FORMAT_R16G16B16A16_FLOAT:  format.A16B16G16R16F,
	DXGI_FORMAT_R8G8B8A8_UNORM:      format.A8B8G8R8,
	DXGI_FORMAT_R8G8B8A8_UNORM_SRGB: format.A8B8G8R8,
	DXGI_FORMAT_R8_UNORM:            format.L8,
	DXGI_FORMAT_BC1_UNORM:           format.DXT1,
	DXGI_FORMAT_BC1_UNORM_SRGB:      format.DXT1,
	DXGI_FORMAT_BC2_UNORM:           format.DXT3,
	DXGI_FORMAT_BC2_UNORM_SRGB:      format.DXT3,
	DXGI_FORMAT_BC3_UNORM:           format.DXT5,
	DXGI_FORMAT_BC3_UNORM_SRGB:      format.DXT5,
	DXGI_FORMAT_B5G6R5_UNORM:        format.R5G6B5,
	DXGI_FORMAT_B8G8R8A8_UNORM:      format.A8R8G8B8,
	DXGI_FORMAT_B8G8R8A8_UNORM_SRGB: format.A8R8G8B8,
	DXGI_FORMAT_B4G4R4A4_UNORM:      format.A4R4G4B4,
}

// DDSHeader is the 124-byte DDS_HEADER that follows the magic.
type DDSHeader struct {
	Size              uint32
	Flags             uint32
	Height            uint32
	Width             uint32
	PitchOrLinearSize uint32
	Depth             uint32
	MipMapCount       uint32
	Reserved1         [11]uint32
	PixelFormat       format.Descriptor
	Caps              uint32
	Caps2             uint32
	Caps3             uint32
	Caps4             uint32
	Reserved2         uint32
}

// DX10Header is the extension present when the FourCC is "DX10".
type DX10Header struct {
	DXGIFormat        uint32
	ResourceDimension uint32
	MiscFlag          uint32
	ArraySize         uint32
	MiscFlags2        uint32
}

// EncodeTo writes magic and header to buf, which must hold DDS_FILE_HEADER
// bytes.
func (h *DDSHeader) EncodeTo(buf []byte) {
	le := binary.LittleEndian
	le.PutUint32(buf[0x00:], DDS_MAGIC)
	le.PutUint32(buf[0x04:], h.Size)
	le.PutUint32(buf[0x08:], h.Flags)
	le.PutUint32(buf[0x0C:], h.Height)
	le.PutUint32(buf[0x10:], h.Width)
	le.PutUint32(buf[0x14:], h.PitchOrLinearSize)
	le.PutUint32(buf[0x18:], h.Depth)
	le.PutUint32(buf[0x1C:], h.MipMapCount)
	for i, v := range h.Reserved1 {
		le.PutUint32(buf[0x20+i*4:], v)
	}

	pf := h.PixelFormat
	le.PutUint32(buf[0x4C:], DDS_PIXELFORMAT_SIZE)
	le.PutUint32(buf[0x50:], pf.Flags)
	le.PutUint32(buf[0x54:], uint32(pf.FourCC))
	le.PutUint32(buf[0x58:], pf.RGBBitCount)
	le.PutUint32(buf[0x5C:], pf.RBitMask)
	le.PutUint32(buf[0x60:], pf.GBitMask)
	le.PutUint32(buf[0x64:], pf.BBitMask)
	le.PutUint32(buf[0x68:], pf.ABitMask)

	le.PutUint32(buf[0x6C:], h.Caps)
	le.PutUint32(buf[0x70:], h.Caps2)
	le.PutUint32(buf[0x74:], h.Caps3)
	le.PutUint32(buf[0x78:], h.Caps4)
	le.PutUint32(buf[0x7C:], h.Reserved2)
}

// DecodeFrom reads the header from buf, magic included. It does not
// validate; use UnmarshalBinary for that.
func (h *DDSHeader) DecodeFrom(buf []byte) {
	le := binary.LittleEndian
	h.Size = le.Uint32(buf[0x04:])
	h.Flags = le.Uint32(buf[0x08:])
	h.Height = le.Uint32(buf[0x0C:])
	h.Width = le.Uint32(buf[0x10:])
	h.PitchOrLinearSize = le.Uint32(buf[0x14:])
	h.Depth = le.Uint32(buf[0x18:])
	h.MipMapCount = le.Uint32(buf[0x1C:])
	for i := range h.Reserved1 {
		h.Reserved1[i] = le.Uint32(buf[0x20+i*4:])
	}

	h.PixelFormat = format.Descriptor{
		Flags:       le.Uint32(buf[0x50:]),
		FourCC:      format.FourCC(le.Uint32(buf[0x54:])),
		RGBBitCount: le.Uint32(buf[0x58:]),
		RBitMask:    le.Uint32(buf[0x5C:]),
		GBitMask:    le.Uint32(buf[0x60:]),
		BBitMask:    le.Uint32(buf[0x64:]),
		ABitMask:    le.Uint32(buf[0x68:]),
	}

	h.Caps = le.Uint32(buf[0x6C:])
	h.Caps2 = le.Uint32(buf[0x70:])
	h.Caps3 = le.Uint32(buf[0x74:])
	h.Caps4 = le.Uint32(buf[0x78:])
	h.Reserved2 = le.Uint32(buf[0x7C:])
}

// MarshalBinary encodes magic and header.
func (h *DDSHeader) MarshalBinary() ([]byte, error) {
	buf := make([]byte, DDS_FILE_HEADER)
	h.EncodeTo(buf)
	return buf, nil
}

// UnmarshalBinary decodes magic and header, rejecting a short buffer or a
// wrong magic.
func (h *DDSHeader) UnmarshalBinary(data []byte) error {
	if len(data) < DDS_FILE_HEADER {
		return fmt.Errorf("%w: DDS header needs %d bytes, got %d", ErrInvalidContainer, DDS_FILE_HEADER, len(data))
	}
	if magic := binary.LittleEndian.Uint32(data); magic != DDS_MAGIC {
		return fmt.Errorf("%w: expected DDS magic 0x%08X, got 0x%08X", ErrInvalidContainer, DDS_MAGIC, magic)
	}
	h.DecodeFrom(data)
	return nil
}

// Meta extracts the shared texture properties.
func (h *DDSHeader) Meta() Meta {
	return Meta{
		Width:    h.Width,
		Height:   h.Height,
		MipCount: max(1, h.MipMapCount),
		Cubemap:  h.Caps2&DDS_CUBEMAP != 0,
	}
}

// DDS is a parsed DDS file.
type DDS struct {
	Header     DDSHeader
	DX10       *DX10Header
	Meta       Meta
	Descriptor format.Descriptor
	Body       []byte
}

// ParseDDS splits a DDS file into header information and body. A DX10
// extension is folded back to the legacy pixel format it corresponds to;
// formats without one keep the "DX10" FourCC and fail to resolve later.
func ParseDDS(data []byte) (*DDS, error) {
	d := &DDS{}
	if err := d.Header.UnmarshalBinary(data); err != nil {
		return nil, err
	}

	d.Meta = d.Header.Meta()
	d.Descriptor = d.Header.PixelFormat
	body := data[DDS_FILE_HEADER:]

	if d.Descriptor.FourCC == DX10_FOURCC {
		if len(body) < DX10_HEADER_SIZE {
			return nil, fmt.Errorf("%w: truncated DX10 header", ErrInvalidContainer)
		}

		le := binary.LittleEndian
		d.DX10 = &DX10Header{
			DXGIFormat:        le.Uint32(body[0:]),
			ResourceDimension: le.Uint32(body[4:]),
			MiscFlag:          le.Uint32(body[8:]),
			ArraySize:         le.Uint32(body[12:]),
			MiscFlags2:        le.Uint32(body[16:]),
		}
		body = body[DX10_HEADER_SIZE:]

		if kind, ok := dxgiKinds[d.DX10.DXGIFormat]; ok {
			d.Descriptor = kind.Descriptor()
		}
		if d.DX10.MiscFlag&DX10_MISC_TEXTURECUBE != 0 {
			d.Meta.Cubemap = true
		}
	}

	d.Body = body
	return d, nil
}

// NewDDSHeader fills a header for the given texture and pixel format.
func NewDDSHeader(m Meta, desc format.Descriptor) *DDSHeader {
	h := &DDSHeader{
		Size:        DDS_HEADER_SIZE,
		Flags:       DDS_HEADER_FLAGS_TEXTURE,
		Height:      m.Height,
		Width:       m.Width,
		PixelFormat: desc,
		Caps:        DDS_SURFACE_FLAGS_TEXTURE,
	}

	if kind := format.Classify(desc); kind != format.KindUnknown {
		if kind.Compressed() {
			h.Flags |= DDS_HEADER_FLAGS_LINEARSIZE
			h.PitchOrLinearSize = uint32(SurfaceSize(kind, m.Width, m.Height))
		} else {
			h.Flags |= DDS_HEADER_FLAGS_PITCH
			h.PitchOrLinearSize = m.Width * uint32(kind.BytesPerBlock())
		}
	}

	if m.Levels() > 1 {
		h.Flags |= DDS_HEADER_FLAGS_MIPMAPCOUNT
		h.MipMapCount = uint32(m.Levels())
		h.Caps |= DDS_SURFACE_FLAGS_COMPLEX | DDS_SURFACE_FLAGS_MIPMAP
	}

	if m.Cubemap {
		h.Caps |= DDS_SURFACE_FLAGS_COMPLEX
		h.Caps2 = DDS_CUBEMAP_ALLFACES
	}

	return h
}

// BuildDDS returns magic and header for a texture.
func BuildDDS(m Meta, desc format.Descriptor) []byte {
	buf, _ := NewDDSHeader(m, desc).MarshalBinary()
	return buf
}
