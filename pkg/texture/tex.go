package texture

import (
	"encoding/binary"
	"fmt"

	"github.com/KeyofBlueS/GBTVGRAC/pkg/format"
)

// TEX header layout
const (
	TEX_MAGIC       = 0x00000007 // stored as the version field
	TEX_HEADER_SIZE = 0x34
	TEX_HASH_SIZE   = 16
)

// TEXHeader is the fixed 52-byte TEX header.
type TEXHeader struct {
	Version   uint32              // +0x00: always TEX_MAGIC
	Hash      [TEX_HASH_SIZE]byte // +0x04: unused by the converters
	Unknown14 uint32              // +0x14
	Format    format.Code         // +0x18: platform format code
	Width     uint32              // +0x1C
	Height    uint32              // +0x20
	Unknown24 uint32              // +0x24
	MipCount  uint32              // +0x28: levels minus one
	Unknown2C uint32              // +0x2C
	Unknown30 uint32              // +0x30
}

// EncodeTo writes the header into buf, which must hold TEX_HEADER_SIZE bytes.
func (h *TEXHeader) EncodeTo(buf []byte) {
	le := binary.LittleEndian
	le.PutUint32(buf[0x00:], h.Version)
	copy(buf[0x04:0x14], h.Hash[:])
	le.PutUint32(buf[0x14:], h.Unknown14)
	le.PutUint32(buf[0x18:], uint32(h.Format))
	le.PutUint32(buf[0x1C:], h.Width)
	le.PutUint32(buf[0x20:], h.Height)
	le.PutUint32(buf[0x24:], h.Unknown24)
	le.PutUint32(buf[0x28:], h.MipCount)
	le.PutUint32(buf[0x2C:], h.Unknown2C)
	le.PutUint32(buf[0x30:], h.Unknown30)
}

// DecodeFrom reads the header from buf without validating it.
func (h *TEXHeader) DecodeFrom(buf []byte) {
	le := binary.LittleEndian
	h.Version = le.Uint32(buf[0x00:])
	copy(h.Hash[:], buf[0x04:0x14])
	h.Unknown14 = le.Uint32(buf[0x14:])
	h.Format = format.Code(le.Uint32(buf[0x18:]))
	h.Width = le.Uint32(buf[0x1C:])
	h.Height = le.Uint32(buf[0x20:])
	h.Unknown24 = le.Uint32(buf[0x24:])
	h.MipCount = le.Uint32(buf[0x28:])
	h.Unknown2C = le.Uint32(buf[0x2C:])
	h.Unknown30 = le.Uint32(buf[0x30:])
}

// MarshalBinary encodes the header.
func (h *TEXHeader) MarshalBinary() ([]byte, error) {
	buf := make([]byte, TEX_HEADER_SIZE)
	h.EncodeTo(buf)
	return buf, nil
}

// UnmarshalBinary decodes and validates the header.
func (h *TEXHeader) UnmarshalBinary(data []byte) error {
	if len(data) < TEX_HEADER_SIZE {
		return fmt.Errorf("%w: TEX header needs %d bytes, got %d", ErrInvalidContainer, TEX_HEADER_SIZE, len(data))
	}
	h.DecodeFrom(data)
	if h.Version != TEX_MAGIC {
		return fmt.Errorf("%w: expected TEX version 0x%08X, got 0x%08X", ErrInvalidContainer, TEX_MAGIC, h.Version)
	}
	return nil
}

// IsTEX reports whether data starts with the TEX signature.
func IsTEX(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data) == TEX_MAGIC
}

// IsDDS reports whether data starts with the DDS magic.
func IsDDS(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data) == DDS_MAGIC
}

// TEX is a parsed TEX file.
type TEX struct {
	Header TEXHeader
	Format format.Format
	Meta   Meta
	Body   []byte
}

// ParseTEX splits a TEX file into header information and body. The format
// code is looked up for the given platform since the file does not record
// which platform it was built for.
func ParseTEX(data []byte, p format.Platform) (*TEX, error) {
	t := &TEX{}
	if err := t.Header.UnmarshalBinary(data); err != nil {
		return nil, err
	}

	f, err := format.Lookup(t.Header.Format, p)
	if err != nil {
		return nil, err
	}

	t.Format = f
	t.Meta = Meta{
		Width:    t.Header.Width,
		Height:   t.Header.Height,
		MipCount: t.Header.MipCount + 1,
		Cubemap:  f.Cubemap,
	}
	t.Body = data[TEX_HEADER_SIZE:]
	return t, nil
}

// NewTEXHeader fills a header for the given texture and format code.
func NewTEXHeader(m Meta, code format.Code) *TEXHeader {
	return &TEXHeader{
		Version:  TEX_MAGIC,
		Format:   code,
		Width:    m.Width,
		Height:   m.Height,
		MipCount: uint32(m.Levels() - 1),
	}
}

// BuildTEX returns the header bytes for a texture.
func BuildTEX(m Meta, code format.Code) []byte {
	buf, _ := NewTEXHeader(m, code).MarshalBinary()
	return buf
}
