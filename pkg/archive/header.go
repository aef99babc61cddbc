// Package archive stores converted texture files inside a small ZSTD
// envelope: a 24-byte header recording both sizes, followed by a single
// zstd frame. Inputs carrying the envelope are recognised by their magic.
// The game does not read enveloped files; unwrap them before installing.
package archive

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Magic opens every wrapped file.
var Magic = [4]byte{'Z', 'S', 'T', 'D'}

const (
	// HeaderSize is the encoded size of Header.
	HeaderSize = 24

	// headerLength is the byte count following the HeaderLength field.
	headerLength = 16

	// MaxLength bounds the uncompressed size accepted from a header.
	MaxLength = 1 << 30
)

// ErrInvalidHeader is returned for envelopes that are truncated or whose
// header fields do not add up.
var ErrInvalidHeader = errors.New("invalid archive header")

// Header leads a wrapped file.
type Header struct {
	Magic            [4]byte
	HeaderLength     uint32
	Length           uint64 // payload size once decompressed
	CompressedLength uint64 // size of the zstd frame
}

// NewHeader returns a header for a payload of the given sizes.
func NewHeader(length, compressedLength uint64) *Header {
	return &Header{
		Magic:            Magic,
		HeaderLength:     headerLength,
		Length:           length,
		CompressedLength: compressedLength,
	}
}

// Validate checks the fixed fields and size bounds.
func (h *Header) Validate() error {
	switch {
	case h.Magic != Magic:
		return fmt.Errorf("%w: magic %q", ErrInvalidHeader, h.Magic[:])
	case h.HeaderLength != headerLength:
		return fmt.Errorf("%w: header length %d", ErrInvalidHeader, h.HeaderLength)
	case h.Length == 0 || h.Length > MaxLength:
		return fmt.Errorf("%w: payload length %d", ErrInvalidHeader, h.Length)
	case h.CompressedLength == 0:
		return fmt.Errorf("%w: compressed length is zero", ErrInvalidHeader)
	}
	return nil
}

// EncodeTo writes the header to buf, which must hold HeaderSize bytes.
func (h *Header) EncodeTo(buf []byte) {
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.HeaderLength)
	binary.LittleEndian.PutUint64(buf[8:16], h.Length)
	binary.LittleEndian.PutUint64(buf[16:24], h.CompressedLength)
}

// DecodeFrom reads the header from buf without validating it.
func (h *Header) DecodeFrom(buf []byte) {
	copy(h.Magic[:], buf[0:4])
	h.HeaderLength = binary.LittleEndian.Uint32(buf[4:8])
	h.Length = binary.LittleEndian.Uint64(buf[8:16])
	h.CompressedLength = binary.LittleEndian.Uint64(buf[16:24])
}

func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	h.EncodeTo(buf)
	return buf, nil
}

func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: need %d bytes, got %d", ErrInvalidHeader, HeaderSize, len(data))
	}
	h.DecodeFrom(data)
	return h.Validate()
}

// IsWrapped reports whether data starts with the envelope magic.
func IsWrapped(data []byte) bool {
	return len(data) >= len(Magic) && bytes.Equal(data[:len(Magic)], Magic[:])
}
