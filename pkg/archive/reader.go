package archive

import (
	"fmt"

	"github.com/DataDog/zstd"
)

// Unwrap validates the envelope around data and returns the decompressed
// payload. ctx may be nil; callers unwrapping many files should pass one
// context per goroutine.
func Unwrap(ctx zstd.Ctx, data []byte) ([]byte, error) {
	h := &Header{}
	if err := h.UnmarshalBinary(data); err != nil {
		return nil, err
	}

	frame := data[HeaderSize:]
	if uint64(len(frame)) < h.CompressedLength {
		return nil, fmt.Errorf("%w: frame needs %d bytes, got %d", ErrInvalidHeader, h.CompressedLength, len(frame))
	}
	frame = frame[:h.CompressedLength]

	dst := make([]byte, h.Length)
	var (
		out []byte
		err error
	)
	if ctx != nil {
		out, err = ctx.Decompress(dst, frame)
	} else {
		out, err = zstd.Decompress(dst, frame)
	}
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}

	if uint64(len(out)) != h.Length {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrInvalidHeader, len(out), h.Length)
	}
	return out, nil
}
