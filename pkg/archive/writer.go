package archive

import (
	"fmt"
	"io"

	"github.com/DataDog/zstd"
)

// DefaultCompressionLevel is used when no level is given.
const DefaultCompressionLevel = zstd.DefaultCompression

// Writer streams a payload into an envelope. The header is written up front
// with a zero compressed length and patched on Close.
type Writer struct {
	dst     io.WriteSeeker
	start   int64
	zWriter *zstd.Writer
	header  *Header
	level   int
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithCompressionLevel sets the zstd level.
func WithCompressionLevel(level int) WriterOption {
	return func(w *Writer) {
		w.level = level
	}
}

// NewWriter starts an envelope at the current position of dst for a payload
// of length bytes.
func NewWriter(dst io.WriteSeeker, length uint64, opts ...WriterOption) (*Writer, error) {
	start, err := dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("get position: %w", err)
	}

	w := &Writer{
		dst:    dst,
		start:  start,
		level:  DefaultCompressionLevel,
		header: NewHeader(length, 0),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.writeHeader(); err != nil {
		return nil, err
	}

	w.zWriter = zstd.NewWriterLevel(dst, w.level)
	return w, nil
}

func (w *Writer) writeHeader() error {
	buf, _ := w.header.MarshalBinary()
	if _, err := w.dst.Write(buf); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

func (w *Writer) Write(p []byte) (int, error) {
	return w.zWriter.Write(p)
}

// Close flushes the zstd frame and patches the compressed length into the
// header. dst is left positioned after the frame.
func (w *Writer) Close() error {
	if err := w.zWriter.Close(); err != nil {
		return fmt.Errorf("close compressor: %w", err)
	}

	end, err := w.dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("get position: %w", err)
	}
	w.header.CompressedLength = uint64(end - w.start - HeaderSize)

	if _, err := w.dst.Seek(w.start, io.SeekStart); err != nil {
		return fmt.Errorf("seek to header: %w", err)
	}
	if err := w.writeHeader(); err != nil {
		return err
	}
	if _, err := w.dst.Seek(end, io.SeekStart); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}
	return nil
}

// Encode writes data to dst as one envelope.
func Encode(dst io.WriteSeeker, data []byte, opts ...WriterOption) error {
	w, err := NewWriter(dst, uint64(len(data)), opts...)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	return w.Close()
}
