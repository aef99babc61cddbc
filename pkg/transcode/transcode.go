// Package transcode moves texture bodies between row-major order and the
// physical layout of a target platform.
//
// A body is the face-major, mip-minor chain that follows the container
// header. Every fully present surface of the chain is re-addressed with the
// layout of its format code; bytes past the last full surface are carried
// over unchanged. The output always has the length of the input.
package transcode

import (
	"errors"
	"fmt"

	"github.com/KeyofBlueS/GBTVGRAC/pkg/format"
	"github.com/KeyofBlueS/GBTVGRAC/pkg/swizzle"
	"github.com/KeyofBlueS/GBTVGRAC/pkg/texture"
)

var (
	// ErrMalformedBuffer is returned for bodies that are too short for their
	// first surface or whose length does not fit a byte-order pass.
	ErrMalformedBuffer = swizzle.ErrMalformedBuffer

	// ErrUnsupportedDirection is returned for layouts that can only be
	// produced, not undone.
	ErrUnsupportedDirection = errors.New("unsupported direction")
)

// Result is a transcoded body.
type Result struct {
	Data []byte
	// Skipped counts blocks whose computed address fell outside the
	// surface or collided with an earlier block. They are not written.
	Skipped int
}

type surface struct {
	offset        int
	size          int
	width, height uint32
}

// surfaces lists the surfaces of the chain that fit entirely in n bytes.
func surfaces(k format.Kind, m texture.Meta, n int) []surface {
	var out []surface
	offset := 0
	for face := 0; face < m.Faces(); face++ {
		for level := 0; level < m.Levels(); level++ {
			w, h := texture.MipSize(m.Width, m.Height, level)
			size := texture.SurfaceSize(k, w, h)
			if size > n-offset {
				return out
			}
			out = append(out, surface{offset: offset, size: size, width: w, height: h})
			offset += size
		}
	}
	return out
}

// Transcode re-addresses the body buf of a texture stored with the given
// format code on platform p. buf is never modified.
func Transcode(buf []byte, m texture.Meta, code format.Code, p format.Platform, dir Direction) (*Result, error) {
	f, params, err := Lookup(code, p)
	if err != nil {
		return nil, err
	}
	return Apply(buf, m, f.Kind, params, dir)
}

// Apply is Transcode with the format and layout already resolved.
func Apply(buf []byte, m texture.Meta, k format.Kind, params Params, dir Direction) (*Result, error) {
	if params.Algorithm == BlockLinear && dir == ToLinear {
		return nil, fmt.Errorf("%w: %s layouts cannot be converted back", ErrUnsupportedDirection, params.Algorithm)
	}

	first := texture.SurfaceSize(k, m.Width, m.Height)
	if len(buf) < first {
		return nil, fmt.Errorf("%w: first surface needs %d bytes, got %d", ErrMalformedBuffer, first, len(buf))
	}
	if params.Post.Has(Swap16) && len(buf)%2 != 0 {
		return nil, fmt.Errorf("%w: odd body length %d", ErrMalformedBuffer, len(buf))
	}

	list := surfaces(k, m, len(buf))
	covered := 0
	if n := len(list); n > 0 {
		covered = list[n-1].offset + list[n-1].size
	}

	if dir == ToNative {
		res, err := relayout(buf, list, params, dir)
		if err != nil {
			return nil, err
		}
		if err := post(res.Data, covered, params, dir); err != nil {
			return nil, err
		}
		return res, nil
	}

	work := make([]byte, len(buf))
	copy(work, buf)
	if err := post(work, covered, params, dir); err != nil {
		return nil, err
	}
	return relayout(work, list, params, dir)
}

// relayout copies src and re-addresses every listed surface of the copy.
func relayout(src []byte, list []surface, params Params, dir Direction) (*Result, error) {
	res := &Result{Data: make([]byte, len(src))}
	copy(res.Data, src)
	if params.Algorithm == None {
		return res, nil
	}

	bp, bpb := params.BlockPixels, params.BytesPerBlock
	for _, s := range list {
		from := src[s.offset : s.offset+s.size]
		to := res.Data[s.offset : s.offset+s.size]
		wb := (int(s.width) + bp - 1) / bp
		hb := (int(s.height) + bp - 1) / bp

		switch params.Algorithm {
		case Tiled:
			if dir == ToNative {
				res.Skipped += swizzle.Tile(to, from, wb, hb, bpb)
			} else {
				res.Skipped += swizzle.Untile(to, from, wb, hb, bpb)
			}
		case Morton:
			if dir == ToNative {
				res.Skipped += swizzle.Morton(to, from, wb, hb, bpb)
			} else {
				res.Skipped += swizzle.Unmorton(to, from, wb, hb, bpb)
			}
		case BlockLinear:
			out, err := swizzle.BlockLinear(from, int(s.width), int(s.height), bp, bpb, params.TileWidth)
			if err != nil {
				return nil, err
			}
			copy(to, out)
		default:
			return nil, fmt.Errorf("unknown algorithm %s", params.Algorithm)
		}
	}
	return res, nil
}

// post runs the byte-order passes. When converting to the native layout
// they follow the block moves; when converting back they precede them, in
// reverse order. Swap16 covers the whole buffer, texel passes the
// re-addressed part.
func post(buf []byte, covered int, params Params, dir Direction) error {
	texels := buf[:covered]

	swap := func() error {
		if params.Post.Has(Swap16) {
			return swizzle.Swap16(buf)
		}
		return nil
	}
	reorder := func(order [4]int) error {
		if params.Post.Has(ReorderARGB) {
			return swizzle.Permute4(texels, order)
		}
		return nil
	}
	reverse := func() error {
		if params.Post.Has(ReverseTexel) {
			return swizzle.ReverseUnits(texels, params.BytesPerBlock)
		}
		return nil
	}
	nibbles := func() error {
		if params.Post.Has(NibbleSwap) {
			swizzle.SwapNibbles(texels)
		}
		return nil
	}

	steps := []func() error{
		swap,
		func() error { return reorder(swizzle.ARGBToRGBA) },
		reverse,
		nibbles,
	}
	if dir == ToLinear {
		steps = []func() error{
			nibbles,
			reverse,
			func() error { return reorder(swizzle.RGBAToARGB) },
			swap,
		}
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
