package transcode

import (
	"fmt"

	"github.com/KeyofBlueS/GBTVGRAC/pkg/format"
	"github.com/KeyofBlueS/GBTVGRAC/pkg/swizzle"
)

// Direction selects which way a body is re-addressed.
type Direction uint8

const (
	// ToNative converts a linear body into the platform layout.
	ToNative Direction = iota
	// ToLinear converts a platform body back to row-major order.
	ToLinear
)

func (d Direction) String() string {
	if d == ToLinear {
		return "to-linear"
	}
	return "to-native"
}

// Algorithm is the block re-addressing scheme of a platform.
type Algorithm uint8

const (
	None Algorithm = iota
	Tiled
	Morton
	BlockLinear
)

var algorithmNames = [...]string{
	None:        "none",
	Tiled:       "tiled",
	Morton:      "morton",
	BlockLinear: "block-linear",
}

func (a Algorithm) String() string {
	if int(a) < len(algorithmNames) {
		return algorithmNames[a]
	}
	return fmt.Sprintf("Algorithm(%d)", uint8(a))
}

// Post is a set of byte-order passes applied around the block re-addressing.
type Post uint8

const (
	// Swap16 byte-swaps every 16-bit unit of the body.
	Swap16 Post = 1 << iota
	// ReorderARGB moves A,R,G,B texels to R,G,B,A.
	ReorderARGB
	// ReverseTexel reverses the bytes of every texel.
	ReverseTexel
	// NibbleSwap exchanges the nibbles of every byte.
	NibbleSwap
)

// Has reports whether all passes in q are set.
func (p Post) Has(q Post) bool {
	return p&q == q
}

func (p Post) String() string {
	if p == 0 {
		return "none"
	}

	s := ""
	for _, n := range []struct {
		pass Post
		name string
	}{
		{Swap16, "swap16"},
		{ReorderARGB, "argb>rgba"},
		{ReverseTexel, "reverse"},
		{NibbleSwap, "nibble"},
	} {
		if p.Has(n.pass) {
			if s != "" {
				s += "+"
			}
			s += n.name
		}
	}
	return s
}

// Params describes how the body of one format code is laid out on a
// platform.
type Params struct {
	Algorithm     Algorithm
	BlockPixels   int
	BytesPerBlock int
	TileWidth     int // pixel padding before block-linear swizzling
	TileHeight    int
	Post          Post
}

func (p Params) String() string {
	return fmt.Sprintf("%s %d/%d post=%s", p.Algorithm, p.BlockPixels, p.BytesPerBlock, p.Post)
}

// dispatch holds the layout rule of every platform. Platforms with a linear
// layout map every kind to None.
var dispatch = map[format.Platform]func(format.Kind) Params{
	format.PC: func(format.Kind) Params {
		return Params{Algorithm: None}
	},
	format.Xbox360: func(k format.Kind) Params {
		p := Params{Algorithm: Tiled, Post: Swap16}
		if k == format.A8R8G8B8 {
			p.Post |= ReorderARGB
		}
		return p
	},
	format.PS3: func(k format.Kind) Params {
		switch {
		case k.Compressed():
			return Params{Algorithm: None}
		case k == format.A16B16G16R16F:
			return Params{Algorithm: Morton, Post: Swap16}
		case k == format.A4R4G4B4:
			return Params{Algorithm: Morton, Post: ReverseTexel | NibbleSwap}
		case k.BytesPerBlock() > 1:
			return Params{Algorithm: Morton, Post: ReverseTexel}
		}
		return Params{Algorithm: Morton}
	},
	format.Switch: func(format.Kind) Params {
		return Params{
			Algorithm:  BlockLinear,
			TileWidth:  swizzle.DefaultTileSize,
			TileHeight: swizzle.DefaultTileSize,
		}
	},
}

// ParamsFor returns the layout parameters of a resolved format.
func ParamsFor(f format.Format, p format.Platform) (Params, error) {
	rule, ok := dispatch[p]
	if !ok {
		return Params{}, fmt.Errorf("no layout for platform %s", p)
	}

	params := rule(f.Kind)
	params.BlockPixels = f.Kind.BlockPixels()
	params.BytesPerBlock = f.Kind.BytesPerBlock()
	return params, nil
}

// Lookup resolves a format code and returns its format alongside its layout
// parameters.
func Lookup(code format.Code, p format.Platform) (format.Format, Params, error) {
	f, err := format.Lookup(code, p)
	if err != nil {
		return format.Format{}, Params{}, err
	}

	params, err := ParamsFor(f, p)
	if err != nil {
		return format.Format{}, Params{}, err
	}
	return f, params, nil
}
