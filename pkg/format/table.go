package format

import (
	"errors"
	"fmt"
)

// Code is a TEX format code. It is only meaningful together with the
// platform the TEX file was built for.
type Code uint32

func (c Code) String() string {
	return fmt.Sprintf("0x%02X", uint32(c))
}

// ErrUnsupportedFormat is matched by every *UnsupportedFormatError.
var ErrUnsupportedFormat = errors.New("unsupported format")

// UnsupportedFormatError names the descriptor or code a platform cannot
// represent.
type UnsupportedFormatError struct {
	Platform   Platform
	Descriptor Descriptor
	Code       Code
	Cubemap    bool
	byCode     bool
}

func (e *UnsupportedFormatError) Error() string {
	if e.byCode {
		return fmt.Sprintf("unsupported format code %s on %s", e.Code, e.Platform)
	}

	cube := ""
	if e.Cubemap {
		cube = " cubemap"
	}
	return fmt.Sprintf("unsupported%s pixel format (%s) on %s", cube, e.Descriptor, e.Platform)
}

// Is makes errors.Is(err, ErrUnsupportedFormat) hold.
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// Format is one resolved row of the table.
type Format struct {
	Kind       Kind
	Cubemap    bool
	Code       Code
	Descriptor Descriptor
}

type row struct {
	kind    Kind
	cubemap bool
	code    Code
	// alias rows are accepted by Describe but never produced by Resolve
	alias bool
}

// table holds one row set per platform. Kinds missing from a platform are
// rejected for it; a missing cubemap row rejects the cubemap variant only.
var table = map[Platform][]row{
	PC: {
		{kind: DXT1, code: 0x2B},
		{kind: DXT3, code: 0x17},
		{kind: DXT5, code: 0x32},
		{kind: A8R8G8B8, code: 0x03},
		{kind: A8R8G8B8, cubemap: true, code: 0x18},
		{kind: R5G6B5, code: 0x04},
		{kind: A4R4G4B4, code: 0x05},
		{kind: A16B16G16R16F, code: 0x2E},
		{kind: A8L8, code: 0x2F},
		{kind: L8, code: 0x37},
	},
	PS3: {
		{kind: DXT1, code: 0x2C},
		{kind: DXT3, code: 0x17},
		{kind: DXT5, code: 0x34},
		{kind: A8R8G8B8, code: 0x27},
		{kind: A8R8G8B8, cubemap: true, code: 0x26},
		{kind: R5G6B5, code: 0x04},
		{kind: A4R4G4B4, code: 0x05},
		{kind: A16B16G16R16F, code: 0x2E},
		{kind: A8L8, code: 0x31},
		{kind: L8, code: 0x37},
	},
	Xbox360: {
		{kind: DXT1, code: 0x28},
		{kind: DXT3, code: 0x17},
		{kind: DXT5, code: 0x33},
		{kind: A8R8G8B8, code: 0x16},
		{kind: A8R8G8B8, cubemap: true, code: 0x36},
		{kind: A8R8G8B8, cubemap: true, code: 0x1B, alias: true},
		{kind: A8B8G8R8, code: 0x19},
		{kind: A8B8G8R8, cubemap: true, code: 0x1A},
		{kind: R5G6B5, code: 0x04},
		{kind: A4R4G4B4, code: 0x05},
		{kind: A16B16G16R16F, code: 0x2E},
		{kind: A8L8, code: 0x30},
		{kind: L8, code: 0x37},
	},
	Switch: {
		{kind: DXT1, code: 0x2B},
		{kind: DXT3, code: 0x17},
		{kind: DXT5, code: 0x32},
		{kind: A8R8G8B8, code: 0x03},
		{kind: A8R8G8B8, cubemap: true, code: 0x18},
		{kind: A8B8G8R8, code: 0x38},
		{kind: A8B8G8R8, cubemap: true, code: 0x39},
		{kind: R5G6B5, code: 0x04},
		{kind: A4R4G4B4, code: 0x05},
		{kind: A16B16G16R16F, code: 0x2E},
		{kind: A8L8, code: 0x2F},
		{kind: L8, code: 0x37},
	},
}

// Resolve maps a pixel format descriptor to the platform's format code.
func Resolve(d Descriptor, cubemap bool, p Platform) (Code, error) {
	kind := Classify(d)
	if kind != KindUnknown {
		for _, r := range table[p] {
			if r.kind == kind && r.cubemap == cubemap && !r.alias {
				return r.code, nil
			}
		}
	}

	return 0, &UnsupportedFormatError{Platform: p, Descriptor: d, Cubemap: cubemap}
}

// Lookup returns the table row for a code on the given platform.
func Lookup(c Code, p Platform) (Format, error) {
	for _, r := range table[p] {
		if r.code == c {
			return Format{
				Kind:       r.kind,
				Cubemap:    r.cubemap,
				Code:       c,
				Descriptor: r.kind.Descriptor(),
			}, nil
		}
	}

	return Format{}, &UnsupportedFormatError{Platform: p, Code: c, byCode: true}
}

// Describe is the inverse of Resolve: it returns the canonical descriptor
// and cubemap flag a code stands for on the platform.
func Describe(c Code, p Platform) (Descriptor, bool, error) {
	f, err := Lookup(c, p)
	if err != nil {
		return Descriptor{}, false, err
	}
	return f.Descriptor, f.Cubemap, nil
}

// Platforms lists the platforms that define the code.
func Platforms(c Code) []Platform {
	var out []Platform
	for _, p := range AllPlatforms {
		if _, err := Lookup(c, p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

// Codes returns every code Resolve can produce on the platform, alias rows
// excluded.
func Codes(p Platform) []Code {
	var out []Code
	for _, r := range table[p] {
		if !r.alias {
			out = append(out, r.code)
		}
	}
	return out
}
