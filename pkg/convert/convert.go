// Package convert turns DDS files into TEX files for a platform and back.
//
// Each direction parses the source container, resolves the format code,
// re-addresses the body through package transcode and assembles the target
// container. Nothing here touches the file system.
package convert

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KeyofBlueS/GBTVGRAC/pkg/format"
	"github.com/KeyofBlueS/GBTVGRAC/pkg/texture"
	"github.com/KeyofBlueS/GBTVGRAC/pkg/transcode"
)

// ErrCompressionRequired is returned when the source format is not one of
// the kinds a conversion was restricted to.
var ErrCompressionRequired = errors.New("compression required")

// DefaultSignature is stamped at the start of the hash field of generated
// TEX headers. The game does not check the field.
var DefaultSignature = []byte("KeyofBlueS")

// Options controls DDS to TEX conversion.
type Options struct {
	Platform format.Platform
	// Allowed restricts the accepted source kinds. Empty accepts every kind
	// the platform defines.
	Allowed []format.Kind
	// Signature is copied into the TEX hash field, truncated to fit.
	Signature []byte
}

func (o Options) allows(k format.Kind) bool {
	if len(o.Allowed) == 0 {
		return true
	}
	for _, a := range o.Allowed {
		if a == k {
			return true
		}
	}
	return false
}

// Output is a converted file.
type Output struct {
	Header  []byte
	Body    []byte
	Format  format.Format
	Meta    texture.Meta
	Skipped int // blocks dropped while re-addressing
}

// Bytes returns header and body as one file.
func (o *Output) Bytes() []byte {
	out := make([]byte, 0, len(o.Header)+len(o.Body))
	out = append(out, o.Header...)
	return append(out, o.Body...)
}

// WriteTo writes header and body to w.
func (o *Output) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(o.Header)
	if err != nil {
		return int64(n), err
	}
	m, err := w.Write(o.Body)
	return int64(n + m), err
}

// DDSToTEX converts a DDS file to a TEX file for opts.Platform.
func DDSToTEX(data []byte, opts Options) (*Output, error) {
	dds, err := texture.ParseDDS(data)
	if err != nil {
		return nil, fmt.Errorf("parse dds: %w", err)
	}

	code, err := format.Resolve(dds.Descriptor, dds.Meta.Cubemap, opts.Platform)
	if err != nil {
		return nil, err
	}

	f, params, err := transcode.Lookup(code, opts.Platform)
	if err != nil {
		return nil, err
	}
	if !opts.allows(f.Kind) {
		return nil, fmt.Errorf("%w: must use %s, got %s", ErrCompressionRequired, kindList(opts.Allowed), f.Kind)
	}

	res, err := transcode.Apply(dds.Body, dds.Meta, f.Kind, params, transcode.ToNative)
	if err != nil {
		return nil, fmt.Errorf("transcode: %w", err)
	}

	h := texture.NewTEXHeader(dds.Meta, code)
	copy(h.Hash[:], opts.Signature)
	header, _ := h.MarshalBinary()

	return &Output{
		Header:  header,
		Body:    res.Data,
		Format:  f,
		Meta:    dds.Meta,
		Skipped: res.Skipped,
	}, nil
}

// TEXToDDS converts a TEX file built for platform p back to a linear DDS
// file.
func TEXToDDS(data []byte, p format.Platform) (*Output, error) {
	tex, err := texture.ParseTEX(data, p)
	if err != nil {
		return nil, fmt.Errorf("parse tex: %w", err)
	}

	res, err := transcode.Transcode(tex.Body, tex.Meta, tex.Format.Code, p, transcode.ToLinear)
	if err != nil {
		return nil, fmt.Errorf("transcode: %w", err)
	}

	return &Output{
		Header:  texture.BuildDDS(tex.Meta, tex.Format.Descriptor),
		Body:    res.Data,
		Format:  tex.Format,
		Meta:    tex.Meta,
		Skipped: res.Skipped,
	}, nil
}

// DetectPlatform guesses the platform of a TEX file from its format code.
// Codes shared with PC are taken as PC; every other code is defined by a
// single platform.
func DetectPlatform(data []byte) (format.Platform, error) {
	h := &texture.TEXHeader{}
	if err := h.UnmarshalBinary(data); err != nil {
		return 0, err
	}

	platforms := format.Platforms(h.Format)
	if len(platforms) == 0 {
		return 0, fmt.Errorf("%w: code %s is not defined on any platform", format.ErrUnsupportedFormat, h.Format)
	}
	return platforms[0], nil
}

func kindList(kinds []format.Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, " or ")
}
