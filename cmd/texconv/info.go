package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/KeyofBlueS/GBTVGRAC/pkg/convert"
	"github.com/KeyofBlueS/GBTVGRAC/pkg/format"
	"github.com/KeyofBlueS/GBTVGRAC/pkg/texture"
)

// showInfo prints the header information of a DDS or TEX file along with
// the codes it maps to.
func showInfo(w io.Writer, path string, s jobSettings) error {
	data, err := readInput(path, nil)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "File: %s\n", path)

	switch {
	case texture.IsDDS(data):
		return showDDS(w, data)
	case texture.IsTEX(data):
		return showTEX(w, data, s)
	}
	return fmt.Errorf("%w: neither DDS nor TEX", texture.ErrInvalidContainer)
}

func showDDS(w io.Writer, data []byte) error {
	dds, err := texture.ParseDDS(data)
	if err != nil {
		return err
	}
	kind := format.Classify(dds.Descriptor)

	fmt.Fprintf(w, "Container: DDS\n")
	printMeta(w, dds.Meta)
	fmt.Fprintf(w, "Pixel format: %s (%s)\n", kind, dds.Descriptor)
	printBody(w, len(dds.Body), texture.ChainSize(kind, dds.Meta))

	codes := make([]string, 0, len(format.AllPlatforms))
	for _, p := range format.AllPlatforms {
		code, err := format.Resolve(dds.Descriptor, dds.Meta.Cubemap, p)
		if err != nil {
			codes = append(codes, p.String()+"=unsupported")
			continue
		}
		codes = append(codes, fmt.Sprintf("%s=%s", p, code))
	}
	fmt.Fprintf(w, "TEX codes: %s\n", strings.Join(codes, " "))
	return nil
}

func showTEX(w io.Writer, data []byte, s jobSettings) error {
	p, err := s.sourcePlatform(data)
	if err != nil {
		return err
	}

	tex, err := texture.ParseTEX(data, p)
	if err != nil {
		return err
	}

	defined := make([]string, 0, len(format.AllPlatforms))
	for _, dp := range format.Platforms(tex.Format.Code) {
		defined = append(defined, dp.String())
	}

	fmt.Fprintf(w, "Container: TEX\n")
	printMeta(w, tex.Meta)
	fmt.Fprintf(w, "Format code: %s (%s on %s)\n", tex.Format.Code, tex.Format.Kind, p)
	fmt.Fprintf(w, "Defined on: %s\n", strings.Join(defined, ", "))
	if sig := strings.TrimRight(string(tex.Header.Hash[:]), "\x00"); sig == string(convert.DefaultSignature) {
		fmt.Fprintf(w, "Signature: %s\n", sig)
	}
	printBody(w, len(tex.Body), texture.ChainSize(tex.Format.Kind, tex.Meta))
	return nil
}

func printMeta(w io.Writer, m texture.Meta) {
	fmt.Fprintf(w, "Dimensions: %dx%d\n", m.Width, m.Height)
	fmt.Fprintf(w, "Mip levels: %d\n", m.Levels())
	fmt.Fprintf(w, "Cubemap: %t\n", m.Cubemap)
}

func printBody(w io.Writer, size, expected int) {
	fmt.Fprintf(w, "Data size: %d bytes (%.2f KB, chain needs %d)\n", size, float64(size)/1024, expected) //nolint:mnd
}
