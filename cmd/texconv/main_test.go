package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KeyofBlueS/GBTVGRAC/pkg/archive"
	"github.com/KeyofBlueS/GBTVGRAC/pkg/convert"
	"github.com/KeyofBlueS/GBTVGRAC/pkg/format"
	"github.com/KeyofBlueS/GBTVGRAC/pkg/texture"
)

func writeDDS(t *testing.T, path string, meta texture.Meta, kind format.Kind) []byte {
	t.Helper()
	body := make([]byte, texture.ChainSize(kind, meta))
	for i := range body {
		body[i] = byte(i * 3)
	}
	data := append(texture.BuildDDS(meta, kind.Descriptor()), body...)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return body
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		input    string
		expected format.Platform
		wantErr  bool
	}{
		{"pc", format.PC, false},
		{"PS3", format.PS3, false},
		{"Xbox360", format.Xbox360, false},
		{" switch ", format.Switch, false},
		{"wii", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parsePlatform(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tt.input)
			}
			continue
		}
		if err != nil || got != tt.expected {
			t.Errorf("%q: expected %s, got %s (%v)", tt.input, tt.expected, got, err)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		src      string
		rel      string
		dest     string
		expected string
	}{
		{"next to input", cmdDDSToTEX, "in/a.dds", "a.dds", "", "in/a.tex"},
		{"flat dest", cmdTEXToDDS, "in/a.tex", "a.tex", "out", "out/a.dds"},
		{"kept layout", cmdDDSToTEX, "in/sub/b.DDS", "sub/b.DDS", "out", "out/sub/b.tex"},
		{"walked without dest", cmdDDSToTEX, "in/sub/b.dds", "sub/b.dds", "", "in/sub/b.tex"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPath(tt.command, filepath.FromSlash(tt.src), filepath.FromSlash(tt.rel), filepath.FromSlash(tt.dest))
			if got != filepath.FromSlash(tt.expected) {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestCollectJobs(t *testing.T) {
	dir := t.TempDir()
	meta := texture.Meta{Width: 4, Height: 4, MipCount: 1}
	writeDDS(t, filepath.Join(dir, "a.dds"), meta, format.DXT1)
	writeDDS(t, filepath.Join(dir, "sub", "b.dds"), meta, format.DXT1)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	jobs, err := collectJobs(cmdDDSToTEX, []string{dir}, "out")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d: %v", len(jobs), jobs)
	}

	dsts := map[string]bool{}
	for _, j := range jobs {
		dsts[j.dst] = true
	}
	for _, want := range []string{filepath.Join("out", "a.tex"), filepath.Join("out", "sub", "b.tex")} {
		if !dsts[want] {
			t.Errorf("expected output %s in %v", want, dsts)
		}
	}

	if _, err := collectJobs(cmdDDSToTEX, []string{filepath.Join(dir, "missing.dds")}, ""); err == nil {
		t.Error("expected error for missing input")
	}
}

func TestOverrideOutput(t *testing.T) {
	dir := t.TempDir()
	meta := texture.Meta{Width: 4, Height: 4, MipCount: 1}
	src := filepath.Join(dir, "a.dds")
	writeDDS(t, src, meta, format.DXT1)
	writeDDS(t, filepath.Join(dir, "b.dds"), meta, format.DXT1)

	jobs, err := collectJobs(cmdDDSToTEX, []string{src}, "out")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if err := overrideOutput(jobs, ""); err != nil || jobs[0].dst != filepath.Join("out", "a.tex") {
		t.Errorf("expected collected target to be kept, got %s (%v)", jobs[0].dst, err)
	}

	target := filepath.Join(dir, "renamed", "texture.tex")
	if err := overrideOutput(jobs, target); err != nil {
		t.Fatalf("override: %v", err)
	}
	if failed := runJobs(jobs, 1, jobSettings{command: cmdDDSToTEX, opts: convert.Options{Platform: format.PC}}); failed != 0 {
		t.Fatalf("expected no failures, got %d", failed)
	}
	if !texture.IsTEX(mustRead(t, target)) {
		t.Errorf("expected a TEX file at %s", target)
	}

	all, err := collectJobs(cmdDDSToTEX, []string{dir}, "")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if err := overrideOutput(all, target); err == nil {
		t.Error("expected error for several inputs")
	}
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}

func TestRunJobsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	meta := texture.Meta{Width: 128, Height: 128, MipCount: 1, Cubemap: true}
	src := filepath.Join(dir, "sky.dds")
	body := writeDDS(t, src, meta, format.A8R8G8B8)

	toTEX := jobSettings{
		command:   cmdDDSToTEX,
		opts:      convert.Options{Platform: format.PS3, Signature: convert.DefaultSignature},
		zstd:      true,
		zstdLevel: 3,
	}
	jobs, err := collectJobs(cmdDDSToTEX, []string{src}, filepath.Join(dir, "tex"))
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if failed := runJobs(jobs, 2, toTEX); failed != 0 {
		t.Fatalf("expected no failures, got %d", failed)
	}

	texPath := filepath.Join(dir, "tex", "sky.tex")
	wrapped, err := os.ReadFile(texPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !archive.IsWrapped(wrapped) {
		t.Fatal("expected ZSTD envelope")
	}

	// platform is detected from the PS3 cubemap code
	toDDS := jobSettings{command: cmdTEXToDDS}
	jobs, err = collectJobs(cmdTEXToDDS, []string{filepath.Join(dir, "tex")}, filepath.Join(dir, "dds"))
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if failed := runJobs(jobs, 0, toDDS); failed != 0 {
		t.Fatalf("expected no failures, got %d", failed)
	}

	back, err := os.ReadFile(filepath.Join(dir, "dds", "sky.dds"))
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	dds, err := texture.ParseDDS(back)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}
	if dds.Meta != meta {
		t.Errorf("expected meta %v, got %v", meta, dds.Meta)
	}
	if !bytes.Equal(dds.Body, body) {
		t.Error("body mismatch after round trip")
	}
}

func TestRunJobsFailures(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "rgba.dds")
	writeDDS(t, src, texture.Meta{Width: 4, Height: 4, MipCount: 1}, format.A8B8G8R8)

	s := jobSettings{command: cmdDDSToTEX, opts: convert.Options{Platform: format.PC}}
	if failed := runJobs([]job{{src: src, dst: filepath.Join(dir, "rgba.tex")}}, 1, s); failed != 1 {
		t.Errorf("expected 1 failure, got %d", failed)
	}
	if _, err := os.Stat(filepath.Join(dir, "rgba.tex")); !os.IsNotExist(err) {
		t.Error("expected no output for a failed conversion")
	}
}

func TestShowInfo(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.dds")
	writeDDS(t, src, texture.Meta{Width: 64, Height: 32, MipCount: 7}, format.DXT5)

	var buf bytes.Buffer
	if err := showInfo(&buf, src, jobSettings{}); err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{
		"Container: DDS",
		"Dimensions: 64x32",
		"Mip levels: 7",
		"TEX codes: pc=0x32 ps3=0x34 xbox360=0x33 switch=0x32",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, buf.String())
		}
	}

	s := jobSettings{command: cmdDDSToTEX, opts: convert.Options{Platform: format.Xbox360, Signature: convert.DefaultSignature}}
	jobs := []job{{src: src, dst: filepath.Join(dir, "a.tex")}}
	if failed := runJobs(jobs, 1, s); failed != 0 {
		t.Fatalf("expected no failures, got %d", failed)
	}

	buf.Reset()
	if err := showInfo(&buf, filepath.Join(dir, "a.tex"), jobSettings{}); err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{
		"Container: TEX",
		"Format code: 0x33 (DXT5 on xbox360)",
		"Defined on: xbox360",
		"Signature: KeyofBlueS",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, buf.String())
		}
	}
}

func TestAllowedKinds(t *testing.T) {
	if kinds := allowedKinds(false, false); len(kinds) != 0 {
		t.Errorf("expected no restriction, got %v", kinds)
	}
	if kinds := allowedKinds(true, true); len(kinds) != 2 || kinds[0] != format.DXT1 || kinds[1] != format.DXT5 {
		t.Errorf("expected DXT1 and DXT5, got %v", kinds)
	}
}
