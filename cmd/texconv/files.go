package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/DataDog/zstd"
	"github.com/sirupsen/logrus"

	"github.com/KeyofBlueS/GBTVGRAC/pkg/archive"
	"github.com/KeyofBlueS/GBTVGRAC/pkg/convert"
)

// readInput loads a file, removing a ZSTD envelope when present.
func readInput(path string, zctx zstd.Ctx) ([]byte, error) {
	data, err := os.ReadFile(path) //#nosec:G304 // Intended to open arbitrary files
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if archive.IsWrapped(data) {
		if data, err = archive.Unwrap(zctx, data); err != nil {
			return nil, fmt.Errorf("unwrap input: %w", err)
		}
		logrus.WithField("file", path).Debug("unwrapped ZSTD envelope")
	}
	return data, nil
}

// writeOutput creates path and its parent directories and stores out,
// optionally inside a ZSTD envelope.
func writeOutput(path string, out *convert.Output, wrap bool, level int) (err error) {
	if err = os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(path) //#nosec:G304 // Intended to create files at given location
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()

	if wrap {
		if err = archive.Encode(f, out.Bytes(), archive.WithCompressionLevel(level)); err != nil {
			return fmt.Errorf("write envelope: %w", err)
		}
		return nil
	}

	if _, err = out.WriteTo(f); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
