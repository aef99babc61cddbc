package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/DataDog/zstd"
	"github.com/sirupsen/logrus"

	"github.com/KeyofBlueS/GBTVGRAC/pkg/convert"
	"github.com/KeyofBlueS/GBTVGRAC/pkg/format"
)

type job struct {
	src string
	dst string
}

type jobSettings struct {
	command     string
	opts        convert.Options
	platformSet bool
	zstd        bool
	zstdLevel   int
}

var (
	inputExtensions  = map[string]string{cmdDDSToTEX: ".dds", cmdTEXToDDS: ".tex"}
	outputExtensions = map[string]string{cmdDDSToTEX: ".tex", cmdTEXToDDS: ".dds"}
)

func matchesInput(command, path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if command == cmdInfo {
		return ext == ".dds" || ext == ".tex"
	}
	return ext == inputExtensions[command]
}

// outputPath places the converted file below dest, keeping rel, or next to
// src when no destination is given.
func outputPath(command, src, rel, dest string) string {
	name := strings.TrimSuffix(rel, filepath.Ext(rel)) + outputExtensions[command]
	if dest == "" {
		return filepath.Join(filepath.Dir(src), filepath.Base(name))
	}
	return filepath.Join(dest, name)
}

// collectJobs expands inputs into single files. Files given by name are
// taken as they are; directories are walked for the command's extension.
func collectJobs(command string, inputs []string, dest string) ([]job, error) {
	var jobs []job
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("accessing input: %w", err)
		}

		if !info.IsDir() {
			jobs = append(jobs, job{src: in, dst: outputPath(command, in, filepath.Base(in), dest)})
			continue
		}

		err = filepath.WalkDir(in, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !matchesInput(command, path) {
				return nil
			}

			rel, err := filepath.Rel(in, path)
			if err != nil {
				return err
			}
			jobs = append(jobs, job{src: path, dst: outputPath(command, path, rel, dest)})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", in, err)
		}
	}
	return jobs, nil
}

// overrideOutput sends the only job to output. An empty output keeps the
// collected targets.
func overrideOutput(jobs []job, output string) error {
	if output == "" {
		return nil
	}
	if len(jobs) != 1 {
		return fmt.Errorf("--output needs exactly one input file, got %d", len(jobs))
	}
	jobs[0].dst = output
	return nil
}

// runJobs converts every job on a fixed pool of workers and returns the
// number of failures. Each worker keeps its own zstd context.
func runJobs(jobs []job, workers int, s jobSettings) int {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	queue := make(chan job, workers*2) //nolint:mnd
	var wg sync.WaitGroup
	var failed atomic.Int32

	worker := func() {
		defer wg.Done()
		zctx := zstd.NewCtx()
		for j := range queue {
			if err := s.process(j, zctx); err != nil {
				logrus.WithError(err).WithField("file", j.src).Error("conversion failed")
				failed.Add(1)
			}
		}
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker()
	}
	for _, j := range jobs {
		queue <- j
	}
	close(queue)
	wg.Wait()

	return int(failed.Load())
}

func (s jobSettings) process(j job, zctx zstd.Ctx) error {
	data, err := readInput(j.src, zctx)
	if err != nil {
		return err
	}

	out, platform, err := s.convert(data)
	if err != nil {
		return err
	}

	logger := logrus.WithFields(logrus.Fields{
		"file":     j.src,
		"platform": platform,
		"format":   out.Format.Kind,
		"code":     out.Format.Code,
	})
	if out.Skipped > 0 {
		logger.WithField("skipped", out.Skipped).Warn("some blocks could not be placed and were skipped")
	}

	if err := writeOutput(j.dst, out, s.zstd, s.zstdLevel); err != nil {
		return err
	}

	logger.WithField("output", j.dst).Info("File converted")
	return nil
}

// convert runs the command on one file and reports the platform used.
func (s jobSettings) convert(data []byte) (*convert.Output, format.Platform, error) {
	switch s.command {
	case cmdDDSToTEX:
		out, err := convert.DDSToTEX(data, s.opts)
		return out, s.opts.Platform, err

	case cmdTEXToDDS:
		p, err := s.sourcePlatform(data)
		if err != nil {
			return nil, p, err
		}
		out, err := convert.TEXToDDS(data, p)
		return out, p, err
	}

	return nil, 0, fmt.Errorf("unknown command %q", s.command)
}

func (s jobSettings) sourcePlatform(data []byte) (format.Platform, error) {
	if s.platformSet {
		return s.opts.Platform, nil
	}

	p, err := convert.DetectPlatform(data)
	if err != nil {
		return p, fmt.Errorf("detecting platform: %w", err)
	}
	logrus.WithField("platform", p).Debug("detected source platform")
	return p, nil
}
