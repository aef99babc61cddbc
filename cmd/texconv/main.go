// texconv converts Ghostbusters: The Video Game textures between DDS and
// the per-platform TEX container.
//
// Usage:
//
//	texconv [flags] dds2tex <file.dds|dir>...   # DDS → TEX for --platform
//	texconv [flags] tex2dds <file.tex|dir>...   # TEX → linear DDS
//	texconv [flags] info <file|dir>...          # Show texture info
//
// Directories are walked for files with the input extension; their layout
// is kept below --dest. A single input file may be given an explicit
// target with --output. Inputs wrapped in a ZSTD envelope are unwrapped
// transparently.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Luzifer/go_helpers/v2/str"
	"github.com/Luzifer/rconfig/v2"
	"github.com/sirupsen/logrus"

	"github.com/KeyofBlueS/GBTVGRAC/pkg/convert"
	"github.com/KeyofBlueS/GBTVGRAC/pkg/format"
)

const dirPermissions = 0o750

const (
	cmdDDSToTEX = "dds2tex"
	cmdTEXToDDS = "tex2dds"
	cmdInfo     = "info"
)

var (
	cfg = struct {
		Dest           string `flag:"dest,d" default:"" description:"Directory to write converted files to (default: next to the input)"`
		Output         string `flag:"output,o" default:"" description:"File to write the conversion of a single input to (overrides --dest)"`
		Platform       string `flag:"platform,p" default:"" description:"Platform to build for (dds2tex, default pc) or read from (tex2dds, detected when empty): pc, ps3, xbox360, switch"`
		DXT1           bool   `flag:"dxt1" default:"false" description:"Only accept DXT1 compressed sources"`
		DXT5           bool   `flag:"dxt5" default:"false" description:"Only accept DXT5 compressed sources"`
		NoSignature    bool   `flag:"no-signature" default:"false" description:"Leave the TEX hash field empty"`
		Zstd           bool   `flag:"zstd" default:"false" description:"Wrap converted files in a ZSTD envelope"`
		ZstdLevel      int    `flag:"zstd-level" default:"3" description:"Compression level for --zstd" validate:"min=1,max=22"`
		Workers        int    `flag:"workers,w" default:"0" description:"Parallel conversions (0: one per CPU)" validate:"min=0"`
		LogLevel       string `flag:"log-level" default:"info" description:"Log level (debug, info, warn, error, fatal)"`
		VersionAndExit bool   `flag:"version" default:"false" description:"Prints current version and exits"`
	}{}

	version = "dev"

	commands = []string{cmdDDSToTEX, cmdTEXToDDS, cmdInfo}
)

func initApp() (err error) {
	if err = rconfig.ParseAndValidate(&cfg); err != nil {
		return fmt.Errorf("parsing CLI options: %w", err)
	}

	l, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parsing log-level: %w", err)
	}
	logrus.SetLevel(l)

	return nil
}

func platformNames() []string {
	names := make([]string, len(format.AllPlatforms))
	for i, p := range format.AllPlatforms {
		names[i] = p.String()
	}
	return names
}

// parsePlatform accepts platform names in any case.
func parsePlatform(name string) (format.Platform, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !str.StringInSlice(name, platformNames()) {
		return 0, fmt.Errorf("unknown platform %q (use one of %s)", name, strings.Join(platformNames(), ", "))
	}

	for _, p := range format.AllPlatforms {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown platform %q", name)
}

func allowedKinds(dxt1, dxt5 bool) []format.Kind {
	var kinds []format.Kind
	if dxt1 {
		kinds = append(kinds, format.DXT1)
	}
	if dxt5 {
		kinds = append(kinds, format.DXT5)
	}
	return kinds
}

func main() {
	var err error
	if err = initApp(); err != nil {
		logrus.WithError(err).Fatal("initializing app")
	}

	if cfg.VersionAndExit {
		fmt.Printf("texconv %s\n", version) //nolint:forbidigo
		os.Exit(0)
	}

	args := rconfig.Args()
	if len(args) < 3 || !str.StringInSlice(args[1], commands) { //nolint:mnd
		fmt.Fprintf(os.Stderr, "Usage: texconv [flags] %s <file|dir>...\n", strings.Join(commands, "|"))
		os.Exit(1)
	}
	command, inputs := args[1], args[2:]

	settings := jobSettings{
		command:   command,
		zstd:      cfg.Zstd,
		zstdLevel: cfg.ZstdLevel,
		opts: convert.Options{
			Platform: format.PC,
			Allowed:  allowedKinds(cfg.DXT1, cfg.DXT5),
		},
	}
	if !cfg.NoSignature {
		settings.opts.Signature = convert.DefaultSignature
	}
	if cfg.Platform != "" {
		if settings.opts.Platform, err = parsePlatform(cfg.Platform); err != nil {
			logrus.WithError(err).Fatal("parsing platform")
		}
		settings.platformSet = true
	}

	jobs, err := collectJobs(command, inputs, cfg.Dest)
	if err != nil {
		logrus.WithError(err).Fatal("collecting input files")
	}
	if command != cmdInfo {
		if err = overrideOutput(jobs, cfg.Output); err != nil {
			logrus.WithError(err).Fatal("setting output file")
		}
	}
	logrus.WithFields(logrus.Fields{
		"command":  command,
		"no_files": len(jobs),
	}).Debug("collected inputs")

	if command == cmdInfo {
		for _, j := range jobs {
			if err := showInfo(os.Stdout, j.src, settings); err != nil {
				logrus.WithError(err).WithField("file", j.src).Error("reading texture")
			}
		}
		return
	}

	if failed := runJobs(jobs, cfg.Workers, settings); failed > 0 {
		logrus.WithField("failed", failed).Fatal("some files could not be converted")
	}
}
