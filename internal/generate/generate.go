// Package generate runs one icon-set batch: load the master image,
// render every required size, then write the manifest.
package generate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"github.com/Mavwarf/appicon/internal/catalog"
	"github.com/Mavwarf/appicon/internal/paths"
	"github.com/Mavwarf/appicon/internal/render"
)

// Options describes one run.
type Options struct {
	Input        string
	Output       string
	Prefix       string
	Resampler    render.Resampler // nil = render.DefaultResampler
	DeviceIdioms bool             // list iphone/ipad specs in the manifest
	ICNS         bool             // also write {prefix}.icns
	Catalog      *catalog.Catalog // nil = catalog.AppIcon
}

// Reporter receives progress as the run advances. Calls happen on the
// goroutine that called Run.
type Reporter interface {
	Warn(msg string)
	Wrote(path string, d catalog.Dimension, labels []string)
}

type nopReporter struct{}

func (nopReporter) Warn(string)                               {}
func (nopReporter) Wrote(string, catalog.Dimension, []string) {}

// Result summarizes a successful run.
type Result struct {
	Files        []string // rendered PNG paths, smallest first
	ManifestPath string
	Manifest     catalog.Manifest
	ICNSPath     string // empty unless Options.ICNS
	Format       string // decoder name of the input
	SourceSize   image.Point
	Normalized   bool
	Elapsed      time.Duration
}

// ValidatePrefix rejects prefixes that would produce paths outside the
// output directory or empty file names.
func ValidatePrefix(prefix string) error {
	if strings.TrimSpace(prefix) == "" {
		return errors.New("prefix must not be empty")
	}
	if strings.ContainsAny(prefix, `/\`) || strings.Contains(prefix, "..") {
		return fmt.Errorf("prefix %q must not contain path separators or \"..\"", prefix)
	}
	return nil
}

// Run executes the batch. The input is fully validated before anything
// is written, and the manifest is written only after every other file.
// ctx is checked between sizes.
func Run(ctx context.Context, opts Options, rep Reporter) (Result, error) {
	start := time.Now()
	if rep == nil {
		rep = nopReporter{}
	}
	cat := catalog.AppIcon
	if opts.Catalog != nil {
		cat = *opts.Catalog
	}
	res := opts.Resampler
	if res == nil {
		res, _ = render.ParseResampler(render.DefaultResampler)
	}

	if err := ValidatePrefix(opts.Prefix); err != nil {
		return Result{}, &Error{Kind: KindInvalidOption, Err: err}
	}
	if opts.Output == "" {
		return Result{}, &Error{Kind: KindInvalidOption, Err: errors.New("output directory must not be empty")}
	}

	src, format, err := render.Load(opts.Input)
	switch {
	case errors.Is(err, render.ErrInputNotFound):
		return Result{}, &Error{Kind: KindInputNotFound, Path: opts.Input, Err: err}
	case errors.Is(err, render.ErrDecode):
		return Result{}, &Error{Kind: KindDecode, Path: opts.Input, Err: err}
	case err != nil:
		return Result{}, &Error{Kind: KindRead, Path: opts.Input, Err: err}
	}

	result := Result{Format: format, SourceSize: src.Bounds().Size()}

	master, resized := render.Normalize(src, res)
	if resized {
		result.Normalized = true
		rep.Warn(fmt.Sprintf("input image is %dx%d, expected %dx%d; resizing to %dx%d first",
			result.SourceSize.X, result.SourceSize.Y,
			catalog.MasterSize, catalog.MasterSize, catalog.MasterSize, catalog.MasterSize))
	}

	if err := paths.Writable(opts.Output); err != nil {
		return Result{}, &Error{Kind: KindWrite, Path: opts.Output, Err: err}
	}

	for _, d := range cat.RequiredDimensions() {
		if err := ctx.Err(); err != nil {
			return Result{}, &Error{Kind: KindCanceled, Err: err}
		}
		img := master
		if d.Width != catalog.MasterSize || d.Height != catalog.MasterSize {
			img = res.Resize(master, d.Width, d.Height)
		}
		path := filepath.Join(opts.Output, catalog.Filename(opts.Prefix, d))
		if err := render.WritePNG(path, img); err != nil {
			return Result{}, &Error{Kind: KindWrite, Path: path, Err: err}
		}
		result.Files = append(result.Files, path)
		rep.Wrote(path, d, cat.LabelsFor(d))
	}

	if opts.ICNS {
		result.ICNSPath = filepath.Join(opts.Output, opts.Prefix+".icns")
		if err := render.WriteICNS(result.ICNSPath, master); err != nil {
			return Result{}, &Error{Kind: KindWrite, Path: result.ICNSPath, Err: err}
		}
	}

	// The manifest goes last: its presence means the whole set is there.
	result.Manifest = cat.BuildManifestWith(opts.Prefix, catalog.ManifestOptions{DeviceIdioms: opts.DeviceIdioms})
	data, err := result.Manifest.Marshal()
	if err != nil {
		return Result{}, &Error{Kind: KindWrite, Err: err}
	}
	result.ManifestPath = filepath.Join(opts.Output, catalog.ManifestFileName)
	if err := paths.AtomicWrite(result.ManifestPath, data); err != nil {
		return Result{}, &Error{Kind: KindWrite, Path: result.ManifestPath, Err: err}
	}

	result.Elapsed = time.Since(start)
	return result, nil
}
