// Copyright 2013 Sonia Keys.
// Licensed under MIT license.  See "license" file in this source tree.

// Mcq reduces images to a median cut palette.
//
// For each input image mcq prints the palette, most used color first.
// With -out it writes the quantized image with a strip of the palette
// colors below it, and with -export the palette as JSON next to it.
// A palette exported earlier can be applied to other images with -use.
//
//	mcq [flags] image...
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/imgtools/quant"
	"github.com/imgtools/quant/median"
)

type config struct {
	colors   int
	out      string
	strip    int
	json     bool
	export   bool
	zstd     bool
	maxWidth int
	use      string
}

func main() {
	var (
		c       config
		verbose bool
	)
	flag.IntVar(&c.colors, "n", 16, "number of colors in the palette")
	flag.StringVar(&c.out, "out", "", "directory for quantized images")
	flag.IntVar(&c.strip, "strip", 64, "height in pixels of the palette strip, 0 for none")
	flag.BoolVar(&c.json, "json", false, "print palettes as JSON")
	flag.BoolVar(&c.export, "export", false, "write each palette as JSON to the -out directory")
	flag.BoolVar(&c.zstd, "zstd", false, "zstd compress exported palettes")
	flag.IntVar(&c.maxWidth, "max-width", 0, "build palettes from a copy scaled to this width, 0 for full size")
	flag.StringVar(&c.use, "use", "", "map images to this exported palette instead of building one")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: mcq [flags] image...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "mcq",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if err := c.validate(); err != nil {
		logger.Fatal("invalid flags", "err", err)
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var fixed quant.LinearPalette
	if c.use != "" {
		p, err := loadPalette(c.use)
		if err != nil {
			logger.Fatal("cannot load palette", "path", c.use, "err", err)
		}
		logger.Debug("loaded palette", "path", c.use, "colors", len(p))
		fixed = p
	}
	if c.out != "" {
		if err := os.MkdirAll(c.out, 0o755); err != nil {
			logger.Fatal("cannot create output directory", "err", err)
		}
	}

	failed := 0
	for _, path := range flag.Args() {
		l := logger.With("file", filepath.Base(path))
		start := time.Now()
		if err := c.process(l, path, fixed); err != nil {
			l.Error("failed", "err", err)
			failed++
			continue
		}
		l.Debug("done", "elapsed", time.Since(start))
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func (c *config) validate() error {
	switch {
	case c.colors <= 0:
		return fmt.Errorf("-n must be > 0, got %d", c.colors)
	case c.strip < 0:
		return fmt.Errorf("-strip must be >= 0, got %d", c.strip)
	case c.maxWidth < 0:
		return fmt.Errorf("-max-width must be >= 0, got %d", c.maxWidth)
	case c.export && c.out == "":
		return fmt.Errorf("-export needs -out")
	}
	return nil
}

// process quantizes one image.  A non-nil fixed palette is used as is.
func (c *config) process(l *log.Logger, path string, fixed quant.LinearPalette) error {
	img, err := decode(path)
	if err != nil {
		return err
	}
	px := quant.Pixels(img)
	p := fixed
	if p == nil {
		sample := px
		if c.maxWidth > 0 && img.Bounds().Dx() > c.maxWidth {
			small := downscale(img, c.maxWidth)
			l.Debug("scaled for palette", "from", img.Bounds().Size(), "to", small.Bounds().Size())
			sample = quant.Pixels(small)
		}
		p = median.BuildPalette(sample, c.colors)
	}
	l.Info("palette", "pixels", len(px), "colors", len(p))

	if c.json {
		if err := writePalette(os.Stdout, p, false); err != nil {
			return err
		}
	} else {
		printSwatches(os.Stdout, p)
	}

	if c.out == "" {
		return nil
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	q := quantized(img.Bounds(), p.Map(px))
	outPath := filepath.Join(c.out, base+".png")
	if err := savePNG(outPath, withStrip(q, p, c.strip)); err != nil {
		return err
	}
	l.Info("wrote image", "path", outPath)
	if c.export {
		ext := ".palette.json"
		if c.zstd {
			ext += zstdExt
		}
		palPath := filepath.Join(c.out, base+ext)
		if err := savePalette(palPath, p); err != nil {
			return err
		}
		l.Info("wrote palette", "path", palPath)
	}
	return nil
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
