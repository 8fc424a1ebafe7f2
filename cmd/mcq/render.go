// Copyright 2013 Sonia Keys.
// Licensed under MIT license.  See "license" file in this source tree.

package main

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"

	"github.com/imgtools/quant"
)

// downscale returns img scaled to width w, keeping the aspect ratio.
func downscale(img image.Image, w int) image.Image {
	b := img.Bounds()
	h := b.Dy() * w / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// quantized lays out mapped pixels, in row-major order, over bounds b.
func quantized(b image.Rectangle, px []uint32) *image.NRGBA {
	img := image.NewNRGBA(b)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl := quant.Unpack(px[i])
			img.SetNRGBA(x, y, color.NRGBA{r, g, bl, 0xff})
			i++
		}
	}
	return img
}

// withStrip returns img with a strip of height h below it showing the
// palette colors left to right.  The last cell takes up the remainder of
// the width.
func withStrip(img image.Image, p quant.LinearPalette, h int) *image.NRGBA {
	b := img.Bounds()
	if len(p) == 0 {
		h = 0
	}
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()+h))
	xdraw.Draw(out, b.Sub(b.Min), img, b.Min, xdraw.Src)
	if h == 0 {
		return out
	}
	cw := b.Dx() / len(p)
	for i, e := range p {
		x0, x1 := i*cw, (i+1)*cw
		if i == len(p)-1 {
			x1 = b.Dx()
		}
		cell := image.Rect(x0, b.Dy(), x1, b.Dy()+h)
		xdraw.Draw(out, cell, image.NewUniform(color.NRGBA{e.R, e.G, e.B, 0xff}), image.Point{}, xdraw.Src)
	}
	return out
}

// hex formats e as #rrggbb.
func hex(e quant.Entry) string {
	return colorful.Color{
		R: float64(e.R) / 255,
		G: float64(e.G) / 255,
		B: float64(e.B) / 255,
	}.Hex()
}

// printSwatches lists the palette with a color swatch, hex value, pixel
// count and share per entry.
func printSwatches(w io.Writer, p quant.LinearPalette) {
	total := 0
	for _, e := range p {
		total += e.Count
	}
	for i, e := range p {
		h := hex(e)
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(h)).Render("    ")
		fmt.Fprintf(w, "%3d %s %s %8d %6.2f%%\n", i, swatch, h, e.Count, share(e.Count, total)*100)
	}
}

func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
