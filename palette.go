// Copyright 2013 Sonia Keys.
// Licensed under MIT license.  See "license" file in this source tree.

package quant

import (
	"image/color"
	"math"
)

// Palette is a palette of color.Colors, just as color.Pallete of the standard
// library.
//
// It is defined as an interface here to allow more general implementations
// of Convert, presumably ones that maintain some data structure to achieve
// performance advantages over linear search.
type Palette interface {
	Convert(color.Color) color.Color
	ColorPalette() color.Palette
}

// Entry is one color of a palette together with the number of source
// pixels it represents.
//
// RGB always equals R<<16 | G<<8 | B.
type Entry struct {
	RGB     uint32
	R, G, B uint8
	Count   int
}

// NewEntry returns an entry for packed color rgb.  Alpha bits are ignored.
func NewEntry(rgb uint32, count int) Entry {
	r, g, b := Unpack(rgb)
	return Entry{RGB: rgb & RGBMask, R: r, G: g, B: b, Count: count}
}

// EntryOf returns an entry for the given channel values.
func EntryOf(r, g, b uint8, count int) Entry {
	return Entry{RGB: uint32(r)<<16 | uint32(g)<<8 | uint32(b), R: r, G: g, B: b, Count: count}
}

// Distance2 returns the squared Euclidean distance between e and the
// color (r, g, b).
func (e Entry) Distance2(r, g, b uint8) int {
	dr := int(e.R) - int(r)
	dg := int(e.G) - int(g)
	db := int(e.B) - int(b)
	return dr*dr + dg*dg + db*db
}

// RGBA satisfies color.Color.  Entries are opaque.
func (e Entry) RGBA() (r, g, b, a uint32) {
	return color.RGBA{e.R, e.G, e.B, 0xff}.RGBA()
}

// LinearPalette implements the Palette interface over a list of entries
// and finds nearest colors by linear search.
//
// A LinearPalette is not modified by any of its methods and may be shared
// by concurrent readers.
type LinearPalette []Entry

var _ Palette = LinearPalette(nil)

// Colors returns a copy of the palette entries.
func (p LinearPalette) Colors() []Entry {
	return append([]Entry(nil), p...)
}

// Index returns the index of the entry closest to packed color rgb by
// squared Euclidean distance.  Of equally close entries the first wins.
// Index returns -1 for an empty palette.
func (p LinearPalette) Index(rgb uint32) int {
	r, g, b := Unpack(rgb)
	min := -1
	d2min := math.MaxInt
	for i := range p {
		if d2 := p[i].Distance2(r, g, b); d2 < d2min {
			d2min = d2
			min = i
		}
	}
	return min
}

// Nearest returns the entry closest to rgb.  It returns false for an empty
// palette.
func (p LinearPalette) Nearest(rgb uint32) (Entry, bool) {
	i := p.Index(rgb)
	if i < 0 {
		return Entry{}, false
	}
	return p[i], true
}

// Map replaces each pixel with the color of its nearest entry.  The result
// has the length and order of pixels; alpha is dropped.
//
// With an empty palette there is nothing to map to and Map returns the
// pixels with alpha dropped.
func (p LinearPalette) Map(pixels []uint32) []uint32 {
	q := make([]uint32, len(pixels))
	for i, px := range pixels {
		if e, ok := p.Nearest(px); ok {
			q[i] = e.RGB
		} else {
			q[i] = px & RGBMask
		}
	}
	return q
}

// Convert satisfies interface Palette.
//
// It returns the nearest entry as an opaque color.RGBA, or c itself
// when the palette is empty.
func (p LinearPalette) Convert(c color.Color) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	e, ok := p.Nearest(Pack(n.R, n.G, n.B, n.A))
	if !ok {
		return c
	}
	return color.RGBA{e.R, e.G, e.B, 0xff}
}

// ColorPalette satisfies interface Palette.
//
// Entry order is preserved so that indexes returned by Index are valid
// indexes into the result.
func (p LinearPalette) ColorPalette() color.Palette {
	cp := make(color.Palette, len(p))
	for i, e := range p {
		cp[i] = color.RGBA{e.R, e.G, e.B, 0xff}
	}
	return cp
}
