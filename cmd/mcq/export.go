// Copyright 2013 Sonia Keys.
// Licensed under MIT license.  See "license" file in this source tree.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/imgtools/quant"
)

const zstdExt = ".zst"

// paletteEntry is the JSON form of one palette color.
type paletteEntry struct {
	Color rgb     `json:"color"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
	Hex   string  `json:"hex"`
}

type rgb struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

func entries(p quant.LinearPalette) []paletteEntry {
	total := 0
	for _, e := range p {
		total += e.Count
	}
	es := make([]paletteEntry, len(p))
	for i, e := range p {
		es[i] = paletteEntry{
			Color: rgb{e.R, e.G, e.B},
			Count: e.Count,
			Share: share(e.Count, total),
			Hex:   hex(e),
		}
	}
	return es
}

// writePalette writes p as an indented JSON array, zstd compressed if z
// is set.
func writePalette(w io.Writer, p quant.LinearPalette, z bool) error {
	if !z {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries(p))
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if err := writePalette(zw, p, false); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// readPalette reads a palette written by writePalette.  Colors are taken
// from the hex field.
func readPalette(r io.Reader, z bool) (quant.LinearPalette, error) {
	if z {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	}
	var es []paletteEntry
	if err := json.NewDecoder(r).Decode(&es); err != nil {
		return nil, fmt.Errorf("read palette: %w", err)
	}
	p := make(quant.LinearPalette, len(es))
	for i, e := range es {
		c, err := colorful.Hex(e.Hex)
		if err != nil {
			return nil, fmt.Errorf("read palette: entry %d: %w", i, err)
		}
		cr, cg, cb := c.RGB255()
		p[i] = quant.EntryOf(cr, cg, cb, e.Count)
	}
	return p, nil
}

func savePalette(path string, p quant.LinearPalette) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writePalette(f, p, strings.HasSuffix(path, zstdExt)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func loadPalette(path string) (quant.LinearPalette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readPalette(f, strings.HasSuffix(path, zstdExt))
}
