// Copyright 2013 Sonia Keys.
// Licensed under MIT license.  See "license" file in this source tree.

package median

import (
	"sort"

	"github.com/imgtools/quant"
)

// histogram lists the distinct colors of an image with their pixel counts.
// colors is strictly increasing; counts is co-indexed.
type histogram struct {
	colors []uint32
	counts []int
}

type pixels []uint32

func newHistogram(px []uint32) histogram {
	if len(px) == 0 {
		return histogram{}
	}
	// Sort a masked copy, then count runs of equal values.
	s := make(pixels, len(px))
	for i, p := range px {
		s[i] = p & quant.RGBMask
	}
	sort.Sort(s)
	var h histogram
	for i, p := range s {
		if i > 0 && p == s[i-1] {
			h.counts[len(h.counts)-1]++
			continue
		}
		h.colors = append(h.colors, p)
		h.counts = append(h.counts, 1)
	}
	return h
}

// nodes returns one entry per distinct color, in ascending color order.
func (h histogram) nodes() []quant.Entry {
	ns := make([]quant.Entry, len(h.colors))
	for i, c := range h.colors {
		ns[i] = quant.NewEntry(c, h.counts[i])
	}
	return ns
}

// Implement sort.Interface for sorting pixel values.
func (p pixels) Len() int           { return len(p) }
func (p pixels) Less(i, j int) bool { return p[i] < p[j] }
func (p pixels) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
