// Copyright 2013 Sonia Keys.
// Licensed under MIT license.  See "license" file in this source tree.

package median

import (
	"fmt"
	"sort"

	"github.com/imgtools/quant"
)

// colorBox is the half-open range [lower, upper) of a node array shared by
// all boxes of one palette build.
//
// count and the channel bounds describe the current contents of the range.
// They are only valid after trim, which must follow any change of the
// range or reordering of the nodes within it.
type colorBox struct {
	lower, upper int
	level        int // split depth, 0 for the root box
	count        int // pixels represented by the box
	pos          int // creation order, breaks level ties in the queue

	rmin, rmax int
	gmin, gmax int
	bmin, bmax int
}

const ( // dimension const
	dr = iota
	dg
	db
)

func newColorBox(lower, upper, level int, nodes []quant.Entry) *colorBox {
	b := &colorBox{lower: lower, upper: upper, level: level}
	b.trim(nodes)
	return b
}

// colorCount is the number of distinct colors in the box.
func (b *colorBox) colorCount() int { return b.upper - b.lower }

// trim recomputes count and channel bounds of the box.
func (b *colorBox) trim(nodes []quant.Entry) {
	b.rmin, b.rmax = 255, 0
	b.gmin, b.gmax = 255, 0
	b.bmin, b.bmax = 255, 0
	b.count = 0
	for _, n := range nodes[b.lower:b.upper] {
		b.count += n.Count
		r, g, bl := int(n.R), int(n.G), int(n.B)
		if r > b.rmax {
			b.rmax = r
		}
		if r < b.rmin {
			b.rmin = r
		}
		if g > b.gmax {
			b.gmax = g
		}
		if g < b.gmin {
			b.gmin = g
		}
		if bl > b.bmax {
			b.bmax = bl
		}
		if bl < b.bmin {
			b.bmin = bl
		}
	}
}

// longestDimension returns the channel with the widest value range.
// Ties prefer blue, then green, then red.
func (b *colorBox) longestDimension() int {
	rl := b.rmax - b.rmin
	gl := b.gmax - b.gmin
	bl := b.bmax - b.bmin
	switch {
	case bl >= rl && bl >= gl:
		return db
	case gl >= rl && gl >= bl:
		return dg
	}
	return dr
}

// findMedian sorts the nodes of the box by channel dim and returns the
// index of the first node at which the running pixel count reaches half
// the box count.
func (b *colorBox) findMedian(dim int, nodes []quant.Entry) int {
	s := nodes[b.lower:b.upper]
	var less func(i, j int) bool
	switch dim {
	case dr:
		less = func(i, j int) bool { return s[i].R < s[j].R }
	case dg:
		less = func(i, j int) bool { return s[i].G < s[j].G }
	default:
		less = func(i, j int) bool { return s[i].B < s[j].B }
	}
	sort.SliceStable(s, less)
	half := b.count / 2
	n := 0
	for m := b.lower; m < b.upper; m++ {
		n += nodes[m].Count
		if n >= half {
			return m
		}
	}
	return b.lower
}

// split cuts the box at the median of its longest dimension.  The box
// keeps the lower part, through the median node, and the upper part is
// returned as a new box.  Both are one level deeper than b was.
//
// split returns nil if the box holds fewer than two colors.
func (b *colorBox) split(nodes []quant.Entry) *colorBox {
	if b.colorCount() < 2 {
		return nil
	}
	m := b.findMedian(b.longestDimension(), nodes)
	// Leave at least one node for the new box.
	if m > b.upper-2 {
		m = b.upper - 2
	}
	level := b.level + 1
	c := newColorBox(m+1, b.upper, level, nodes)
	b.upper = m + 1
	b.level = level
	b.trim(nodes)
	return c
}

// average returns the count-weighted mean color of the box, channels
// rounded half up.
func (b *colorBox) average(nodes []quant.Entry) quant.Entry {
	var rsum, gsum, bsum, n int
	for _, c := range nodes[b.lower:b.upper] {
		rsum += c.Count * int(c.R)
		gsum += c.Count * int(c.G)
		bsum += c.Count * int(c.B)
		n += c.Count
	}
	if n == 0 {
		panic(fmt.Sprintf("median: color box [%d, %d) represents no pixels", b.lower, b.upper))
	}
	return quant.EntryOf(round(rsum, n), round(gsum, n), round(bsum, n), n)
}

// round returns sum/n rounded half up, for non-negative sum and positive n.
func round(sum, n int) uint8 {
	return uint8((2*sum + n) / (2 * n))
}
