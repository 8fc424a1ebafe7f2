// Copyright 2013 Sonia Keys.
// Licensed under MIT license.  See "license" file in this source tree.

// Median implements Heckbert's median cut color quantization.
//
// All distinct colors of the input take part in the cut; there is no
// preliminary uniform quantization.  Colors are counted, the color space
// box holding them is split repeatedly at the pixel count median of its
// widest channel, and each final box contributes its count-weighted mean
// color to the palette.  Pixels are then mapped to the closest palette
// color by Euclidean distance in RGB.
package median

import (
	"container/heap"
	"image"
	"image/color"
	"image/draw"
	"sort"

	"github.com/imgtools/quant"
)

// Quantizer implements median cut color quantization.  The value is the
// desired number of colors.
type Quantizer int

var (
	_ quant.Quantizer = Quantizer(0)
	_ draw.Quantizer  = Quantizer(0)
)

// Palette performs median cut quantization and returns the palette.
//
// The palette holds no more than q colors.
func (q Quantizer) Palette(img image.Image) quant.Palette {
	return BuildPalette(quant.Pixels(img), int(q))
}

// Image performs median cut quantization and returns a paletted image.
//
// Returned is a paletted image with no more than q colors, and never more
// than 256.
func (q Quantizer) Image(img image.Image) *image.Paletted {
	n := int(q)
	if n > 256 {
		n = 256
	}
	px := quant.Pixels(img)
	p := BuildPalette(px, n)
	b := img.Bounds()
	pi := image.NewPaletted(b, p.ColorPalette())
	if len(p) == 0 {
		return pi
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			pi.SetColorIndex(x, y, uint8(p.Index(px[i])))
			i++
		}
	}
	return pi
}

// Quantize satisfies image/draw.Quantizer.
//
// It appends up to cap(p)-len(p) colors to p, but no more than q when q is
// positive.
func (q Quantizer) Quantize(p color.Palette, m image.Image) color.Palette {
	n := cap(p) - len(p)
	if q > 0 && int(q) < n {
		n = int(q)
	}
	return append(p, BuildPalette(quant.Pixels(m), n).ColorPalette()...)
}

// BuildPalette returns at most k representative colors of pixels, ordered
// by descending pixel count.  Pixels are packed as 0xAARRGGBB; alpha is
// ignored.
//
// If pixels hold no more than k distinct colors, those colors are returned
// unmodified with their exact counts.  Otherwise each palette entry is the
// mean of one median cut box, with Count the number of pixels in the box.
// The result is empty for empty input or k < 1.
func BuildPalette(pixels []uint32, k int) quant.LinearPalette {
	if k < 1 {
		return quant.LinearPalette{}
	}
	nodes := newHistogram(pixels).nodes()
	var p quant.LinearPalette
	if len(nodes) <= k {
		p = quant.LinearPalette(nodes)
	} else {
		p = cut(nodes, k)
	}
	sort.SliceStable(p, func(i, j int) bool { return p[i].Count > p[j].Count })
	return p
}

// BuildPaletteRGBA is BuildPalette for a buffer of 4 byte pixels in the
// byte order documented at quant.DecodeRGBA.
func BuildPaletteRGBA(buf []byte, k int) (quant.LinearPalette, error) {
	px, err := quant.DecodeRGBA(buf)
	if err != nil {
		return nil, err
	}
	return BuildPalette(px, k), nil
}

// cut partitions nodes into at most k boxes and returns the box averages
// in box creation order.  len(nodes) must be greater than k.
//
// Boxes are split in order of level, shallowest first.  A priority queue
// holds the boxes that can be split.  The loop terminates when k boxes
// exist or when no box has two colors left.
func cut(nodes []quant.Entry, k int) quant.LinearPalette {
	boxes := make([]*colorBox, 1, k)
	boxes[0] = newColorBox(0, len(nodes), 0, nodes)
	pq := queue{boxes[0]}
	for len(boxes) < k && len(pq) > 0 {
		s := heap.Pop(&pq).(*colorBox) // box to split
		c := s.split(nodes)
		c.pos = len(boxes)
		boxes = append(boxes, c)
		// Only enqueue boxes that can be split.
		if s.colorCount() >= 2 {
			heap.Push(&pq, s)
		}
		if c.colorCount() >= 2 {
			heap.Push(&pq, c)
		}
	}
	p := make(quant.LinearPalette, len(boxes))
	for i, b := range boxes {
		p[i] = b.average(nodes)
	}
	return p
}

// queue implements heap.Interface for the priority queue of boxes.
type queue []*colorBox

func (q queue) Len() int { return len(q) }

// Priority is lowest level, then earliest created.
func (q queue) Less(i, j int) bool {
	if q[i].level != q[j].level {
		return q[i].level < q[j].level
	}
	return q[i].pos < q[j].pos
}
func (q queue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}
func (pq *queue) Push(x interface{}) {
	c := x.(*colorBox)
	*pq = append(*pq, c)
}
func (pq *queue) Pop() interface{} {
	q := *pq
	n := len(q) - 1
	c := q[n]
	*pq = q[:n]
	return c
}
