// Copyright 2013 Sonia Keys.
// Licensed under MIT license.  See "license" file in this source tree.

package quant

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// RGBMask strips the alpha byte from a packed 0xAARRGGBB pixel.
const RGBMask = 0x00ffffff

// ErrBufferLength is returned when an RGBA byte buffer does not hold a
// whole number of 4 byte pixels.
var ErrBufferLength = errors.New("quant: rgba buffer length not a multiple of 4")

// Pack packs channel values as 0xAARRGGBB.
func Pack(r, g, b, a uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Unpack returns the red, green and blue channels of a packed pixel.
// Alpha is ignored.
func Unpack(p uint32) (r, g, b uint8) {
	return uint8(p >> 16), uint8(p >> 8), uint8(p)
}

// DecodeRGBA decodes a byte buffer holding 4 bytes per pixel into packed
// pixels.
//
// Byte order within a pixel is red, green, blue, alpha, which is the layout
// of image.NRGBA.Pix.  Each pixel is packed as A<<24 | R<<16 | G<<8 | B
// regardless of the byte order of the host.
func DecodeRGBA(buf []byte) ([]uint32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrBufferLength, len(buf))
	}
	px := make([]uint32, len(buf)/4)
	for i := range px {
		s := buf[i*4 : i*4+4 : i*4+4]
		px[i] = Pack(s[0], s[1], s[2], s[3])
	}
	return px, nil
}

// Pixels returns the pixels of img in row-major order, packed as
// 0xAARRGGBB with non-premultiplied channel values.
func Pixels(img image.Image) []uint32 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}
	px := make([]uint32, 0, w*h)
	if n, ok := img.(*image.NRGBA); ok {
		// Rows are contiguous in Pix; strides may pad them.
		for y := b.Min.Y; y < b.Max.Y; y++ {
			i := n.PixOffset(b.Min.X, y)
			row, _ := DecodeRGBA(n.Pix[i : i+w*4])
			px = append(px, row...)
		}
		return px
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			px = append(px, Pack(c.R, c.G, c.B, c.A))
		}
	}
	return px
}
