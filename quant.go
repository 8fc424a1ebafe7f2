// Copyright 2013 Sonia Keys.
// Licensed under MIT license.  See "license" file in this source tree.

// Quant provides an interface for image color quantizers and the palette
// types they produce.
package quant

import "image"

// Quantizer defines a color quantizer for images.
type Quantizer interface {
	// Image quantizes img and returns a paletted image.
	Image(img image.Image) *image.Paletted
	// Palette quantizes img and returns the palette only.
	Palette(img image.Image) Palette
}
