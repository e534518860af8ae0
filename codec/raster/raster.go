// Package raster implements the lossless raster cover codec (C1). PNG is the
// only supported container: it is the pack's canonical lossless format and
// the only one spec §4.1 requires bit-for-bit preservation of.
//
// Loading copies the decoded pixels into a caller-owned buffer before the
// decoder can be garbage collected, the same discipline
// andresmejia3-Hide's loadImage/copyImage pair uses to guarantee the image
// package never hands back a buffer that aliases internal decoder state.
package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/astego/cryptostego/models"
)

// Cover holds a copied, mutable RGB pixel buffer for a raster image. Pix is
// laid out row-major, three bytes per pixel (R, G, B); any source alpha
// channel is dropped since the spec's position engine only ever addresses
// color-channel LSBs.
type Cover struct {
	Width, Height int
	Pix           []byte // len == Width*Height*3
}

// Load decodes a PNG from r and copies its pixels into a fresh Cover.
func Load(r io.Reader) (*Cover, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, models.NewError(models.KindMalformedCover, "failed to decode raster image", err)
	}
	if format != "png" {
		return nil, models.NewError(models.KindUnsupportedFormat, "raster cover must be PNG, got "+format, nil)
	}
	return copyImage(img), nil
}

// copyImage converts the decoded image into a fresh, densely packed RGB
// buffer so the returned Cover never aliases the decoder's internal
// storage. It goes through draw.Draw into a plain image.NRGBA rather than
// img.At(x, y).RGBA(): the latter returns alpha-premultiplied channel
// values, which would silently scale RGB by A/0xFF for any pixel with
// A != 0xFF (anti-aliased edges, icons, screenshots) instead of the
// stored, unpremultiplied bytes the embedder and scorer need.
func copyImage(img image.Image) *Cover {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		nrgba = dst
	}
	origin := nrgba.Bounds().Min

	c := &Cover{Width: w, Height: h, Pix: make([]byte, w*h*3)}
	i := 0
	for y := 0; y < h; y++ {
		row := nrgba.PixOffset(origin.X, origin.Y+y)
		for x := 0; x < w; x++ {
			px := nrgba.Pix[row : row+4 : row+4]
			c.Pix[i+0] = px[0]
			c.Pix[i+1] = px[1]
			c.Pix[i+2] = px[2]
			i += 3
			row += 4
		}
	}
	return c
}

// NumChannels reports the number of addressable color channels per pixel.
func (c *Cover) NumChannels() int { return 3 }

// Capacity reports the number of LSB slots available across the whole cover,
// one per color channel byte.
func (c *Cover) Capacity() int { return c.Width * c.Height * 3 }

// image converts the Cover back into a standard library image.NRGBA for
// re-encoding, with full opacity.
func (c *Cover) image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.Width, c.Height))
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			i := (y*c.Width + x) * 3
			img.SetNRGBA(x, y, color.NRGBA{
				R: c.Pix[i+0],
				G: c.Pix[i+1],
				B: c.Pix[i+2],
				A: 0xFF,
			})
		}
	}
	return img
}

// Save re-encodes the Cover as a lossless PNG at png.BestCompression. PNG
// compression is lossless at every level, so the pixel buffer round-trips
// exactly and any LSB mutations made through Pix survive encoding unchanged.
func (c *Cover) Save(w io.Writer) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, c.image()); err != nil {
		return models.NewError(models.KindMalformedCover, "failed to encode raster image", err)
	}
	return nil
}

// Bytes is a convenience for Save into an in-memory buffer.
func (c *Cover) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
