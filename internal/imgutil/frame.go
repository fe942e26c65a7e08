package imgutil

import (
	"image"
	"image/draw"
)

// Frame is a tightly packed 32-bit RGBA pixel buffer. It is the only pixel
// representation the engine operates on; all input sources are normalized to
// it before detection.
type Frame struct {
	Pix    []byte // 4*Width*Height bytes, RGBA order, no row padding
	Width  int
	Height int
}

// NewFrame allocates a zeroed frame of the given dimensions.
func NewFrame(w, h int) *Frame {
	return &Frame{Pix: make([]byte, 4*w*h), Width: w, Height: h}
}

// Clone returns an independent copy of the frame.
func (f *Frame) Clone() *Frame {
	out := &Frame{Pix: make([]byte, len(f.Pix)), Width: f.Width, Height: f.Height}
	copy(out.Pix, f.Pix)
	return out
}

// Image returns an *image.RGBA sharing the frame's pixel storage.
func (f *Frame) Image() *image.RGBA {
	return &image.RGBA{Pix: f.Pix, Stride: 4 * f.Width, Rect: image.Rect(0, 0, f.Width, f.Height)}
}

// FromRGBA builds a packed frame from raw RGBA/BGRA rows. stride is the byte
// distance between rows in src and may exceed 4*w. When swapRB is true the
// red and blue channels are exchanged while copying (BGRA input).
func FromRGBA(src []byte, w, h, stride int, swapRB bool) *Frame {
	f := NewFrame(w, h)
	for y := 0; y < h; y++ {
		row := src[y*stride : y*stride+4*w]
		dst := f.Pix[y*4*w : (y+1)*4*w]
		if !swapRB {
			copy(dst, row)
			continue
		}
		for x := 0; x < 4*w; x += 4 {
			dst[x] = row[x+2]
			dst[x+1] = row[x+1]
			dst[x+2] = row[x]
			dst[x+3] = row[x+3]
		}
	}
	return f
}

// ToRGBA converts an arbitrary stdlib image to *image.RGBA, copying only when
// the source is not already RGBA with zero-origin bounds.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Rect, img, b.Min, draw.Src)
	return out
}

// FromImage builds a packed frame from an *image.RGBA or *image.NRGBA.
// Other color models are rejected: ok is false and the frame nil.
func FromImage(img image.Image) (*Frame, bool) {
	switch src := img.(type) {
	case *image.RGBA:
		return fromStrided(src.Pix, src.Bounds(), src.Stride), true
	case *image.NRGBA:
		return fromStrided(src.Pix, src.Bounds(), src.Stride), true
	default:
		return nil, false
	}
}

func fromStrided(pix []byte, b image.Rectangle, stride int) *Frame {
	w, h := b.Dx(), b.Dy()
	f := NewFrame(w, h)
	for y := 0; y < h; y++ {
		copy(f.Pix[y*4*w:(y+1)*4*w], pix[y*stride:y*stride+4*w])
	}
	return f
}
