package stylizer

import "image"

// Frame is a stylized output image: packed RGBA pixels with the model's fixed
// output dimensions.
//
// Frames returned by Stylize are independent copies owned by the caller.
// Frames delivered through StylizeWithCallback alias engine-owned memory and
// are only valid while the callback runs; Valid reports false once the
// callback has returned.
type Frame struct {
	pix           []byte
	width, height int
	alias         bool
	invalid       bool
}

// FrameFromPix builds a caller-owned frame around packed RGBA bytes. The
// slice is used as-is; it must hold 4*width*height bytes.
func FrameFromPix(pix []byte, width, height int) *Frame {
	return &Frame{pix: pix, width: width, height: height}
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int { return f.width }

// Height returns the frame height in pixels.
func (f *Frame) Height() int { return f.height }

// Pix exposes the packed RGBA bytes. For zero-copy frames the slice contents
// are overwritten by the next call on the same stylizer.
func (f *Frame) Pix() []byte { return f.pix }

// Valid reports whether the frame's pixels may still be read. Copied frames
// are always valid; zero-copy frames are invalidated when their callback
// returns.
func (f *Frame) Valid() bool { return !f.invalid }

// Image returns an *image.RGBA view sharing the frame's storage.
func (f *Frame) Image() *image.RGBA {
	return &image.RGBA{Pix: f.pix, Stride: 4 * f.width, Rect: image.Rect(0, 0, f.width, f.height)}
}

// Clone returns an independent, caller-owned copy of the frame.
func (f *Frame) Clone() *Frame {
	pix := make([]byte, len(f.pix))
	copy(pix, f.pix)
	return &Frame{pix: pix, width: f.width, height: f.height}
}

// Result holds the outcome of one stylization call. StylizedImage is nil when
// no face was detected, which is a success, not an error.
type Result struct {
	StylizedImage *Frame
}
