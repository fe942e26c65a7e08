package stylizer

import (
	"fmt"
	"image"
)

// PixelFormat identifies the channel order of a raw pixel buffer. Only 32-bit
// RGBA and BGRA are accepted; anything else is rejected before the engine
// runs so channel order is never silently misread.
type PixelFormat int

const (
	FormatRGBA PixelFormat = iota
	FormatBGRA
)

func (p PixelFormat) String() string {
	switch p {
	case FormatRGBA:
		return "rgba"
	case FormatBGRA:
		return "bgra"
	default:
		return fmt.Sprintf("pixelformat(%d)", int(p))
	}
}

// Orientation describes the rotation and mirroring applied to an image before
// processing, matching the eight EXIF display orientations. OrientationUp is
// the identity.
type Orientation int

const (
	OrientationUp Orientation = iota
	OrientationDown
	OrientationLeft
	OrientationRight
	OrientationUpMirrored
	OrientationDownMirrored
	OrientationLeftMirrored
	OrientationRightMirrored
)

var orientationNames = map[Orientation]string{
	OrientationUp:            "up",
	OrientationDown:          "down",
	OrientationLeft:          "left",
	OrientationRight:         "right",
	OrientationUpMirrored:    "upMirrored",
	OrientationDownMirrored:  "downMirrored",
	OrientationLeftMirrored:  "leftMirrored",
	OrientationRightMirrored: "rightMirrored",
}

func (o Orientation) String() string {
	if s, ok := orientationNames[o]; ok {
		return s
	}
	return fmt.Sprintf("orientation(%d)", int(o))
}

// ParseOrientation maps the lowercase wire form back to an Orientation.
// Empty input means OrientationUp.
func ParseOrientation(s string) (Orientation, error) {
	if s == "" {
		return OrientationUp, nil
	}
	for o, name := range orientationNames {
		if name == s {
			return o, nil
		}
	}
	return OrientationUp, fmt.Errorf("unknown orientation %q", s)
}

// quarters returns the clockwise quarter turns and mirror flag that make the
// image upright.
func (o Orientation) quarters() (int, bool) {
	switch o {
	case OrientationDown:
		return 2, false
	case OrientationLeft:
		return 3, false
	case OrientationRight:
		return 1, false
	case OrientationUpMirrored:
		return 0, true
	case OrientationDownMirrored:
		return 2, true
	case OrientationLeftMirrored:
		return 3, true
	case OrientationRightMirrored:
		return 1, true
	default:
		return 0, false
	}
}

// SourceType tags the storage backing an Image.
type SourceType int

const (
	// SourceBitmap wraps a decoded stdlib image.
	SourceBitmap SourceType = iota
	// SourcePixelBuffer wraps a raw interleaved pixel buffer.
	SourcePixelBuffer
	// SourceSampleBuffer wraps a pixel buffer captured from a media stream,
	// carrying a presentation timestamp.
	SourceSampleBuffer
)

// Image is the input to stylization: one of three pixel sources plus an
// orientation tag. The stylizer borrows it read-only for the duration of a
// call and never retains it.
type Image struct {
	source      SourceType
	orientation Orientation

	bitmap image.Image

	pix           []byte
	width, height int
	stride        int
	format        PixelFormat

	ptsMicros int64
}

// NewBitmapImage wraps a decoded image. The bitmap must be *image.RGBA or
// *image.NRGBA; other color models fail stylization with an
// unsupported-format error.
func NewBitmapImage(img image.Image, o Orientation) *Image {
	return &Image{source: SourceBitmap, orientation: o, bitmap: img}
}

// NewPixelBufferImage wraps a raw 32-bit pixel buffer. stride is the byte
// distance between rows and must be at least 4*width.
func NewPixelBufferImage(pix []byte, width, height, stride int, format PixelFormat, o Orientation) *Image {
	return &Image{
		source: SourcePixelBuffer, orientation: o,
		pix: pix, width: width, height: height, stride: stride, format: format,
	}
}

// NewSampleBufferImage wraps a pixel buffer captured from a media stream with
// its presentation timestamp in microseconds.
func NewSampleBufferImage(pix []byte, width, height, stride int, format PixelFormat, ptsMicros int64, o Orientation) *Image {
	img := NewPixelBufferImage(pix, width, height, stride, format, o)
	img.source = SourceSampleBuffer
	img.ptsMicros = ptsMicros
	return img
}

// Source reports which union variant backs the image.
func (i *Image) Source() SourceType { return i.source }

// Orientation returns the rotation tag applied before processing.
func (i *Image) Orientation() Orientation { return i.orientation }

// TimestampMicros returns the presentation timestamp for sample-buffer
// images, zero otherwise.
func (i *Image) TimestampMicros() int64 { return i.ptsMicros }
