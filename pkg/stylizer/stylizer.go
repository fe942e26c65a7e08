// Package stylizer performs face stylization on single images: it detects the
// most prominent face and renders it through a model bundle's style at the
// model's fixed output size.
package stylizer

import (
	"context"

	"stylizerd/internal/bundle"
	"stylizerd/internal/engine"
	"stylizerd/internal/imgutil"
)

// FaceStylizer stylizes the most prominent face of an image. Instances are
// configured once at construction, hold the loaded model for their lifetime,
// and may be invoked repeatedly; each call is independent. A FaceStylizer is
// not guaranteed safe for concurrent calls; callers that share one across
// goroutines must serialize.
//
// There is no usable zero value: construct with New or NewFromModelPath.
type FaceStylizer struct {
	sess    engine.Session
	outSize int
}

// New builds a FaceStylizer from explicit options. It fails with a
// configuration error when the bundle path is invalid, the bundle is
// malformed, or the engine cannot initialize; no partially-usable instance is
// returned.
func New(opts Options) (*FaceStylizer, error) {
	if opts.ModelPath == "" {
		return nil, ErrConfig("model path is required", nil)
	}
	b, err := bundle.Open(opts.ModelPath)
	if err != nil {
		return nil, ErrConfig("open model bundle", err)
	}
	adapter, err := engine.ForBundle(b)
	if err != nil {
		return nil, ErrConfig("select engine", err)
	}
	sess, err := adapter.Load(b, engine.Params{Threads: opts.Threads})
	if err != nil {
		return nil, ErrConfig("initialize engine", err)
	}
	return &FaceStylizer{sess: sess, outSize: sess.OutputSize()}, nil
}

// NewFromModelPath builds a FaceStylizer with default options derived from a
// model bundle path.
func NewFromModelPath(path string) (*FaceStylizer, error) {
	return New(OptionsFromModelPath(path))
}

// OutputSize returns the fixed edge length of stylized output frames.
func (fs *FaceStylizer) OutputSize() int { return fs.outSize }

// Stylize runs face stylization on img and returns a result holding a copied
// output frame, valid for as long as the caller keeps it. Rotation is applied
// according to the image's orientation before detection. A result with a nil
// StylizedImage means no face was detected. Not suited to high-throughput
// pipelines because of the copy; use StylizeWithCallback there.
func (fs *FaceStylizer) Stylize(img *Image) (*Result, error) {
	return fs.StylizeContext(context.Background(), img)
}

// StylizeContext is Stylize with a context consulted between pipeline stages.
func (fs *FaceStylizer) StylizeContext(ctx context.Context, img *Image) (*Result, error) {
	out, err := fs.run(ctx, img)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return &Result{}, nil
	}
	copied := out.Clone()
	return &Result{StylizedImage: &Frame{pix: copied.Pix, width: copied.Width, height: copied.Height}}, nil
}

// StylizeWithCallback runs the same computation as Stylize but delivers a
// zero-copy result: fn is invoked exactly once, synchronously, before
// StylizeWithCallback returns, and the result's frame aliases engine-owned
// memory that the next call overwrites. Retaining the frame past the callback
// is a contract violation on the caller's side; the frame reports
// Valid() == false afterward.
func (fs *FaceStylizer) StylizeWithCallback(img *Image, fn func(*Result, error)) {
	fs.StylizeContextWithCallback(context.Background(), img, fn)
}

// StylizeContextWithCallback is StylizeWithCallback with a context consulted
// between pipeline stages.
func (fs *FaceStylizer) StylizeContextWithCallback(ctx context.Context, img *Image, fn func(*Result, error)) {
	out, err := fs.run(ctx, img)
	if err != nil {
		fn(nil, err)
		return
	}
	if out == nil {
		fn(&Result{}, nil)
		return
	}
	frame := &Frame{pix: out.Pix, width: out.Width, height: out.Height, alias: true}
	fn(&Result{StylizedImage: frame}, nil)
	frame.invalid = true
}

// Close releases the engine resources held by the instance.
func (fs *FaceStylizer) Close() error {
	return fs.sess.Close()
}

// run normalizes the input to a packed upright RGBA frame and invokes the
// engine. The returned frame aliases engine memory.
func (fs *FaceStylizer) run(ctx context.Context, img *Image) (*imgutil.Frame, error) {
	frame, err := normalize(img)
	if err != nil {
		return nil, err
	}
	q, mirror := img.orientation.quarters()
	frame = imgutil.Transform(frame, q, mirror)
	out, err := fs.sess.Stylize(ctx, frame)
	if err != nil {
		if engine.IsRuntimeUnavailable(err) {
			return nil, err
		}
		return nil, ErrInference("stylize", err)
	}
	return out, nil
}

// normalize converts any accepted input source into a packed RGBA frame,
// rejecting unsupported pixel formats before the engine is reached.
func normalize(img *Image) (*imgutil.Frame, error) {
	if img == nil {
		return nil, ErrInference("nil input image", nil)
	}
	switch img.source {
	case SourceBitmap:
		if img.bitmap == nil {
			return nil, ErrInference("empty bitmap image", nil)
		}
		frame, ok := imgutil.FromImage(img.bitmap)
		if !ok {
			return nil, ErrUnsupportedFormat("bitmap must be RGBA or NRGBA with an alpha channel")
		}
		return frame, nil
	case SourcePixelBuffer, SourceSampleBuffer:
		switch img.format {
		case FormatRGBA, FormatBGRA:
		default:
			return nil, ErrUnsupportedFormat("pixel buffer must be 32-bit RGBA or BGRA, got " + img.format.String())
		}
		if img.width <= 0 || img.height <= 0 || len(img.pix) == 0 {
			return nil, ErrInference("empty pixel buffer", nil)
		}
		if img.stride < 4*img.width || len(img.pix) < img.stride*(img.height-1)+4*img.width {
			return nil, ErrInference("pixel buffer smaller than stride and dimensions imply", nil)
		}
		return imgutil.FromRGBA(img.pix, img.width, img.height, img.stride, img.format == FormatBGRA), nil
	default:
		return nil, ErrInference("unknown image source", nil)
	}
}
