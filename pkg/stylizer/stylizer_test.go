package stylizer

import (
	"context"
	"errors"
	"image"
	"testing"

	"stylizerd/internal/imgutil"
)

// fakeSession stands in for the engine. It records the frames it receives and
// serves results from a single reusable output buffer, like the real engines.
type fakeSession struct {
	out     *imgutil.Frame
	noFace  bool
	err     error
	calls   int
	lastIn  *imgutil.Frame
	outSize int
}

func (s *fakeSession) Stylize(ctx context.Context, f *imgutil.Frame) (*imgutil.Frame, error) {
	s.calls++
	s.lastIn = f
	if s.err != nil {
		return nil, s.err
	}
	if s.noFace {
		return nil, nil
	}
	return s.out, nil
}

func (s *fakeSession) OutputSize() int { return s.outSize }
func (s *fakeSession) Close() error    { return nil }

func newFakeStylizer(sess *fakeSession) *FaceStylizer {
	if sess.out == nil && !sess.noFace && sess.err == nil {
		sess.out = imgutil.NewFrame(4, 4)
		for i := range sess.out.Pix {
			sess.out.Pix[i] = 0xAB
		}
	}
	if sess.outSize == 0 {
		sess.outSize = 4
	}
	return &FaceStylizer{sess: sess, outSize: sess.outSize}
}

func rgbaInput() *Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	return NewBitmapImage(img, OrientationUp)
}

func TestNewRequiresModelPath(t *testing.T) {
	_, err := New(Options{})
	if err == nil || !IsConfigError(err) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestNewFromModelPathMissingBundle(t *testing.T) {
	fs, err := NewFromModelPath("/nonexistent/bundle.task")
	if fs != nil {
		t.Fatalf("expected nil instance on failed construction")
	}
	if !IsConfigError(err) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestStylizeCopiesOutput(t *testing.T) {
	sess := &fakeSession{}
	fs := newFakeStylizer(sess)
	res, err := fs.Stylize(rgbaInput())
	if err != nil {
		t.Fatalf("stylize: %v", err)
	}
	frame := res.StylizedImage
	if frame == nil {
		t.Fatalf("expected stylized frame")
	}
	if &frame.Pix()[0] == &sess.out.Pix[0] {
		t.Fatalf("copied result must not alias engine buffer")
	}
	// Engine reuses its buffer; a prior copied result must not change.
	sess.out.Pix[0] = 0x00
	if frame.Pix()[0] != 0xAB {
		t.Fatalf("copied result changed after engine buffer mutation")
	}
	if !frame.Valid() {
		t.Fatalf("copied frame must stay valid")
	}
}

func TestStylizeNoFaceIsSuccess(t *testing.T) {
	fs := newFakeStylizer(&fakeSession{noFace: true})
	res, err := fs.Stylize(rgbaInput())
	if err != nil {
		t.Fatalf("no-face must not be an error, got %v", err)
	}
	if res.StylizedImage != nil {
		t.Fatalf("expected empty output field")
	}
}

func TestStylizeWrapsEngineError(t *testing.T) {
	fs := newFakeStylizer(&fakeSession{err: errors.New("tensor mismatch")})
	_, err := fs.Stylize(rgbaInput())
	if !IsInferenceError(err) {
		t.Fatalf("expected inference error, got %v", err)
	}
	// A failed call leaves the instance reusable.
	fs2 := newFakeStylizer(&fakeSession{})
	fs.sess = fs2.sess
	if _, err := fs.Stylize(rgbaInput()); err != nil {
		t.Fatalf("instance not reusable after failure: %v", err)
	}
}

func TestStylizeRejectsUnsupportedBitmap(t *testing.T) {
	sess := &fakeSession{}
	fs := newFakeStylizer(sess)
	ycbcr := image.NewYCbCr(image.Rect(0, 0, 8, 8), image.YCbCrSubsampleRatio420)
	_, err := fs.Stylize(NewBitmapImage(ycbcr, OrientationUp))
	if !IsUnsupportedFormat(err) {
		t.Fatalf("expected unsupported-format error, got %v", err)
	}
	if sess.calls != 0 {
		t.Fatalf("engine must not be invoked for unsupported formats")
	}
}

func TestStylizeRejectsUnknownPixelFormat(t *testing.T) {
	sess := &fakeSession{}
	fs := newFakeStylizer(sess)
	buf := make([]byte, 4*2*2)
	_, err := fs.Stylize(NewPixelBufferImage(buf, 2, 2, 8, PixelFormat(99), OrientationUp))
	if !IsUnsupportedFormat(err) {
		t.Fatalf("expected unsupported-format error, got %v", err)
	}
	if sess.calls != 0 {
		t.Fatalf("engine must not be invoked, calls=%d", sess.calls)
	}
}

func TestStylizeEmptyPixelBuffer(t *testing.T) {
	fs := newFakeStylizer(&fakeSession{})
	_, err := fs.Stylize(NewPixelBufferImage(nil, 0, 0, 0, FormatRGBA, OrientationUp))
	if !IsInferenceError(err) {
		t.Fatalf("expected inference error for empty input, got %v", err)
	}
}

func TestStylizeBGRAIsSwapped(t *testing.T) {
	sess := &fakeSession{}
	fs := newFakeStylizer(sess)
	// One BGRA pixel: B=1 G=2 R=3 A=4.
	buf := []byte{1, 2, 3, 4}
	if _, err := fs.Stylize(NewPixelBufferImage(buf, 1, 1, 4, FormatBGRA, OrientationUp)); err != nil {
		t.Fatalf("stylize: %v", err)
	}
	got := sess.lastIn.Pix
	want := []byte{3, 2, 1, 4} // RGBA
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("channel %d: got %d want %d", i, got[i], want[i])
		}
	}
}

func TestStylizeAppliesOrientation(t *testing.T) {
	sess := &fakeSession{}
	fs := newFakeStylizer(sess)
	// 2x1 RGBA buffer: left pixel red, right pixel green.
	buf := []byte{255, 0, 0, 255, 0, 255, 0, 255}
	if _, err := fs.Stylize(NewPixelBufferImage(buf, 2, 1, 8, FormatRGBA, OrientationRight)); err != nil {
		t.Fatalf("stylize: %v", err)
	}
	in := sess.lastIn
	if in.Width != 1 || in.Height != 2 {
		t.Fatalf("expected 1x2 after quarter turn, got %dx%d", in.Width, in.Height)
	}
	// 90 degrees clockwise puts the left (red) pixel on top.
	if in.Pix[0] != 255 || in.Pix[1] != 0 {
		t.Fatalf("unexpected top pixel after rotation: %v", in.Pix[:4])
	}
}

func TestStylizeWithCallbackZeroCopy(t *testing.T) {
	sess := &fakeSession{}
	fs := newFakeStylizer(sess)
	calls := 0
	var captured *Frame
	fs.StylizeWithCallback(rgbaInput(), func(res *Result, err error) {
		calls++
		if err != nil {
			t.Fatalf("callback error: %v", err)
		}
		captured = res.StylizedImage
		if captured == nil {
			t.Fatalf("expected frame in callback")
		}
		if &captured.Pix()[0] != &sess.out.Pix[0] {
			t.Fatalf("zero-copy result must alias engine buffer")
		}
		if !captured.Valid() {
			t.Fatalf("frame must be valid inside the callback")
		}
	})
	if calls != 1 {
		t.Fatalf("callback invoked %d times, want exactly 1", calls)
	}
	if captured.Valid() {
		t.Fatalf("zero-copy frame must be invalidated once the callback returns")
	}
}

func TestStylizeWithCallbackDeliversErrors(t *testing.T) {
	fs := newFakeStylizer(&fakeSession{err: errors.New("boom")})
	calls := 0
	fs.StylizeWithCallback(rgbaInput(), func(res *Result, err error) {
		calls++
		if res != nil {
			t.Fatalf("expected nil result on error")
		}
		if !IsInferenceError(err) {
			t.Fatalf("expected inference error, got %v", err)
		}
	})
	if calls != 1 {
		t.Fatalf("callback invoked %d times, want exactly 1", calls)
	}
}

func TestStylizeWithCallbackNoFace(t *testing.T) {
	fs := newFakeStylizer(&fakeSession{noFace: true})
	fs.StylizeWithCallback(rgbaInput(), func(res *Result, err error) {
		if err != nil || res == nil || res.StylizedImage != nil {
			t.Fatalf("expected empty success result, got res=%+v err=%v", res, err)
		}
	})
}

func TestFrameCloneIndependence(t *testing.T) {
	sess := &fakeSession{}
	fs := newFakeStylizer(sess)
	var clone *Frame
	fs.StylizeWithCallback(rgbaInput(), func(res *Result, err error) {
		clone = res.StylizedImage.Clone()
	})
	sess.out.Pix[0] = 0x01
	if clone.Pix()[0] != 0xAB {
		t.Fatalf("clone must be independent of engine buffer")
	}
	if !clone.Valid() {
		t.Fatalf("clone must stay valid past the callback")
	}
}
