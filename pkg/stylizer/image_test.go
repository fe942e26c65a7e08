package stylizer

import (
	"image"
	"testing"
)

func TestParseOrientationRoundTrip(t *testing.T) {
	all := []Orientation{
		OrientationUp, OrientationDown, OrientationLeft, OrientationRight,
		OrientationUpMirrored, OrientationDownMirrored,
		OrientationLeftMirrored, OrientationRightMirrored,
	}
	for _, o := range all {
		got, err := ParseOrientation(o.String())
		if err != nil {
			t.Fatalf("parse %q: %v", o.String(), err)
		}
		if got != o {
			t.Fatalf("round trip %q: got %v", o.String(), got)
		}
	}
}

func TestParseOrientationDefaultsToUp(t *testing.T) {
	o, err := ParseOrientation("")
	if err != nil || o != OrientationUp {
		t.Fatalf("got %v err=%v", o, err)
	}
}

func TestParseOrientationUnknown(t *testing.T) {
	if _, err := ParseOrientation("sideways"); err == nil {
		t.Fatalf("expected error for unknown orientation")
	}
}

func TestImageSourceTagging(t *testing.T) {
	bm := NewBitmapImage(image.NewRGBA(image.Rect(0, 0, 1, 1)), OrientationDown)
	if bm.Source() != SourceBitmap || bm.Orientation() != OrientationDown {
		t.Fatalf("bitmap tagging wrong: %v %v", bm.Source(), bm.Orientation())
	}
	pb := NewPixelBufferImage(make([]byte, 4), 1, 1, 4, FormatBGRA, OrientationUp)
	if pb.Source() != SourcePixelBuffer {
		t.Fatalf("pixel buffer tagging wrong: %v", pb.Source())
	}
	sb := NewSampleBufferImage(make([]byte, 4), 1, 1, 4, FormatRGBA, 123456, OrientationLeft)
	if sb.Source() != SourceSampleBuffer {
		t.Fatalf("sample buffer tagging wrong: %v", sb.Source())
	}
	if sb.TimestampMicros() != 123456 {
		t.Fatalf("timestamp lost: %d", sb.TimestampMicros())
	}
	if pb.TimestampMicros() != 0 {
		t.Fatalf("pixel buffer has no timestamp, got %d", pb.TimestampMicros())
	}
}

func TestSampleBufferAcceptedLikePixelBuffer(t *testing.T) {
	sess := &fakeSession{}
	fs := newFakeStylizer(sess)
	img := NewSampleBufferImage(make([]byte, 16), 2, 2, 8, FormatRGBA, 42, OrientationUp)
	if _, err := fs.Stylize(img); err != nil {
		t.Fatalf("sample buffer input failed: %v", err)
	}
	if sess.calls != 1 {
		t.Fatalf("engine calls=%d", sess.calls)
	}
}
