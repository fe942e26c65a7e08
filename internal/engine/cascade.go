package engine

import (
	"context"
	"fmt"

	pigo "github.com/esimov/pigo/core"

	"stylizerd/internal/bundle"
	"stylizerd/internal/imgutil"
)

// cascadeAdapter runs face detection with a pigo pixel-intensity cascade and
// renders the stylized face with the bundle's style parameters. Pure Go, no
// cgo, available in every build.
type cascadeAdapter struct{}

// NewCascadeAdapter returns the default, dependency-free adapter.
func NewCascadeAdapter() Adapter { return cascadeAdapter{} }

type cascadeSession struct {
	classifier *pigo.Pigo
	style      bundle.StyleParams
	outSize    int
	out        *imgutil.Frame // reused across calls; aliased by results
}

func (cascadeAdapter) Load(b *bundle.Bundle, _ Params) (Session, error) {
	raw, err := b.File(b.Manifest.Cascade)
	if err != nil {
		return nil, err
	}
	classifier, err := pigo.NewPigo().Unpack(raw)
	if err != nil {
		return nil, fmt.Errorf("unpack cascade %s: %w", b.Manifest.Cascade, err)
	}
	return &cascadeSession{
		classifier: classifier,
		style:      b.Manifest.Style,
		outSize:    b.Manifest.OutputSize,
	}, nil
}

func (s *cascadeSession) OutputSize() int { return s.outSize }

func (s *cascadeSession) Stylize(ctx context.Context, f *imgutil.Frame) (*imgutil.Frame, error) {
	if f == nil || f.Width == 0 || f.Height == 0 {
		return nil, fmt.Errorf("empty input frame")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	det, ok := detectBest(s.classifier, f, s.style.MinQuality)
	if !ok {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Square crop around the detection center, widened by the style margin.
	half := int(float64(det.Scale) * s.style.FaceMargin / 2)
	face := imgutil.Crop(f, det.Col-half, det.Row-half, det.Col+half, det.Row+half)
	if face.Width == 0 || face.Height == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.out = imgutil.Resize(face, s.out, s.outSize, s.outSize)
	imgutil.BoxBlur(s.out, s.style.SmoothPasses)
	imgutil.Posterize(s.out, s.style.PosterizeLevels)
	imgutil.DarkenEdges(s.out, s.style.EdgeStrength)
	return s.out, nil
}

// detectBest returns the highest-scoring clustered detection, if any passes
// the bundle's quality floor.
func detectBest(classifier *pigo.Pigo, f *imgutil.Frame, minQuality float64) (pigo.Detection, bool) {
	maxSize := f.Width
	if f.Height < maxSize {
		maxSize = f.Height
	}
	params := pigo.CascadeParams{
		MinSize:     20,
		MaxSize:     maxSize,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: imgutil.Grayscale(f),
			Rows:   f.Height,
			Cols:   f.Width,
			Dim:    f.Width,
		},
	}
	dets := classifier.RunCascade(params, 0.0)
	dets = classifier.ClusterDetections(dets, 0.2)

	var best pigo.Detection
	found := false
	for _, d := range dets {
		if float64(d.Q) < minQuality {
			continue
		}
		if !found || d.Q > best.Q {
			best = d
			found = true
		}
	}
	return best, found
}

func (s *cascadeSession) Close() error {
	s.classifier = nil
	s.out = nil
	return nil
}
