//go:build tflite

package engine

import (
	"context"
	"fmt"

	pigo "github.com/esimov/pigo/core"
	"github.com/mattn/go-tflite"

	"stylizerd/internal/bundle"
	"stylizerd/internal/imgutil"
)

// tfliteAdapter detects the face with the bundle's pigo cascade and runs the
// stylization through a TensorFlow Lite model. Requires CGO and the tflite_c
// shared library at link time.
type tfliteAdapter struct{}

// NewTFLiteAdapter returns the cgo-backed tflite adapter.
func NewTFLiteAdapter() Adapter { return tfliteAdapter{} }

type tfliteSession struct {
	classifier *pigo.Pigo
	style      bundle.StyleParams
	outSize    int

	model   *tflite.Model
	options *tflite.InterpreterOptions
	interp  *tflite.Interpreter

	inW, inH int
	out      *imgutil.Frame // reused across calls; aliased by results
}

func (tfliteAdapter) Load(b *bundle.Bundle, p Params) (Session, error) {
	rawCascade, err := b.File(b.Manifest.Cascade)
	if err != nil {
		return nil, err
	}
	classifier, err := pigo.NewPigo().Unpack(rawCascade)
	if err != nil {
		return nil, fmt.Errorf("unpack cascade %s: %w", b.Manifest.Cascade, err)
	}
	rawModel, err := b.File(b.Manifest.Model)
	if err != nil {
		return nil, err
	}
	model := tflite.NewModel(rawModel)
	if model == nil {
		return nil, fmt.Errorf("load tflite model %s", b.Manifest.Model)
	}
	options := tflite.NewInterpreterOptions()
	if p.Threads > 0 {
		options.SetNumThread(p.Threads)
	}
	interp := tflite.NewInterpreter(model, options)
	if interp == nil {
		options.Delete()
		model.Delete()
		return nil, fmt.Errorf("create tflite interpreter for %s", b.Manifest.Model)
	}
	if status := interp.AllocateTensors(); status != tflite.OK {
		interp.Delete()
		options.Delete()
		model.Delete()
		return nil, fmt.Errorf("allocate tensors for %s: status %d", b.Manifest.Model, status)
	}
	in := interp.GetInputTensor(0)
	if in.NumDims() != 4 || in.Type() != tflite.Float32 {
		interp.Delete()
		options.Delete()
		model.Delete()
		return nil, fmt.Errorf("model %s: expected float32 NHWC input", b.Manifest.Model)
	}
	return &tfliteSession{
		classifier: classifier,
		style:      b.Manifest.Style,
		outSize:    b.Manifest.OutputSize,
		model:      model,
		options:    options,
		interp:     interp,
		inH:        in.Dim(1),
		inW:        in.Dim(2),
	}, nil
}

func (s *tfliteSession) OutputSize() int { return s.outSize }

func (s *tfliteSession) Stylize(ctx context.Context, f *imgutil.Frame) (*imgutil.Frame, error) {
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
	half := int(float64(det.Scale) * s.style.FaceMargin / 2)
	face := imgutil.Crop(f, det.Col-half, det.Row-half, det.Col+half, det.Row+half)
	if face.Width == 0 || face.Height == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scaled := imgutil.Resize(face, nil, s.inW, s.inH)
	in := s.interp.GetInputTensor(0).Float32s()
	for i := 0; i < s.inW*s.inH; i++ {
		in[i*3] = float32(scaled.Pix[i*4]) / 255
		in[i*3+1] = float32(scaled.Pix[i*4+1]) / 255
		in[i*3+2] = float32(scaled.Pix[i*4+2]) / 255
	}
	if status := s.interp.Invoke(); status != tflite.OK {
		return nil, fmt.Errorf("tflite invoke: status %d", status)
	}
	out := s.interp.GetOutputTensor(0)
	oh, ow := out.Dim(1), out.Dim(2)
	vals := out.Float32s()

	styled := imgutil.NewFrame(ow, oh)
	for i := 0; i < ow*oh; i++ {
		styled.Pix[i*4] = clampByte(vals[i*3] * 255)
		styled.Pix[i*4+1] = clampByte(vals[i*3+1] * 255)
		styled.Pix[i*4+2] = clampByte(vals[i*3+2] * 255)
		styled.Pix[i*4+3] = 255
	}
	s.out = imgutil.Resize(styled, s.out, s.outSize, s.outSize)
	return s.out, nil
}

func (s *tfliteSession) Close() error {
	if s.interp != nil {
		s.interp.Delete()
		s.interp = nil
	}
	if s.options != nil {
		s.options.Delete()
		s.options = nil
	}
	if s.model != nil {
		s.model.Delete()
		s.model = nil
	}
	s.out = nil
	return nil
}

func clampByte(v float32) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
