package imgutil

// Grayscale returns f's luma plane as one byte per pixel, row-major.
// This is the layout pigo's cascade expects.
func Grayscale(f *Frame) []uint8 {
	out := make([]uint8, f.Width*f.Height)
	for i := 0; i < len(out); i++ {
		r := int(f.Pix[i*4])
		g := int(f.Pix[i*4+1])
		b := int(f.Pix[i*4+2])
		// BT.601 integer weights
		out[i] = uint8((299*r + 587*g + 114*b) / 1000)
	}
	return out
}

// Posterize quantizes each color channel of f in place to the given number of
// levels. levels < 2 is a no-op. Alpha is left untouched.
func Posterize(f *Frame, levels int) {
	if levels < 2 {
		return
	}
	step := 255.0 / float64(levels-1)
	var lut [256]byte
	for v := 0; v < 256; v++ {
		q := int(float64(v)/step + 0.5)
		lut[v] = byte(float64(q)*step + 0.5)
	}
	for i := 0; i < len(f.Pix); i += 4 {
		f.Pix[i] = lut[f.Pix[i]]
		f.Pix[i+1] = lut[f.Pix[i+1]]
		f.Pix[i+2] = lut[f.Pix[i+2]]
	}
}

// BoxBlur smooths f in place with a 3x3 box kernel, repeated passes times.
func BoxBlur(f *Frame, passes int) {
	if passes <= 0 || f.Width < 3 || f.Height < 3 {
		return
	}
	tmp := NewFrame(f.Width, f.Height)
	for p := 0; p < passes; p++ {
		copy(tmp.Pix, f.Pix)
		for y := 1; y < f.Height-1; y++ {
			for x := 1; x < f.Width-1; x++ {
				d := (y*f.Width + x) * 4
				for c := 0; c < 3; c++ {
					sum := 0
					for dy := -1; dy <= 1; dy++ {
						for dx := -1; dx <= 1; dx++ {
							sum += int(tmp.Pix[((y+dy)*f.Width+(x+dx))*4+c])
						}
					}
					f.Pix[d+c] = byte(sum / 9)
				}
			}
		}
	}
}

// DarkenEdges multiplies pixels sitting on strong luma gradients toward black,
// giving the cartoon-style ink outline. strength in [0,1] scales the effect.
func DarkenEdges(f *Frame, strength float64) {
	if strength <= 0 || f.Width < 3 || f.Height < 3 {
		return
	}
	if strength > 1 {
		strength = 1
	}
	gray := Grayscale(f)
	for y := 1; y < f.Height-1; y++ {
		for x := 1; x < f.Width-1; x++ {
			gx := int(gray[y*f.Width+x+1]) - int(gray[y*f.Width+x-1])
			gy := int(gray[(y+1)*f.Width+x]) - int(gray[(y-1)*f.Width+x])
			mag := gx*gx + gy*gy
			if mag < 900 { // below threshold: not an edge
				continue
			}
			k := 1 - strength
			d := (y*f.Width + x) * 4
			f.Pix[d] = byte(float64(f.Pix[d]) * k)
			f.Pix[d+1] = byte(float64(f.Pix[d+1]) * k)
			f.Pix[d+2] = byte(float64(f.Pix[d+2]) * k)
		}
	}
}
