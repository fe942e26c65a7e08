package bundle

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// ManifestName is the file every bundle must contain at its root.
const ManifestName = "manifest.toml"

// TaskExt is the extension of single-file bundle archives.
const TaskExt = ".task"

// Engine names accepted in a manifest.
const (
	EngineCascade = "cascade"
	EngineTFLite  = "tflite"
)

// StyleParams drive the stylization transform applied to the cropped face.
type StyleParams struct {
	PosterizeLevels int     `toml:"posterize_levels"`
	SmoothPasses    int     `toml:"smooth_passes"`
	EdgeStrength    float64 `toml:"edge_strength"`
	// FaceMargin scales the crop square relative to the detection size.
	FaceMargin float64 `toml:"face_margin"`
	// MinQuality rejects detections scored below it.
	MinQuality float64 `toml:"min_quality"`
}

// Manifest describes a face-stylizer model bundle.
type Manifest struct {
	Name       string      `toml:"name"`
	Version    string      `toml:"version"`
	Engine     string      `toml:"engine"`
	OutputSize int         `toml:"output_size"`
	Cascade    string      `toml:"cascade"`
	Model      string      `toml:"model"`
	Style      StyleParams `toml:"style"`
}

// Bundle is a loaded model bundle: manifest plus its files read into memory.
// Bundles are immutable after Open.
type Bundle struct {
	Path     string
	Manifest Manifest
	files    map[string][]byte
}

// Open loads a bundle from a directory containing manifest.toml or from a
// single-file .task zip archive with the same layout.
func Open(path string) (*Bundle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %w", path, err)
	}
	var files map[string][]byte
	if info.IsDir() {
		files, err = readDir(path)
	} else if strings.EqualFold(filepath.Ext(path), TaskExt) {
		files, err = readZip(path)
	} else {
		return nil, fmt.Errorf("bundle %s: not a directory or %s archive", path, TaskExt)
	}
	if err != nil {
		return nil, err
	}
	raw, ok := files[ManifestName]
	if !ok {
		return nil, fmt.Errorf("bundle %s: missing %s", path, ManifestName)
	}
	var m Manifest
	if err := toml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("bundle %s: parse manifest: %w", path, err)
	}
	applyDefaults(&m)
	if err := validate(path, &m, files); err != nil {
		return nil, err
	}
	return &Bundle{Path: path, Manifest: m, files: files}, nil
}

// File returns the contents of a file inside the bundle.
func (b *Bundle) File(name string) ([]byte, error) {
	data, ok := b.files[name]
	if !ok {
		return nil, fmt.Errorf("bundle %s: no file %q", b.Path, name)
	}
	return data, nil
}

// ID derives a registry identifier from the bundle path: the directory name,
// or the archive filename without its extension.
func ID(path string) string {
	base := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(base), TaskExt) {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base
}

func applyDefaults(m *Manifest) {
	if m.Engine == "" {
		m.Engine = EngineCascade
	}
	if m.OutputSize == 0 {
		m.OutputSize = 256
	}
	if m.Style.PosterizeLevels == 0 {
		m.Style.PosterizeLevels = 8
	}
	if m.Style.SmoothPasses == 0 {
		m.Style.SmoothPasses = 2
	}
	if m.Style.FaceMargin == 0 {
		m.Style.FaceMargin = 1.4
	}
	if m.Style.MinQuality == 0 {
		m.Style.MinQuality = 5.0
	}
}

func validate(path string, m *Manifest, files map[string][]byte) error {
	if m.OutputSize < 16 || m.OutputSize > 4096 {
		return fmt.Errorf("bundle %s: output_size %d out of range", path, m.OutputSize)
	}
	switch m.Engine {
	case EngineCascade:
		if m.Cascade == "" {
			return fmt.Errorf("bundle %s: cascade engine requires a cascade file", path)
		}
		if _, ok := files[m.Cascade]; !ok {
			return fmt.Errorf("bundle %s: cascade file %q not in bundle", path, m.Cascade)
		}
	case EngineTFLite:
		if m.Model == "" {
			return fmt.Errorf("bundle %s: tflite engine requires a model file", path)
		}
		if _, ok := files[m.Model]; !ok {
			return fmt.Errorf("bundle %s: model file %q not in bundle", path, m.Model)
		}
		// Detection still runs on the cascade even with a tflite stylizer.
		if m.Cascade == "" {
			return fmt.Errorf("bundle %s: tflite engine requires a cascade file", path)
		}
		if _, ok := files[m.Cascade]; !ok {
			return fmt.Errorf("bundle %s: cascade file %q not in bundle", path, m.Cascade)
		}
	default:
		return fmt.Errorf("bundle %s: unknown engine %q", path, m.Engine)
	}
	return nil
}

func readDir(dir string) (map[string][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %w", dir, err)
	}
	files := make(map[string][]byte, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("bundle %s: read %s: %w", dir, e.Name(), err)
		}
		files[e.Name()] = data
	}
	return files, nil
}

func readZip(path string) (map[string][]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %w", path, err)
	}
	defer zr.Close()
	files := make(map[string][]byte, len(zr.File))
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("bundle %s: open %s: %w", path, zf.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("bundle %s: read %s: %w", path, zf.Name, err)
		}
		// Flatten: archives may carry a single top-level directory.
		files[filepath.Base(zf.Name)] = data
	}
	return files, nil
}
