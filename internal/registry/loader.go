package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stylizerd/internal/bundle"
	"stylizerd/internal/common/fsutil"
	"stylizerd/pkg/types"
)

// LoadDir scans a directory for stylizer model bundles: subdirectories
// containing manifest.toml and single-file *.task archives. Bundles that fail
// to open are skipped; the scan only fails when the directory itself is
// unreadable.
func LoadDir(dir string) ([]types.Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		p := filepath.Join(abs, e.Name())
		if e.IsDir() {
			if !fsutil.PathExists(filepath.Join(p, bundle.ManifestName)) {
				continue
			}
		} else if !strings.HasSuffix(strings.ToLower(e.Name()), bundle.TaskExt) {
			continue
		}
		b, err := bundle.Open(p)
		if err != nil {
			continue
		}
		m := types.Model{
			ID:         bundle.ID(p),
			Name:       b.Manifest.Name,
			Path:       p,
			Version:    b.Manifest.Version,
			OutputSize: b.Manifest.OutputSize,
		}
		if m.Name == "" {
			m.Name = m.ID
		}
		models = append(models, m)
	}
	return models, nil
}
