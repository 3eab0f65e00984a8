package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"

	"labelforge/internal/document"
)

// Save asks gate for permission, then writes snap to path with exp. The
// exporter's extension is appended when path has none. Multi-page output
// is written as name-1.png, name-2.png, ... The written paths are
// returned.
func Save(ctx context.Context, gate Gate, exp Exporter, snap document.Snapshot, path string) ([]string, error) {
	if gate == nil {
		gate = AllowAll
	}
	ok, err := gate.Allow(ctx, ActionExport)
	if err != nil {
		return nil, fmt.Errorf("check export permission: %w", err)
	}
	if !ok {
		return nil, ErrNotEntitled
	}

	ext := exp.FileExtension()
	if filepath.Ext(path) == "" {
		path += ext
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create export dir: %w", err)
		}
	}

	if pager, ok := exp.(Pager); ok {
		pages, err := pager.Pages(ctx, snap)
		if err != nil {
			return nil, err
		}
		if len(pages) > 1 {
			base := strings.TrimSuffix(path, filepath.Ext(path))
			paths := make([]string, 0, len(pages))
			for i, page := range pages {
				if err := ctx.Err(); err != nil {
					return paths, err
				}
				p := fmt.Sprintf("%s-%d%s", base, i+1, filepath.Ext(path))
				if err := gg.SavePNG(p, page); err != nil {
					return paths, fmt.Errorf("write page %d: %w", i+1, err)
				}
				paths = append(paths, p)
			}
			return paths, nil
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create export file: %w", err)
	}
	if err := exp.Export(ctx, snap, f); err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close export file: %w", err)
	}
	return []string{path}, nil
}
