package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yungbote/avatar-backend/internal/domain"
)

// FSSource reads parts from <root>/<category>/<pattern>.
type FSSource struct {
	fsys    fs.FS
	root    string
	pattern string
}

func NewFSSource(root, pattern string) *FSSource {
	return NewFSSourceFS(os.DirFS(root), root, pattern)
}

// NewFSSourceFS reads from an arbitrary fs.FS; root is only used for messages.
func NewFSSourceFS(fsys fs.FS, root, pattern string) *FSSource {
	if pattern == "" {
		pattern = "*.svg"
	}
	return &FSSource{fsys: fsys, root: root, pattern: pattern}
}

func (s *FSSource) Name() string { return "fs:" + s.root }

func (s *FSSource) Assets(ctx context.Context, c domain.Category) ([]Asset, error) {
	dir := string(c)
	info, err := fs.Stat(s.fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCategoryMissing, path.Join(s.root, dir))
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrCategoryMissing, path.Join(s.root, dir))
	}

	matches, err := doublestar.Glob(s.fsys, path.Join(dir, s.pattern), doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}

	out := make([]Asset, 0, len(matches))
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := fs.ReadFile(s.fsys, m)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", m, err)
		}
		out = append(out, Asset{File: path.Base(m), Content: b})
	}
	return out, nil
}
