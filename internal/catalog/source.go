package catalog

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/yungbote/avatar-backend/internal/domain"
)

// ErrCategoryMissing is returned by a Source when a category has no
// backing directory (or object prefix).
var ErrCategoryMissing = errors.New("category directory not found")

// Asset is one raw part file as discovered by a Source.
type Asset struct {
	// File is the base file name, e.g. "Bald.svg". Catalog order is by File.
	File    string
	Content []byte
}

// Source discovers and reads the part files of a category.
type Source interface {
	Name() string
	Assets(ctx context.Context, c domain.Category) ([]Asset, error)
}

// partName is the display name of an asset: its file name without extension.
func partName(file string) string {
	base := path.Base(file)
	return strings.TrimSuffix(base, path.Ext(base))
}
