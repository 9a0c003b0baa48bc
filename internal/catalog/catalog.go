package catalog

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/avatar-backend/internal/domain"
	"github.com/yungbote/avatar-backend/internal/platform/logger"
)

// Catalog is the immutable, ordered set of parts per category. It is built
// once at startup and safe for concurrent reads without locking.
type Catalog struct {
	source string
	parts  map[domain.Category][]domain.Part
}

// Load reads every category from src concurrently. Parts are ordered by
// file name, so ids stay stable while the asset set is unchanged. A missing
// or empty category is an error.
func Load(ctx context.Context, log *logger.Logger, src Source) (*Catalog, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("service", "Catalog", "source", src.Name())

	loaded := make([][]Asset, len(domain.Categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range domain.Categories {
		g.Go(func() error {
			assets, err := src.Assets(gctx, c)
			if err != nil {
				return fmt.Errorf("load %s: %w", c, err)
			}
			loaded[i] = assets
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byCategory := make(map[domain.Category][]Asset, len(domain.Categories))
	for i, c := range domain.Categories {
		byCategory[c] = loaded[i]
	}
	cat, err := FromAssets(src.Name(), byCategory)
	if err != nil {
		return nil, err
	}
	for _, c := range domain.Categories {
		log.Info("Loaded components", "category", c, "count", cat.Count(c))
	}
	return cat, nil
}

// FromAssets builds a Catalog from already-read assets.
func FromAssets(source string, assets map[domain.Category][]Asset) (*Catalog, error) {
	cat := &Catalog{
		source: source,
		parts:  make(map[domain.Category][]domain.Part, len(domain.Categories)),
	}
	for _, c := range domain.Categories {
		list := append([]Asset(nil), assets[c]...)
		if len(list) == 0 {
			return nil, fmt.Errorf("category %s has no parts", c)
		}
		sort.SliceStable(list, func(i, j int) bool { return list[i].File < list[j].File })

		parts := make([]domain.Part, len(list))
		for id, a := range list {
			parts[id] = domain.Part{
				Category: c,
				ID:       id,
				Name:     partName(a.File),
				Content:  a.Content,
			}
		}
		cat.parts[c] = parts
	}
	return cat, nil
}

func (c *Catalog) Source() string { return c.source }

// ListParts returns the parts of a category in id order. The slice is a
// copy; part contents are shared and must not be modified.
func (c *Catalog) ListParts(cat domain.Category) []domain.Part {
	return append([]domain.Part(nil), c.parts[cat]...)
}

// Part returns the part with the given id, or an *OutOfRangeError.
func (c *Catalog) Part(cat domain.Category, id int) (domain.Part, error) {
	parts, ok := c.parts[cat]
	if !ok {
		return domain.Part{}, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, string(cat))
	}
	if id < 0 || id >= len(parts) {
		return domain.Part{}, &domain.OutOfRangeError{Category: cat, Index: id, Max: len(parts) - 1}
	}
	return parts[id], nil
}

func (c *Catalog) Count(cat domain.Category) int {
	return len(c.parts[cat])
}

// MaxID is Count-1; it satisfies domain.Bounds.
func (c *Catalog) MaxID(cat domain.Category) int {
	return len(c.parts[cat]) - 1
}
