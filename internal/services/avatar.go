package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/yungbote/avatar-backend/internal/domain"
	"github.com/yungbote/avatar-backend/internal/platform/logger"
)

// PartCatalog is the read side of the asset catalog.
type PartCatalog interface {
	ListParts(c domain.Category) []domain.Part
	MaxID(c domain.Category) int
}

type KeyRegistry interface {
	Encode(ctx context.Context, sel domain.Selection) (domain.Key, error)
	Decode(ctx context.Context, key domain.Key) (domain.Selection, error)
}

type Composer interface {
	Compose(ctx context.Context, sel domain.Selection) (string, error)
}

// Randomizer draws a uniform int in [0, n).
type Randomizer interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

type PartOption struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CategoryOptions struct {
	Category domain.Category
	Parts    []PartOption
}

// Options lists every selectable part. It marshals to
// {"categories": {"<category>": [{"id","name"}...]}} with categories in
// canonical order.
type Options struct {
	Categories []CategoryOptions
}

func (o Options) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"categories":{`)
	for i, c := range o.Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(string(c.Category))
		if err != nil {
			return nil, err
		}
		parts := c.Parts
		if parts == nil {
			parts = []PartOption{}
		}
		list, err := json.Marshal(parts)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(list)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// Result is a composed avatar and the key that reproduces it.
type Result struct {
	Key       domain.Key
	SVG       string
	Selection domain.Selection
}

type AvatarService interface {
	Options(ctx context.Context) Options
	// Bounds returns the highest valid part id for c.
	Bounds(c domain.Category) int
	// Validate rejects a selection with any index outside its category's
	// bounds with a *domain.OutOfRangeError.
	Validate(sel domain.Selection) error
	RandomSelection() domain.Selection
	Generate(ctx context.Context, sel domain.Selection) (*Result, error)
	Random(ctx context.Context) (*Result, error)
	// Get recomposes the avatar for a previously issued key. Unknown keys
	// yield domain.ErrKeyNotFound.
	Get(ctx context.Context, key domain.Key) (*Result, error)
}

type avatarService struct {
	log      *logger.Logger
	catalog  PartCatalog
	registry KeyRegistry
	composer Composer
	rnd      Randomizer
}

// NewAvatarService wires the service boundary. A nil rnd uses the
// process-wide math/rand/v2 source.
func NewAvatarService(log *logger.Logger, catalog PartCatalog, registry KeyRegistry, composer Composer, rnd Randomizer) (AvatarService, error) {
	if catalog == nil || registry == nil || composer == nil {
		return nil, errors.New("avatar service: catalog, registry and composer are required")
	}
	if log == nil {
		log = logger.Nop()
	}
	if rnd == nil {
		rnd = globalRand{}
	}
	return &avatarService{
		log:      log.With("service", "AvatarService"),
		catalog:  catalog,
		registry: registry,
		composer: composer,
		rnd:      rnd,
	}, nil
}

func (s *avatarService) Options(_ context.Context) Options {
	out := Options{Categories: make([]CategoryOptions, 0, len(domain.Categories))}
	for _, c := range domain.Categories {
		parts := s.catalog.ListParts(c)
		opts := make([]PartOption, 0, len(parts))
		for _, p := range parts {
			opts = append(opts, PartOption{ID: p.ID, Name: p.Name})
		}
		out.Categories = append(out.Categories, CategoryOptions{Category: c, Parts: opts})
	}
	return out
}

func (s *avatarService) Bounds(c domain.Category) int {
	return s.catalog.MaxID(c)
}

func (s *avatarService) Validate(sel domain.Selection) error {
	return sel.Validate(s.catalog)
}

func (s *avatarService) RandomSelection() domain.Selection {
	var sel domain.Selection
	for _, c := range domain.Categories {
		sel = sel.With(c, s.rnd.IntN(s.catalog.MaxID(c)+1))
	}
	return sel
}

func (s *avatarService) Generate(ctx context.Context, sel domain.Selection) (*Result, error) {
	if err := s.Validate(sel); err != nil {
		return nil, err
	}
	return s.build(ctx, sel)
}

func (s *avatarService) Random(ctx context.Context) (*Result, error) {
	return s.build(ctx, s.RandomSelection())
}

func (s *avatarService) Get(ctx context.Context, key domain.Key) (*Result, error) {
	sel, err := s.registry.Decode(ctx, key)
	if err != nil {
		return nil, err
	}
	// keys can outlive a catalog change when the registry is persistent
	if err := s.Validate(sel); err != nil {
		s.log.Warn("Stored selection no longer fits the catalog", "key", key, "selection", sel.Canonical(), "error", err)
		return nil, fmt.Errorf("key %s: %w", key, domain.ErrKeyNotFound)
	}
	svg, err := s.composer.Compose(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("compose %s: %w", key, err)
	}
	return &Result{Key: key, SVG: svg, Selection: sel}, nil
}

func (s *avatarService) build(ctx context.Context, sel domain.Selection) (*Result, error) {
	key, err := s.registry.Encode(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("encode selection %s: %w", sel.Canonical(), err)
	}
	svg, err := s.composer.Compose(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("compose selection %s: %w", sel.Canonical(), err)
	}
	s.log.Debug("Avatar composed", "key", key, "selection", sel.Canonical())
	return &Result{Key: key, SVG: svg, Selection: sel}, nil
}
