package compose

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/avatar-backend/internal/domain"
	"github.com/yungbote/avatar-backend/internal/observability"
	"github.com/yungbote/avatar-backend/internal/platform/logger"
)

var tracer = otel.Tracer("github.com/yungbote/avatar-backend/internal/compose")

// PartLookup resolves a selected part. Returned parts must never change for
// the lifetime of the Engine.
type PartLookup interface {
	Part(c domain.Category, id int) (domain.Part, error)
}

type partKey struct {
	category domain.Category
	id       int
}

type parsed struct {
	inner *InnerContent
	err   error
}

// Engine merges the selected parts of every category into one SVG document.
type Engine struct {
	parts   PartLookup
	log     *logger.Logger
	metrics *observability.Metrics

	// parsed fragments by part; read-only after insert
	cache sync.Map
}

func NewEngine(parts PartLookup, log *logger.Logger, metrics *observability.Metrics) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		parts:   parts,
		log:     log.With("service", "CompositionEngine"),
		metrics: metrics,
	}
}

// Compose renders sel. Output is byte-identical for identical selections.
// A part whose fragment has no inner group is skipped with a warning; an
// out-of-range index fails the whole composite.
func (e *Engine) Compose(ctx context.Context, sel domain.Selection) (doc string, err error) {
	_, span := tracer.Start(ctx, "compose.Compose")
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		e.metrics.ObserveCompose(status, time.Since(start))
		span.End()
	}()
	span.SetAttributes(attribute.String("avatar.selection", sel.Canonical()))

	var resolved [len(domain.LayerOrder)]domain.Part
	for i, c := range domain.LayerOrder {
		p, err := e.parts.Part(c, sel.Index(c))
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", c, err)
		}
		resolved[i] = p
	}

	canvas := NewCanvas()
	for _, p := range resolved {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("compose %s: %w", p.Category, err)
		}
		inner, err := e.inner(p)
		if err != nil {
			if errors.Is(err, domain.ErrMalformedAsset) {
				e.log.Warn("Skipping malformed layer", "category", p.Category, "part_id", p.ID, "part", p.Name, "error", err)
				e.metrics.IncMalformedLayer(string(p.Category))
				continue
			}
			return "", err
		}
		canvas.DeclareNamespaces(inner.Namespaces)

		layer := WrapWithOffset(inner.Group, Offsets[p.Category])
		layer.CreateAttr(LayerAttr, string(p.Category))
		AppendLayer(canvas.Group(), layer)
	}
	return canvas.String()
}

func (e *Engine) inner(p domain.Part) (*InnerContent, error) {
	k := partKey{category: p.Category, id: p.ID}
	if v, ok := e.cache.Load(k); ok {
		pr := v.(parsed)
		return pr.inner, pr.err
	}
	inner, err := ExtractInnerContent(p.Content)
	v, _ := e.cache.LoadOrStore(k, parsed{inner: inner, err: err})
	pr := v.(parsed)
	return pr.inner, pr.err
}
