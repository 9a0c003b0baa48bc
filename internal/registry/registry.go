// Package registry turns selections into short shareable keys and back.
//
// A Registry pairs a Codec with an optional Store. Store-backed codecs
// (hash) remember every encoded selection; self-describing codecs
// (compact) decode keys directly and keep no state.
package registry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/avatar-backend/internal/domain"
	"github.com/yungbote/avatar-backend/internal/observability"
	"github.com/yungbote/avatar-backend/internal/platform/logger"
)

var tracer = otel.Tracer("github.com/yungbote/avatar-backend/internal/registry")

type Registry struct {
	codec   Codec
	store   Store
	log     *logger.Logger
	metrics *observability.Metrics
}

// New builds a registry. store may be nil only when codec is a Decoder.
func New(codec Codec, store Store, log *logger.Logger, metrics *observability.Metrics) (*Registry, error) {
	if codec == nil {
		return nil, errors.New("registry: codec required")
	}
	if _, ok := codec.(Decoder); !ok && store == nil {
		return nil, fmt.Errorf("registry: codec %q needs a store", codec.Name())
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		codec:   codec,
		store:   store,
		log:     log.With("service", "KeyRegistry", "codec", codec.Name()),
		metrics: metrics,
	}, nil
}

func (r *Registry) Codec() string { return r.codec.Name() }

// Encode derives the key for sel and records it. Encoding the same
// selection again is idempotent. If the key already held a different
// selection the newer one wins, and the collision is logged and counted.
func (r *Registry) Encode(ctx context.Context, sel domain.Selection) (key domain.Key, err error) {
	ctx, span := tracer.Start(ctx, "registry.Encode", trace.WithAttributes(
		attribute.String("avatar.codec", r.codec.Name()),
		attribute.String("avatar.selection", sel.Canonical()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	key, err = r.codec.Encode(sel)
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.String("avatar.key", string(key)))
	r.metrics.IncKeyEncoded(r.codec.Name())

	if _, ok := r.codec.(Decoder); ok || r.store == nil {
		return key, nil
	}

	prev, replaced, err := r.store.Put(ctx, key, sel)
	if err != nil {
		r.metrics.IncStoreError("put")
		return "", fmt.Errorf("store key %s: %w", key, err)
	}
	if replaced && prev != sel {
		r.metrics.IncKeyCollision()
		span.SetAttributes(attribute.Bool("avatar.key_collision", true))
		r.log.Warn("Key collision, previous selection overwritten",
			"key", key,
			"previous", prev.Canonical(),
			"selection", sel.Canonical(),
		)
	}
	return key, nil
}

// Decode returns the selection last encoded under key, or
// domain.ErrKeyNotFound.
func (r *Registry) Decode(ctx context.Context, key domain.Key) (sel domain.Selection, err error) {
	ctx, span := tracer.Start(ctx, "registry.Decode", trace.WithAttributes(
		attribute.String("avatar.codec", r.codec.Name()),
		attribute.String("avatar.key", string(key)),
	))
	defer func() {
		switch {
		case err == nil:
			r.metrics.IncKeyLookup("hit")
		case errors.Is(err, domain.ErrKeyNotFound):
			r.metrics.IncKeyLookup("miss")
		default:
			r.metrics.IncKeyLookup("error")
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if !r.codec.Valid(key) {
		return domain.Selection{}, domain.ErrKeyNotFound
	}
	if dec, ok := r.codec.(Decoder); ok {
		return dec.Decode(key)
	}
	sel, err = r.store.Get(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrKeyNotFound) {
		r.metrics.IncStoreError("get")
	}
	return sel, err
}

func (r *Registry) Close() error {
	if r.store == nil {
		return nil
	}
	return r.store.Close()
}
