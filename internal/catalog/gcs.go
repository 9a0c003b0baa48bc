package catalog

import (
	"context"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/bmatcuk/doublestar/v4"
	"google.golang.org/api/iterator"

	"github.com/yungbote/avatar-backend/internal/domain"
)

// GCSSource reads parts from gs://<bucket>/<prefix>/<category>/<pattern>.
type GCSSource struct {
	client  *storage.Client
	bucket  string
	prefix  string
	pattern string
}

func NewGCSSource(client *storage.Client, bucket, prefix, pattern string) *GCSSource {
	if pattern == "" {
		pattern = "*.svg"
	}
	return &GCSSource{client: client, bucket: bucket, prefix: prefix, pattern: pattern}
}

func (s *GCSSource) Name() string { return "gcs:" + path.Join(s.bucket, s.prefix) }

func (s *GCSSource) Assets(ctx context.Context, c domain.Category) ([]Asset, error) {
	prefix := categoryPrefix(s.prefix, c)
	bkt := s.client.Bucket(s.bucket)

	it := bkt.Objects(ctx, &storage.Query{Prefix: prefix, Delimiter: "/"})
	var names []string
	seen := false
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list gs://%s/%s: %w", s.bucket, prefix, err)
		}
		seen = true
		if attrs.Name == "" {
			// synthetic sub-prefix entry
			continue
		}
		file := path.Base(attrs.Name)
		ok, err := doublestar.Match(s.pattern, file)
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", s.pattern, err)
		}
		if ok {
			names = append(names, attrs.Name)
		}
	}
	if !seen {
		return nil, fmt.Errorf("%w: gs://%s/%s", ErrCategoryMissing, s.bucket, prefix)
	}

	out := make([]Asset, 0, len(names))
	for _, name := range names {
		b, err := readObject(ctx, bkt.Object(name))
		if err != nil {
			return nil, err
		}
		out = append(out, Asset{File: path.Base(name), Content: b})
	}
	return out, nil
}

func readObject(ctx context.Context, obj *storage.ObjectHandle) ([]byte, error) {
	r, err := obj.NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", obj.ObjectName(), err)
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", obj.ObjectName(), err)
	}
	return b, nil
}

func categoryPrefix(prefix string, c domain.Category) string {
	if prefix == "" {
		return string(c) + "/"
	}
	return path.Join(prefix, string(c)) + "/"
}
