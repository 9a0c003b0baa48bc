package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/yungbote/avatar-backend/internal/domain"
)

// Codec derives a Key from a Selection. Encoding must be deterministic.
type Codec interface {
	Name() string
	Encode(sel domain.Selection) (domain.Key, error)
	// Valid reports whether key is well-formed for this codec. Malformed
	// keys are treated as unknown without consulting a store.
	Valid(key domain.Key) bool
}

// Decoder is implemented by codecs whose keys carry the full selection.
// A registry whose codec is a Decoder needs no store.
type Decoder interface {
	Decode(key domain.Key) (domain.Selection, error)
}

const (
	DefaultKeyLength = 8
	maxHashKeyLength = sha256.Size * 2
)

// HashCodec truncates the lowercase hex SHA-256 of the canonical selection
// string. Distinct selections can collide once truncated.
type HashCodec struct {
	length int
}

func NewHashCodec(length int) (*HashCodec, error) {
	if length == 0 {
		length = DefaultKeyLength
	}
	if length < DefaultKeyLength || length > maxHashKeyLength {
		return nil, fmt.Errorf("hash key length must be between %d and %d, got %d", DefaultKeyLength, maxHashKeyLength, length)
	}
	return &HashCodec{length: length}, nil
}

func (c *HashCodec) Name() string { return "hash" }

func (c *HashCodec) Length() int { return c.length }

func (c *HashCodec) Encode(sel domain.Selection) (domain.Key, error) {
	sum := sha256.Sum256([]byte(sel.Canonical()))
	return domain.Key(hex.EncodeToString(sum[:])[:c.length]), nil
}

func (c *HashCodec) Valid(key domain.Key) bool {
	if len(key) != c.length {
		return false
	}
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if (ch < '0' || ch > '9') && (ch < 'a' || ch > 'f') {
			return false
		}
	}
	return true
}

const compactBase = 36

// CompactCodec packs the five indices into one mixed-radix integer, using
// each category's part count as its radix, and renders it in fixed-width
// base 36. Keys are self-describing and never collide, but change meaning
// if the catalog's part counts change.
type CompactCodec struct {
	radix [len(domain.Categories)]uint64
	total uint64
	width int
}

// NewCompactCodec sizes the codec for the part counts reported by b.
func NewCompactCodec(b domain.Bounds) (*CompactCodec, error) {
	c := &CompactCodec{total: 1}
	for i, cat := range domain.Categories {
		n := b.MaxID(cat) + 1
		if n <= 0 {
			return nil, fmt.Errorf("compact codec: category %s has no parts", cat)
		}
		c.radix[i] = uint64(n)
		hi, lo := bits.Mul64(c.total, uint64(n))
		if hi != 0 {
			return nil, errors.New("compact codec: selection space overflows 64 bits")
		}
		c.total = lo
	}
	c.width = len(strconv.FormatUint(c.total-1, compactBase))
	return c, nil
}

func (c *CompactCodec) Name() string { return "compact" }

// Width is the fixed key length.
func (c *CompactCodec) Width() int { return c.width }

func (c *CompactCodec) Encode(sel domain.Selection) (domain.Key, error) {
	var v uint64
	for i, cat := range domain.Categories {
		idx := sel.Index(cat)
		if idx < 0 || uint64(idx) >= c.radix[i] {
			return "", &domain.OutOfRangeError{Category: cat, Index: idx, Max: int(c.radix[i]) - 1}
		}
		v = v*c.radix[i] + uint64(idx)
	}
	s := strconv.FormatUint(v, compactBase)
	return domain.Key(strings.Repeat("0", c.width-len(s)) + s), nil
}

func (c *CompactCodec) Valid(key domain.Key) bool {
	_, ok := c.value(key)
	return ok
}

func (c *CompactCodec) value(key domain.Key) (uint64, bool) {
	if len(key) != c.width {
		return 0, false
	}
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if (ch < '0' || ch > '9') && (ch < 'a' || ch > 'z') {
			return 0, false
		}
	}
	v, err := strconv.ParseUint(string(key), compactBase, 64)
	if err != nil || v >= c.total {
		return 0, false
	}
	return v, true
}

func (c *CompactCodec) Decode(key domain.Key) (domain.Selection, error) {
	v, ok := c.value(key)
	if !ok {
		return domain.Selection{}, domain.ErrKeyNotFound
	}
	var sel domain.Selection
	for i := len(domain.Categories) - 1; i >= 0; i-- {
		sel = sel.With(domain.Categories[i], int(v%c.radix[i]))
		v /= c.radix[i]
	}
	return sel, nil
}
