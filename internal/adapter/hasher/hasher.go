package hasher

import (
	"encoding/json"
	"hash/fnv"

	"github.com/go-gedb/gedb/domain"
)

// Hasher implements [domain.Hasher] by streaming a value's JSON encoding
// directly into an FNV-1a accumulator, without materializing the encoded
// bytes first.
type Hasher struct {
	newHash func() hashWriter
}

type hashWriter interface {
	Write(p []byte) (int, error)
	Sum64() uint64
}

// NewHasher returns a new implementation of [domain.Hasher].
func NewHasher() domain.Hasher {
	return &Hasher{newHash: func() hashWriter { return fnv.New64a() }}
}

// Hash implements [domain.Hasher].
func (h *Hasher) Hash(a any) (uint64, error) {
	acc := h.newHash()
	if err := json.NewEncoder(acc).Encode(a); err != nil {
		return 0, err
	}
	return acc.Sum64(), nil
}
