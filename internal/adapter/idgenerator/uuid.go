package idgenerator

import (
	"strings"

	"github.com/google/uuid"

	"github.com/go-gedb/gedb/domain"
)

// UUIDGenerator implements [domain.IDGenerator] using random UUIDs, stripped
// of hyphens and truncated to the requested length.
type UUIDGenerator struct{}

// NewUUIDGenerator returns a new UUID-backed implementation of
// domain.IDGenerator.
func NewUUIDGenerator() domain.IDGenerator {
	return &UUIDGenerator{}
}

// GenerateID implements [domain.IDGenerator].
func (u *UUIDGenerator) GenerateID(l int) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	raw := strings.ReplaceAll(id.String(), "-", "")
	for len(raw) < l {
		id, err = uuid.NewRandom()
		if err != nil {
			return "", err
		}
		raw += strings.ReplaceAll(id.String(), "-", "")
	}
	return raw[:l], nil
}
