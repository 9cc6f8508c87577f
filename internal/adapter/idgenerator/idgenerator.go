package idgenerator

import (
	"crypto/rand"
	"io"

	"github.com/go-gedb/gedb/domain"
)

// alphabet is the character set ids are drawn from: ASCII letters and
// digits.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// IDGenerator implements [domain.IDGenerator] by drawing bytes from a
// random source and mapping each into alphabet via rejection sampling, so
// no character is over-represented.
type IDGenerator struct {
	reader io.Reader
}

// NewIDGenerator implements [domain.IDGenerator]
func NewIDGenerator(opts ...domain.IDGeneratorOption) domain.IDGenerator {
	options := domain.IDGeneratorOptions{Reader: rand.Reader}
	for _, opt := range opts {
		opt(&options)
	}
	return &IDGenerator{reader: options.Reader}
}

// maxMultiple is the largest multiple of len(alphabet) that fits in a
// byte; bytes above it are discarded to avoid modulo bias.
const maxMultiple = 256 - 256%len(alphabet)

// GenerateID implements [domain.IDGenerator].
func (i *IDGenerator) GenerateID(l int) (string, error) {
	id := make([]byte, 0, l)
	buf := make([]byte, l)

	for len(id) < l {
		need := l - len(id)
		if _, err := io.ReadFull(i.reader, buf[:need]); err != nil {
			return "", err
		}
		for _, b := range buf[:need] {
			if int(b) >= maxMultiple {
				continue
			}
			id = append(id, alphabet[int(b)%len(alphabet)])
			if len(id) == l {
				break
			}
		}
	}
	return string(id), nil
}
