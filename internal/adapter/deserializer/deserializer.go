// Package deserializer contains the default [domain.Deserializer]
// implementation.
package deserializer

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/go-gedb/gedb/domain"
	"github.com/go-gedb/gedb/internal/adapter/data"
)

// NewDeserializer returns a new instance of domain.Deserializer.
func NewDeserializer(decoder domain.Decoder) domain.Deserializer {
	return &Deserializer{
		decoder: decoder,
	}
}

// Deserializer implements domain.Deserializer.
type Deserializer struct {
	decoder domain.Decoder
}

func (d *Deserializer) convertDates(doc data.M) any {
	for k, v := range doc {
		if k == "$$date" {
			if i, ok := v.(float64); ok {
				return time.UnixMilli(int64(i))
			}
		}
		doc[k] = d.convertAny(v)
	}
	return doc
}

func (d *Deserializer) convertAny(v any) any {
	switch t := v.(type) {
	case data.M:
		return d.convertDates(t)
	case []any:
		newL := make([]any, len(t))
		for n, i := range t {
			newL[n] = d.convertAny(i)
		}
		return newL
	default:
		return v
	}
}

// Deserialize implements domain.Deserializer.
func (d *Deserializer) Deserialize(ctx context.Context, b []byte, target any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if target == nil {
		return &domain.ErrTargetNil{}
	}
	// data.M has a custom UnmarshalJSON that preserves explicit nulls, which
	// a plain map[string]any target would also get from encoding/json, but
	// going through M keeps this path consistent with every other document
	// read from storage.
	doc := make(data.M)

	if err := json.NewDecoder(bytes.NewReader(b)).Decode(&doc); err != nil {
		return err
	}

	d.convertDates(doc)
	if p, ok := target.(*map[string]any); ok {
		*p = doc
		return nil
	}

	return d.decoder.Decode(doc, target)
}
