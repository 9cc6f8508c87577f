// Package decoder contains the default [domain.Decoder] implementation.
package decoder

import (
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/go-gedb/gedb/domain"
)

// Decoder implements domain.Decoder.
type Decoder struct{}

// NewDecoder returns a new implementation of domain.Decoder.
func NewDecoder() domain.Decoder {
	return &Decoder{}
}

// Decode implements domain.Decoder.
func (d *Decoder) Decode(src any, tgt any) error {
	if tgt == nil {
		return &domain.ErrTargetNil{}
	}
	if reflect.ValueOf(tgt).Kind() != reflect.Pointer {
		return domain.ErrNonPointer
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "gedb",
		Result:  tgt,
	})
	if err != nil {
		return domain.ErrDecode{Cause: err}
	}
	if err := dec.Decode(src); err != nil {
		return domain.ErrDecode{Cause: err}
	}
	return nil
}
