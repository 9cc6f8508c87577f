// Package projector contains the default [domain.Projector] implementation.
package projector

import (
	"fmt"

	"github.com/go-gedb/gedb/domain"
	"github.com/go-gedb/gedb/internal/adapter/data"
	"github.com/go-gedb/gedb/internal/adapter/fieldnavigator"
)

// Projector implements [domain.Projector].
type Projector struct {
	fn     domain.FieldNavigator
	docFac func(any) (domain.Document, error)
}

// NewProjector returns a new implementation of [domain.Projector].
func NewProjector(opts ...domain.ProjectorOption) domain.Projector {
	options := domain.ProjectorOptions{
		DocFac: data.NewDocument,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.FieldNavigator == nil {
		options.FieldNavigator = fieldnavigator.NewFieldNavigator(
			options.DocFac,
		)
	}
	return &Projector{
		fn:     options.FieldNavigator,
		docFac: options.DocFac,
	}
}

// Project implements [domain.Projector].
func (pr *Projector) Project(data []domain.Document, p map[string]uint8) ([]domain.Document, error) {
	if len(p) == 0 {
		return data, nil
	}

	id, idMentioned := p["_id"]
	keepID := !idMentioned || id != 0
	projection := make([][]string, 0, len(p))

	fields := 0
	oneFields := 0
	for field, value := range p {
		if field == "_id" {
			continue
		}
		fields++
		if value > 0 {
			oneFields++
		}
		if oneFields > 0 && oneFields != fields {
			return nil, fmt.Errorf("can't both keep and omit fields except for _id")
		}
		addr, err := pr.fn.GetAddress(field)
		if err != nil {
			return nil, err
		}
		projection = append(projection, addr)
	}

	if !idMentioned && oneFields > 1 {
		projection = append(projection, []string{"_id"})
	}

	res := make([]domain.Document, len(data))
	for n, doc := range data {
		projected, err := pr.projectDoc(doc, projection, oneFields != 0)
		if err != nil {
			return nil, err
		}

		if keepID {
			projected.Set("_id", doc.ID())
		} else {
			projected.Unset("_id")
		}
		res[n] = projected
	}

	return res, nil
}

func (pr *Projector) projectDoc(doc domain.Document, p [][]string, add bool) (domain.Document, error) {
	if add {
		return pr.positiveProject(doc, p)
	}
	return pr.negativeProject(doc, p)
}

func (pr *Projector) positiveProject(doc domain.Document, p [][]string) (domain.Document, error) {
	res, err := pr.docFac(nil)
	if err != nil {
		return nil, err
	}

	for _, field := range p {
		values, expanded, err := pr.fn.GetField(doc, field...)
		if err != nil {
			return nil, err
		}
		fieldValues, ok := pr.readFields(values, expanded)
		if !ok {
			continue
		}
		created, err := pr.fn.EnsureField(res, field...)
		if err != nil {
			return nil, err
		}
		for _, c := range created {
			c.Set(fieldValues)
		}
	}
	return res, nil
}

func (pr *Projector) readFields(f []domain.GetSetter, expanded bool) (any, bool) {
	if !expanded {
		return f[0].Get()
	}
	res := make([]any, len(f))
	for n, field := range f {
		value, _ := field.Get()
		res[n] = value
	}
	return res, true
}

func (pr *Projector) negativeProject(doc domain.Document, p [][]string) (domain.Document, error) {
	res, err := pr.docFac(doc)
	if err != nil {
		return nil, err
	}
	for _, field := range p {
		values, _, err := pr.fn.GetField(res, field...)
		if err != nil {
			return nil, err
		}
		for _, value := range values {
			value.Unset()
		}
	}
	return res, nil
}
