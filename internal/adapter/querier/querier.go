// Package querier contains the default [domain.Querier] implementation.
package querier

import (
	"fmt"
	"slices"

	"github.com/go-gedb/gedb/domain"
	"github.com/go-gedb/gedb/internal/adapter/comparer"
	"github.com/go-gedb/gedb/internal/adapter/data"
	"github.com/go-gedb/gedb/internal/adapter/fieldnavigator"
	"github.com/go-gedb/gedb/internal/adapter/matcher"
	"github.com/go-gedb/gedb/internal/adapter/projector"
)

// Querier implements [domain.Querier].
type Querier struct {
	mtchr  domain.Matcher
	cmpr   domain.Comparer
	fn     domain.FieldNavigator
	proj   domain.Projector
	docFac func(any) (domain.Document, error)
}

// NewQuerier returns a new implementation of [domain.Querier].
func NewQuerier(opts ...domain.QuerierOption) domain.Querier {
	options := domain.QuerierOptions{DocFac: data.NewDocument, Comparer: comparer.NewComparer()}
	for _, opt := range opts {
		opt(&options)
	}
	q := Querier{mtchr: options.Matcher, cmpr: options.Comparer, fn: options.FieldNavigator, proj: options.Projector, docFac: options.DocFac}
	if q.fn == nil {
		q.fn = fieldnavigator.NewFieldNavigator(q.docFac)
	}
	if q.proj == nil {
		q.proj = projector.NewProjector(
			domain.WithProjectorDocumentFactory(q.docFac),
			domain.WithProjectorFieldNavigator(q.fn),
		)
	}
	if q.mtchr == nil {
		q.mtchr = matcher.NewMatcher(
			domain.WithMatcherComparer(q.cmpr),
			domain.WithMatcherDocumentFactory(q.docFac),
			domain.WithMatcherFieldNavigator(q.fn),
		)
	}
	return &q
}

// Query implements [domain.Querier]. It runs the pipeline matching ->
// ordering -> projection: every document is matched first; when no sort
// is requested, skip/limit are then applied to the matches in scan order,
// and when a sort is requested they apply to the sorted order instead.
func (q *Querier) Query(docs []domain.Document, opts ...domain.QueryOption) ([]domain.Document, error) {
	var options domain.QueryOptions
	for _, opt := range opts {
		opt(&options)
	}

	matched, err := q.filter(docs, options.Query)
	if err != nil {
		return nil, err
	}

	var windowed []domain.Document
	if options.Sort == nil {
		windowed = q.windowUnsorted(matched, options.Skip, options.Limit)
	} else {
		sorted, err := q.sort(matched, options.Sort)
		if err != nil {
			return nil, fmt.Errorf("sorting: %w", err)
		}
		windowed = q.skipAndLimit(sorted, options.Skip, options.Limit)
	}

	res, err := q.proj.Project(windowed, options.Projection)
	if err != nil {
		return nil, fmt.Errorf("projecting: %w", err)
	}
	return res, nil
}

// filter returns the subset of docs matching query, in their original
// order. A nil query matches everything.
func (q *Querier) filter(docs []domain.Document, query any) ([]domain.Document, error) {
	if query == nil {
		return docs, nil
	}
	res := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		matches, err := q.mtchr.Match(doc, query)
		if err != nil {
			return nil, fmt.Errorf("matching document: %w", err)
		}
		if matches {
			res = append(res, doc)
		}
	}
	return res, nil
}

// windowUnsorted applies skip/limit while walking docs in scan order,
// stopping as soon as limit documents have been collected.
func (q *Querier) windowUnsorted(docs []domain.Document, skip, limit int64) []domain.Document {
	res := make([]domain.Document, 0, len(docs))
	var skipped int64
	for _, doc := range docs {
		if skipped < skip {
			skipped++
			continue
		}
		if limit > 0 && int64(len(res)) == limit {
			break
		}
		res = append(res, doc)
	}
	return res
}

func (q *Querier) sort(data []domain.Document, sort domain.Sort) ([]domain.Document, error) {
	res := slices.Clone(data)
	var err error
	slices.SortFunc(res, func(a, b domain.Document) int {
		if err != nil {
			return 0
		}
		for _, crit := range sort {
			comp, cErr := q.compareByCriterion(a, b, crit)
			if cErr != nil {
				err = cErr
				return 0
			}
			if comp != 0 {
				return comp
			}
		}
		return 0
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (q *Querier) compareByCriterion(a, b domain.Document, crit domain.SortName) (int, error) {
	addr, err := q.fn.GetAddress(crit.Key)
	if err != nil {
		return 0, fmt.Errorf("getting address: %w", err)
	}

	criterionA, _, err := q.fn.GetField(a, addr...)
	if err != nil {
		return 0, fmt.Errorf("getting field: %w", err)
	}
	criterionB, _, err := q.fn.GetField(b, addr...)
	if err != nil {
		return 0, fmt.Errorf("getting field: %w", err)
	}

	critA := q.listFields(criterionA)
	critB := q.listFields(criterionB)

	comp, err := q.cmpr.Compare(critA, critB)
	if err != nil {
		return 0, fmt.Errorf("comparing: %w", err)
	}
	return comp * int(crit.Order), nil
}

func (q *Querier) listFields(g []domain.GetSetter) []any {
	res := make([]any, len(g))
	for n, v := range g {
		res[n] = v
	}
	return res
}

func (q *Querier) skipAndLimit(data []domain.Document, skip, limit int64) []domain.Document {

	length := int64(len(data))

	skip = max(skip, 0)      // skip cannot be negative
	skip = min(skip, length) // cannot skip more than length

	limit = min(skip+limit, length) // limit cannot be greather than length
	if limit == skip {              // if limit is zero, return all data
		limit = length
	}

	return data[skip:limit]
}
