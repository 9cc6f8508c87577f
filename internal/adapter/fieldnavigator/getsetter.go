package fieldnavigator

import "github.com/go-gedb/gedb/domain"

// arrayIndexGetSetter implements [domain.GetSetter] over one slot of a
// []any, bounds-checked on every access since the slice can be resized
// between calls.
type arrayIndexGetSetter struct {
	array []any
	index int
}

// NewGetSetterWithArrayIndex returns a new implementation of [domain.GetSetter]
// that will represent a value from a slice of [any].
func NewGetSetterWithArrayIndex(array []any, index int) domain.GetSetter {
	return &arrayIndexGetSetter{array: array, index: index}
}

func (gs *arrayIndexGetSetter) inBounds() bool {
	return gs.index >= 0 && gs.index < len(gs.array)
}

// Get implements [domain.GetSetter].
func (gs *arrayIndexGetSetter) Get() (any, bool) {
	if !gs.inBounds() {
		return nil, false
	}
	return gs.array[gs.index], true
}

// Set implements [domain.GetSetter].
func (gs *arrayIndexGetSetter) Set(value any) {
	if gs.inBounds() {
		gs.array[gs.index] = value
	}
}

// Unset implements [domain.GetSetter].
func (gs *arrayIndexGetSetter) Unset() {
	if gs.inBounds() {
		gs.array[gs.index] = nil
	}
}

// docFieldGetSetter implements [domain.GetSetter] over a single named field
// of a [domain.Document].
type docFieldGetSetter struct {
	doc domain.Document
	key string
}

// NewGetSetterWithDoc returns a new implementation of [domain.GetSetter] that
// will represent a value from a [domain.Document].
func NewGetSetterWithDoc(doc domain.Document, key string) domain.GetSetter {
	return &docFieldGetSetter{doc: doc, key: key}
}

// Get implements [domain.GetSetter].
func (gs *docFieldGetSetter) Get() (any, bool) {
	return gs.doc.Get(gs.key), gs.doc.Has(gs.key)
}

// Set implements [domain.GetSetter].
func (gs *docFieldGetSetter) Set(value any) {
	gs.doc.Set(gs.key, value)
}

// Unset implements [domain.GetSetter].
func (gs *docFieldGetSetter) Unset() {
	gs.doc.Unset(gs.key)
}

// emptyGetSetter implements [domain.GetSetter] for an address that resolved
// to nothing: reads report unset, writes are discarded.
type emptyGetSetter struct{}

// NewGetSetterEmpty returns a new [domain.GetSetter] of an undefined value.
func NewGetSetterEmpty() domain.GetSetter {
	return emptyGetSetter{}
}

// Get implements [domain.GetSetter].
func (emptyGetSetter) Get() (any, bool) { return nil, false }

// Set implements [domain.GetSetter].
func (emptyGetSetter) Set(any) {}

// Unset implements [domain.GetSetter].
func (emptyGetSetter) Unset() {}
