package index

import (
	"context"
	"maps"
	"slices"

	"github.com/vinicius-lino-figueiredo/bst"
	"github.com/go-gedb/gedb/domain"
	"github.com/go-gedb/gedb/internal/adapter/comparer"
	"github.com/go-gedb/gedb/internal/adapter/data"
	"github.com/go-gedb/gedb/internal/adapter/fieldnavigator"
	"github.com/go-gedb/gedb/internal/adapter/hasher"
	"github.com/go-gedb/gedb/pkg/uncomparablemap"
)

// keyer extracts the tree key(s) a document contributes to an index. An
// Index picks one of the two implementations below at construction time,
// depending on whether it indexes a single field or several (a compound
// index), instead of branching on that every time a key is computed.
type keyer interface {
	// keys returns the key(s) doc contributes, and whether it contributed
	// any value at all (used to decide whether a sparse index skips it).
	keys(nav domain.FieldNavigator, doc domain.Document) (values []any, hasValue bool, err error)
}

type singleFieldKeyer struct {
	addr []string
}

func (k singleFieldKeyer) keys(nav domain.FieldNavigator, doc domain.Document) ([]any, bool, error) {
	fields, _, err := nav.GetField(doc, k.addr...)
	if err != nil {
		return nil, false, err
	}

	values := make([]any, len(fields))
	hasValue := false
	for n, f := range fields {
		v, isSet := f.Get()
		hasValue = hasValue || isSet
		values[n] = v
	}

	if len(values) == 0 {
		return []any{nil}, hasValue, nil
	}
	// A field path that itself resolved to a single array (as opposed to
	// being expanded across several documents) yields its elements as
	// individual keys.
	if l, ok := values[0].([]any); ok {
		return l, hasValue, nil
	}
	return values, hasValue, nil
}

type compoundFieldKeyer struct {
	addrs [][]string
	names []string
}

func newCompoundFieldKeyer(nav domain.FieldNavigator, names []string) (compoundFieldKeyer, error) {
	c := compoundFieldKeyer{names: names, addrs: make([][]string, len(names))}
	for n, name := range names {
		addr, err := nav.GetAddress(name)
		if err != nil {
			return compoundFieldKeyer{}, err
		}
		c.addrs[n] = addr
	}
	return c, nil
}

func (k compoundFieldKeyer) keys(nav domain.FieldNavigator, doc domain.Document) ([]any, bool, error) {
	composite := make(data.M, len(k.names))
	hasValue := false

	for n, name := range k.names {
		fields, _, err := nav.GetField(doc, k.addrs[n]...)
		if err != nil {
			return nil, false, err
		}

		var value any
		set := false
		for _, f := range fields {
			if v, isSet := f.Get(); isSet && !set {
				value, set = v, true
			}
		}
		composite[name] = value // absent field is recorded as nil
		hasValue = hasValue || value != nil
	}

	return []any{composite}, hasValue, nil
}

// Index implements domain.Index.
type Index struct {
	fieldName string
	unique    bool
	sparse    bool
	keyer     keyer
	// Exported to allow testing. Should not be a problem because Index is
	// used as interface.
	Tree           *bst.BinarySearchTree
	treeOptions    bst.Options
	comparer       domain.Comparer
	hasher         domain.Hasher
	fieldNavigator domain.FieldNavigator
}

// FieldName implements domain.Index.
func (i *Index) FieldName() string {
	return i.fieldName
}

// Sparse implements domain.Index.
func (i *Index) Sparse() bool {
	return i.sparse
}

// Unique implements domain.Index.
func (i *Index) Unique() bool {
	return i.unique
}

// NewIndex returns a new implementation of domain.Index.
func NewIndex(options ...domain.IndexOption) (domain.Index, error) {
	docFac := data.NewDocument
	opts := domain.IndexOptions{
		FieldName:       "",
		Unique:          false,
		Sparse:          false,
		ExpireAfter:     0,
		DocumentFactory: docFac,
		Comparer:        comparer.NewComparer(),
		Hasher:          hasher.NewHasher(),
		FieldNavigator:  fieldnavigator.NewFieldNavigator(docFac),
	}
	for _, option := range options {
		option(&opts)
	}

	if opts.Comparer == nil {
		opts.Comparer = comparer.NewComparer()
	}
	if opts.DocumentFactory == nil {
		opts.DocumentFactory = data.NewDocument
	}
	if opts.Hasher == nil {
		opts.Hasher = hasher.NewHasher()
	}
	if opts.FieldNavigator == nil {
		opts.FieldNavigator = fieldnavigator.NewFieldNavigator(opts.DocumentFactory)
	}

	names, err := opts.FieldNavigator.SplitFields(opts.FieldName)
	if err != nil {
		return nil, err
	}

	var ky keyer
	if len(names) == 1 {
		addr, err := opts.FieldNavigator.GetAddress(names[0])
		if err != nil {
			return nil, err
		}
		ky = singleFieldKeyer{addr: addr}
	} else {
		ky, err = newCompoundFieldKeyer(opts.FieldNavigator, names)
		if err != nil {
			return nil, err
		}
	}

	treeOptions := bst.Options{
		Unique: opts.Unique,
		CompareKeys: func(a, b any) int {
			comp, _ := opts.Comparer.Compare(a, b)
			return comp
		},
	}

	return &Index{
		fieldName:      opts.FieldName,
		unique:         opts.Unique,
		sparse:         opts.Sparse,
		keyer:          ky,
		treeOptions:    treeOptions,
		Tree:           bst.NewBinarySearchTree(treeOptions),
		comparer:       opts.Comparer,
		hasher:         opts.Hasher,
		fieldNavigator: opts.FieldNavigator,
	}, nil
}

// Reset implements domain.Index.
func (i *Index) Reset(ctx context.Context, newData ...domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	i.Tree = bst.NewBinarySearchTree(i.treeOptions)
	return i.Insert(ctx, newData...)
}

// distinctKeys computes the deduplicated set of keys doc contributes,
// honoring the sparse flag: a sparse index contributes nothing for a
// document with no value on its indexed field(s).
func (i *Index) distinctKeys(doc domain.Document) ([]any, error) {
	values, hasValue, err := i.keyer.keys(i.fieldNavigator, doc)
	if err != nil {
		return nil, err
	}
	if i.sparse && !hasValue {
		return nil, nil
	}

	deduped := slices.Clone(values)
	slices.SortFunc(deduped, i.compareThings)
	return slices.CompactFunc(deduped, func(a, b any) bool { return i.compareThings(a, b) == 0 }), nil
}

type planted struct {
	key any
	doc domain.Document
}

// Insert implements domain.Index.
func (i *Index) Insert(ctx context.Context, docs ...domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var done []planted

	for _, d := range docs {
		keys, err := i.distinctKeys(d)
		if err != nil {
			i.rollback(done)
			return err
		}
		for _, k := range keys {
			if err := i.Tree.Insert(k, d); err != nil {
				i.rollback(done)
				return err
			}
			done = append(done, planted{key: k, doc: d})
		}
	}
	return nil
}

func (i *Index) rollback(done []planted) {
	for _, p := range done {
		i.Tree.Delete(p.key, p.doc)
	}
}

// Remove implements domain.Index.
func (i *Index) Remove(ctx context.Context, docs ...domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, d := range docs {
		keys, err := i.distinctKeys(d)
		if err != nil {
			return err
		}
		for _, k := range keys {
			i.Tree.Delete(k, d)
		}
	}
	return nil
}

// Update implements domain.Index.
func (i *Index) Update(ctx context.Context, oldDoc, newDoc domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := i.Remove(ctx, oldDoc); err != nil {
		return err
	}
	if err := i.Insert(ctx, newDoc); err != nil {
		_ = i.Insert(context.WithoutCancel(context.Background()), oldDoc)
		return err
	}
	return nil
}

// UpdateMultipleDocs implements domain.Index.
func (i *Index) UpdateMultipleDocs(ctx context.Context, pairs ...domain.Update) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subCtx := context.WithoutCancel(ctx)
	for _, pair := range pairs {
		_ = i.Remove(subCtx, pair.OldDoc)
	}

	failAt := -1
	var insertErr error
	for n, pair := range pairs {
		if err := ctx.Err(); err != nil {
			insertErr = err
			failAt = n
			break
		}
		if err := i.Insert(ctx, pair.NewDoc); err != nil {
			insertErr = err
			failAt = n
			break
		}
	}

	if insertErr == nil {
		return nil
	}

	for n := range failAt {
		_ = i.Remove(ctx, pairs[n].NewDoc)
	}
	for _, pair := range pairs {
		_ = i.Insert(ctx, pair.OldDoc)
	}
	return insertErr
}

// RevertUpdate implements domain.Index.
func (i *Index) RevertUpdate(ctx context.Context, oldDoc, newDoc domain.Document) error {
	return i.Update(ctx, newDoc, oldDoc)
}

// RevertMultipleUpdates implements domain.Index.
func (i *Index) RevertMultipleUpdates(ctx context.Context, pairs ...domain.Update) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	revert := make([]domain.Update, len(pairs))
	for n, pair := range pairs {
		revert[n] = domain.Update{OldDoc: pair.NewDoc, NewDoc: pair.OldDoc}
	}
	return i.UpdateMultipleDocs(ctx, revert...)
}

// GetMatching implements domain.Index.
func (i *Index) GetMatching(value ...any) ([]domain.Document, error) {
	byID := uncomparablemap.New[[]domain.Document](i.hasher, i.comparer)

	for _, v := range value {
		found := i.Tree.Search(v)
		if len(found) == 0 {
			continue
		}
		docs := make([]domain.Document, len(found))
		for n, d := range found {
			docs[n] = d.(domain.Document)
		}
		byID.Set(docs[0].ID(), docs)
	}

	ids := slices.Collect(byID.Keys())
	var sortErr error
	slices.SortFunc(ids, func(a, b any) int {
		if sortErr != nil {
			return 0
		}
		comp, err := i.comparer.Compare(a, b)
		if err != nil {
			sortErr = err
		}
		return comp
	})
	if sortErr != nil {
		return nil, sortErr
	}

	res := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		docs, _, err := byID.Get(id)
		if err != nil {
			return nil, err
		}
		res = append(res, docs...)
	}
	return res, nil
}

// GetBetweenBounds implements domain.Index.
func (i *Index) GetBetweenBounds(ctx context.Context, query domain.Document) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	found := i.Tree.BetweenBounds(maps.Collect(query.Iter()), nil, nil)
	res := make([]domain.Document, len(found))
	for n, f := range found {
		res[n] = f.(domain.Document)
	}
	return res, nil
}

// GetAll implements domain.Index.
func (i *Index) GetAll() []domain.Document {
	var res []domain.Document
	i.Tree.ExecuteOnEveryNode(func(node *bst.BinarySearchTree) {
		for _, d := range node.Data() {
			res = append(res, d.(domain.Document))
		}
	})
	return res
}

// GetNumberOfKeys implements domain.Index.
func (i *Index) GetNumberOfKeys() int {
	return i.Tree.GetNumberOfKeys()
}

func (i *Index) compareThings(a, b any) int {
	comp, _ := i.comparer.Compare(a, b)
	return comp
}
