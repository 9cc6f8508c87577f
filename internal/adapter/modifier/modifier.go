package modifier

import (
	"fmt"
	"maps"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/go-gedb/gedb/domain"
	"github.com/go-gedb/gedb/pkg/structure"
)

type modFunc func(domain.Document, []string, any) error

type sliceProps struct {
	each       []any
	hasEach    bool
	slice      int
	hasSlice   bool
	usedFields int
}

// Modifier implements [domain.Modifier].
type Modifier struct {
	comp           domain.Comparer
	docFac         func(any) (domain.Document, error)
	fieldNavigator domain.FieldNavigator
	matcher        domain.Matcher
	mods           map[string]modFunc
}

// NewModifier returns a new implementation of [domain.Modifier].
func NewModifier(docFac func(any) (domain.Document, error), comp domain.Comparer, fn domain.FieldNavigator, matcher domain.Matcher) domain.Modifier {
	m := &Modifier{
		comp:           comp,
		docFac:         docFac,
		fieldNavigator: fn,
		matcher:        matcher,
	}

	m.mods = map[string]modFunc{
		"$set":      m.set,
		"$unset":    m.unset,
		"$inc":      m.inc,
		"$push":     m.push,
		"$pushAll":  m.pushAll,
		"$addToSet": m.addToSet,
		"$pop":      m.pop,
		"$pull":     m.pull,
		"$pullAll":  m.pullAll,
		"$max":      m.max,
		"$min":      m.min,
	}

	return m
}

// Modify implements [domain.Modifier].
func (m *Modifier) Modify(obj domain.Document, updateQuery domain.Document, query ...domain.Document) (domain.Document, error) {
	modQry, replace, err := m.modQuery(obj, updateQuery)
	if err != nil {
		return nil, err
	}

	if replace {
		return m.replaceMod(obj, modQry)
	}

	var triggeringQuery domain.Document
	if len(query) > 0 {
		triggeringQuery = query[0]
	}

	return m.dollarMod(obj, modQry, triggeringQuery)
}

func (m *Modifier) modQuery(obj domain.Document, updateQuery domain.Document) (map[string]any, bool, error) {
	dollarFields, total := 0, 0

	query := make(map[string]any, updateQuery.Len())
	for k, v := range updateQuery.Iter() {
		total++
		if err := m.checkMod(obj, k, v); err != nil {
			return nil, false, err
		}
		if strings.HasPrefix(k, "$") {
			dollarFields++
		}
		if dollarFields != 0 && dollarFields != total {
			return nil, false, fmt.Errorf("you cannot mix modifiers and normal fields")
		}
		query[k] = v
	}
	return query, dollarFields == 0, nil
}

func (m *Modifier) checkMod(obj domain.Document, key string, value any) error {
	if key != "_id" {
		return nil
	}
	c, err := m.comp.Compare(value, obj.ID())
	if err != nil {
		return err
	}
	if c != 0 {
		return fmt.Errorf("you cannot change a document's _id")
	}
	return nil
}

func (m *Modifier) replaceMod(obj domain.Document, qry map[string]any) (domain.Document, error) {
	newDoc, err := m.docFac(nil)
	if err != nil {
		return nil, err
	}

	for k, v := range qry {
		newDoc.Set(k, v)
	}

	newDoc.Set("_id", obj.ID())

	return newDoc, nil
}

func (m *Modifier) dollarMod(obj domain.Document, qry map[string]any, query domain.Document) (domain.Document, error) {

	type modCall struct {
		fn   modFunc
		args map[string]any
	}

	calls := make(map[string]modCall, len(qry))

	for modName, arg := range qry {
		mod, ok := m.mods[modName]
		if !ok {
			return nil, fmt.Errorf("unknown modifier %s", modName)
		}
		d, ok := arg.(domain.Document)
		if !ok {
			return nil, fmt.Errorf("Modifier %s's argument must be an object", modName)
		}

		calls[modName] = modCall{
			fn:   mod,
			args: maps.Collect(d.Iter()),
		}
	}

	docCopy, err := m.copyDoc(obj)
	if err != nil {
		return nil, err
	}

	for _, call := range calls {
		for key, arg := range call.args {
			addr, err := m.fieldNavigator.GetAddress(key)
			if err != nil {
				return nil, err
			}
			addr, err = m.resolvePositional(docCopy, addr, query)
			if err != nil {
				return nil, err
			}
			if err := call.fn(docCopy, addr, arg); err != nil {
				return nil, err
			}
		}
	}

	if obj.ID() != docCopy.ID() {
		return nil, fmt.Errorf("you can't change a document's _id")
	}

	return docCopy, nil
}

// resolvePositional rewrites a single "$" path segment into the concrete
// array index of the element that satisfied the triggering query. Only one
// "$" is allowed per path, and it must not be the first segment.
func (m *Modifier) resolvePositional(obj domain.Document, addr []string, query domain.Document) ([]string, error) {
	idx := slices.Index(addr, "$")
	if idx < 0 {
		return addr, nil
	}
	if idx == 0 {
		return nil, fmt.Errorf("the positional operator $ cannot be the first path element")
	}
	if slices.Index(addr[idx+1:], "$") >= 0 {
		return nil, fmt.Errorf("only one positional operator $ is allowed per path")
	}
	if query == nil {
		return nil, fmt.Errorf("the positional operator $ requires a triggering query")
	}

	arrayAddr := addr[:idx]
	suffix := addr[idx+1:]

	fields, _, err := m.fieldNavigator.GetField(obj, arrayAddr...)
	if err != nil {
		return nil, err
	}
	if len(fields) != 1 {
		return nil, fmt.Errorf("the positional operator $ requires a single array field, got %d", len(fields))
	}
	value, defined := fields[0].Get()
	if !defined {
		return nil, fmt.Errorf("the positional operator $ target field is not set")
	}
	array, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("the positional operator $ can only be used on array fields")
	}

	fullPath := strings.Join(append(slices.Clone(arrayAddr), suffix...), ".")
	expr := query.Get(fullPath)
	suffixPath := strings.Join(suffix, ".")

	// expr may itself be an operator expression (e.g. {$gt: 1}), not a
	// literal to compare for equality, so each candidate element is run
	// back through the Matcher rather than the Comparer.
	for i, elem := range array {
		var actual any = elem
		if suffixPath != "" {
			if d, ok := elem.(domain.Document); ok {
				actual = d.Get(suffixPath)
			} else {
				continue
			}
		}
		matches, err := m.matcher.Match(actual, expr)
		if err != nil {
			continue
		}
		if matches {
			res := slices.Clone(arrayAddr)
			res = append(res, strconv.Itoa(i))
			res = append(res, suffix...)
			return res, nil
		}
	}

	return nil, fmt.Errorf("the positional operator $ found no matching array element")
}

func (m *Modifier) copyDoc(doc domain.Document) (domain.Document, error) {
	res, err := m.docFac(nil)
	if err != nil {
		return nil, err
	}

	for k, v := range doc.Iter() {
		if strings.HasPrefix(k, "$") {
			continue
		}
		copied, err := m.copyAny(v)
		if err != nil {
			return nil, err
		}
		res.Set(k, copied)
	}
	return res, nil
}

func (m *Modifier) copyAny(v any) (any, error) {
	switch t := v.(type) {
	case domain.Document:
		return m.copyDoc(t)
	case []any:
		newList := make([]any, len(t))
		for n, itm := range t {
			newV, err := m.copyAny(itm)
			if err != nil {
				return nil, err
			}
			newList[n] = newV
		}
		return newList, nil
	default:
		return v, nil
	}
}

func (m *Modifier) asNumber(v any) (*big.Float, bool) {
	r := big.NewFloat(0)
	switch n := v.(type) {
	case int:
		r.SetInt64(int64(n))
	case int8:
		r.SetInt64(int64(n))
	case int16:
		r.SetInt64(int64(n))
	case int32:
		r.SetInt64(int64(n))
	case int64:
		r.SetInt64(n)
	case uint:
		r.SetUint64(uint64(n))
	case uint8:
		r.SetUint64(uint64(n))
	case uint16:
		r.SetUint64(uint64(n))
	case uint32:
		r.SetUint64(uint64(n))
	case uint64:
		r.SetUint64(n)
	case float32:
		r.SetFloat64(float64(n))
	case float64:
		r.SetFloat64(n)
	default:
		return nil, false
	}
	return r, true
}

func (m *Modifier) set(obj domain.Document, addr []string, arg any) error {
	fields, err := m.fieldNavigator.EnsureField(obj, addr...)
	if err != nil {
		return err
	}
	for _, field := range fields {
		if _, defined := field.Get(); defined {
			field.Set(arg)
		}
	}
	return nil
}

func (m *Modifier) unset(obj domain.Document, addr []string, _ any) error {
	fields, _, err := m.fieldNavigator.GetField(obj, addr...)
	if err != nil {
		return err
	}
	for _, field := range fields {
		if _, defined := field.Get(); defined {
			field.Unset()
		}
	}
	return nil
}

func (m *Modifier) inc(obj domain.Document, addr []string, v any) error {
	incNum, ok := m.asNumber(v)
	if !ok {
		return fmt.Errorf("%v must be a number", v)
	}
	fields, err := m.fieldNavigator.EnsureField(obj, addr...)
	if err != nil {
		return err
	}
	for _, field := range fields {
		value, defined := field.Get()
		if !defined {
			continue
		}
		if value == nil { // nil can be incremented too
			value = 0.0
		}
		num, ok := m.asNumber(value)
		if !ok {
			return fmt.Errorf("Don't use the $inc modifier on non-number fields")
		}
		sum := num.Add(num, incNum)
		sumFloat, _ := sum.Float64()
		field.Set(sumFloat)
	}
	return nil
}

func (m *Modifier) push(obj domain.Document, addr []string, v any) error {

	fields, err := m.fieldNavigator.EnsureField(obj, addr...)
	if err != nil {
		return err
	}
	for _, field := range fields {
		value, defined := field.Get()
		if !defined {
			continue
		}
		if value == nil {
			value = []any{}
		}
		array, ok := value.([]any)
		if !ok {
			return fmt.Errorf("Can't $push an element on non-array values")
		}

		values := append(array, v)
		if d, ok := v.(domain.Document); ok {
			values, err = m.getPushItems(d, array)
			if err != nil {
				return err
			}
		}

		field.Set(values)
	}
	return nil
}

func (m *Modifier) getSliceProperties(d domain.Document) (*sliceProps, error) {

	res := &sliceProps{
		hasEach:  d.Has("$each"),
		hasSlice: d.Has("$slice"),
	}

	var each any = []any{d}
	if res.hasEach {
		res.usedFields++
		res.hasEach = true
		each = d.Get("$each")
	}

	var ok bool
	if res.each, ok = each.([]any); !ok {
		return nil, fmt.Errorf("$each requires an array value")
	}

	if s, ok := m.asNumber(d.Get("$slice")); ok && s.IsInt() {
		res.usedFields++
		s, _ := s.Int64()
		res = &sliceProps{
			each:       res.each,
			hasEach:    res.hasEach,
			slice:      int(s),
			hasSlice:   true,
			usedFields: res.usedFields,
		}
	}

	return res, nil
}

func (m *Modifier) getPushItems(d domain.Document, array []any) ([]any, error) {
	props, err := m.getSliceProperties(d)
	if err != nil {
		return nil, err
	}

	if d.Len() > props.usedFields {
		return nil, fmt.Errorf("Can only use $slice in cunjunction with $each when $push to array")
	}

	res := append(array, props.each...)

	if !props.hasSlice {
		return res, nil
	}

	if props.slice >= 0 {
		return res[:min(props.slice, len(res))], nil
	}

	slice := max(props.slice, -len(res))

	return res[len(res)+slice:], nil
}

func (m *Modifier) addToSet(obj domain.Document, addr []string, v any) error {
	fields, err := m.fieldNavigator.EnsureField(obj, addr...)
	if err != nil {
		return err
	}

	for _, field := range fields {
		value, defined := field.Get()
		if !defined {
			continue
		}
		if value == nil {
			value = []any{}
		}
		array, ok := value.([]any)
		if !ok {
			return fmt.Errorf("Can't $addToSet an element on non-array values")
		}
		values := []any{v}
		if d, ok := v.(domain.Document); ok {
			props, err := m.getSliceProperties(d)
			if err != nil {
				return err
			}
			if props.hasEach && d.Len() > 1 {
				return fmt.Errorf("Can't use another field in conjunction with $each")
			}
			values = props.each
		}

		for _, value := range values {
			shouldAdd := true
			for _, item := range array {
				c, err := m.comp.Compare(value, item)
				if err != nil {
					return err
				}
				if c == 0 {
					shouldAdd = false
					break
				}
			}
			if shouldAdd {
				array = append(array, value)
			}
		}
		field.Set(array)
	}

	return nil
}

func (m *Modifier) pop(obj domain.Document, addr []string, v any) error {

	num, ok := structure.AsInteger(v)
	if !ok {
		return fmt.Errorf("%v isn't an integer, can't use it with $pop", v)
	}

	if num == 0 {
		return nil
	}

	fields, _, err := m.fieldNavigator.GetField(obj, addr...)
	if err != nil {
		return err
	}

	for _, field := range fields {
		value, _ := field.Get()

		// not checking defined because unset fields should fail too

		l, ok := value.([]any)
		if !ok {
			return fmt.Errorf("Can't $pop an element from non-array values")
		}

		start, end := 0, max(0, len(l)-1) // do not grow larger than l
		if num < 0 {
			// do not start after l end s
			start, end = min(1, len(l)), len(l)
		}

		field.Set(l[start:end])
	}
	return nil
}

func (m *Modifier) pull(obj domain.Document, addr []string, v any) error {
	fields, _, err := m.fieldNavigator.GetField(obj, addr...)
	if err != nil {
		return err
	}

	for _, field := range fields {
		value, _ := field.Get()

		l, ok := value.([]any)
		if !ok {
			return fmt.Errorf("Can't $pull an element from non-array values")
		}

		res := make([]any, 0, len(l))
		for _, item := range l {
			matches, err := m.matcher.Match(item, v)
			if err != nil {
				return err
			}
			if !matches {
				res = append(res, item)
			}
		}
		field.Set(res)

	}
	return nil
}

func (m *Modifier) max(obj domain.Document, addr []string, v any) error {
	fields, err := m.fieldNavigator.EnsureField(obj, addr...)
	if err != nil {
		return err
	}

	for _, field := range fields {
		value, defined := field.Get()
		if !defined || value == nil {
			field.Set(v)
			continue
		}
		comp, err := m.comp.Compare(value, v)
		if err != nil {
			return err
		}
		if comp < 0 {
			field.Set(v)
		}
	}

	return nil
}

func (m *Modifier) min(obj domain.Document, addr []string, v any) error {
	fields, err := m.fieldNavigator.EnsureField(obj, addr...)
	if err != nil {
		return err
	}

	for _, field := range fields {
		value, defined := field.Get()
		if !defined || value == nil {
			field.Set(v)
			continue
		}
		comp, err := m.comp.Compare(value, v)
		if err != nil {
			return err
		}
		if comp > 0 {
			field.Set(v)
		}
	}

	return nil
}

// pushAll is equivalent to $push with an implicit $each.
func (m *Modifier) pushAll(obj domain.Document, addr []string, v any) error {
	items, ok := v.([]any)
	if !ok {
		return fmt.Errorf("$pushAll requires an array value")
	}

	fields, err := m.fieldNavigator.EnsureField(obj, addr...)
	if err != nil {
		return err
	}
	for _, field := range fields {
		value, defined := field.Get()
		if !defined {
			continue
		}
		if value == nil {
			value = []any{}
		}
		array, ok := value.([]any)
		if !ok {
			return fmt.Errorf("Can't $pushAll on non-array values")
		}
		field.Set(append(array, items...))
	}
	return nil
}

// pullAll removes every element deep-equal to any element of the given
// array, as distinct from $pull's sub-query matching.
func (m *Modifier) pullAll(obj domain.Document, addr []string, v any) error {
	toRemove, ok := v.([]any)
	if !ok {
		return fmt.Errorf("$pullAll requires an array value")
	}

	fields, _, err := m.fieldNavigator.GetField(obj, addr...)
	if err != nil {
		return err
	}

	for _, field := range fields {
		value, _ := field.Get()

		l, ok := value.([]any)
		if !ok {
			return fmt.Errorf("Can't $pullAll an element from non-array values")
		}

		res := make([]any, 0, len(l))
		for _, item := range l {
			shouldKeep := true
			for _, rm := range toRemove {
				comp, err := m.comp.Compare(item, rm)
				if err != nil {
					return err
				}
				if comp == 0 {
					shouldKeep = false
					break
				}
			}
			if shouldKeep {
				res = append(res, item)
			}
		}
		field.Set(res)
	}
	return nil
}
