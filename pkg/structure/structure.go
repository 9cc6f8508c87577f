// Package structure contains type-related operations, such as iterating over a
// value of type any and converting numbers.
package structure

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-reflect"
	"github.com/go-gedb/gedb/domain"
)

var (
	// ErrNilObj may be returned by [Seq] or [Seq2] when a nil value is
	// passed as argument.
	ErrNilObj = errors.New("nil object")
)

var docReflectType = reflect.TypeOf((*domain.Document)(nil)).Elem()

// ErrNonObject is returned by [Seq2] when a value that is neither a struct,
// map nor a [domain.Document] is passed as argument.
type ErrNonObject struct {
	Type reflect.Type
}

func (e ErrNonObject) Error() string {
	return fmt.Sprintf("type %s is not a valid object", e.Type)
}

// ErrNonList is returned by [Seq] when a value that is neither a slice
// nor a array is passed as argument.
type ErrNonList struct {
	Type reflect.Type
}

func (e ErrNonList) Error() string {
	return fmt.Sprintf("type %s is not a valid list", e.Type)
}

// seq2Adapter extracts a key/value iterator and its length out of a value
// whose concrete type it was registered for.
type seq2Adapter func(any) (iter.Seq2[string, any], int)

// seqAdapter extracts a value iterator and its length out of a value whose
// concrete type it was registered for.
type seqAdapter func(any) (iter.Seq[any], int)

func registerMapAdapter[T any](registry map[reflect.Type]seq2Adapter) {
	var zero map[string]T
	registry[reflect.TypeOf(zero)] = func(obj any) (iter.Seq2[string, any], int) {
		m := obj.(map[string]T)
		return iterMap(m), len(m)
	}
}

// mapAdapters maps every concrete map[string]T type Seq2 understands
// natively to the adapter that can iterate it, so adding support for a new
// value type is one registration instead of another switch arm.
var mapAdapters = buildMapAdapters()

func buildMapAdapters() map[reflect.Type]seq2Adapter {
	registry := make(map[reflect.Type]seq2Adapter)
	registerMapAdapter[string](registry)
	registerMapAdapter[bool](registry)
	registerMapAdapter[int](registry)
	registerMapAdapter[int8](registry)
	registerMapAdapter[int16](registry)
	registerMapAdapter[int32](registry)
	registerMapAdapter[int64](registry)
	registerMapAdapter[uint](registry)
	registerMapAdapter[uint8](registry)
	registerMapAdapter[uint16](registry)
	registerMapAdapter[uint32](registry)
	registerMapAdapter[uint64](registry)
	registerMapAdapter[float32](registry)
	registerMapAdapter[float64](registry)
	registerMapAdapter[any](registry)
	registerMapAdapter[time.Time](registry)
	registerMapAdapter[*regexp.Regexp](registry)
	registerMapAdapter[[]byte](registry)
	return registry
}

func registerSliceAdapter[T any](registry map[reflect.Type]seqAdapter) {
	var zero []T
	registry[reflect.TypeOf(zero)] = func(obj any) (iter.Seq[any], int) {
		s := obj.([]T)
		return iterSlice(s), len(s)
	}
}

// sliceAdapters is the []T counterpart of mapAdapters, used by Seq.
var sliceAdapters = buildSliceAdapters()

func buildSliceAdapters() map[reflect.Type]seqAdapter {
	registry := make(map[reflect.Type]seqAdapter)
	registerSliceAdapter[string](registry)
	registerSliceAdapter[bool](registry)
	registerSliceAdapter[int](registry)
	registerSliceAdapter[int8](registry)
	registerSliceAdapter[int16](registry)
	registerSliceAdapter[int32](registry)
	registerSliceAdapter[int64](registry)
	registerSliceAdapter[uint](registry)
	registerSliceAdapter[uint8](registry)
	registerSliceAdapter[uint16](registry)
	registerSliceAdapter[uint32](registry)
	registerSliceAdapter[uint64](registry)
	registerSliceAdapter[float32](registry)
	registerSliceAdapter[float64](registry)
	registerSliceAdapter[any](registry)
	registerSliceAdapter[time.Time](registry)
	registerSliceAdapter[*regexp.Regexp](registry)
	registerSliceAdapter[[]byte](registry)
	return registry
}

// Seq2 returns an iterator over the passed type. This method works for maps
// and implementations of [domain.Document].
func Seq2(obj any) (iter.Seq2[string, any], int, error) {
	if obj == nil {
		return nil, 0, ErrNilObj
	}
	if i, length, err := fastPathStruct(obj); err != nil || i != nil {
		return i, length, err
	}
	return iterReflect(obj)
}

func fastPathStruct(obj any) (iter.Seq2[string, any], int, error) {
	if err := checkPrimitive(obj); err != nil {
		return nil, 0, err
	}
	return checkMaps(obj)
}

func checkPrimitive(obj any) error {
	switch obj.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		time.Time, *regexp.Regexp, []byte:
		return ErrNonObject{Type: reflect.TypeOf(obj)}
	default:
		return nil
	}
}

// checkMaps resolves obj against a [domain.Document] first, then against
// the mapAdapters registry. It never errors: an unrecognized type falls
// through to a nil, zero-length, nil-error result so the caller can keep
// looking via reflection.
func checkMaps(obj any) (iter.Seq2[string, any], int, error) {
	if doc, ok := obj.(domain.Document); ok {
		return doc.Iter(), doc.Len(), nil
	}
	if adapter, ok := mapAdapters[reflect.TypeOf(obj)]; ok {
		seq, length := adapter(obj)
		return seq, length, nil
	}
	return nil, 0, nil
}

func iterReflect(obj any) (iter.Seq2[string, any], int, error) {
	v := reflect.ValueNoEscapeOf(obj)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, 0, ErrNilObj
		}
		v = v.Elem()
	}

	if v.Type().Implements(docReflectType) {
		doc := v.Interface().(domain.Document)
		return doc.Iter(), doc.Len(), nil
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String {
			i, l := iterReflectMap(v)
			return i, l, nil
		}
	case reflect.Struct:
		i, l := iterReflectStruct(v)
		return i, l, nil
	}
	return nil, 0, ErrNonObject{Type: v.Type()}
}

// iterReflectMap iterates a map reached only through reflection (a pointer
// to one of the concrete types mapAdapters knows, or any other
// string-keyed map type). Keys are snapshotted up front, same as
// iterReflectStruct, so the iterator is stable even if the caller mutates
// the map while ranging over it.
func iterReflectMap(v reflect.Value) (iter.Seq2[string, any], int) {
	type entry struct {
		Key   string
		Value any
	}
	entries := make([]entry, 0, v.Len())
	for _, k := range v.MapKeys() {
		entries = append(entries, entry{Key: k.String(), Value: v.MapIndex(k).Interface()})
	}
	return func(yield func(string, any) bool) {
		for _, e := range entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}, len(entries)
}

func iterReflectStruct(v reflect.Value) (iter.Seq2[string, any], int) {
	fields := make([]struct {
		Key   string
		Value any
	}, 0, v.NumField())
	for k, v := range listStructFields(v) {
		fields = append(fields, struct {
			Key   string
			Value any
		}{Key: k, Value: v})
	}
	return func(yield func(string, any) bool) {
		for _, field := range fields {
			if !yield(field.Key, field.Value) {
				return
			}
		}
	}, len(fields)
}

func listStructFields(v reflect.Value) iter.Seq2[string, any] {
	var tag string
	var ok bool
	var field reflect.StructField
	var omitEmpty bool
	var omitZero bool
	return func(yield func(string, any) bool) {
		typ := v.Type()
		for n := range typ.NumField() {
			omitEmpty, omitZero = false, false
			field = typ.Field(n)

			if field.PkgPath != "" {
				continue
			}

			if tag, ok = field.Tag.Lookup("gedb"); ok {
				found := strings.IndexRune(tag, ',')
				if found >= 0 {
					for sub := range strings.SplitSeq(tag[found:], ",") {
						switch sub {
						case "omitEmpty":
							omitEmpty = true
						case "omitZero":
							omitZero = true
						}
					}
					if tag = tag[:found]; tag == "" {
						tag = field.Name
					}
				}

			} else {
				tag = field.Name
			}
			switch {
			case omitZero:
				if v.Field(n).IsZero() {
					continue
				}
			case omitEmpty:
				switch field.Type.Kind() {
				case reflect.Chan, reflect.Func, reflect.Map,
					reflect.Ptr, reflect.UnsafePointer,
					reflect.Interface, reflect.Slice:
					if v.Field(n).IsNil() {
						continue
					}
				}
			}
			if !yield(tag, v.Field(n).Interface()) {
				return
			}
		}
	}
}

func iterMap[T any](m map[string]T) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for k, v := range m {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Seq returns an iterator over a slice or array of any type.
func Seq(obj any) (iter.Seq[any], int, error) {
	if obj == nil {
		return nil, 0, ErrNilObj
	}
	if i, length, err := fastPathList(obj); err != nil || i != nil {
		return i, length, err
	}
	return iterReflectList(obj)
}

// iterReflectList covers what fastPathList's registry doesn't: pointers to
// slices, and arrays of any length (there is no finite set of [N]T types to
// register ahead of time).
func iterReflectList(obj any) (iter.Seq[any], int, error) {
	v := reflect.ValueNoEscapeOf(obj)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, 0, ErrNilObj
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return iterReflectIndexable(v), v.Len(), nil
	}
	return nil, 0, ErrNonList{Type: v.Type()}
}

func iterReflectIndexable(v reflect.Value) iter.Seq[any] {
	elems := make([]any, v.Len())
	for i := range elems {
		elems[i] = v.Index(i).Interface()
	}
	return func(yield func(any) bool) {
		for _, e := range elems {
			if !yield(e) {
				return
			}
		}
	}
}

func fastPathList(obj any) (iter.Seq[any], int, error) {
	if err := checkPrimitive(obj); err != nil {
		return nil, 0, ErrNonList{Type: err.(ErrNonObject).Type}
	}
	return checkLists(obj)
}

// checkLists resolves obj against the sliceAdapters registry built from
// every concrete []T type Seq understands natively.
func checkLists(obj any) (iter.Seq[any], int, error) {
	if adapter, ok := sliceAdapters[reflect.TypeOf(obj)]; ok {
		seq, length := adapter(obj)
		return seq, length, nil
	}
	return nil, 0, nil
}

func iterSlice[T any](m []T) iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range m {
			if !yield(v) {
				return
			}
		}
	}
}

// AsInteger converts any built-in number to int and returns a flag that informs
// if the argument is a valid integer.
func AsInteger(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int8:
		return int(t), true
	case int16:
		return int(t), true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case uint:
		return int(t), true
	case uint8:
		return int(t), true
	case uint16:
		return int(t), true
	case uint32:
		return int(t), true
	case uint64:
		return int(t), true
	case float32:
		if trunc := math.Trunc(float64(t)); trunc == float64(t) {
			return int(trunc), true
		}
		return 0, false
	case float64:
		if trunc := math.Trunc(t); trunc == t {
			return int(trunc), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// Contains checks if the given value is present in the slice.
func Contains[T any, S ~[]T](s S, t T, fn func(a T, b T) (bool, error)) (bool, error) {
	var ok bool
	var err error
	for _, i := range s {
		if ok, err = fn(i, t); err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}
