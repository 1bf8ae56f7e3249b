package parmsg

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

// Formattable is implemented by values that know how to append their own text
// form efficiently. DeepToString delegates to FormatTo instead of going
// through reflection or fmt. Message implements Formattable.
//
// The delegation runs outside the cycle guard: a Formattable that renders a
// container holding the value itself will recurse without bound.
type Formattable interface {
	FormatTo(b *Buffer)
}

// Collection is implemented by container types that want their elements
// rendered individually (sets, rings, linked lists). Collections participate
// in cycle detection the same way slices and maps do, so a Collection may
// safely contain itself, directly or transitively.
type Collection interface {
	Elements() []any
}

// DeepToString converts v to text, descending into slices, arrays, maps,
// Collections and pointers. Reference cycles are detected by container
// identity and rendered as a recursion marker instead of overflowing the
// stack, and a panicking String/Error conversion is contained and rendered as
// an inline error marker. DeepToString never panics.
func DeepToString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	b := AcquireBuffer()
	recursiveDeepToString(b, v, nil)
	s := b.String()
	b.Release()
	return s
}

// visitedSet holds the identity tokens of the containers on the current
// recursion path. Each child recursion receives its own copy so siblings do
// not suppress each other; only a cyclic return to an ancestor is cut off.
type visitedSet map[string]struct{}

func (s visitedSet) contains(id string) bool {
	_, ok := s[id]
	return ok
}

func (s visitedSet) copyWith(id string) visitedSet {
	next := make(visitedSet, len(s)+1)
	for k := range s {
		next[k] = struct{}{}
	}
	next[id] = struct{}{}
	return next
}

func recursiveDeepToString(b *Buffer, v any, visited visitedSet) {
	if appendSpecial(b, v) {
		return
	}
	if c, ok := v.(Collection); ok {
		appendCollection(b, c, visited)
		return
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		appendSequence(b, v, rv, visited)
		return
	case reflect.Map:
		appendMapping(b, v, rv, visited)
		return
	}
	// A value's own conversion wins over pointer chasing so types like
	// *url.URL render through their String method.
	switch v.(type) {
	case error, fmt.Stringer:
		appendSafe(b, v)
		return
	}
	if rv.Kind() == reflect.Pointer {
		appendPointer(b, v, rv, visited)
		return
	}
	appendSafe(b, v)
}

// appendSpecial covers values with a dedicated fast path: nil, character
// carriers, timestamps, and the common scalar types. The shallow type switch
// keeps the hot path reflection-free for the overwhelming majority of
// arguments.
func appendSpecial(b *Buffer, v any) bool {
	switch t := v.(type) {
	case nil:
		// empty contribution
	case string:
		b.writeString(t)
	case Formattable:
		appendFormattable(b, t)
	case *strings.Builder:
		if t != nil {
			b.writeString(t.String())
		}
	case *bytes.Buffer:
		if t != nil {
			b.writeBytes(t.Bytes())
		}
	case time.Time:
		b.writeTime(t)
	case bool:
		b.writeBool(t)
	case int:
		b.writeInt64(int64(t))
	case int8:
		b.writeInt64(int64(t))
	case int16:
		b.writeInt64(int64(t))
	case int32:
		b.writeInt64(int64(t))
	case int64:
		b.writeInt64(t)
	case uint:
		b.writeUint64(uint64(t))
	case uint8:
		b.writeUint64(uint64(t))
	case uint16:
		b.writeUint64(uint64(t))
	case uint32:
		b.writeUint64(uint64(t))
	case uint64:
		b.writeUint64(t)
	case uintptr:
		b.writeUint64(uint64(t))
	case float32:
		b.writeFloat32(t)
	case float64:
		b.writeFloat64(t)
	default:
		return false
	}
	return true
}

func appendSequence(b *Buffer, v any, rv reflect.Value, visited visitedSet) {
	if isPrimitiveElem(rv.Type().Elem().Kind()) {
		// primitive elements cannot be self-referential
		appendPrimitiveSequence(b, rv)
		return
	}
	if rv.Kind() == reflect.Array {
		// arrays travel by value; a cycle can only close through a
		// reference-backed child, which carries its own guard
		appendElements(b, rv, visited)
		return
	}
	id := IdentityToString(v)
	if visited.contains(id) {
		writeRecursionMarker(b, id)
		return
	}
	appendElements(b, rv, visited.copyWith(id))
}

func appendElements(b *Buffer, rv reflect.Value, visited visitedSet) {
	b.writeByte('[')
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			b.writeString(", ")
		}
		recursiveDeepToString(b, rv.Index(i).Interface(), visited)
	}
	b.writeByte(']')
}

func appendMapping(b *Buffer, v any, rv reflect.Value, visited visitedSet) {
	id := IdentityToString(v)
	if visited.contains(id) {
		writeRecursionMarker(b, id)
		return
	}
	childVisited := visited.copyWith(id)

	// Go maps iterate in random order; entries are sorted by rendered key so
	// repeated formatting of the same message is stable.
	type entry struct {
		key string
		val reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	keyBuf := AcquireBuffer()
	iter := rv.MapRange()
	for iter.Next() {
		keyBuf.Reset()
		recursiveDeepToString(keyBuf, iter.Key().Interface(), childVisited)
		entries = append(entries, entry{key: keyBuf.String(), val: iter.Value()})
	}
	keyBuf.Release()
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	b.writeByte('{')
	for i, e := range entries {
		if i > 0 {
			b.writeString(", ")
		}
		b.writeString(e.key)
		b.writeByte('=')
		recursiveDeepToString(b, e.val.Interface(), childVisited)
	}
	b.writeByte('}')
}

func appendCollection(b *Buffer, c Collection, visited visitedSet) {
	id := IdentityToString(c)
	if visited.contains(id) {
		writeRecursionMarker(b, id)
		return
	}
	childVisited := visited.copyWith(id)
	b.writeByte('[')
	for i, elem := range c.Elements() {
		if i > 0 {
			b.writeString(", ")
		}
		recursiveDeepToString(b, elem, childVisited)
	}
	b.writeByte(']')
}

// appendPointer descends through plain pointers under the cycle guard, so
// linked structures that close back on themselves terminate with a recursion
// marker instead of a stack overflow.
func appendPointer(b *Buffer, v any, rv reflect.Value, visited visitedSet) {
	if rv.IsNil() {
		return
	}
	id := IdentityToString(v)
	if visited.contains(id) {
		writeRecursionMarker(b, id)
		return
	}
	recursiveDeepToString(b, rv.Elem().Interface(), visited.copyWith(id))
}

func writeRecursionMarker(b *Buffer, id string) {
	b.writeString(RecursionPrefix)
	b.writeString(id)
	b.writeString(RecursionSuffix)
}

func isPrimitiveElem(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func appendPrimitiveSequence(b *Buffer, rv reflect.Value) {
	// concrete fast paths first; the reflect loop handles named types and the
	// remaining primitive kinds
	switch t := rv.Interface().(type) {
	case []int:
		b.writeByte('[')
		for i, n := range t {
			if i > 0 {
				b.writeString(", ")
			}
			b.writeInt64(int64(n))
		}
		b.writeByte(']')
		return
	case []int64:
		b.writeByte('[')
		for i, n := range t {
			if i > 0 {
				b.writeString(", ")
			}
			b.writeInt64(n)
		}
		b.writeByte(']')
		return
	case []byte:
		b.writeByte('[')
		for i, n := range t {
			if i > 0 {
				b.writeString(", ")
			}
			b.writeUint64(uint64(n))
		}
		b.writeByte(']')
		return
	case []float64:
		b.writeByte('[')
		for i, f := range t {
			if i > 0 {
				b.writeString(", ")
			}
			b.writeFloat64(f)
		}
		b.writeByte(']')
		return
	case []bool:
		b.writeByte('[')
		for i, v := range t {
			if i > 0 {
				b.writeString(", ")
			}
			b.writeBool(v)
		}
		b.writeByte(']')
		return
	}
	b.writeByte('[')
	elemKind := rv.Type().Elem().Kind()
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			b.writeString(", ")
		}
		e := rv.Index(i)
		switch {
		case elemKind == reflect.Bool:
			b.writeBool(e.Bool())
		case elemKind >= reflect.Int && elemKind <= reflect.Int64:
			b.writeInt64(e.Int())
		case elemKind >= reflect.Uint && elemKind <= reflect.Uintptr:
			b.writeUint64(e.Uint())
		case elemKind == reflect.Float32:
			b.writeFloat32(float32(e.Float()))
		default:
			b.writeFloat64(e.Float())
		}
	}
	b.writeByte(']')
}

// appendSafe renders v through its own conversion. The conversion runs to
// completion before anything is written, so a panic leaves no partial output;
// it is contained and rendered as an inline error marker. fmt handles the
// default case and never panics on its own.
func appendSafe(b *Buffer, v any) {
	switch t := v.(type) {
	case error:
		s, recovered := capture(t.Error)
		if recovered != nil {
			writeConversionError(b, v, recovered)
			return
		}
		b.writeString(s)
	case fmt.Stringer:
		s, recovered := capture(t.String)
		if recovered != nil {
			writeConversionError(b, v, recovered)
			return
		}
		b.writeString(s)
	default:
		b.reserve(16)
		b.buf = fmt.Append(b.buf, v)
	}
}

// appendFormattable delegates to the value's own FormatTo. A typed-nil
// receiver contributes nothing, matching the untyped-nil case; a panic is
// contained and rendered as an inline error marker after whatever FormatTo
// had already written.
func appendFormattable(b *Buffer, f Formattable) {
	if rv := reflect.ValueOf(f); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			writeConversionError(b, f, r)
		}
	}()
	f.FormatTo(b)
}

func capture(fn func() string) (s string, recovered any) {
	defer func() {
		recovered = recover()
	}()
	return fn(), nil
}

func writeConversionError(b *Buffer, v, panicked any) {
	b.writeString(ErrorPrefix)
	b.writeString(IdentityToString(v))
	b.writeString(ErrorSeparator)
	name := fmt.Sprintf("%T", panicked)
	b.writeString(name)
	if msg := panicText(panicked); msg != "" && msg != name {
		b.writeString(ErrorMsgSeparator)
		b.writeString(msg)
	}
	b.writeString(ErrorSuffix)
}

func panicText(r any) string {
	switch t := r.(type) {
	case string:
		return t
	case error:
		msg, nested := capture(t.Error)
		if nested != nil {
			return ""
		}
		return msg
	default:
		return fmt.Sprint(t)
	}
}
