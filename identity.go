package parmsg

import (
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// IdentityToString returns a token identifying the specific value instance,
// derived from what the value refers to rather than from its contents: two
// distinct containers with equal contents get distinct tokens, and the same
// container always yields the same token. The token has the form
// "type@hexaddress" for reference-backed values (slices, maps, pointers,
// channels, functions).
//
// Values that are not reference-backed were copied when they were boxed, so
// no per-instance identity survives; they fall back to a type-keyed token.
// Containers eligible for cycle detection are always reference-backed, so
// the fallback never weakens cycle handling.
func IdentityToString(v any) string {
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Pointer, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return fmt.Sprintf("%T@%x", v, rv.Pointer())
	}
	return fmt.Sprintf("%T@%x", v, xxhash.Sum64String(rv.Type().String()))
}
