// Package helpers holds the small fail-fast and pointer utilities shared by every edgemesh binary.
package helpers

import "reflect"

// StrPanic panics with panicMessage when s is empty and returns s otherwise. Only s == "" is
// checked, whitespace is left to the caller.
//
// Used by constructors that take a required base URL, directory or service name
// (registry/client.New, gateway/adapters.RegistryHTTP, configserver/adapters/filerepo.New).
func StrPanic(s string, panicMessage string) string {
	if s == "" {
		panic(panicMessage)
	}
	return s
}

// NilPanic panics with panicMessage when v is nil (nil interface, or a nil pointer, slice, map,
// chan or func held in T) and returns v otherwise, so constructors can validate and assign a
// dependency in one expression.
func NilPanic[T any](v T, panicMessage string) T {
	if isNil(v) {
		panic(panicMessage)
	}
	return v
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
