package utils

import (
	"cmp"
	"strings"
)

func Ptr[T any](v T) *T {
	return &v
}

func OrZero[T comparable](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

// Clone copies the value behind p so the result shares no memory with it.
func Clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Returns nil on an empty or all whitespace string
func StringOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return max(lo, min(hi, v))
}
