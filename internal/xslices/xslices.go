// Package xslices holds slice helpers that x/exp/slices doesn't have.
package xslices

// Filter returns a new slice containing the elements of s for which f
// returns true.
func Filter[T any, S ~[]T](s S, f func(T) bool) (r S) {
	r = make(S, 0, len(s))
	for _, v := range s {
		if f(v) {
			r = append(r, v)
		}
	}
	return r
}

// Find returns the first element of s for which f returns true.
func Find[T any, S ~[]T](s S, f func(T) bool) (v T, ok bool) {
	for _, v := range s {
		if f(v) {
			return v, true
		}
	}
	return v, false
}
