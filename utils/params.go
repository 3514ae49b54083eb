package utils

import (
	"fmt"
	"strconv"

	"github.com/julienschmidt/httprouter"
)

// IndexParam parses a zero-based list position from the path and checks it
// against the list length.
func IndexParam(ps httprouter.Params, name string, length int) (int, error) {
	raw := ps.ByName(name)
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	if i < 0 || i >= length {
		return 0, fmt.Errorf("%s %d out of range", name, i)
	}
	return i, nil
}

// Remove returns a copy of list without position i.
func Remove[T any](list []T, i int) []T {
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

// Append returns a copy of list with v added at the end.
func Append[T any](list []T, v T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, list...)
	return append(out, v)
}
