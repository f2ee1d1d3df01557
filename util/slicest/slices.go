// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

// Package slicest holds generic slice helpers missing from the standard
// library.
package slicest

// MapXI maps slice S to a slice of U with error propagation.
// - X: Stops on failure and returns error.
// - I: Provides index to callback.
func MapXI[T, U any, S ~[]T](s S, fn func(int, T) (U, error)) ([]U, error) {
	result := make([]U, len(s))
	for i, t := range s {
		u, err := fn(i, t)
		if err != nil {
			return nil, err
		}
		result[i] = u
	}
	return result, nil
}

// Map maps slice S to a slice of U.
func Map[T, U any, S ~[]T](s S, fn func(T) U) []U {
	result, _ := MapXI(s, func(_ int, t T) (U, error) {
		return fn(t), nil
	})
	return result
}
