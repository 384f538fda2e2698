// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice holds the generic projections the repositories and services
use to convert between storage rows, domain values and response views.
*/
package slice

// Map projects every element of input through transform.
//
// The result is never nil, so an empty input still encodes as a JSON array.
func Map[T any, U any](input []T, transform func(T) U) []U {
	result := make([]U, len(input))
	for index, value := range input {
		result[index] = transform(value)
	}
	return result
}

// MapRef is Map for element types that are projected through a pointer,
// which avoids copying large structs taken from a decoded batch.
func MapRef[T any, U any](input []T, transform func(*T) U) []U {
	result := make([]U, len(input))
	for index := range input {
		result[index] = transform(&input[index])
	}
	return result
}
