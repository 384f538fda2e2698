// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itve/donorapi/pkg/slice"
)

/*
TestMap projects values and keeps empty inputs as empty arrays.
*/
func TestMap(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, slice.Map([]int{1, 2, 3}, strconv.Itoa))

	empty := slice.Map[int, string](nil, strconv.Itoa)
	require.NotNil(t, empty)

	encoded, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(encoded))
}

/*
TestMapRef hands each element to the transform by address.
*/
func TestMapRef(t *testing.T) {
	type row struct{ name string }
	rows := []row{{"ana"}, {"binh"}}

	names := slice.MapRef(rows, func(r *row) string { return r.name })
	assert.Equal(t, []string{"ana", "binh"}, names)
	assert.Empty(t, slice.MapRef[row, string](nil, func(r *row) string { return r.name }))
}
