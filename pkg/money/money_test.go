// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package money_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itve/donorapi/pkg/money"
)

func TestAmount_String(t *testing.T) {
	tests := []struct {
		amount money.Amount
		want   string
	}{
		{money.Zero, "0.00"},
		{money.Amount(5), "0.05"},
		{money.Amount(125007), "1250.07"},
		{money.Amount(-5), "-0.05"},
		{money.Amount(-310), "-3.10"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.amount.String())
		})
	}
}

func TestAmount_MarshalJSON(t *testing.T) {
	encoded, err := json.Marshal(struct {
		Total money.Amount `json:"total"`
	}{Total: 1999})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":"19.99"}`, string(encoded))
}
