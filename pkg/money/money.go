// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package money provides a fixed-point currency amount.

An [Amount] counts minor units (paisa, cents) in an int64 so that sums never
accumulate binary floating-point error. On the wire it is a decimal string
with exactly two fraction digits, e.g. "1250.00".
*/
package money

import (
	"encoding/json"
	"fmt"
)

// Scale is the number of minor units in one major unit.
const Scale = 100

// Amount is a currency value in minor units.
type Amount int64

// Zero is the zero amount.
const Zero Amount = 0

// String renders the amount with two fraction digits.
func (a Amount) String() string {
	sign := ""
	value := int64(a)
	if value < 0 {
		sign = "-"
		value = -value
	}
	return fmt.Sprintf("%s%d.%02d", sign, value/Scale, value%Scale)
}

// MarshalJSON encodes the amount as a decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}
