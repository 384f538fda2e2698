// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package hope

import (
	"context"
	"errors"
)

var errUnexpectedID = errors.New("hope: unexpected inserted id type")

// Repository is the storage contract of the hope domain.
type Repository interface {
	// Insert stores a new hope and returns its generated identifier.
	Insert(ctx context.Context, hope *Hope) (string, error)

	// List returns every hope in insertion order.
	List(ctx context.Context) ([]*Hope, error)
}
