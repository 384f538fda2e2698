// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage persists uploaded profile images.

Two backends implement [Store]: [DiskStore] writes below UPLOAD_DIR and serves
the files back under /uploads/, [S3Store] writes to an S3-compatible bucket
when S3_BUCKET is configured.
*/
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidKey is returned for object keys that escape the storage root.
var ErrInvalidKey = errors.New("storage: invalid object key")

// Store writes an object and returns the reference clients use to fetch it.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}
