// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// PublicPrefix is the URL path under which disk uploads are served.
const PublicPrefix = "/uploads/"

// DiskStore stores objects as files below a root directory.
type DiskStore struct {
	root string
}

// NewDiskStore creates the root directory if needed.
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create upload dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

// Put writes body to <root>/<key> and returns "/uploads/<key>".
//
// The file is written to a temporary sibling first and renamed into place,
// so readers never observe a partial image.
func (store *DiskStore) Put(ctx context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if !filepath.IsLocal(key) {
		return "", ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target := filepath.Join(store.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("storage: create object dir: %w", err)
	}

	temporary, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("storage: create temp file: %w", err)
	}
	defer os.Remove(temporary.Name())

	if _, err := io.Copy(temporary, body); err != nil {
		_ = temporary.Close()
		return "", fmt.Errorf("storage: write object: %w", err)
	}
	if err := temporary.Close(); err != nil {
		return "", fmt.Errorf("storage: close object: %w", err)
	}
	if err := os.Rename(temporary.Name(), target); err != nil {
		return "", fmt.Errorf("storage: commit object: %w", err)
	}

	return path.Join(PublicPrefix, key), nil
}

// Handler serves stored files. Mount it under [PublicPrefix].
//
// Directories answer 404, so the keys of a donor are never listed.
func (store *DiskStore) Handler() http.Handler {
	return http.StripPrefix(PublicPrefix, http.FileServer(filesOnly{http.Dir(store.root)}))
}

// filesOnly hides every directory of the wrapped file system.
type filesOnly struct {
	root http.FileSystem
}

func (fileSystem filesOnly) Open(name string) (http.File, error) {
	file, err := fileSystem.root.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		_ = file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}
