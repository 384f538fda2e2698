// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itve/donorapi/internal/platform/storage"
)

/*
TestDiskStore_PutAndServe writes a file and reads it back over HTTP.
*/
func TestDiskStore_PutAndServe(t *testing.T) {
	root := t.TempDir()
	store, err := storage.NewDiskStore(root)
	require.NoError(t, err)

	reference, err := store.Put(context.Background(), "ana_01/abc.png", strings.NewReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/ana_01/abc.png", reference)

	content, err := os.ReadFile(filepath.Join(root, "ana_01", "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))

	recorder := httptest.NewRecorder()
	store.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, reference, nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "png-bytes", recorder.Body.String())
}

/*
TestDiskStore_HidesDirectories answers 404 instead of listing stored keys.
*/
func TestDiskStore_HidesDirectories(t *testing.T) {
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	_, err = store.Put(context.Background(), "ana_01/abc.png", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)

	for _, target := range []string{"/uploads/", "/uploads/ana_01/", "/uploads/ana_01", "/uploads/ana_01/missing.png"} {
		t.Run(target, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			store.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
			assert.Equal(t, http.StatusNotFound, recorder.Code)
			assert.NotContains(t, recorder.Body.String(), "abc.png")
		})
	}
}

/*
TestDiskStore_RejectsEscapingKeys keeps writes inside the root.
*/
func TestDiskStore_RejectsEscapingKeys(t *testing.T) {
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../evil.png", "/etc/evil.png", ""} {
		_, err := store.Put(context.Background(), key, strings.NewReader("x"), 1, "image/png")
		assert.ErrorIs(t, err, storage.ErrInvalidKey, key)
	}
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = input
	content, _ := io.ReadAll(input.Body)
	f.body = string(content)
	return &s3.PutObjectOutput{}, f.err
}

/*
TestS3Store_Put checks the request and the returned public URL.
*/
func TestS3Store_Put(t *testing.T) {
	tests := []struct {
		name     string
		options  storage.S3Options
		expected string
	}{
		{"aws", storage.S3Options{Bucket: "itve", Region: "ap-south-1"}, "https://itve.s3.ap-south-1.amazonaws.com/ana_01/a.jpg"},
		{"custom_endpoint", storage.S3Options{Bucket: "itve", Region: "auto", Endpoint: "http://minio:9000/"}, "http://minio:9000/itve/ana_01/a.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			putter := &fakePutter{}
			store := storage.NewS3StoreWithClient(putter, tt.options)

			reference, err := store.Put(context.Background(), "ana_01/a.jpg", strings.NewReader("jpg"), 3, "image/jpeg")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, reference)
			assert.Equal(t, "itve", *putter.input.Bucket)
			assert.Equal(t, "ana_01/a.jpg", *putter.input.Key)
			assert.Equal(t, "image/jpeg", *putter.input.ContentType)
			assert.Equal(t, "jpg", putter.body)
		})
	}
}

/*
TestS3Store_Errors covers invalid keys and client failures.
*/
func TestS3Store_Errors(t *testing.T) {
	putter := &fakePutter{err: errors.New("access denied")}
	store := storage.NewS3StoreWithClient(putter, storage.S3Options{Bucket: "itve", Region: "auto"})

	_, err := store.Put(context.Background(), "ana_01/../x.jpg", strings.NewReader("x"), 1, "image/jpeg")
	assert.ErrorIs(t, err, storage.ErrInvalidKey)

	_, err = store.Put(context.Background(), "a..b/x.jpg", strings.NewReader("x"), 1, "image/jpeg")
	assert.ErrorContains(t, err, "access denied")
}
