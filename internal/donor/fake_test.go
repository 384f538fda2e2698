// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package donor_test

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/itve/donorapi/internal/donor"
	"github.com/itve/donorapi/internal/platform/dberr"
	"github.com/itve/donorapi/internal/platform/sec"
)

// memoryRepository is an in-memory [donor.Repository] that enforces the same
// uniqueness rules as the real stores.
type memoryRepository struct {
	mu     sync.Mutex
	donors []*donor.Donor

	// skipLookup makes FindByEmailOrUsername miss, as a concurrent signup would.
	skipLookup bool
	failWith   error
}

func (repository *memoryRepository) FindByEmailOrUsername(_ context.Context, email, username string) (*donor.Donor, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.failWith != nil {
		return nil, repository.failWith
	}
	if repository.skipLookup {
		return nil, dberr.ErrNotFound
	}
	for _, existing := range repository.donors {
		if existing.Email == email || existing.Username == username {
			return clone(existing), nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repository *memoryRepository) FindByUsername(_ context.Context, username string) (*donor.Donor, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if existing := repository.find(username); existing != nil {
		return clone(existing), nil
	}
	return nil, dberr.ErrNotFound
}

func (repository *memoryRepository) List(context.Context) ([]*donor.Donor, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.failWith != nil {
		return nil, repository.failWith
	}
	donors := make([]*donor.Donor, 0, len(repository.donors))
	for _, existing := range repository.donors {
		donors = append(donors, clone(existing))
	}
	return donors, nil
}

func (repository *memoryRepository) Insert(_ context.Context, candidate *donor.Donor) (string, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.donors {
		if existing.Email == candidate.Email || existing.Username == candidate.Username {
			return "", fmt.Errorf("memory_insert: %w", dberr.ErrDuplicate)
		}
	}

	stored := clone(candidate)
	stored.ID = "donor-" + strconv.Itoa(len(repository.donors)+1)
	repository.donors = append(repository.donors, stored)
	return stored.ID, nil
}

func (repository *memoryRepository) UpdateProfile(_ context.Context, username string, update donor.ProfileUpdate) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	existing := repository.find(username)
	if existing == nil {
		return false, nil
	}
	if update.Name != nil {
		existing.Name = *update.Name
	}
	if update.About != nil {
		existing.About = *update.About
	}
	if update.ProfileImageURL != nil {
		existing.ProfileImageURL = *update.ProfileImageURL
	}
	return true, nil
}

func (repository *memoryRepository) ReplaceAchievements(_ context.Context, username string, achievements []donor.Achievement) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	existing := repository.find(username)
	if existing == nil {
		return false, nil
	}
	existing.Achievements = append([]donor.Achievement{}, achievements...)
	return true, nil
}

func (repository *memoryRepository) SetProfileImage(_ context.Context, username, reference string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	existing := repository.find(username)
	if existing == nil {
		return false, nil
	}
	existing.ProfileImageURL = reference
	return true, nil
}

func (repository *memoryRepository) find(username string) *donor.Donor {
	for _, existing := range repository.donors {
		if existing.Username == username {
			return existing
		}
	}
	return nil
}

func (repository *memoryRepository) stored(username string) *donor.Donor {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return repository.find(username)
}

func clone(source *donor.Donor) *donor.Donor {
	copied := *source
	copied.Achievements = append([]donor.Achievement(nil), source.Achievements...)
	return &copied
}

// memoryImages records the objects written through [storage.Store].
type memoryImages struct {
	keys []string
	data [][]byte
}

func (images *memoryImages) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	content, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	images.keys = append(images.keys, key)
	images.data = append(images.data, content)
	return "/uploads/" + key, nil
}

func newTokens(t *testing.T) *sec.TokenService {
	t.Helper()
	tokens, err := sec.NewTokenService(sec.TokenOptions{
		Secret:     "test-secret",
		Algorithm:  "HS256",
		Issuer:     "itve.org",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	})
	require.NoError(t, err)
	return tokens
}

var imageRules = donor.ImageOptions{AllowedExtensions: []string{".jpg", ".jpeg", ".png"}, MaxBytes: 1024}
