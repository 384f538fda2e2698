// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package hope

import (
	"context"
	"fmt"
	"time"
)

// Service implements the hope use cases.
type Service struct {
	repository Repository
	now        func() time.Time
}

// NewService constructs a hope [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository, now: time.Now}
}

/*
Create validates and stores a new hope.

Parameters:
  - ctx: context.Context
  - input: CreateInput (normalized in place)

Returns:
  - *Hope: The stored record including its generated id
  - error: validation error or store failures
*/
func (service *Service) Create(ctx context.Context, input CreateInput) (*Hope, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	hope := input.ToHope(service.now().UTC())
	id, err := service.repository.Insert(ctx, hope)
	if err != nil {
		return nil, fmt.Errorf("hope_service_create_failed: %w", err)
	}

	hope.ID = id
	return hope, nil
}

// List returns every hope. An empty store yields an empty, non-nil slice.
func (service *Service) List(ctx context.Context) ([]*Hope, error) {
	hopes, err := service.repository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("hope_service_list_failed: %w", err)
	}
	if hopes == nil {
		hopes = []*Hope{}
	}
	return hopes, nil
}
