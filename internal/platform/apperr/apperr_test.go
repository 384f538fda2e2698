// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itve/donorapi/internal/platform/apperr"
)

/*
TestConstructors_StatusMapping pins every constructor to its HTTP status.
*/
func TestConstructors_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		status int
		code   string
	}{
		{"not_found", apperr.NotFound("Donor"), http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", apperr.Unauthorized("x"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", apperr.Forbidden("x"), http.StatusForbidden, "FORBIDDEN"},
		{"already_exists", apperr.AlreadyExists("x"), http.StatusBadRequest, "ALREADY_EXISTS"},
		{"bad_request", apperr.BadRequest("x"), http.StatusBadRequest, "BAD_REQUEST"},
		{"validation", apperr.ValidationError("x"), http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"internal", apperr.Internal(errors.New("boom")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"unavailable", apperr.ServiceUnavailable("x"), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

/*
TestAs_TraversesWrappedChain verifies that wrapped AppErrors are still found.
*/
func TestAs_TraversesWrappedChain(t *testing.T) {
	wrapped := fmt.Errorf("donor_service_get_failed: %w", apperr.NotFound("Donor"))

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, "Donor not found", ae.Message)
	assert.True(t, apperr.IsAppError(wrapped))

	assert.Nil(t, apperr.As(errors.New("plain")))
}

/*
TestInternal_HidesCause checks that the client message never contains the cause.
*/
func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("connection refused on 10.0.0.3:27017")
	err := apperr.Internal(cause)

	assert.NotContains(t, err.Error(), "10.0.0.3")
	assert.ErrorIs(t, err, cause)
}
