// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itve/donorapi/internal/platform/apperr"
	"github.com/itve/donorapi/internal/platform/ctxutil"
	requestutil "github.com/itve/donorapi/internal/platform/request"
	"github.com/itve/donorapi/internal/platform/sec"
	"github.com/itve/donorapi/internal/platform/validate"
)

type badge struct {
	Title  string     `json:"title"`
	Earned *time.Time `json:"date_earned"`
}

type payload struct {
	Password string   `json:"password"`
	Name     *string  `json:"name"`
	Count    int      `json:"count"`
	Badges   []badge  `json:"badges"`
	Tags     []string `json:"tags"`
}

func decode(t *testing.T, body string) (payload, error) {
	t.Helper()
	var target payload
	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	err := requestutil.DecodeJSON(httptest.NewRecorder(), request, &target)
	return target, err
}

/*
TestDecodeJSON_Accepts decodes a payload whose keys match the tags exactly.
*/
func TestDecodeJSON_Accepts(t *testing.T) {
	got, err := decode(t, `{"password":"Abcdefgh1!","name":null,"count":2,
		"badges":[{"title":"First","date_earned":"2026-01-02T03:04:05Z"}],"tags":["a"]}`)
	require.NoError(t, err)

	assert.Equal(t, "Abcdefgh1!", got.Password)
	assert.Nil(t, got.Name)
	assert.Equal(t, 2, got.Count)
	require.Len(t, got.Badges, 1)
	assert.Equal(t, "First", got.Badges[0].Title)
	require.NotNil(t, got.Badges[0].Earned)
	assert.Equal(t, []string{"a"}, got.Tags)
}

/*
TestDecodeJSON_RejectsFields names the offending key, case variants included.
*/
func TestDecodeJSON_RejectsFields(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"unknown_key", `{"password":"x","role":"admin"}`, "role"},
		{"upper_case_variant", `{"password":"Abcdefgh1!","PASSWORD":"x"}`, "PASSWORD"},
		{"title_case_variant", `{"Password":"x"}`, "Password"},
		{"nested_variant", `{"badges":[{"title":"a"},{"Title":"b"}]}`, "badges[1].Title"},
		{"nested_unknown", `{"badges":[{"title":"a","icon":"x"}]}`, "badges[0].icon"},
		{"wrong_type", `{"count":"two"}`, "count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(t, tt.body)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, http.StatusUnprocessableEntity, ae.HTTPStatus)
			require.Len(t, ae.Details, 1)
			assert.Equal(t, tt.field, ae.Details[0].Field)
		})
	}
}

/*
TestDecodeJSON_Malformed rejects bodies that are not exactly one JSON value.
*/
func TestDecodeJSON_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"syntax", `{"password":`},
		{"trailing_value", `{"password":"x"} {"password":"y"}`},
		{"trailing_garbage", `{"password":"x"} nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(t, tt.body)
			assert.ErrorIs(t, err, validate.ErrInvalidJSON)
		})
	}
}

/*
TestDecodeJSON_BodyCap refuses a body larger than one mebibyte.
*/
func TestDecodeJSON_BodyCap(t *testing.T) {
	_, err := decode(t, `{"password":"`+strings.Repeat("a", 1<<20)+`"}`)
	assert.ErrorIs(t, err, requestutil.ErrBodyTooLarge)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnprocessableEntity, ae.HTTPStatus)
}

/*
TestRequiredUsername reads the gated donor from the request context.
*/
func TestRequiredUsername(t *testing.T) {
	request := httptest.NewRequest(http.MethodPatch, "/", nil)
	_, err := requestutil.RequiredUsername(request)
	assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)

	claims := &sec.AuthClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "ana_01"}, Role: "donor"}
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	username, err := requestutil.RequiredUsername(request)
	require.NoError(t, err)
	assert.Equal(t, "ana_01", username)
}

/*
TestParam returns chi URL parameters.
*/
func TestParam(t *testing.T) {
	routeContext := chi.NewRouteContext()
	routeContext.URLParams.Add("username", "ana_01")

	request := httptest.NewRequest(http.MethodGet, "/api/donors/ana_01", nil)
	request = request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, routeContext))

	assert.Equal(t, "ana_01", requestutil.Param(request, "username"))
}
