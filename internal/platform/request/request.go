// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/invopop/jsonschema"

	"github.com/itve/donorapi/internal/platform/apperr"
	"github.com/itve/donorapi/internal/platform/ctxutil"
	"github.com/itve/donorapi/internal/platform/validate"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

const unknownFieldPrefix = "json: unknown field "

// ErrBodyTooLarge is returned when a body exceeds the decoding cap.
var ErrBodyTooLarge = apperr.ValidationError("Request body too large")

// schemas caches the reflected key layout of every decode target type.
var schemas sync.Map

/*
DecodeJSON reads the request body and decodes it into the target structure.

Unknown fields and trailing data are rejected. Object keys must match the
json tags exactly, including inside nested objects and arrays.

Parameters:
  - writer: http.ResponseWriter (used to cap the body size)
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: a VALIDATION_ERROR naming the offending field when one is known,
    ErrBodyTooLarge past the cap, validate.ErrInvalidJSON for any other
    decoding failure, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {

	// ── 1. Bounded Read ──────────────────────────────────────────────────
	body, err := io.ReadAll(http.MaxBytesReader(writer, request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrBodyTooLarge
		}
		return validate.ErrInvalidJSON
	}

	// ── 2. Single Value ──────────────────────────────────────────────────
	decoder := json.NewDecoder(bytes.NewReader(body))
	var raw json.RawMessage
	if err := decoder.Decode(&raw); err != nil {
		return validate.ErrInvalidJSON
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}

	// ── 3. Exact Keys ────────────────────────────────────────────────────
	// encoding/json folds key case, so "PASSWORD" would bind to "password".
	if err := checkKeys(raw, schemaFor(target), ""); err != nil {
		return err
	}

	// ── 4. Typed Decode ──────────────────────────────────────────────────
	strict := json.NewDecoder(bytes.NewReader(raw))
	strict.DisallowUnknownFields()
	if err := strict.Decode(target); err != nil {
		return decodeError(err)
	}

	return nil
}

func schemaFor(target any) *jsonschema.Schema {
	kind := reflect.TypeOf(target)
	if cached, ok := schemas.Load(kind); ok {
		return cached.(*jsonschema.Schema)
	}

	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(target)
	schemas.Store(kind, schema)
	return schema
}

// checkKeys walks raw alongside schema and reports the first key that is not
// a declared property. Values of the wrong shape are left to the typed decode.
func checkKeys(raw json.RawMessage, schema *jsonschema.Schema, path string) error {
	if schema == nil {
		return nil
	}

	switch {
	case schema.Properties != nil:
		var object map[string]json.RawMessage
		if json.Unmarshal(raw, &object) != nil {
			return nil
		}
		for _, key := range slices.Sorted(maps.Keys(object)) {
			field := joinPath(path, key)
			property, ok := schema.Properties.Get(key)
			if !ok {
				return unknownField(field)
			}
			if err := checkKeys(object[key], property, field); err != nil {
				return err
			}
		}

	case schema.Items != nil:
		var items []json.RawMessage
		if json.Unmarshal(raw, &items) != nil {
			return nil
		}
		for index, item := range items {
			if err := checkKeys(item, schema.Items, fmt.Sprintf("%s[%d]", path, index)); err != nil {
				return err
			}
		}
	}

	return nil
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func unknownField(field string) error {
	return apperr.ValidationError("Invalid JSON payload", apperr.FieldError{
		Field:   field,
		Message: "Unknown field",
	})
}

func decodeError(err error) error {
	if field, ok := strings.CutPrefix(err.Error(), unknownFieldPrefix); ok {
		return unknownField(strings.Trim(field, `"`))
	}

	var typeError *json.UnmarshalTypeError
	if errors.As(err, &typeError) && typeError.Field != "" {
		return apperr.ValidationError("Invalid JSON payload", apperr.FieldError{
			Field:   typeError.Field,
			Message: "Must be of type " + typeError.Type.String(),
		})
	}

	return validate.ErrInvalidJSON
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
RequiredUsername returns the username of the currently authenticated donor.

Returns:
  - string: The token subject
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUsername(request *http.Request) (string, error) {
	username := ctxutil.GetUsername(request.Context())
	if username == "" {
		return "", apperr.Unauthorized("Authentication required")
	}

	return username, nil
}
