// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package hope

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/itve/donorapi/internal/platform/request"
	"github.com/itve/donorapi/internal/platform/respond"
)

// Handler implements the HTTP layer of the hope domain.
type Handler struct {
	hopeService *Service
}

// NewHandler constructs a hope [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{hopeService: service}
}

// Routes returns a [chi.Router] with the hope endpoints, mounted at /api/hopes.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", handler.create)
	router.Get("/", handler.list)
	return router
}

/*
POST /api/hopes/.

Request:
  - body: CreateInput

Response:
  - 201: Hope: The stored record
  - 422: VALIDATION_ERROR: Field errors
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	hope, err := handler.hopeService.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, hope)
}

// list handles GET /api/hopes/.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	hopes, err := handler.hopeService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, hopes)
}
