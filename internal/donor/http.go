// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package donor

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/itve/donorapi/internal/platform/apperr"
	requestutil "github.com/itve/donorapi/internal/platform/request"
	"github.com/itve/donorapi/internal/platform/respond"
)

// multipartOverhead is the slack allowed on top of the image limit for the
// multipart framing itself.
const multipartOverhead = 64 << 10

// Handler implements the HTTP layer of the donor domain.
type Handler struct {
	donorService *Service
	requireDonor func(http.Handler) http.Handler
}

// NewHandler constructs a donor [Handler]. requireDonor guards the mutating routes.
func NewHandler(service *Service, requireDonor func(http.Handler) http.Handler) *Handler {
	return &Handler{donorService: service, requireDonor: requireDonor}
}

// Routes returns a [chi.Router] with the donor endpoints, mounted at /api/donors.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Accounts
	router.Post("/signup", handler.signup)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)

	// Public profiles
	router.Get("/", handler.list)
	router.Get("/{username}", handler.getProfile)

	// Authenticated donor
	router.Group(func(protected chi.Router) {
		protected.Use(handler.requireDonor)
		protected.Patch("/profile", handler.updateProfile)
		protected.Patch("/achievements", handler.replaceAchievements)
		protected.Post("/profile/image", handler.uploadProfileImage)
	})

	return router
}

// # Account Endpoints

/*
POST /api/donors/signup.

Request:
  - body: SignupInput

Response:
  - 201: SignupResult
  - 400: ALREADY_EXISTS: Email or username taken
  - 422: VALIDATION_ERROR: Field errors
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input SignupInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.donorService.Signup(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, result)
}

/*
POST /api/donors/login.

Response:
  - 200: TokenPair
  - 401: UNAUTHORIZED: Invalid login credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input LoginInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tokens, err := handler.donorService.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tokens)
}

/*
POST /api/donors/refresh.

Response:
  - 200: AccessToken
  - 401: UNAUTHORIZED: Invalid or expired refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input RefreshInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.donorService.Refresh(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, token)
}

// # Profile Endpoints

// list handles GET /api/donors/.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	profiles, err := handler.donorService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profiles)
}

// getProfile handles GET /api/donors/{username}.
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.donorService.GetProfile(request.Context(), requestutil.Param(request, "username"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
PATCH /api/donors/profile.

Request:
  - body: ProfileUpdate (partial)

Response:
  - 200: {message}
  - 400: BAD_REQUEST: No data provided to update
  - 404: NOT_FOUND: Donor vanished after the token was issued
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	username, err := requestutil.RequiredUsername(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input ProfileUpdate
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.donorService.UpdateProfile(request.Context(), username, input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Ack(writer, MessageProfileUpdated)
}

// replaceAchievements handles PATCH /api/donors/achievements.
func (handler *Handler) replaceAchievements(writer http.ResponseWriter, request *http.Request) {
	username, err := requestutil.RequiredUsername(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input AchievementsInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.donorService.ReplaceAchievements(request.Context(), username, input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Ack(writer, MessageAchievementsUpdated)
}

/*
POST /api/donors/profile/image.

Request:
  - body: multipart/form-data with the image in field "file"

Response:
  - 200: ImageResult
  - 422: VALIDATION_ERROR: Missing file, wrong extension or too large
*/
func (handler *Handler) uploadProfileImage(writer http.ResponseWriter, request *http.Request) {
	username, err := requestutil.RequiredUsername(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if limit := handler.donorService.ImageLimit(); limit > 0 {
		request.Body = http.MaxBytesReader(writer, request.Body, limit+multipartOverhead)
	}

	file, header, err := request.FormFile(FieldFile)
	if err != nil {
		respond.Error(writer, request, uploadError(err, handler.donorService.ImageLimit()))
		return
	}
	defer file.Close()

	result, err := handler.donorService.UploadProfileImage(request.Context(), username, ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// uploadError maps a multipart parsing failure to a field error on "file".
func uploadError(err error, limit int64) error {
	message := "A file is required"

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		message = fmt.Sprintf("File must not exceed %d bytes", limit)
	}

	return apperr.ValidationError("Validation failed", apperr.FieldError{Field: FieldFile, Message: message})
}
