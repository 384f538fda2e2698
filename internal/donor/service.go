// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package donor

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/itve/donorapi/internal/platform/apperr"
	"github.com/itve/donorapi/internal/platform/constants"
	"github.com/itve/donorapi/internal/platform/dberr"
	"github.com/itve/donorapi/internal/platform/metrics"
	"github.com/itve/donorapi/internal/platform/sec"
	"github.com/itve/donorapi/internal/platform/storage"
	"github.com/itve/donorapi/pkg/money"
	"github.com/itve/donorapi/pkg/slice"
)

// imageTokenBytes is the entropy of the random part of an image key.
const imageTokenBytes = 16

// # Collaborators

// TokenIssuer is the part of [sec.TokenService] the donor service needs.
type TokenIssuer interface {
	IssueAccessToken(claims sec.Claims, timeToLive time.Duration) (string, error)
	IssueRefreshToken(claims sec.Claims, timeToLive time.Duration) (string, error)
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// SignupRecorder counts signup outcomes. [*metrics.Metrics] satisfies it.
type SignupRecorder interface {
	RecordSignup(result string)
}

// ImageOptions bounds profile image uploads.
type ImageOptions struct {
	// AllowedExtensions are lower-case and dot-prefixed, e.g. ".png".
	AllowedExtensions []string
	MaxBytes          int64
}

// # Results

// SignupResult is the body returned by a successful signup.
type SignupResult struct {
	Message     string `json:"message"`
	DonorID     string `json:"donor_id"`
	AccessToken string `json:"access_token"`
}

// TokenPair is the body returned by a successful login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AccessToken is the body returned by a token refresh.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ImageUpload is a profile image received from the client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageResult is the body returned by a successful image upload.
type ImageResult struct {
	Message         string `json:"message"`
	ProfileImageURL string `json:"profile_image_url"`
}

// # Service

// Service implements the donor use cases.
//
// Every method validates its input first, so a handler only has to decode.
type Service struct {
	repository Repository
	tokens     TokenIssuer
	images     storage.Store
	imageRules ImageOptions
	signups    SignupRecorder
	now        func() time.Time
}

// NewService constructs a donor [Service].
//
// images may be nil when uploads are disabled; signups may be nil.
func NewService(repository Repository, tokens TokenIssuer, images storage.Store, imageRules ImageOptions, signups SignupRecorder) *Service {
	return &Service{
		repository: repository,
		tokens:     tokens,
		images:     images,
		imageRules: imageRules,
		signups:    signups,
		now:        time.Now,
	}
}

// dummyHash is compared against when a login names no donor, so a miss costs
// the same bcrypt work as a wrong password.
var dummyHash = sync.OnceValue(func() string {
	hash, _ := sec.HashPassword("itve-donor-placeholder")
	return hash
})

/*
Signup registers a new donor and returns an access token for it.

Parameters:
  - ctx: context.Context
  - input: SignupInput (normalized in place)

Returns:
  - *SignupResult: Donor id and access token
  - error: validation error, apperr.AlreadyExists or store failures

Uniqueness is pre-checked for a fast answer; the store's unique indexes
decide races between concurrent signups.
*/
func (service *Service) Signup(ctx context.Context, input SignupInput) (*SignupResult, error) {

	// ── 1. Validation ─────────────────────────────────────────────────────
	if err := input.Validate(); err != nil {
		service.record(metrics.SignupInvalid)
		return nil, err
	}

	// ── 2. Uniqueness Pre-check ───────────────────────────────────────────
	_, err := service.repository.FindByEmailOrUsername(ctx, input.Email, input.Username)
	switch {
	case err == nil:
		service.record(metrics.SignupDuplicate)
		return nil, apperr.AlreadyExists(MessageDuplicate)
	case !dberr.IsNotFound(err):
		service.record(metrics.SignupError)
		return nil, fmt.Errorf("donor_service_signup_lookup_failed: %w", err)
	}

	// ── 3. Entity Construction ────────────────────────────────────────────
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		service.record(metrics.SignupError)
		return nil, fmt.Errorf("donor_service_hash_failed: %w", err)
	}

	donor := &Donor{
		Username:           input.Username,
		Email:              input.Email,
		PasswordHash:       hashedPassword,
		Phone:              input.Phone,
		Name:               input.Name,
		TotalAmountDonated: money.Zero,
		DonorClass:         DefaultDonorClass,
		Achievements:       []Achievement{},
		CreatedAt:          service.now().UTC(),
	}

	// ── 4. Persistence ────────────────────────────────────────────────────
	id, err := service.repository.Insert(ctx, donor)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			service.record(metrics.SignupDuplicate)
			return nil, apperr.AlreadyExists(MessageDuplicate)
		}
		service.record(metrics.SignupError)
		return nil, fmt.Errorf("donor_service_signup_failed: %w", err)
	}

	// ── 5. Token Issuance ─────────────────────────────────────────────────
	accessToken, err := service.tokens.IssueAccessToken(sec.Claims{Subject: donor.Username, Role: sec.RoleDonor}, 0)
	if err != nil {
		service.record(metrics.SignupError)
		return nil, fmt.Errorf("donor_service_token_failed: %w", err)
	}

	service.record(metrics.SignupCreated)
	return &SignupResult{Message: MessageSignedUp, DonorID: id, AccessToken: accessToken}, nil
}

/*
Login checks the credentials of a donor and issues an access/refresh pair.

Parameters:
  - ctx: context.Context
  - input: LoginInput where Login is an email or a username

Returns:
  - *TokenPair: Access and refresh tokens
  - error: apperr.Unauthorized on any credential mismatch
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*TokenPair, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	donor, err := service.repository.FindByEmailOrUsername(ctx, input.Login, input.Login)
	if err != nil {
		if !dberr.IsNotFound(err) {
			return nil, fmt.Errorf("donor_service_login_lookup_failed: %w", err)
		}
		sec.CheckPasswordHash(input.Password, dummyHash())
		return nil, apperr.Unauthorized(MessageInvalidLogin)
	}

	if !sec.CheckPasswordHash(input.Password, donor.PasswordHash) {
		return nil, apperr.Unauthorized(MessageInvalidLogin)
	}

	claims := sec.Claims{Subject: donor.Username, Role: sec.RoleDonor}
	accessToken, err := service.tokens.IssueAccessToken(claims, 0)
	if err != nil {
		return nil, fmt.Errorf("donor_service_token_failed: %w", err)
	}
	refreshToken, err := service.tokens.IssueRefreshToken(claims, 0)
	if err != nil {
		return nil, fmt.Errorf("donor_service_token_failed: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken, TokenType: constants.TokenTypeBearer}, nil
}

// Refresh exchanges a valid donor refresh token for a new access token.
func (service *Service) Refresh(ctx context.Context, input RefreshInput) (*AccessToken, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	claims, err := service.tokens.VerifyToken(input.RefreshToken)
	if err != nil || claims.Type != sec.ClassRefresh ||
		sec.UserRole(claims.Role) != sec.RoleDonor || claims.Username() == "" {
		return nil, apperr.Unauthorized(MessageInvalidRefresh)
	}

	accessToken, err := service.tokens.IssueAccessToken(sec.Claims{Subject: claims.Username(), Role: sec.RoleDonor}, 0)
	if err != nil {
		return nil, fmt.Errorf("donor_service_token_failed: %w", err)
	}

	return &AccessToken{AccessToken: accessToken, TokenType: constants.TokenTypeBearer}, nil
}

// GetProfile returns the public profile of a donor. The lookup is case-insensitive.
func (service *Service) GetProfile(ctx context.Context, username string) (*Profile, error) {
	donor, err := service.repository.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("Donor")
		}
		return nil, fmt.Errorf("donor_service_get_profile_failed: %w", err)
	}

	profile := donor.Profile()
	return &profile, nil
}

// List returns the public profile of every donor.
func (service *Service) List(ctx context.Context) ([]Profile, error) {
	donors, err := service.repository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("donor_service_list_failed: %w", err)
	}

	return slice.Map(donors, (*Donor).Profile), nil
}

/*
UpdateProfile applies a partial profile update for the given donor.

Parameters:
  - ctx: context.Context
  - username: string (token subject)
  - update: ProfileUpdate, nil fields are untouched

Returns:
  - error: validation error, apperr.BadRequest when nothing was supplied,
    apperr.NotFound when the donor no longer exists
*/
func (service *Service) UpdateProfile(ctx context.Context, username string, update ProfileUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	if update.IsEmpty() {
		return apperr.BadRequest(MessageNoData)
	}

	matched, err := service.repository.UpdateProfile(ctx, username, update)
	if err != nil {
		return fmt.Errorf("donor_service_update_profile_failed: %w", err)
	}
	if !matched {
		return apperr.NotFound("Donor")
	}
	return nil
}

// ReplaceAchievements overwrites the achievement list. An empty list clears it.
func (service *Service) ReplaceAchievements(ctx context.Context, username string, input AchievementsInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	matched, err := service.repository.ReplaceAchievements(ctx, username, input.ToAchievements(service.now().UTC()))
	if err != nil {
		return fmt.Errorf("donor_service_replace_achievements_failed: %w", err)
	}
	if !matched {
		return apperr.NotFound("Donor")
	}
	return nil
}

/*
UploadProfileImage stores an image and points the donor's profile at it.

Parameters:
  - ctx: context.Context
  - username: string (token subject)
  - upload: ImageUpload

Returns:
  - *ImageResult: The stored reference
  - error: validation error on extension or size, apperr.NotFound when the
    donor no longer exists
*/
func (service *Service) UploadProfileImage(ctx context.Context, username string, upload ImageUpload) (*ImageResult, error) {
	if service.images == nil {
		return nil, apperr.ServiceUnavailable("Image uploads are not configured")
	}

	// ── 1. Validation ─────────────────────────────────────────────────────
	extension := strings.ToLower(filepath.Ext(upload.Filename))
	if !slices.Contains(service.imageRules.AllowedExtensions, extension) {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldFile,
			Message: "File type not allowed. Allowed: " + strings.Join(service.imageRules.AllowedExtensions, ", "),
		})
	}
	if service.imageRules.MaxBytes > 0 && upload.Size > service.imageRules.MaxBytes {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldFile,
			Message: fmt.Sprintf("File must not exceed %d bytes", service.imageRules.MaxBytes),
		})
	}

	// ── 2. Existence Check ────────────────────────────────────────────────
	if _, err := service.repository.FindByUsername(ctx, username); err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("Donor")
		}
		return nil, fmt.Errorf("donor_service_upload_lookup_failed: %w", err)
	}

	// ── 3. Storage ────────────────────────────────────────────────────────
	token, err := sec.GenerateSecureToken(imageTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("donor_service_upload_failed: %w", err)
	}

	reference, err := service.images.Put(ctx, username+"/"+token+extension, upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("donor_service_upload_failed: %w", err)
	}

	// ── 4. Persistence ────────────────────────────────────────────────────
	matched, err := service.repository.SetProfileImage(ctx, username, reference)
	if err != nil {
		return nil, fmt.Errorf("donor_service_set_profile_image_failed: %w", err)
	}
	if !matched {
		return nil, apperr.NotFound("Donor")
	}

	return &ImageResult{Message: MessageImageUploaded, ProfileImageURL: reference}, nil
}

func (service *Service) record(result string) {
	if service.signups != nil {
		service.signups.RecordSignup(result)
	}
}

// ImageLimit returns the largest accepted image in bytes, 0 meaning unbounded.
func (service *Service) ImageLimit() int64 {
	return service.imageRules.MaxBytes
}
