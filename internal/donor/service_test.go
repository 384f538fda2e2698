// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package donor_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itve/donorapi/internal/donor"
	"github.com/itve/donorapi/internal/platform/apperr"
	"github.com/itve/donorapi/internal/platform/metrics"
	"github.com/itve/donorapi/internal/platform/sec"
	"github.com/itve/donorapi/pkg/money"
	"github.com/itve/donorapi/pkg/pointer"
)

type serviceFixture struct {
	service    *donor.Service
	repository *memoryRepository
	images     *memoryImages
	tokens     *sec.TokenService
	signups    *metrics.Metrics
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	fixture := &serviceFixture{
		repository: &memoryRepository{},
		images:     &memoryImages{},
		tokens:     newTokens(t),
		signups:    metrics.New(),
	}
	fixture.service = donor.NewService(fixture.repository, fixture.tokens, fixture.images, imageRules, fixture.signups)
	return fixture
}

func (fixture *serviceFixture) signupCount(result string) float64 {
	return testutil.ToFloat64(fixture.signups.SignupsTotal.WithLabelValues(result))
}

func assertStatus(t *testing.T, err error, status int) *apperr.AppError {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected an AppError, got %v", err)
	assert.Equal(t, status, appError.HTTPStatus)
	return appError
}

/*
TestService_Signup stores a normalized donor and returns a usable access token.
*/
func TestService_Signup(t *testing.T) {
	fixture := newFixture(t)

	result, err := fixture.service.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	assert.Equal(t, donor.MessageSignedUp, result.Message)
	assert.Equal(t, "donor-1", result.DonorID)

	stored := fixture.repository.stored("ana_01")
	require.NotNil(t, stored)
	assert.Equal(t, "a@x.com", stored.Email)
	assert.Equal(t, "+923001234567", stored.Phone)
	assert.Equal(t, donor.DefaultDonorClass, stored.DonorClass)
	assert.Equal(t, money.Zero, stored.TotalAmountDonated)
	assert.Empty(t, stored.Achievements)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.NotEqual(t, "Abcdef1!", stored.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("Abcdef1!", stored.PasswordHash))

	claims, err := fixture.tokens.VerifyToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ana_01", claims.Username())
	assert.Equal(t, sec.ClassAccess, claims.Type)
	assert.Equal(t, string(sec.RoleDonor), claims.Role)

	assert.Equal(t, 1.0, fixture.signupCount(metrics.SignupCreated))
}

/*
TestService_Signup_Duplicate rejects a username that differs only in case.
*/
func TestService_Signup_Duplicate(t *testing.T) {
	fixture := newFixture(t)
	_, err := fixture.service.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	second := validSignup()
	second.Email = "other@x.com"
	second.Username = "ANA_01"

	_, err = fixture.service.Signup(context.Background(), second)
	appError := assertStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "ALREADY_EXISTS", appError.Code)
	assert.Equal(t, donor.MessageDuplicate, appError.Message)
	assert.Equal(t, 1.0, fixture.signupCount(metrics.SignupDuplicate))
}

/*
TestService_Signup_DuplicateRace maps a store-level unique violation to a conflict.
*/
func TestService_Signup_DuplicateRace(t *testing.T) {
	fixture := newFixture(t)
	fixture.repository.skipLookup = true

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fixture.service.Signup(context.Background(), validSignup())

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if appError := apperr.As(err); appError != nil && appError.Code == "ALREADY_EXISTS" {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 3, conflicts)
	assert.Equal(t, 1.0, fixture.signupCount(metrics.SignupCreated))
	assert.Equal(t, 3.0, fixture.signupCount(metrics.SignupDuplicate))
}

/*
TestService_Signup_Invalid never touches the store.
*/
func TestService_Signup_Invalid(t *testing.T) {
	fixture := newFixture(t)
	input := validSignup()
	input.Phone = "+12001234567"

	_, err := fixture.service.Signup(context.Background(), input)
	assertStatus(t, err, http.StatusUnprocessableEntity)
	assert.Nil(t, fixture.repository.stored("ana_01"))
	assert.Equal(t, 1.0, fixture.signupCount(metrics.SignupInvalid))
}

/*
TestService_Signup_StoreFailure surfaces as an internal error.
*/
func TestService_Signup_StoreFailure(t *testing.T) {
	fixture := newFixture(t)
	fixture.repository.failWith = errors.New("connection refused")

	_, err := fixture.service.Signup(context.Background(), validSignup())
	require.Error(t, err)
	assert.False(t, apperr.IsAppError(err))
	assert.Equal(t, 1.0, fixture.signupCount(metrics.SignupError))
}

/*
TestService_Login accepts email or username and rejects everything else uniformly.
*/
func TestService_Login(t *testing.T) {
	fixture := newFixture(t)
	_, err := fixture.service.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	for _, login := range []string{"a@x.com", "ANA_01"} {
		pair, err := fixture.service.Login(context.Background(), donor.LoginInput{Login: login, Password: "Abcdef1!"})
		require.NoError(t, err, login)
		assert.Equal(t, "bearer", pair.TokenType)

		refresh, err := fixture.tokens.VerifyToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, sec.ClassRefresh, refresh.Type)
	}

	for _, input := range []donor.LoginInput{
		{Login: "ana_01", Password: "Wrong1!pass"},
		{Login: "nobody", Password: "Abcdef1!"},
	} {
		_, err := fixture.service.Login(context.Background(), input)
		appError := assertStatus(t, err, http.StatusUnauthorized)
		assert.Equal(t, donor.MessageInvalidLogin, appError.Message)
	}
}

/*
TestService_Refresh only exchanges refresh tokens.
*/
func TestService_Refresh(t *testing.T) {
	fixture := newFixture(t)
	claims := sec.Claims{Subject: "ana_01", Role: sec.RoleDonor}

	refreshToken, err := fixture.tokens.IssueRefreshToken(claims, 0)
	require.NoError(t, err)
	accessToken, err := fixture.tokens.IssueAccessToken(claims, 0)
	require.NoError(t, err)

	result, err := fixture.service.Refresh(context.Background(), donor.RefreshInput{RefreshToken: refreshToken})
	require.NoError(t, err)
	issued, err := fixture.tokens.VerifyToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sec.ClassAccess, issued.Type)
	assert.Equal(t, "ana_01", issued.Username())

	for _, token := range []string{accessToken, "garbage"} {
		_, err := fixture.service.Refresh(context.Background(), donor.RefreshInput{RefreshToken: token})
		assertStatus(t, err, http.StatusUnauthorized)
	}
}

/*
TestService_GetProfile returns the public projection and never the hash.
*/
func TestService_GetProfile(t *testing.T) {
	fixture := newFixture(t)
	_, err := fixture.service.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	profile, err := fixture.service.GetProfile(context.Background(), "Ana_01")
	require.NoError(t, err)
	assert.Equal(t, "ana_01", profile.Username)
	assert.Equal(t, "Ana", profile.Name)
	assert.NotNil(t, profile.Achievements)

	_, err = fixture.service.GetProfile(context.Background(), "ghost")
	appError := assertStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "Donor not found", appError.Message)
}

/*
TestService_UpdateProfile applies only the supplied fields.
*/
func TestService_UpdateProfile(t *testing.T) {
	fixture := newFixture(t)
	_, err := fixture.service.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	err = fixture.service.UpdateProfile(context.Background(), "ana_01", donor.ProfileUpdate{About: pointer.To(" Giving back ")})
	require.NoError(t, err)

	stored := fixture.repository.stored("ana_01")
	assert.Equal(t, "Giving back", stored.About)
	assert.Equal(t, "Ana", stored.Name)

	err = fixture.service.UpdateProfile(context.Background(), "ana_01", donor.ProfileUpdate{})
	appError := assertStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, donor.MessageNoData, appError.Message)

	err = fixture.service.UpdateProfile(context.Background(), "ghost", donor.ProfileUpdate{Name: pointer.To("Ghost")})
	assertStatus(t, err, http.StatusNotFound)
}

/*
TestService_ReplaceAchievements overwrites the list, including with an empty one.
*/
func TestService_ReplaceAchievements(t *testing.T) {
	fixture := newFixture(t)
	_, err := fixture.service.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	input := donor.AchievementsInput{Achievements: []donor.AchievementInput{{Title: "First"}, {Title: "Second"}}}
	require.NoError(t, fixture.service.ReplaceAchievements(context.Background(), "ana_01", input))
	require.Len(t, fixture.repository.stored("ana_01").Achievements, 2)

	require.NoError(t, fixture.service.ReplaceAchievements(context.Background(), "ana_01", donor.AchievementsInput{}))
	assert.Empty(t, fixture.repository.stored("ana_01").Achievements)

	err = fixture.service.ReplaceAchievements(context.Background(), "ghost", donor.AchievementsInput{})
	assertStatus(t, err, http.StatusNotFound)
}

/*
TestService_List projects every donor.
*/
func TestService_List(t *testing.T) {
	fixture := newFixture(t)

	profiles, err := fixture.service.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, profiles)

	_, err = fixture.service.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	second := validSignup()
	second.Email, second.Username = "b@x.com", "bilal"
	_, err = fixture.service.Signup(context.Background(), second)
	require.NoError(t, err)

	profiles, err = fixture.service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "ana_01", profiles[0].Username)
	assert.Equal(t, "bilal", profiles[1].Username)
}

/*
TestService_UploadProfileImage checks the whitelist, the size cap and the stored key.
*/
func TestService_UploadProfileImage(t *testing.T) {
	fixture := newFixture(t)
	_, err := fixture.service.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	result, err := fixture.service.UploadProfileImage(context.Background(), "ana_01", donor.ImageUpload{
		Filename: "Me.PNG", Size: 4, Body: strings.NewReader("\x89PNG"),
	})
	require.NoError(t, err)
	assert.Equal(t, donor.MessageImageUploaded, result.Message)

	require.Len(t, fixture.images.keys, 1)
	assert.True(t, strings.HasPrefix(fixture.images.keys[0], "ana_01/"))
	assert.True(t, strings.HasSuffix(fixture.images.keys[0], ".png"))
	assert.Equal(t, "/uploads/"+fixture.images.keys[0], result.ProfileImageURL)
	assert.Equal(t, result.ProfileImageURL, fixture.repository.stored("ana_01").ProfileImageURL)

	tests := []struct {
		name     string
		username string
		upload   donor.ImageUpload
		status   int
	}{
		{"bad_extension", "ana_01", donor.ImageUpload{Filename: "me.gif", Size: 4, Body: strings.NewReader("GIF8")}, http.StatusUnprocessableEntity},
		{"too_large", "ana_01", donor.ImageUpload{Filename: "me.jpg", Size: 2048, Body: strings.NewReader("")}, http.StatusUnprocessableEntity},
		{"unknown_donor", "ghost", donor.ImageUpload{Filename: "me.jpg", Size: 4, Body: strings.NewReader("JPEG")}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fixture.service.UploadProfileImage(context.Background(), tt.username, tt.upload)
			assertStatus(t, err, tt.status)
		})
	}
	assert.Len(t, fixture.images.keys, 1)
}

/*
TestService_UploadProfileImage_Disabled reports 503 without a blob store.
*/
func TestService_UploadProfileImage_Disabled(t *testing.T) {
	service := donor.NewService(&memoryRepository{}, newTokens(t), nil, imageRules, nil)
	_, err := service.UploadProfileImage(context.Background(), "ana_01", donor.ImageUpload{Filename: "a.png"})
	assertStatus(t, err, http.StatusServiceUnavailable)
}
