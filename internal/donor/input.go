// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package donor

import (
	"strings"
	"time"

	"github.com/itve/donorapi/internal/platform/sec"
	"github.com/itve/donorapi/internal/platform/validate"
)

// Field limits.
const (
	minPasswordLength = 8
	maxPasswordLength = 72
	minNameLength     = 2
	maxNameLength     = 100
	minUsernameLength = 3
	maxUsernameLength = 50
	maxAboutLength    = 500
	maxURLLength      = 500
	maxTitleLength    = 120
	maxTextLength     = 500
)

// # Signup

// SignupInput is the body of POST /api/donors/signup.
type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Validate normalizes the input in place and checks every field.
//
// Email and username are lower-cased and the phone loses whitespace and hyphens.
func (input *SignupInput) Validate() error {
	input.Email = validate.NormalizeEmail(input.Email)
	input.Password = strings.TrimSpace(input.Password)
	input.Phone = validate.NormalizePhone(strings.TrimSpace(input.Phone))
	input.Name = validate.Text(input.Name)
	input.Username = strings.TrimSpace(input.Username)

	validator := &validate.Validator{}

	if validator.Required(FieldEmail, input.Email); input.Email != "" {
		validator.Email(FieldEmail, input.Email)
	}

	if validator.Required(FieldPassword, input.Password); input.Password != "" {
		validator.Length(FieldPassword, input.Password, minPasswordLength, maxPasswordLength).
			Custom(FieldPassword, len(input.Password) > sec.MaxPasswordBytes, "Password must not exceed 72 bytes").
			PasswordStrength(FieldPassword, input.Password)
	}

	if validator.Required(FieldPhone, input.Phone); input.Phone != "" {
		validator.Phone(FieldPhone, input.Phone)
	}

	if validator.Required(FieldName, input.Name); input.Name != "" {
		validator.Length(FieldName, input.Name, minNameLength, maxNameLength)
	}

	if validator.Required(FieldUsername, input.Username); input.Username != "" {
		validator.Length(FieldUsername, input.Username, minUsernameLength, maxUsernameLength).
			Username(FieldUsername, input.Username)
	}

	input.Username = validate.NormalizeUsername(input.Username)
	return validator.Err()
}

// # Login

// LoginInput is the body of POST /api/donors/login. Login is an email or username.
type LoginInput struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Validate normalizes the login identifier and requires both fields.
func (input *LoginInput) Validate() error {
	input.Login = strings.ToLower(strings.TrimSpace(input.Login))
	input.Password = strings.TrimSpace(input.Password)

	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login).
		Required(FieldPassword, input.Password)
	return validator.Err()
}

// RefreshInput is the body of POST /api/donors/refresh.
type RefreshInput struct {
	RefreshToken string `json:"refresh_token"`
}

// Validate requires a token.
func (input *RefreshInput) Validate() error {
	input.RefreshToken = strings.TrimSpace(input.RefreshToken)

	validator := &validate.Validator{}
	validator.Required(FieldRefreshToken, input.RefreshToken)
	return validator.Err()
}

// # Profile Update

// ProfileUpdate is the body of PATCH /api/donors/profile.
//
// A nil field was not supplied and is left untouched. Explicit JSON null
// also decodes to nil.
type ProfileUpdate struct {
	Name            *string `json:"name"`
	About           *string `json:"about"`
	ProfileImageURL *string `json:"profile_image_url"`
}

// Validate trims the supplied fields and checks their lengths.
func (input *ProfileUpdate) Validate() error {
	validate.OptionalText(input.Name)
	validate.OptionalText(input.About)
	validate.OptionalText(input.ProfileImageURL)

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Length(FieldName, *input.Name, minNameLength, maxNameLength)
	}
	if input.About != nil {
		validator.MaxLen(FieldAbout, *input.About, maxAboutLength)
	}
	if input.ProfileImageURL != nil {
		validator.MaxLen(FieldProfileImageURL, *input.ProfileImageURL, maxURLLength)
	}
	return validator.Err()
}

// IsEmpty reports whether no field was supplied.
func (input *ProfileUpdate) IsEmpty() bool {
	return input.Name == nil && input.About == nil && input.ProfileImageURL == nil
}

// # Achievements

// AchievementInput is one element of the achievements list.
type AchievementInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IconURL     string     `json:"icon_url"`
	DateEarned  *time.Time `json:"date_earned"`
}

// AchievementsInput is the body of PATCH /api/donors/achievements.
type AchievementsInput struct {
	Achievements []AchievementInput `json:"achievements"`
}

// Validate trims and checks every element. Errors name the element index,
// e.g. "achievements[1].title".
func (input *AchievementsInput) Validate() error {
	validator := &validate.Validator{}

	for index := range input.Achievements {
		achievement := &input.Achievements[index]
		achievement.Title = validate.Text(achievement.Title)
		achievement.Description = validate.Text(achievement.Description)
		achievement.IconURL = validate.Text(achievement.IconURL)

		titleField := validate.Index(FieldAchievements, index, FieldTitle)
		if validator.Required(titleField, achievement.Title); achievement.Title != "" {
			validator.MaxLen(titleField, achievement.Title, maxTitleLength)
		}
		validator.MaxLen(validate.Index(FieldAchievements, index, FieldDescription), achievement.Description, maxTextLength).
			MaxLen(validate.Index(FieldAchievements, index, FieldIconURL), achievement.IconURL, maxURLLength)
	}

	return validator.Err()
}

// ToAchievements converts the input, stamping now on entries without a date.
func (input *AchievementsInput) ToAchievements(now time.Time) []Achievement {
	achievements := make([]Achievement, 0, len(input.Achievements))
	for _, item := range input.Achievements {
		earned := now
		if item.DateEarned != nil {
			earned = item.DateEarned.UTC()
		}

		achievements = append(achievements, Achievement{
			Title:       item.Title,
			Description: item.Description,
			IconURL:     item.IconURL,
			DateEarned:  earned,
		})
	}
	return achievements
}
