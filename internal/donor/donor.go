// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package donor implements donor accounts: signup, login, public profiles,
partial profile updates, achievement replacement and profile images.

# Architecture

  - Entity: [Donor] and [Achievement] are storage-agnostic.
  - Service: validates payloads and orchestrates [Repository] calls.
  - Repository: MongoDB and PostgreSQL implementations.
  - Handler: chi routes mounted under /api/donors.

The email and username of a donor are each unique. The stores enforce this
with unique indexes; the service pre-checks only to give a fast answer.
*/
package donor

import (
	"time"

	"github.com/itve/donorapi/pkg/money"
)

// DefaultDonorClass is the tier assigned at signup.
const DefaultDonorClass = "Starter"

// # Domain Entities

// Donor is a registered donor account.
type Donor struct {
	ID                 string
	Username           string
	Email              string
	PasswordHash       string
	Phone              string
	Name               string
	About              string
	FollowersCount     int
	FollowingCount     int
	BeneficiariesCount int
	TotalAmountDonated money.Amount
	DonorClass         string
	DonorRank          int
	Achievements       []Achievement
	ProfileImageURL    string
	CreatedAt          time.Time
}

// Achievement is a badge earned by a donor. The list is always replaced whole.
type Achievement struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IconURL     string    `json:"icon_url"`
	DateEarned  time.Time `json:"date_earned"`
}

// Profile is the public projection of a [Donor]. It never carries credentials.
type Profile struct {
	ID                 string        `json:"id"`
	Username           string        `json:"username"`
	Name               string        `json:"name"`
	About              string        `json:"about"`
	FollowersCount     int           `json:"followers_count"`
	FollowingCount     int           `json:"following_count"`
	BeneficiariesCount int           `json:"beneficiaries_count"`
	TotalAmountDonated money.Amount  `json:"total_amount_donated"`
	DonorClass         string        `json:"donor_class"`
	DonorRank          int           `json:"donor_rank"`
	Achievements       []Achievement `json:"achievements"`
	ProfileImageURL    string        `json:"profile_image_url"`
}

// Profile projects the donor to its public shape.
func (donor *Donor) Profile() Profile {
	achievements := donor.Achievements
	if achievements == nil {
		achievements = []Achievement{}
	}

	return Profile{
		ID:                 donor.ID,
		Username:           donor.Username,
		Name:               donor.Name,
		About:              donor.About,
		FollowersCount:     donor.FollowersCount,
		FollowingCount:     donor.FollowingCount,
		BeneficiariesCount: donor.BeneficiariesCount,
		TotalAmountDonated: donor.TotalAmountDonated,
		DonorClass:         donor.DonorClass,
		DonorRank:          donor.DonorRank,
		Achievements:       achievements,
		ProfileImageURL:    donor.ProfileImageURL,
	}
}

// # Field Identifiers

// Field names used in validation errors.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldPhone           = "phone"
	FieldName            = "name"
	FieldUsername        = "username"
	FieldAbout           = "about"
	FieldProfileImageURL = "profile_image_url"
	FieldAchievements    = "achievements"
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldIconURL         = "icon_url"
	FieldLogin           = "login"
	FieldRefreshToken    = "refresh_token"
	FieldFile            = "file"
)

// # Messages

const (
	MessageSignedUp            = "Donor account created successfully!"
	MessageProfileUpdated      = "Profile updated successfully"
	MessageAchievementsUpdated = "Achievements updated successfully"
	MessageImageUploaded       = "Profile image uploaded successfully"
	MessageDuplicate           = "User with this email or username already exists."
	MessageNoData              = "No data provided to update"
	MessageInvalidLogin        = "Invalid login credentials"
	MessageInvalidRefresh      = "Invalid or expired refresh token"
)
