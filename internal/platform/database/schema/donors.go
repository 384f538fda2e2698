// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the PostgreSQL store backend.
//
// Queries are assembled from these definitions so that a column rename only
// touches this package and the migrations.
package schema

// DonorTable represents the 'donors' table
type DonorTable struct {
	Table              string
	ID                 string
	Username           string
	Email              string
	PasswordHash       string
	Phone              string
	Name               string
	About              string
	FollowersCount     string
	FollowingCount     string
	BeneficiariesCount string
	TotalAmountDonated string
	DonorClass         string
	DonorRank          string
	Achievements       string
	ProfileImageURL    string
	CreatedAt          string
}

// Donor is the schema definition for donors
var Donor = DonorTable{
	Table:              "donors",
	ID:                 "id",
	Username:           "username",
	Email:              "email",
	PasswordHash:       "password_hash",
	Phone:              "phone",
	Name:               "name",
	About:              "about",
	FollowersCount:     "followers_count",
	FollowingCount:     "following_count",
	BeneficiariesCount: "beneficiaries_count",
	TotalAmountDonated: "total_amount_donated",
	DonorClass:         "donor_class",
	DonorRank:          "donor_rank",
	Achievements:       "achievements",
	ProfileImageURL:    "profile_image_url",
	CreatedAt:          "created_at",
}

// Columns returns all column names in table order
func (t DonorTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.PasswordHash, t.Phone, t.Name, t.About,
		t.FollowersCount, t.FollowingCount, t.BeneficiariesCount,
		t.TotalAmountDonated, t.DonorClass, t.DonorRank, t.Achievements,
		t.ProfileImageURL, t.CreatedAt,
	}
}
