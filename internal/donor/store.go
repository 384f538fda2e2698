// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package donor

import (
	"context"
	"errors"
)

// errUnexpectedID is returned when a store hands back an identifier of an unknown type.
var errUnexpectedID = errors.New("donor: unexpected inserted id type")

// Repository is the storage contract of the donor domain.
//
// Lookups return dberr.ErrNotFound when nothing matches, and writes that
// violate the email or username uniqueness return an error matching
// dberr.ErrDuplicate. Update methods report whether a donor matched.
type Repository interface {
	// FindByEmailOrUsername returns the donor whose email equals email OR whose
	// username equals username. Both arguments must already be lower-cased.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*Donor, error)

	// FindByUsername returns the donor with the given username.
	FindByUsername(ctx context.Context, username string) (*Donor, error)

	// List returns every donor in insertion order.
	List(ctx context.Context) ([]*Donor, error)

	// Insert stores a new donor and returns its generated identifier.
	Insert(ctx context.Context, donor *Donor) (string, error)

	// UpdateProfile sets only the non-nil fields of update.
	UpdateProfile(ctx context.Context, username string, update ProfileUpdate) (bool, error)

	// ReplaceAchievements overwrites the whole achievement list in one write.
	ReplaceAchievements(ctx context.Context, username string, achievements []Achievement) (bool, error)

	// SetProfileImage sets the profile image reference.
	SetProfileImage(ctx context.Context, username, reference string) (bool, error)
}
