// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// RoleDonor is carried by every token issued to a donor account.
	RoleDonor UserRole = "donor"
)

// # Token Classes

// TokenClass distinguishes short-lived access tokens from refresh tokens.
type TokenClass string

const (
	// ClassAccess tokens authorize API calls.
	ClassAccess TokenClass = "access"

	// ClassRefresh tokens may only be exchanged for a new access token.
	ClassRefresh TokenClass = "refresh"
)
