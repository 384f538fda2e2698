// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// donor service and the auth middleware.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the only failure [TokenService.VerifyToken] ever reports.
//
// Signature, format, issuer and expiry failures all collapse into it so the
// caller cannot be used as an oracle.
var ErrInvalidToken = errors.New("sec: invalid token")

// Claims is the caller-supplied part of a token payload.
type Claims struct {
	// Subject is the donor username.
	Subject string
	// Role is the authorization role of the subject.
	Role UserRole
}

// AuthClaims represents the decoded payload of a verified JWT.
//
// The username travels as the registered 'sub' claim, so the middleware can
// reconstruct the caller WITHOUT querying the store on every request.
type AuthClaims struct {
	jwt.RegisteredClaims

	Role string     `json:"role"`
	Type TokenClass `json:"type"`
}

// Username returns the subject of the token.
func (claims *AuthClaims) Username() string {
	return claims.Subject
}

// TokenService handles generation and verification of HMAC-signed JWT tokens.
type TokenService struct {
	secret     []byte
	method     jwt.SigningMethod
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// TokenOptions configures a [TokenService].
type TokenOptions struct {
	Secret     string
	Algorithm  string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// NewTokenService creates a new TokenService.
// Only HMAC algorithms (HS256, HS384, HS512) are accepted.
func NewTokenService(options TokenOptions) (*TokenService, error) {
	if options.Secret == "" {
		return nil, errors.New("sec: signing secret must not be empty")
	}

	method, ok := jwt.GetSigningMethod(options.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("sec: unsupported signing algorithm %q", options.Algorithm)
	}

	if options.AccessTTL <= 0 || options.RefreshTTL <= 0 {
		return nil, errors.New("sec: token lifetimes must be positive")
	}

	return &TokenService{
		secret:     []byte(options.Secret),
		method:     method,
		issuer:     options.Issuer,
		accessTTL:  options.AccessTTL,
		refreshTTL: options.RefreshTTL,
		now:        time.Now,
	}, nil
}

// IssueAccessToken signs an access token for claims.
//
// A zero timeToLive selects the configured default access lifetime.
func (service *TokenService) IssueAccessToken(claims Claims, timeToLive time.Duration) (string, error) {
	if timeToLive == 0 {
		timeToLive = service.accessTTL
	}
	return service.issue(claims, ClassAccess, timeToLive)
}

// IssueRefreshToken signs a refresh token for claims.
//
// A zero timeToLive selects the configured default refresh lifetime.
func (service *TokenService) IssueRefreshToken(claims Claims, timeToLive time.Duration) (string, error) {
	if timeToLive == 0 {
		timeToLive = service.refreshTTL
	}
	return service.issue(claims, ClassRefresh, timeToLive)
}

func (service *TokenService) issue(claims Claims, class TokenClass, timeToLive time.Duration) (string, error) {
	currentTime := service.now()
	payload := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		Role: string(claims.Role),
		Type: class,
	}

	token := jwt.NewWithClaims(service.method, payload)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a JWT string.
//
// Every failure yields [ErrInvalidToken].
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return service.secret, nil
	},
		jwt.WithValidMethods([]string{service.method.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
