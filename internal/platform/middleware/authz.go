// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/itve/donorapi/internal/platform/apperr"
	"github.com/itve/donorapi/internal/platform/constants"
	"github.com/itve/donorapi/internal/platform/ctxutil"
	"github.com/itve/donorapi/internal/platform/respond"
	"github.com/itve/donorapi/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// Defining TokenVerifier here decouples the middleware from [sec.TokenService],
// allowing tests to inject fakes.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// RequireDonor gates a route behind a valid donor access token.
//
// # Flow
//  1. Require 'Authorization: Bearer <token>'; otherwise 401.
//  2. Verify the token; any failure or a non-access token is 401.
//  3. Require role "donor" and a non-empty subject; otherwise 403.
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
func RequireDonor(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Header Extraction ──────────────────────────────────────────
			token, ok := bearerToken(request.Header.Get(constants.HeaderAuthorization))
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized("Authorization header missing"))
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(token)
			if err != nil || claims.Type != sec.ClassAccess {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 3. Role Check ─────────────────────────────────────────────────
			if sec.UserRole(claims.Role) != sec.RoleDonor || claims.Username() == "" {
				respond.Error(writer, request, apperr.Forbidden("Invalid donor token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			noteIdentity(request.Context(), claims.Username())
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// bearerToken extracts the credential of a case-insensitive Bearer scheme.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

// # Caller Identity

// identity is a mutable slot shared between StructuredLogger and the gate,
// since the gate only sees a derived request.
type identity struct {
	username string
}

type identityKey struct{}

func withIdentity(ctx context.Context) (context.Context, *identity) {
	slot := &identity{}
	return context.WithValue(ctx, identityKey{}, slot), slot
}

func noteIdentity(ctx context.Context, username string) {
	if slot, ok := ctx.Value(identityKey{}).(*identity); ok {
		slot.username = username
	}
}
