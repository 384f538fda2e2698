// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Both store backends funnel their driver errors through [Wrap], so services
// only ever compare against the sentinels declared here.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

var (
	// ErrNotFound is returned when a queried document or row doesn't exist.
	ErrNotFound = errors.New("dberr: not found")

	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("dberr: duplicate key")
)

// Wrap classifies a driver error into one of the package sentinels.
// Unclassified errors are wrapped with the action for log context.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", action, ErrDuplicate)
	}

	return fmt.Errorf("%s: %w", action, err)
}

// IsUniqueViolation reports whether err is a unique index violation from
// either MongoDB (E11000) or PostgreSQL (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	if errors.Is(err, ErrDuplicate) {
		return true
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		return pgError.Code == pgerrcode.UniqueViolation
	}

	return mongo.IsDuplicateKeyError(err)
}

// IsNotFound reports whether err represents a missing document or row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
