// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package donor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/itve/donorapi/internal/platform/database/schema"
	"github.com/itve/donorapi/internal/platform/dberr"
	"github.com/itve/donorapi/internal/platform/postgres"
	"github.com/itve/donorapi/pkg/money"
	"github.com/itve/donorapi/pkg/uuid"
)

// # Repository Implementation

// PostgresRepository implements [Repository] on the donors table.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository creates a PostgreSQL backed donor store.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectColumns lists the columns in the order scanDonor reads them.
func selectColumns() string {
	columns := schema.Donor.Columns()
	for index, column := range columns {
		if column == schema.Donor.ProfileImageURL {
			columns[index] = fmt.Sprintf("COALESCE(%s, '')", column)
		}
	}
	return strings.Join(columns, ", ")
}

func scanDonor(row pgx.Row) (*Donor, error) {
	donor := &Donor{}
	var (
		amount       int64
		achievements []byte
	)

	err := row.Scan(
		&donor.ID,
		&donor.Username,
		&donor.Email,
		&donor.PasswordHash,
		&donor.Phone,
		&donor.Name,
		&donor.About,
		&donor.FollowersCount,
		&donor.FollowingCount,
		&donor.BeneficiariesCount,
		&amount,
		&donor.DonorClass,
		&donor.DonorRank,
		&achievements,
		&donor.ProfileImageURL,
		&donor.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	donor.TotalAmountDonated = money.Amount(amount)
	donor.Achievements = []Achievement{}
	if len(achievements) > 0 {
		if err := json.Unmarshal(achievements, &donor.Achievements); err != nil {
			return nil, fmt.Errorf("decode achievements: %w", err)
		}
	}
	return donor, nil
}

/*
FindByEmailOrUsername retrieves a donor matching either identity column.

Parameters:
  - ctx: context.Context
  - email: string (lower-cased)
  - username: string (lower-cased)

Returns:
  - *Donor: Hydrated donor entity
  - error: dberr.ErrNotFound or query failures
*/
func (repository *PostgresRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*Donor, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 OR %s = $2 LIMIT 1`,
		selectColumns(), schema.Donor.Table, schema.Donor.Email, schema.Donor.Username)

	donor, err := scanDonor(repository.db.QueryRow(ctx, query, email, username))
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_donor_find_by_identity_failed")
	}
	return donor, nil
}

// FindByUsername retrieves a donor by its unique username.
func (repository *PostgresRepository) FindByUsername(ctx context.Context, username string) (*Donor, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns(), schema.Donor.Table, schema.Donor.Username)

	donor, err := scanDonor(repository.db.QueryRow(ctx, query, username))
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_donor_find_by_username_failed")
	}
	return donor, nil
}

// List returns every donor ordered by creation time.
func (repository *PostgresRepository) List(ctx context.Context) ([]*Donor, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s, %s`,
		selectColumns(), schema.Donor.Table, schema.Donor.CreatedAt, schema.Donor.ID)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_donor_list_failed")
	}
	defer rows.Close()

	donors := []*Donor{}
	for rows.Next() {
		donor, err := scanDonor(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "postgres_donor_list_scan_failed")
		}
		donors = append(donors, donor)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "postgres_donor_list_failed")
	}
	return donors, nil
}

/*
Insert persists a new donor with a generated UUIDv7 primary key.

Parameters:
  - ctx: context.Context
  - donor: *Donor

Returns:
  - string: The generated identifier
  - error: dberr.ErrDuplicate on a unique index violation
*/
func (repository *PostgresRepository) Insert(ctx context.Context, donor *Donor) (string, error) {
	achievements, err := json.Marshal(nonNil(donor.Achievements))
	if err != nil {
		return "", fmt.Errorf("postgres_donor_insert_failed: %w", err)
	}

	columns := schema.Donor.Columns()
	placeholders := make([]string, len(columns))
	for index := range columns {
		placeholders[index] = fmt.Sprintf("$%d", index+1)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		schema.Donor.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	id := uuid.New()
	_, err = repository.db.Exec(ctx, query,
		id,
		donor.Username,
		donor.Email,
		donor.PasswordHash,
		donor.Phone,
		donor.Name,
		donor.About,
		donor.FollowersCount,
		donor.FollowingCount,
		donor.BeneficiariesCount,
		int64(donor.TotalAmountDonated),
		donor.DonorClass,
		donor.DonorRank,
		achievements,
		nullable(donor.ProfileImageURL),
		donor.CreatedAt,
	)
	if err != nil {
		return "", dberr.Wrap(err, "postgres_donor_insert_failed")
	}
	return id, nil
}

// UpdateProfile sets only the supplied columns.
func (repository *PostgresRepository) UpdateProfile(ctx context.Context, username string, update ProfileUpdate) (bool, error) {
	assignments := []string{}
	arguments := []any{username}

	add := func(column string, value *string) {
		if value == nil {
			return
		}
		arguments = append(arguments, *value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(arguments)))
	}
	add(schema.Donor.Name, update.Name)
	add(schema.Donor.About, update.About)
	add(schema.Donor.ProfileImageURL, update.ProfileImageURL)

	// Nothing to write still reports whether the donor exists.
	if len(assignments) == 0 {
		_, err := repository.FindByUsername(ctx, username)
		if dberr.IsNotFound(err) {
			return false, nil
		}
		return err == nil, err
	}

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $1`,
		schema.Donor.Table, strings.Join(assignments, ", "), schema.Donor.Username)
	return repository.exec(ctx, query, "postgres_donor_update_profile_failed", arguments...)
}

// ReplaceAchievements overwrites the JSONB list in a single statement.
func (repository *PostgresRepository) ReplaceAchievements(ctx context.Context, username string, achievements []Achievement) (bool, error) {
	payload, err := json.Marshal(nonNil(achievements))
	if err != nil {
		return false, fmt.Errorf("postgres_donor_replace_achievements_failed: %w", err)
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.Donor.Table, schema.Donor.Achievements, schema.Donor.Username)
	return repository.exec(ctx, query, "postgres_donor_replace_achievements_failed", username, payload)
}

// SetProfileImage stores the image reference.
func (repository *PostgresRepository) SetProfileImage(ctx context.Context, username, reference string) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.Donor.Table, schema.Donor.ProfileImageURL, schema.Donor.Username)
	return repository.exec(ctx, query, "postgres_donor_set_profile_image_failed", username, reference)
}

func (repository *PostgresRepository) exec(ctx context.Context, query, action string, arguments ...any) (bool, error) {
	tag, err := repository.db.Exec(ctx, query, arguments...)
	if err != nil {
		return false, dberr.Wrap(err, action)
	}
	return tag.RowsAffected() > 0, nil
}

// # Helpers

func nonNil(achievements []Achievement) []Achievement {
	if achievements == nil {
		return []Achievement{}
	}
	return achievements
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
