// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package hope

import (
	"context"
	"fmt"
	"strings"

	"github.com/itve/donorapi/internal/platform/database/schema"
	"github.com/itve/donorapi/internal/platform/dberr"
	"github.com/itve/donorapi/internal/platform/postgres"
	"github.com/itve/donorapi/pkg/uuid"
)

// PostgresRepository implements [Repository] on the hopes table.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository creates a PostgreSQL backed hope store.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
Insert persists a new hope with a generated UUIDv7 primary key.

Parameters:
  - ctx: context.Context
  - hope: *Hope

Returns:
  - string: The generated identifier
  - error: Execution failures
*/
func (repository *PostgresRepository) Insert(ctx context.Context, hope *Hope) (string, error) {
	columns := schema.Hope.Columns()
	placeholders := make([]string, len(columns))
	for index := range columns {
		placeholders[index] = fmt.Sprintf("$%d", index+1)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		schema.Hope.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	students := hope.Students
	if students == nil {
		students = []string{}
	}

	id := uuid.New()
	_, err := repository.db.Exec(ctx, query,
		id,
		hope.Name,
		hope.Details,
		hope.TypeOfDonation,
		hope.SupportField,
		hope.Amount,
		hope.GradeRequirement,
		students,
		hope.CreatedAt,
	)
	if err != nil {
		return "", dberr.Wrap(err, "postgres_hope_insert_failed")
	}
	return id, nil
}

// List returns every hope ordered by creation time.
func (repository *PostgresRepository) List(ctx context.Context) ([]*Hope, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s, %s`,
		strings.Join(schema.Hope.Columns(), ", "), schema.Hope.Table, schema.Hope.CreatedAt, schema.Hope.ID)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_hope_list_failed")
	}
	defer rows.Close()

	hopes := []*Hope{}
	for rows.Next() {
		hope := &Hope{}
		err := rows.Scan(
			&hope.ID,
			&hope.Name,
			&hope.Details,
			&hope.TypeOfDonation,
			&hope.SupportField,
			&hope.Amount,
			&hope.GradeRequirement,
			&hope.Students,
			&hope.CreatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "postgres_hope_list_scan_failed")
		}
		if hope.Students == nil {
			hope.Students = []string{}
		}
		hopes = append(hopes, hope)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "postgres_hope_list_failed")
	}
	return hopes, nil
}
