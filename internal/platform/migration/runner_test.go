// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itve/donorapi/internal/platform/migration"
)

/*
TestToPgx5DSN rewrites only the postgres URL schemes.
*/
func TestToPgx5DSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"postgres", "postgres://u:p@db:5432/itve", "pgx5://u:p@db:5432/itve"},
		{"postgresql", "postgresql://u@db/itve?sslmode=disable", "pgx5://u@db/itve?sslmode=disable"},
		{"already_pgx5", "pgx5://db/itve", "pgx5://db/itve"},
		{"keyword_dsn", "host=db dbname=itve", "host=db dbname=itve"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, migration.ToPgx5DSN(tt.dsn))
		})
	}
}

/*
TestRunUp_MissingSource fails before touching any database.
*/
func TestRunUp_MissingSource(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := migration.RunUp("postgres://localhost:1/none", t.TempDir()+"/missing", logger)
	assert.Error(t, err)
}
