// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package hope

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/itve/donorapi/pkg/pointer"
)

/*
TestHopeDocument_UsesFieldsKey stores the category under "fields".
*/
func TestHopeDocument_UsesFieldsKey(t *testing.T) {
	record := &Hope{Name: "Books", SupportField: "education", Amount: 10, CreatedAt: time.Now().UTC().Truncate(time.Millisecond)}

	raw, err := bson.Marshal(toDocument(record))
	require.NoError(t, err)
	assert.Equal(t, "education", bson.Raw(raw).Lookup("fields").StringValue())
	assert.Equal(t, bson.TypeArray, bson.Raw(raw).Lookup("students").Type)

	var document hopeDocument
	require.NoError(t, bson.Unmarshal(raw, &document))
	restored := document.toHope()
	assert.Equal(t, "education", restored.SupportField)
	assert.Equal(t, []string{}, restored.Students)
	assert.Equal(t, record.CreatedAt, restored.CreatedAt)
}

/*
TestPostgresRepository exercises insert and list against pgxmock.
*/
func TestPostgresRepository(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repository := NewPostgresRepository(mock)
	createdAt := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO hopes \(id, name, details, type_of_donation, support_field, amount, grade_requirement, students, created_at\)`).
		WithArgs(pgxmock.AnyArg(), "Books", "Textbooks", "money", "education", 120.0, pgxmock.AnyArg(), []string{}, createdAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := repository.Insert(context.Background(), &Hope{
		Name: "Books", Details: "Textbooks", TypeOfDonation: "money", SupportField: "education",
		Amount: 120, CreatedAt: createdAt,
	})
	require.NoError(t, err)
	assert.Len(t, id, 36)

	columns := []string{"id", "name", "details", "type_of_donation", "support_field", "amount", "grade_requirement", "students", "created_at"}
	mock.ExpectQuery(`SELECT .+ FROM hopes ORDER BY created_at, id`).
		WillReturnRows(pgxmock.NewRows(columns).AddRow(
			id, "Books", "Textbooks", "money", "education", 120.0, pointer.To("Grade 5"), []string{"s-1"}, createdAt,
		))

	hopes, err := repository.List(context.Background())
	require.NoError(t, err)
	require.Len(t, hopes, 1)
	assert.Equal(t, "Grade 5", *hopes[0].GradeRequirement)
	assert.Equal(t, []string{"s-1"}, hopes[0].Students)
	assert.NoError(t, mock.ExpectationsWereMet())
}
