// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// HopeTable represents the 'hopes' table
type HopeTable struct {
	Table            string
	ID               string
	Name             string
	Details          string
	TypeOfDonation   string
	SupportField     string
	Amount           string
	GradeRequirement string
	Students         string
	CreatedAt        string
}

// Hope is the schema definition for hopes
var Hope = HopeTable{
	Table:            "hopes",
	ID:               "id",
	Name:             "name",
	Details:          "details",
	TypeOfDonation:   "type_of_donation",
	SupportField:     "support_field",
	Amount:           "amount",
	GradeRequirement: "grade_requirement",
	Students:         "students",
	CreatedAt:        "created_at",
}

// Columns returns all column names in table order
func (t HopeTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Details, t.TypeOfDonation, t.SupportField,
		t.Amount, t.GradeRequirement, t.Students, t.CreatedAt,
	}
}
