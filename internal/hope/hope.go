// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package hope records Hope donation programs: what is being raised for, how much,
and which students it supports.

A Hope carries no owning donor. Records are only created and listed.
*/
package hope

import "time"

// Hope is a donation program.
type Hope struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Details          string    `json:"details"`
	TypeOfDonation   string    `json:"type_of_donation"`
	SupportField     string    `json:"fields"`
	Amount           float64   `json:"amount"`
	GradeRequirement *string   `json:"grade_requirement"`
	Students         []string  `json:"students"`
	CreatedAt        time.Time `json:"created_at"`
}

// Field names used in validation errors.
const (
	FieldName             = "name"
	FieldDetails          = "details"
	FieldTypeOfDonation   = "type_of_donation"
	FieldSupportField     = "fields"
	FieldAmount           = "amount"
	FieldGradeRequirement = "grade_requirement"
	FieldStudents         = "students"
)
