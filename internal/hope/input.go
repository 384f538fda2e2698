// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package hope

import (
	"fmt"
	"math"
	"time"

	"github.com/itve/donorapi/internal/platform/validate"
	"github.com/itve/donorapi/pkg/pointer"
)

const (
	maxNameLength    = 200
	maxDetailsLength = 5000
	maxTagLength     = 100
	maxStudentLength = 100
)

// CreateInput is the body of POST /api/hopes/.
//
// The category arrives as "fields"; "support_field" is accepted as an alias.
type CreateInput struct {
	Name             string   `json:"name"`
	Details          string   `json:"details"`
	TypeOfDonation   string   `json:"type_of_donation"`
	Fields           *string  `json:"fields"`
	SupportField     *string  `json:"support_field"`
	Amount           *float64 `json:"amount"`
	GradeRequirement *string  `json:"grade_requirement"`
	Students         []string `json:"students"`
}

// Validate normalizes the input in place and checks every field.
func (input *CreateInput) Validate() error {
	input.Name = validate.Text(input.Name)
	input.Details = validate.Text(input.Details)
	input.TypeOfDonation = validate.Text(input.TypeOfDonation)
	if input.Fields == nil {
		input.Fields = input.SupportField
	}
	validate.OptionalText(input.Fields)
	validate.OptionalText(input.GradeRequirement)

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, maxNameLength).
		Required(FieldDetails, input.Details).MaxLen(FieldDetails, input.Details, maxDetailsLength).
		Required(FieldTypeOfDonation, input.TypeOfDonation).MaxLen(FieldTypeOfDonation, input.TypeOfDonation, maxTagLength)

	category := pointer.Val(input.Fields)
	validator.Required(FieldSupportField, category).MaxLen(FieldSupportField, category, maxTagLength)

	if input.Amount == nil {
		validator.Custom(FieldAmount, true, "This field is required")
	} else {
		validator.Custom(FieldAmount, math.IsNaN(*input.Amount) || math.IsInf(*input.Amount, 0), "Must be a finite number").
			NonNegative(FieldAmount, *input.Amount)
	}

	if input.GradeRequirement != nil {
		validator.MaxLen(FieldGradeRequirement, *input.GradeRequirement, maxTagLength)
	}

	for index := range input.Students {
		input.Students[index] = validate.Text(input.Students[index])
		field := fmt.Sprintf("%s[%d]", FieldStudents, index)
		validator.Required(field, input.Students[index]).MaxLen(field, input.Students[index], maxStudentLength)
	}

	return validator.Err()
}

// ToHope builds the record to store. Call only after a successful Validate.
func (input *CreateInput) ToHope(now time.Time) *Hope {
	students := input.Students
	if students == nil {
		students = []string{}
	}

	return &Hope{
		Name:             input.Name,
		Details:          input.Details,
		TypeOfDonation:   input.TypeOfDonation,
		SupportField:     pointer.Val(input.Fields),
		Amount:           pointer.Val(input.Amount),
		GradeRequirement: input.GradeRequirement,
		Students:         students,
		CreatedAt:        now,
	}
}
