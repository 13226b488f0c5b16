// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/trackbook/internal/platform/apperr"
	"github.com/taibuivan/trackbook/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "title", "Read Dune in a month", false},
		{"empty_string", "title", "", true},
		{"whitespace_only", "title", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)

			if tt.isValid {
				assert.NoError(t, v.Err())
			} else {
				assert.Error(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("username", "tai").
		MinLen("username", "tai", 3).
		MaxLen("username", "tai", 10).
		Email("email", "reader@trackbook.app").
		Err()

	assert.NoError(t, err)
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("username", "").       // Fails
		MinLen("username", "a", 5).     // Fails
		Email("email", "not-an-email"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}

func TestValidator_NumbersAndDates(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Positive("actual_minutes", 0).
		Range("perceived_difficulty", 6, 1, 5).
		Range("pages_per_day", 500, 1, 500).
		RequiredTime("end_date", time.Time{}).
		Equal("confirm_password", "secret12", "secret13", "Passwords do not match").
		Err()

	ae := apperr.As(err)
	require.NotNil(t, ae)

	fields := make([]string, 0, len(ae.Details))
	for _, detail := range ae.Details {
		fields = append(fields, detail.Field)
	}
	assert.Equal(t, []string{"actual_minutes", "perceived_difficulty", "end_date", "confirm_password"}, fields)
}
