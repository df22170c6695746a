package controller

import (
	"net/http"
	"testing"

	"kidlearn_backend/internal/validation"

	"github.com/stretchr/testify/assert"
)

func failedCheck(name string) validation.ConsistencyCheckResult {
	return validation.ConsistencyCheckResult{Check: name, Passed: false}
}

func TestValidationStatusCode(t *testing.T) {
	tests := []struct {
		name   string
		result *validation.ValidationResult
		want   int
	}{
		{
			"system error wins",
			&validation.ValidationResult{
				Errors: []validation.ValidationError{{Code: "SYSTEM_ERROR", Severity: validation.SeveritySystem}},
			},
			http.StatusInternalServerError,
		},
		{
			"missing child",
			&validation.ValidationResult{
				ConsistencyChecks: []validation.ConsistencyCheckResult{failedCheck(validation.CheckChildExists)},
			},
			http.StatusNotFound,
		},
		{
			"missing activity",
			&validation.ValidationResult{
				ConsistencyChecks: []validation.ConsistencyCheckResult{failedCheck(validation.CheckActivityExists)},
			},
			http.StatusNotFound,
		},
		{
			"ownership violation is unprocessable, not missing",
			&validation.ValidationResult{
				ConsistencyChecks: []validation.ConsistencyCheckResult{failedCheck(validation.CheckActivityOwnership)},
			},
			http.StatusUnprocessableEntity,
		},
		{
			"schema rejection",
			&validation.ValidationResult{
				Errors: []validation.ValidationError{{Code: "TIME_SPENT_OUT_OF_RANGE", Severity: validation.SeverityError}},
			},
			http.StatusUnprocessableEntity,
		},
		{
			"bad transition",
			&validation.ValidationResult{
				ConsistencyChecks: []validation.ConsistencyCheckResult{failedCheck(validation.CheckStatusTransition)},
			},
			http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidationStatusCode(tt.result))
		})
	}
}
