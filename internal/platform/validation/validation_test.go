package validation

import (
	"errors"
	"testing"

	"medivault/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Code   string   `json:"patient_code" validate:"patient_code"`
	Reason string   `json:"reason" validate:"notblank"`
	Hours  int      `json:"duration_hours" validate:"min=0,max=720"`
	Tags   []string `json:"scope" validate:"required,min=1,dive,oneof=A B"`
}

func TestStruct_OK(t *testing.T) {
	err := Struct(sample{Code: "MV12345678", Reason: "x", Hours: 24, Tags: []string{"A"}})
	require.NoError(t, err)
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := Struct(sample{Code: "XX1", Reason: "   ", Hours: 721, Tags: []string{"C"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	msg := err.Error()
	assert.Contains(t, msg, "patient_code")
	assert.Contains(t, msg, "reason is required")
	assert.Contains(t, msg, "duration_hours must be at most 720")
	assert.Contains(t, msg, "must be one of [A B]")
}

func TestIsPatientCode(t *testing.T) {
	assert.True(t, IsPatientCode(" MV00000001 "))
	assert.False(t, IsPatientCode("MV123"))
	assert.False(t, IsPatientCode("mv12345678"))
}
