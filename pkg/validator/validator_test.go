package validator

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-scheduling/pkg/errors"
)

type request struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Status   string `json:"status" validate:"omitempty,procedure_status"`
	Duration *int   `json:"duration_minutes" validate:"omitempty,gt=0"`
}

func newValidate(t *testing.T) *validator.Validate {
	v := validator.New()
	require.NoError(t, Configure(v, map[string]validator.Func{
		"procedure_status": EnumFold("PLANNED", "SCHEDULED"),
	}))
	return v
}

func TestTranslateUsesJSONNames(t *testing.T) {
	v := newValidate(t)
	zero := 0

	err := v.Struct(request{Email: "nope", Status: "done", Duration: &zero})
	require.Error(t, err)

	appErr := Translate(err)
	assert.Equal(t, errors.ErrValidation, appErr.Code)
	assert.Equal(t, []string{"This field is required."}, appErr.Fields["name"])
	assert.Equal(t, []string{"Enter a valid email address."}, appErr.Fields["email"])
	assert.Contains(t, appErr.Fields, "status")
	assert.Contains(t, appErr.Fields, "duration_minutes")
}

func TestEnumFoldIsCaseInsensitive(t *testing.T) {
	v := newValidate(t)
	assert.NoError(t, v.Struct(request{Name: "x", Status: "planned"}))
	assert.NoError(t, v.Struct(request{Name: "x", Status: "Scheduled"}))
	assert.Error(t, v.Struct(request{Name: "x", Status: "finished"}))
}

func TestTranslateTypeError(t *testing.T) {
	var req request
	err := json.Unmarshal([]byte(`{"duration_minutes":"ten"}`), &req)
	require.Error(t, err)

	appErr := Translate(err)
	assert.Contains(t, appErr.Fields, "duration_minutes")
}
