package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGender(t *testing.T) {
	g, ok := ParseGender("female")
	assert.True(t, ok)
	assert.Equal(t, GenderFemale, g)

	g, ok = ParseGender("")
	assert.True(t, ok)
	assert.Equal(t, GenderUnknown, g)

	_, ok = ParseGender("robot")
	assert.False(t, ok)
}

func TestDateJSON(t *testing.T) {
	var req CreatePatientRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"John Brown","date_of_birth":"1975-05-15"}`), &req))
	require.NotNil(t, req.DateOfBirth)
	assert.Equal(t, "1975-05-15", req.DateOfBirth.String())

	out, err := json.Marshal(Patient{Name: "John Brown", DateOfBirth: NewDate(1975, time.May, 15)})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"date_of_birth":"1975-05-15"`)

	assert.Error(t, json.Unmarshal([]byte(`{"date_of_birth":"15/05/1975"}`), &req))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(1982, 8, 22, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, "1982-08-22", d.String())

	require.NoError(t, d.Scan([]byte("1990-11-05")))
	assert.Equal(t, "1990-11-05", d.String())
}

func TestValidateDateOfBirth(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	assert.True(t, ValidateDateOfBirth(NewDate(2025, time.March, 10), now))
	assert.True(t, ValidateDateOfBirth(NewDate(1958, time.June, 30), now))
	assert.False(t, ValidateDateOfBirth(NewDate(2025, time.March, 11), now))
}

func TestPatientClinicianIsActive(t *testing.T) {
	now := time.Now()
	assert.True(t, (&PatientClinician{}).IsActive())
	assert.False(t, (&PatientClinician{RelationshipEnd: &now}).IsActive())
	assert.False(t, (&PatientClinician{SoftDelete: SoftDelete{DeletedAt: &now}}).IsActive())
}

func TestPrincipalRoles(t *testing.T) {
	id := int64(4)
	var nobody *Principal

	assert.True(t, SystemPrincipal.IsAdmin())
	assert.False(t, nobody.IsAdmin())
	assert.True(t, (&Principal{Role: RoleClinician, ClinicianID: &id}).IsClinician())
	assert.False(t, (&Principal{Role: RoleClinician}).IsClinician())
}
