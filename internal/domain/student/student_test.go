package student

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStudentState(t *testing.T) {
	tests := []struct {
		name     string
		student  Student
		expected RegistrationState
	}{
		{
			name:     "no fields set",
			student:  Student{LineUserID: "U1"},
			expected: StateAwaitingNationalID,
		},
		{
			name: "national ID set, faculty missing",
			student: Student{
				LineUserID: "U1",
				NationalID: sql.NullString{String: "1234567890123", Valid: true},
			},
			expected: StateAwaitingFaculty,
		},
		{
			name: "fully registered",
			student: Student{
				LineUserID: "U1",
				NationalID: sql.NullString{String: "1234567890123", Valid: true},
				Faculty:    sql.NullString{String: Faculties[0], Valid: true},
			},
			expected: StateRegistered,
		},
		{
			name: "faculty without national ID still awaits the ID",
			student: Student{
				LineUserID: "U1",
				Faculty:    sql.NullString{String: Faculties[0], Valid: true},
			},
			expected: StateAwaitingNationalID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.student.State())
		})
	}
}

func TestIsValidNationalID(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		valid bool
	}{
		{"thirteen ASCII digits", "1234567890123", true},
		{"all zeros", "0000000000000", true},
		{"twelve digits", "123456789012", false},
		{"fourteen digits", "12345678901234", false},
		{"trailing letter", "12345678901a", false},
		{"letter in the middle", "123456a890123", false},
		{"empty", "", false},
		{"leading plus sign", "+123456789012", false},
		{"leading minus sign", "-123456789012", false},
		{"embedded space", "123456 890123", false},
		{"trailing newline", "123456789012\n", false},
		{"thai digits", "๑๒๓๔๕๖๗๘๙๐๑๒๓", false},
		{"full-width digits", "１２３４５６７８９０１２３", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidNationalID(tt.text))
		})
	}
}

func TestIsValidFaculty(t *testing.T) {
	for _, f := range Faculties {
		assert.True(t, IsValidFaculty(f), "configured faculty %q must be valid", f)
	}

	assert.False(t, IsValidFaculty("ไม่มีคณะนี้"))
	assert.False(t, IsValidFaculty(""))
	assert.False(t, IsValidFaculty("Engineering"))
	// Prefix of a real name is not a match.
	assert.False(t, IsValidFaculty("คณะ"))
}
