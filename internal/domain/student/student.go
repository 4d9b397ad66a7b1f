package student

import (
	"database/sql"
	"time"
)

// Student represents one LINE user in the registration flow.
type Student struct {
	ID         int64
	LineUserID string
	NationalID sql.NullString // write-once; NULL until the user submits a valid ID
	Faculty    sql.NullString
	CreatedAt  time.Time
}

// RegistrationState is the explicit registration state of a user. It is not
// persisted: it is derived from which fields of the record are set, so the
// stored row stays the single source of truth.
type RegistrationState string

const (
	// StateNew means no record exists for the user yet.
	StateNew RegistrationState = "NEW"
	// StateAwaitingNationalID means the record exists but no national ID was submitted.
	StateAwaitingNationalID RegistrationState = "AWAITING_NATIONAL_ID"
	// StateAwaitingFaculty means the national ID is set but no faculty was chosen.
	StateAwaitingFaculty RegistrationState = "AWAITING_FACULTY"
	// StateRegistered means both national ID and faculty are set.
	StateRegistered RegistrationState = "REGISTERED"
)

// State derives the registration state from the record's fields.
func (s *Student) State() RegistrationState {
	if !s.NationalID.Valid {
		return StateAwaitingNationalID
	}
	if !s.Faculty.Valid {
		return StateAwaitingFaculty
	}
	return StateRegistered
}

// nationalIDLength is the length of a Thai national identification number.
const nationalIDLength = 13

// IsValidNationalID reports whether text is exactly 13 ASCII decimal digits.
// The check is byte-wise on purpose: Thai numerals and other non-ASCII digits
// are multi-byte in UTF-8 and must be rejected, as must signs and whitespace.
func IsValidNationalID(text string) bool {
	if len(text) != nationalIDLength {
		return false
	}
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return false
		}
	}
	return true
}
