package student

import (
	"context"
)

// Repository defines the operations for persisting and retrieving Student
// records. Every operation is a single statement against the store; there
// are no transactions spanning multiple calls.
type Repository interface {
	// UpsertIdentity creates a record for lineUserID if none exists.
	// A conflicting concurrent or repeated create is a no-op, not an error.
	UpsertIdentity(ctx context.Context, lineUserID string) error
	// GetByLineUserID returns the record for lineUserID, or ErrStudentNotFound.
	GetByLineUserID(ctx context.Context, lineUserID string) (*Student, error)
	// SetNationalID records the national ID. The write only lands while the
	// stored value is still NULL; a concurrent winner makes this a no-op.
	SetNationalID(ctx context.Context, lineUserID, nationalID string) error
	// SetFaculty overwrites the faculty. Updating a missing record affects
	// zero rows and is not an error.
	SetFaculty(ctx context.Context, lineUserID, faculty string) error
	// Delete removes the record entirely. Deleting a missing record is a no-op.
	Delete(ctx context.Context, lineUserID string) error
}
