package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"university_line_bot/internal/domain/student"

	"github.com/lib/pq"
)

// Custom errors
var ErrStudentNotFound = fmt.Errorf("student not found")
var ErrDuplicateNationalID = fmt.Errorf("national ID is already registered to another student")

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// PostgresStudentRepository implements student.Repository on top of the
// students table. Every method is a single statement, so concurrency safety
// comes from the table's unique constraints and row-level atomicity.
type PostgresStudentRepository struct {
	db *sql.DB
}

func NewPostgresStudentRepository(db *sql.DB) *PostgresStudentRepository {
	return &PostgresStudentRepository{db: db}
}

// UpsertIdentity creates a record for the LINE user if none exists yet.
// Concurrent identical upserts race on the unique index; the loser's insert
// becomes a no-op rather than an error.
func (r *PostgresStudentRepository) UpsertIdentity(ctx context.Context, lineUserID string) error {
	query := `INSERT INTO students (line_user_id) VALUES ($1)
               ON CONFLICT (line_user_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, lineUserID); err != nil {
		return fmt.Errorf("error upserting student identity: %w", err)
	}
	return nil
}

func (r *PostgresStudentRepository) GetByLineUserID(ctx context.Context, lineUserID string) (*student.Student, error) {
	query := `SELECT id, line_user_id, national_id, faculty, created_at
               FROM students WHERE line_user_id = $1`

	s := &student.Student{}
	err := r.db.QueryRowContext(ctx, query, lineUserID).Scan(&s.ID, &s.LineUserID, &s.NationalID, &s.Faculty, &s.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("error getting student by LINE user ID: %w", err)
	}
	return s, nil
}

// SetNationalID records the national ID for the user. The IS NULL guard makes
// the write-once rule atomic: if a concurrent submission already landed, this
// update affects zero rows and the stored value is left untouched.
func (r *PostgresStudentRepository) SetNationalID(ctx context.Context, lineUserID, nationalID string) error {
	query := `UPDATE students SET national_id = $1
               WHERE line_user_id = $2 AND national_id IS NULL`

	_, err := r.db.ExecContext(ctx, query, nationalID, lineUserID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateNationalID
		}
		return fmt.Errorf("error setting national ID: %w", err)
	}
	return nil
}

// SetFaculty overwrites the faculty for the user, including for users who are
// already fully registered. Updating a missing record affects zero rows and
// is deliberately not an error.
func (r *PostgresStudentRepository) SetFaculty(ctx context.Context, lineUserID, faculty string) error {
	query := `UPDATE students SET faculty = $1 WHERE line_user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, faculty, lineUserID); err != nil {
		return fmt.Errorf("error setting faculty: %w", err)
	}
	return nil
}

func (r *PostgresStudentRepository) Delete(ctx context.Context, lineUserID string) error {
	query := `DELETE FROM students WHERE line_user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, lineUserID); err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}
	return nil
}
