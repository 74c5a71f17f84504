package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnhub/backend/internal/app/models"
	"github.com/learnhub/backend/internal/pkg/apperrors"
	"github.com/learnhub/backend/internal/pkg/dberrors"
)

// EnrollmentRepository handles database operations for the enrollment ledger
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
	}
}

// Create inserts a new enrollment. The enrollments_user_id_course_id_key
// unique constraint arbitrates concurrent duplicate enrolls: at most one
// insert wins, the rest observe ErrDuplicateEnrollment.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (user_id, course_id, progress, completed, enrolled_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		enrollment.UserID,
		enrollment.CourseID,
		enrollment.Progress,
		enrollment.Completed,
		enrollment.EnrolledAt,
	).Scan(&enrollment.ID)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "enrollments_user_id_course_id_key") {
			return apperrors.ErrDuplicateEnrollment
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error creating enrollment: %w", err)
	}

	return nil
}

// GetByUserAndCourse retrieves the enrollment for a (user, course) pair
func (r *EnrollmentRepository) GetByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, progress, completed, enrolled_at
		FROM enrollments
		WHERE user_id = $1 AND course_id = $2
	`

	var enrollment models.Enrollment
	err := r.db.QueryRow(ctx, query, userID, courseID).Scan(
		&enrollment.ID,
		&enrollment.UserID,
		&enrollment.CourseID,
		&enrollment.Progress,
		&enrollment.Completed,
		&enrollment.EnrolledAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return &enrollment, nil
}

// GetByUserID retrieves all enrollments owned by the given user
func (r *EnrollmentRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, progress, completed, enrolled_at
		FROM enrollments
		WHERE user_id = $1
		ORDER BY id
	`

	return r.queryEnrollments(ctx, query, userID)
}

// GetAll retrieves every enrollment in the ledger
func (r *EnrollmentRepository) GetAll(ctx context.Context) ([]*models.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, progress, completed, enrolled_at
		FROM enrollments
		ORDER BY id
	`

	return r.queryEnrollments(ctx, query)
}

// UpdateProgress stores an absolute progress value for an enrollment. The
// caller is responsible for clamping and for deriving completed.
func (r *EnrollmentRepository) UpdateProgress(ctx context.Context, userID, courseID int64, progress int, completed bool) error {
	query := `
		UPDATE enrollments
		SET progress = $1, completed = $2
		WHERE user_id = $3 AND course_id = $4
	`

	cmdTag, err := r.db.Exec(ctx, query, progress, completed, userID, courseID)
	if err != nil {
		return fmt.Errorf("error updating progress: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

func (r *EnrollmentRepository) queryEnrollments(ctx context.Context, query string, args ...any) ([]*models.Enrollment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		var enrollment models.Enrollment
		if err := rows.Scan(
			&enrollment.ID,
			&enrollment.UserID,
			&enrollment.CourseID,
			&enrollment.Progress,
			&enrollment.Completed,
			&enrollment.EnrolledAt,
		); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, &enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return enrollments, nil
}
