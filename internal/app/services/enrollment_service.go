package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/learnhub/backend/internal/app/models"
	"github.com/learnhub/backend/internal/app/repositories"
)

// EnrollmentService owns the enrollment ledger operations
type EnrollmentService struct {
	enrollmentRepo repositories.IEnrollmentRepository
	courseRepo     repositories.ICourseRepository
	logger         zerolog.Logger
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(enrollmentRepo repositories.IEnrollmentRepository, courseRepo repositories.ICourseRepository, logger zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		logger:         logger,
	}
}

// Enroll creates a new enrollment for the user in the given course. The
// course must exist; a second enrollment for the same (user, course) pair
// is rejected by the storage layer's uniqueness constraint, so concurrent
// duplicate attempts leave exactly one row.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID int64) (*models.Enrollment, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	enrollment := &models.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		Progress:   0,
		Completed:  false,
		EnrolledAt: time.Now(),
	}

	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Int64("courseID", courseID).Msg("User enrolled")
	return enrollment, nil
}

// GetEnrollments lists all enrollments owned by the given user
func (s *EnrollmentService) GetEnrollments(ctx context.Context, userID int64) ([]*models.Enrollment, error) {
	enrollments, err := s.enrollmentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving enrollments: %w", err)
	}
	return enrollments, nil
}

// GetAllEnrollments lists every enrollment in the ledger
func (s *EnrollmentService) GetAllEnrollments(ctx context.Context) ([]*models.Enrollment, error) {
	enrollments, err := s.enrollmentRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving enrollments: %w", err)
	}
	return enrollments, nil
}

// UpdateProgress stores an absolute progress value for the user's
// enrollment in the given course. The value is clamped into [0,100] and
// completed is recomputed, so completed == (progress == 100) holds after
// every call. Submitting the same value twice is a no-op.
func (s *EnrollmentService) UpdateProgress(ctx context.Context, userID, courseID int64, progress int) error {
	clamped := models.ClampProgress(progress)
	completed := clamped == 100

	if err := s.enrollmentRepo.UpdateProgress(ctx, userID, courseID, clamped, completed); err != nil {
		return err
	}

	s.logger.Debug().
		Int64("userID", userID).
		Int64("courseID", courseID).
		Int("progress", clamped).
		Bool("completed", completed).
		Msg("Progress updated")
	return nil
}
