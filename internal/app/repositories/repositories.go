package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnhub/backend/internal/app/models"
)

// IUserRepository handles persistence for users
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
}

// ICourseRepository handles persistence for courses
type ICourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetAll(ctx context.Context) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	// Delete removes the course and every enrollment referencing it in a
	// single transaction, so the ledger never points at a missing course.
	Delete(ctx context.Context, id int64) error
}

// IEnrollmentRepository handles persistence for the enrollment ledger
type IEnrollmentRepository interface {
	// Create inserts a new enrollment row. Duplicate (userID, courseID)
	// pairs are rejected by the storage layer itself and surface as
	// apperrors.ErrDuplicateEnrollment, so concurrent conflicting enrolls
	// resolve deterministically.
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Enrollment, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.Enrollment, error)
	GetAll(ctx context.Context) ([]*models.Enrollment, error)
	UpdateProgress(ctx context.Context, userID, courseID int64, progress int, completed bool) error
}

// Repositories bundles the storage backends for all entities. Exactly one
// backend is selected at process startup; postgres and memory are never
// mixed at runtime.
type Repositories struct {
	Users       IUserRepository
	Courses     ICourseRepository
	Enrollments IEnrollmentRepository
}

// NewPostgresRepositories creates the pgx-backed repository set
func NewPostgresRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(db),
		Courses:     NewCourseRepository(db),
		Enrollments: NewEnrollmentRepository(db),
	}
}

// NewMemoryRepositories creates the in-process repository set used by tests
// and database-less local runs.
func NewMemoryRepositories() *Repositories {
	store := NewMemoryStore()
	return &Repositories{
		Users:       &MemoryUserRepository{store: store},
		Courses:     &MemoryCourseRepository{store: store},
		Enrollments: &MemoryEnrollmentRepository{store: store},
	}
}
