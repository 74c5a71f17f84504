package repositories

import (
	"context"
	"sync"

	"github.com/learnhub/backend/internal/app/models"
	"github.com/learnhub/backend/internal/pkg/apperrors"
)

// MemoryStore is the shared state behind the in-process repository set. It
// mirrors the semantics the Postgres schema enforces declaratively: unique
// usernames, one enrollment per (user, course) pair, and cascade deletion
// of enrollments with their course. All access is serialized under one
// mutex, so conflicting writes resolve deterministically here too.
type MemoryStore struct {
	mu          sync.Mutex
	users       map[int64]*models.User
	courses     map[int64]*models.Course
	enrollments map[int64]*models.Enrollment
	nextUser    int64
	nextCourse  int64
	nextEnroll  int64
}

// NewMemoryStore creates an empty in-process store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[int64]*models.User),
		courses:     make(map[int64]*models.Course),
		enrollments: make(map[int64]*models.Enrollment),
		nextUser:    1,
		nextCourse:  1,
		nextEnroll:  1,
	}
}

// MemoryUserRepository implements IUserRepository over a MemoryStore
type MemoryUserRepository struct {
	store *MemoryStore
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return apperrors.ErrUsernameTaken
		}
	}

	user.ID = s.nextUser
	s.nextUser++
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *MemoryUserRepository) GetAll(_ context.Context) ([]*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*models.User, 0, len(s.users))
	for id := int64(1); id < s.nextUser; id++ {
		if user, ok := s.users[id]; ok {
			copied := *user
			users = append(users, &copied)
		}
	}
	return users, nil
}

// MemoryCourseRepository implements ICourseRepository over a MemoryStore
type MemoryCourseRepository struct {
	store *MemoryStore
}

func (r *MemoryCourseRepository) Create(_ context.Context, course *models.Course) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	course.ID = s.nextCourse
	s.nextCourse++
	if course.Content == nil {
		course.Content = []models.ContentItem{}
	}
	stored := *course
	s.courses[course.ID] = &stored
	return nil
}

func (r *MemoryCourseRepository) GetByID(_ context.Context, id int64) (*models.Course, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	course, ok := s.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	copied := *course
	return &copied, nil
}

func (r *MemoryCourseRepository) GetAll(_ context.Context) ([]*models.Course, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	courses := make([]*models.Course, 0, len(s.courses))
	for id := int64(1); id < s.nextCourse; id++ {
		if course, ok := s.courses[id]; ok {
			copied := *course
			courses = append(courses, &copied)
		}
	}
	return courses, nil
}

func (r *MemoryCourseRepository) Update(_ context.Context, course *models.Course) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[course.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	if course.Content == nil {
		course.Content = []models.ContentItem{}
	}
	stored := *course
	s.courses[course.ID] = &stored
	return nil
}

func (r *MemoryCourseRepository) Delete(_ context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}

	// Cascade: dependent ledger rows go with the course, atomically under
	// the same lock.
	for enrollID, enrollment := range s.enrollments {
		if enrollment.CourseID == id {
			delete(s.enrollments, enrollID)
		}
	}
	delete(s.courses, id)
	return nil
}

// MemoryEnrollmentRepository implements IEnrollmentRepository over a MemoryStore
type MemoryEnrollmentRepository struct {
	store *MemoryStore
}

func (r *MemoryEnrollmentRepository) Create(_ context.Context, enrollment *models.Enrollment) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[enrollment.CourseID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	for _, existing := range s.enrollments {
		if existing.UserID == enrollment.UserID && existing.CourseID == enrollment.CourseID {
			return apperrors.ErrDuplicateEnrollment
		}
	}

	enrollment.ID = s.nextEnroll
	s.nextEnroll++
	stored := *enrollment
	s.enrollments[enrollment.ID] = &stored
	return nil
}

func (r *MemoryEnrollmentRepository) GetByUserAndCourse(_ context.Context, userID, courseID int64) (*models.Enrollment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, enrollment := range s.enrollments {
		if enrollment.UserID == userID && enrollment.CourseID == courseID {
			copied := *enrollment
			return &copied, nil
		}
	}
	return nil, apperrors.ErrEnrollmentNotFound
}

func (r *MemoryEnrollmentRepository) GetByUserID(_ context.Context, userID int64) ([]*models.Enrollment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var enrollments []*models.Enrollment
	for id := int64(1); id < s.nextEnroll; id++ {
		if enrollment, ok := s.enrollments[id]; ok && enrollment.UserID == userID {
			copied := *enrollment
			enrollments = append(enrollments, &copied)
		}
	}
	return enrollments, nil
}

func (r *MemoryEnrollmentRepository) GetAll(_ context.Context) ([]*models.Enrollment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	enrollments := make([]*models.Enrollment, 0, len(s.enrollments))
	for id := int64(1); id < s.nextEnroll; id++ {
		if enrollment, ok := s.enrollments[id]; ok {
			copied := *enrollment
			enrollments = append(enrollments, &copied)
		}
	}
	return enrollments, nil
}

func (r *MemoryEnrollmentRepository) UpdateProgress(_ context.Context, userID, courseID int64, progress int, completed bool) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, enrollment := range s.enrollments {
		if enrollment.UserID == userID && enrollment.CourseID == courseID {
			enrollment.Progress = progress
			enrollment.Completed = completed
			return nil
		}
	}
	return apperrors.ErrEnrollmentNotFound
}
