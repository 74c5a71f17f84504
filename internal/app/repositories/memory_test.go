package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/backend/internal/app/models"
	"github.com/learnhub/backend/internal/pkg/apperrors"
)

func memCourse(t *testing.T, repos *Repositories, title string) *models.Course {
	t.Helper()
	course := &models.Course{Title: title, Description: "d", Level: models.LevelBeginner}
	require.NoError(t, repos.Courses.Create(context.Background(), course))
	return course
}

func TestMemoryUserRepository_UniqueUsername(t *testing.T) {
	repos := NewMemoryRepositories()
	ctx := context.Background()

	require.NoError(t, repos.Users.Create(ctx, &models.User{Username: "alice", Password: "h", Role: models.RoleStudent}))

	err := repos.Users.Create(ctx, &models.User{Username: "alice", Password: "h", Role: models.RoleStudent})
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)

	// Usernames are case sensitive
	require.NoError(t, repos.Users.Create(ctx, &models.User{Username: "Alice", Password: "h", Role: models.RoleStudent}))
}

func TestMemoryUserRepository_GetAllOrderedByID(t *testing.T) {
	repos := NewMemoryRepositories()
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, repos.Users.Create(ctx, &models.User{Username: name, Role: models.RoleStudent}))
	}

	users, err := repos.Users.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, int64(1), users[0].ID)
	assert.Equal(t, int64(3), users[2].ID)
}

func TestMemoryCourseRepository_ContentNeverNil(t *testing.T) {
	repos := NewMemoryRepositories()
	ctx := context.Background()

	course := &models.Course{Title: "t", Description: "d", Level: models.LevelBeginner, Content: nil}
	require.NoError(t, repos.Courses.Create(ctx, course))

	stored, err := repos.Courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.Content)
	assert.Empty(t, stored.Content)
}

func TestMemoryCourseRepository_ReturnsCopies(t *testing.T) {
	repos := NewMemoryRepositories()
	ctx := context.Background()
	course := memCourse(t, repos, "original")

	got, err := repos.Courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	got.Title = "mutated"

	again, err := repos.Courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Title)
}

func TestMemoryCourseRepository_DeleteCascades(t *testing.T) {
	repos := NewMemoryRepositories()
	ctx := context.Background()
	keep := memCourse(t, repos, "keep")
	drop := memCourse(t, repos, "drop")

	for _, e := range []*models.Enrollment{
		{UserID: 1, CourseID: keep.ID, EnrolledAt: time.Now()},
		{UserID: 1, CourseID: drop.ID, EnrolledAt: time.Now()},
		{UserID: 2, CourseID: drop.ID, EnrolledAt: time.Now()},
	} {
		require.NoError(t, repos.Enrollments.Create(ctx, e))
	}

	require.NoError(t, repos.Courses.Delete(ctx, drop.ID))

	remaining, err := repos.Enrollments.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, keep.ID, remaining[0].CourseID)
}

func TestMemoryEnrollmentRepository_DuplicatePair(t *testing.T) {
	repos := NewMemoryRepositories()
	ctx := context.Background()
	course := memCourse(t, repos, "c")

	require.NoError(t, repos.Enrollments.Create(ctx, &models.Enrollment{UserID: 1, CourseID: course.ID}))

	err := repos.Enrollments.Create(ctx, &models.Enrollment{UserID: 1, CourseID: course.ID})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEnrollment)
}

func TestMemoryEnrollmentRepository_CreateRequiresCourse(t *testing.T) {
	repos := NewMemoryRepositories()

	err := repos.Enrollments.Create(context.Background(), &models.Enrollment{UserID: 1, CourseID: 42})
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestMemoryEnrollmentRepository_UpdateProgressMissing(t *testing.T) {
	repos := NewMemoryRepositories()

	err := repos.Enrollments.UpdateProgress(context.Background(), 1, 1, 50, false)
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)
}
