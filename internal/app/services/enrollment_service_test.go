package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/backend/internal/app/models"
	"github.com/learnhub/backend/internal/app/repositories"
	"github.com/learnhub/backend/internal/pkg/apperrors"
)

func newEnrollmentFixture(t *testing.T) (*EnrollmentService, *repositories.Repositories) {
	t.Helper()
	repos := repositories.NewMemoryRepositories()
	svc := NewEnrollmentService(repos.Enrollments, repos.Courses, zerolog.Nop())
	return svc, repos
}

func seedCourse(t *testing.T, repos *repositories.Repositories, title string) *models.Course {
	t.Helper()
	course := &models.Course{
		Title:       title,
		Description: "desc",
		Category:    "Other",
		Level:       models.LevelBeginner,
		Duration:    "TBD",
		Thumbnail:   "/uploads/thumb.png",
		Poster:      "default-poster.jpg",
		Content:     []models.ContentItem{},
	}
	require.NoError(t, repos.Courses.Create(context.Background(), course))
	return course
}

func TestEnrollmentService_Enroll(t *testing.T) {
	svc, repos := newEnrollmentFixture(t)
	ctx := context.Background()
	course := seedCourse(t, repos, "Go Basics")

	enrollment, err := svc.Enroll(ctx, 7, course.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(7), enrollment.UserID)
	assert.Equal(t, course.ID, enrollment.CourseID)
	assert.Equal(t, 0, enrollment.Progress)
	assert.False(t, enrollment.Completed)
	assert.False(t, enrollment.EnrolledAt.IsZero())
}

func TestEnrollmentService_Enroll_Duplicate(t *testing.T) {
	svc, repos := newEnrollmentFixture(t)
	ctx := context.Background()
	course := seedCourse(t, repos, "Go Basics")

	_, err := svc.Enroll(ctx, 7, course.ID)
	require.NoError(t, err)

	_, err = svc.Enroll(ctx, 7, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEnrollment)

	// The first enrollment is untouched
	all, err := svc.GetAllEnrollments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestEnrollmentService_Enroll_CourseMissing(t *testing.T) {
	svc, _ := newEnrollmentFixture(t)

	_, err := svc.Enroll(context.Background(), 7, 42)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestEnrollmentService_Enroll_SameCourseDifferentUsers(t *testing.T) {
	svc, repos := newEnrollmentFixture(t)
	ctx := context.Background()
	course := seedCourse(t, repos, "Go Basics")

	_, err := svc.Enroll(ctx, 1, course.ID)
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, 2, course.ID)
	require.NoError(t, err)

	all, err := svc.GetAllEnrollments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEnrollmentService_UpdateProgress(t *testing.T) {
	svc, repos := newEnrollmentFixture(t)
	ctx := context.Background()
	course := seedCourse(t, repos, "Go Basics")

	_, err := svc.Enroll(ctx, 7, course.ID)
	require.NoError(t, err)

	tests := []struct {
		name          string
		progress      int
		wantProgress  int
		wantCompleted bool
	}{
		{"partial", 40, 40, false},
		{"overshoot clamps to 100", 150, 100, true},
		{"negative clamps to 0", -10, 0, false},
		{"exactly 100 completes", 100, 100, true},
		{"back below 100 clears completed", 99, 99, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, svc.UpdateProgress(ctx, 7, course.ID, tt.progress))

			stored, err := repos.Enrollments.GetByUserAndCourse(ctx, 7, course.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantProgress, stored.Progress)
			assert.Equal(t, tt.wantCompleted, stored.Completed)
		})
	}
}

func TestEnrollmentService_UpdateProgress_Idempotent(t *testing.T) {
	svc, repos := newEnrollmentFixture(t)
	ctx := context.Background()
	course := seedCourse(t, repos, "Go Basics")

	_, err := svc.Enroll(ctx, 7, course.ID)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateProgress(ctx, 7, course.ID, 60))
	require.NoError(t, svc.UpdateProgress(ctx, 7, course.ID, 60))

	stored, err := repos.Enrollments.GetByUserAndCourse(ctx, 7, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, stored.Progress)
	assert.False(t, stored.Completed)
}

func TestEnrollmentService_UpdateProgress_NotEnrolled(t *testing.T) {
	svc, repos := newEnrollmentFixture(t)
	course := seedCourse(t, repos, "Go Basics")

	err := svc.UpdateProgress(context.Background(), 7, course.ID, 50)
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)
}

func TestEnrollmentService_GetEnrollments_ScopedToUser(t *testing.T) {
	svc, repos := newEnrollmentFixture(t)
	ctx := context.Background()
	first := seedCourse(t, repos, "Go Basics")
	second := seedCourse(t, repos, "Advanced Go")

	_, err := svc.Enroll(ctx, 7, first.ID)
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, 7, second.ID)
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, 9, first.ID)
	require.NoError(t, err)

	mine, err := svc.GetEnrollments(ctx, 7)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, e := range mine {
		assert.Equal(t, int64(7), e.UserID)
	}

	none, err := svc.GetEnrollments(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}
