package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/backend/internal/app/models"
	"github.com/learnhub/backend/internal/app/models/dto"
	"github.com/learnhub/backend/internal/app/repositories"
	"github.com/learnhub/backend/internal/pkg/apperrors"
	"github.com/learnhub/backend/internal/pkg/filestorage"
	"github.com/learnhub/backend/internal/pkg/multipartform"
)

// fakeStorage records staged and committed files without touching disk
type fakeStorage struct {
	staged    int
	committed []string
	discarded int
	deleted   []string
	commitErr error
}

func (f *fakeStorage) Stage(fileHeader *multipart.FileHeader, subPath string) (*filestorage.StagedFile, error) {
	if fileHeader == nil {
		return nil, nil
	}
	f.staged++
	url := fmt.Sprintf("/uploads/%s", fileHeader.Filename)
	if subPath != "" {
		url = fmt.Sprintf("/uploads/%s/%s", subPath, fileHeader.Filename)
	}
	return &filestorage.StagedFile{URL: url}, nil
}

func (f *fakeStorage) Commit(files ...*filestorage.StagedFile) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	for _, file := range files {
		f.committed = append(f.committed, file.URL)
	}
	return nil
}

func (f *fakeStorage) Discard(files ...*filestorage.StagedFile) {
	f.discarded += len(files)
}

func (f *fakeStorage) DeleteFile(fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return nil
}

func newCourseFixture(t *testing.T) (*CourseService, *repositories.Repositories, *fakeStorage) {
	t.Helper()
	repos := repositories.NewMemoryRepositories()
	storage := &fakeStorage{}
	svc := NewCourseService(repos.Courses, storage, zerolog.Nop())
	return svc, repos, storage
}

func fileHeader(name string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: size}
}

func validForm() *dto.CreateCourseForm {
	return &dto.CreateCourseForm{
		Title:       "Go Basics",
		Description: "An introduction",
		Category:    "Programming",
		Level:       "beginner",
		Duration:    "4h",
		Price:       1999,
	}
}

func TestCourseService_CreateCourse_SingleVideo(t *testing.T) {
	svc, _, storage := newCourseFixture(t)

	course, err := svc.CreateCourse(context.Background(), validForm(), &CourseMedia{
		Thumbnail: fileHeader("thumb.png", 10),
		Video:     fileHeader("intro.mp4", 1000),
	})
	require.NoError(t, err)

	assert.NotZero(t, course.ID)
	assert.Equal(t, "/uploads/thumb.png", course.Thumbnail)
	assert.Equal(t, "default-poster.jpg", course.Poster)
	require.Len(t, course.Content, 1)
	assert.Equal(t, models.ContentVideo, course.Content[0].Type)
	assert.Equal(t, "Go Basics", course.Content[0].Title)
	assert.Equal(t, "/uploads/videos/intro.mp4", course.Content[0].URL)
	assert.Equal(t, "1000", course.Content[0].FileSize)

	// Nothing published before the row committed, everything after
	assert.Len(t, storage.committed, 2)
	assert.Zero(t, storage.discarded)
}

func TestCourseService_CreateCourse_Lectures(t *testing.T) {
	svc, _, _ := newCourseFixture(t)

	course, err := svc.CreateCourse(context.Background(), validForm(), &CourseMedia{
		Thumbnail: fileHeader("thumb.png", 10),
		Poster:    fileHeader("poster.png", 20),
		Lectures: []multipartform.LectureEntry{
			{Index: 0, Title: "Intro", Description: "Welcome", File: fileHeader("l0.mp4", 100)},
			{Index: 1, Title: "", File: fileHeader("l1.mp4", 200)},
			{Index: 2, Title: "Wrap-up", File: fileHeader("l2.mp4", 300)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "/uploads/poster.png", course.Poster)
	require.Len(t, course.Content, 3)
	assert.Equal(t, "Intro", course.Content[0].Title)
	assert.Equal(t, "Welcome", course.Content[0].Description)
	// Untitled entries fall back to a positional name
	assert.Equal(t, "Lecture 2", course.Content[1].Title)
	assert.Equal(t, "Wrap-up", course.Content[2].Title)
	assert.Equal(t, "/uploads/videos/l1.mp4", course.Content[1].URL)
}

func TestCourseService_CreateCourse_Defaults(t *testing.T) {
	svc, _, _ := newCourseFixture(t)

	course, err := svc.CreateCourse(context.Background(), &dto.CreateCourseForm{
		Title:       "Bare minimum",
		Description: "desc",
	}, &CourseMedia{
		Thumbnail: fileHeader("thumb.png", 10),
		Video:     fileHeader("v.mp4", 1),
	})
	require.NoError(t, err)

	assert.Equal(t, "Other", course.Category)
	assert.Equal(t, models.LevelBeginner, course.Level)
	assert.Equal(t, "TBD", course.Duration)
	assert.Equal(t, "default-poster.jpg", course.Poster)
	assert.Zero(t, course.Price)
}

func TestCourseService_CreateCourse_Validation(t *testing.T) {
	svc, _, _ := newCourseFixture(t)
	ctx := context.Background()

	media := func() *CourseMedia {
		return &CourseMedia{Thumbnail: fileHeader("t.png", 1), Video: fileHeader("v.mp4", 1)}
	}

	_, err := svc.CreateCourse(ctx, &dto.CreateCourseForm{Title: "  ", Description: "d"}, media())
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.CreateCourse(ctx, &dto.CreateCourseForm{Title: "t", Description: "d", Level: "expert"}, media())
	assert.ErrorIs(t, err, apperrors.ErrInvalidCourseLevel)

	_, err = svc.CreateCourse(ctx, &dto.CreateCourseForm{Title: "t", Description: "d", Price: -1}, media())
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.CreateCourse(ctx, validForm(), &CourseMedia{Video: fileHeader("v.mp4", 1)})
	assert.ErrorIs(t, err, apperrors.ErrMissingCourseMedia)

	_, err = svc.CreateCourse(ctx, validForm(), &CourseMedia{Thumbnail: fileHeader("t.png", 1)})
	assert.ErrorIs(t, err, apperrors.ErrMissingCourseMedia)

	_, err = svc.CreateCourse(ctx, validForm(), &CourseMedia{
		Thumbnail: fileHeader("t.png", 1),
		Lectures:  []multipartform.LectureEntry{{Index: 0, Title: "no file"}},
	})
	assert.ErrorIs(t, err, apperrors.ErrMissingCourseMedia)
}

func TestCourseService_CreateCourse_CommitFailureRollsBack(t *testing.T) {
	svc, repos, storage := newCourseFixture(t)
	storage.commitErr = errors.New("disk full")

	_, err := svc.CreateCourse(context.Background(), validForm(), &CourseMedia{
		Thumbnail: fileHeader("t.png", 1),
		Video:     fileHeader("v.mp4", 1),
	})
	require.Error(t, err)

	// The compensating delete removed the row and the staged files were dropped
	courses, listErr := repos.Courses.GetAll(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, courses)
	assert.Equal(t, 2, storage.discarded)
}

func TestCourseService_UpdateCourse(t *testing.T) {
	svc, _, _ := newCourseFixture(t)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, validForm(), &CourseMedia{
		Thumbnail: fileHeader("t.png", 1),
		Video:     fileHeader("v.mp4", 1),
	})
	require.NoError(t, err)

	title := "Go Basics, 2nd edition"
	level := "advanced"
	updated, err := svc.UpdateCourse(ctx, course.ID, &dto.UpdateCourseRequest{
		Title: &title,
		Level: &level,
	})
	require.NoError(t, err)

	assert.Equal(t, title, updated.Title)
	assert.Equal(t, models.LevelAdvanced, updated.Level)
	// Untouched fields survive the partial update
	assert.Equal(t, "An introduction", updated.Description)
	assert.Equal(t, 1999, updated.Price)
}

func TestCourseService_UpdateCourse_InvalidLevel(t *testing.T) {
	svc, _, _ := newCourseFixture(t)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, validForm(), &CourseMedia{
		Thumbnail: fileHeader("t.png", 1),
		Video:     fileHeader("v.mp4", 1),
	})
	require.NoError(t, err)

	bad := "guru"
	_, err = svc.UpdateCourse(ctx, course.ID, &dto.UpdateCourseRequest{Level: &bad})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCourseLevel)
}

func TestCourseService_UpdateCourse_NotFound(t *testing.T) {
	svc, _, _ := newCourseFixture(t)

	title := "x"
	_, err := svc.UpdateCourse(context.Background(), 42, &dto.UpdateCourseRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestCourseService_DeleteCourse_CascadesAndCleansMedia(t *testing.T) {
	svc, repos, storage := newCourseFixture(t)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, validForm(), &CourseMedia{
		Thumbnail: fileHeader("t.png", 1),
		Video:     fileHeader("v.mp4", 1),
	})
	require.NoError(t, err)

	enrollSvc := NewEnrollmentService(repos.Enrollments, repos.Courses, zerolog.Nop())
	_, err = enrollSvc.Enroll(ctx, 3, course.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCourse(ctx, course.ID))

	_, err = repos.Courses.GetByID(ctx, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	// Dependent ledger rows went with the course
	all, err := repos.Enrollments.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.Contains(t, storage.deleted, "/uploads/t.png")
	assert.Contains(t, storage.deleted, "/uploads/videos/v.mp4")
	// The stock poster is shared between courses and never deleted
	assert.NotContains(t, storage.deleted, "default-poster.jpg")
}

func TestCourseService_DeleteCourse_NotFound(t *testing.T) {
	svc, _, _ := newCourseFixture(t)

	err := svc.DeleteCourse(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}
