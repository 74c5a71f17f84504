package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"

	"github.com/learnhub/backend/internal/app/models"
	"github.com/learnhub/backend/internal/app/models/dto"
	"github.com/learnhub/backend/internal/app/repositories"
	"github.com/learnhub/backend/internal/pkg/apperrors"
	"github.com/learnhub/backend/internal/pkg/filestorage"
	"github.com/learnhub/backend/internal/pkg/multipartform"
)

const (
	defaultCategory = "Other"
	defaultDuration = "TBD"
	defaultPoster   = "default-poster.jpg"

	// Lecture videos live in their own subdirectory of the serving tree
	videoSubPath = "videos"
)

// CourseMedia carries the file parts of a multipart course submission
type CourseMedia struct {
	Thumbnail *multipart.FileHeader
	Poster    *multipart.FileHeader
	Video     *multipart.FileHeader
	Lectures  []multipartform.LectureEntry
}

// CourseService handles the course catalog
type CourseService struct {
	courseRepo repositories.ICourseRepository
	storage    filestorage.FileStorage
	logger     zerolog.Logger
}

// NewCourseService creates a new course service
func NewCourseService(courseRepo repositories.ICourseRepository, storage filestorage.FileStorage, logger zerolog.Logger) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		storage:    storage,
		logger:     logger,
	}
}

// GetAllCourses lists the whole catalog
func (s *CourseService) GetAllCourses(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	return courses, nil
}

// GetCourseByID retrieves a single course; a missing course is a distinct
// NotFound condition, not an empty success.
func (s *CourseService) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// CreateCourse builds a course from a validated multipart submission and
// persists it together with its media. Files are staged first and only
// published after the database row commits, so a failed request leaves no
// orphaned media behind.
func (s *CourseService) CreateCourse(ctx context.Context, form *dto.CreateCourseForm, media *CourseMedia) (*models.Course, error) {
	course, err := buildCourse(form)
	if err != nil {
		return nil, err
	}

	if media.Thumbnail == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrMissingCourseMedia, "thumbnail file is required")
	}
	if len(media.Lectures) == 0 && media.Video == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrMissingCourseMedia, "a video file or at least one lecture entry is required")
	}
	for _, lecture := range media.Lectures {
		if lecture.File == nil {
			return nil, apperrors.NewCustomError(apperrors.ErrMissingCourseMedia,
				fmt.Sprintf("lecture %d is missing its video file", lecture.Index))
		}
	}

	var staged []*filestorage.StagedFile
	stage := func(fileHeader *multipart.FileHeader, subPath string) (*filestorage.StagedFile, error) {
		f, err := s.storage.Stage(fileHeader, subPath)
		if err != nil {
			return nil, err
		}
		if f != nil {
			staged = append(staged, f)
		}
		return f, nil
	}

	discard := func() { s.storage.Discard(staged...) }

	thumbnail, err := stage(media.Thumbnail, "")
	if err != nil {
		discard()
		return nil, err
	}
	course.Thumbnail = thumbnail.URL

	if media.Poster != nil {
		poster, err := stage(media.Poster, "")
		if err != nil {
			discard()
			return nil, err
		}
		course.Poster = poster.URL
	}

	if len(media.Lectures) > 0 {
		// One content item per declared lecture entry, in index order
		for i, lecture := range media.Lectures {
			video, err := stage(lecture.File, videoSubPath)
			if err != nil {
				discard()
				return nil, err
			}

			title := strings.TrimSpace(lecture.Title)
			if title == "" {
				title = fmt.Sprintf("Lecture %d", i+1)
			}

			course.Content = append(course.Content, models.ContentItem{
				Type:        models.ContentVideo,
				Title:       title,
				URL:         video.URL,
				Description: lecture.Description,
				FileSize:    fmt.Sprintf("%d", lecture.File.Size),
			})
		}
	} else {
		// Single primary video: synthesize a one-lecture content sequence
		video, err := stage(media.Video, videoSubPath)
		if err != nil {
			discard()
			return nil, err
		}
		course.Content = append(course.Content, models.ContentItem{
			Type:     models.ContentVideo,
			Title:    course.Title,
			URL:      video.URL,
			Duration: course.Duration,
			FileSize: fmt.Sprintf("%d", media.Video.Size),
		})
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		discard()
		return nil, err
	}

	if err := s.storage.Commit(staged...); err != nil {
		// The row exists but its media does not. Compensate by removing
		// the row again; if that also fails, log both for reconciliation.
		s.logger.Error().Err(err).Int64("courseID", course.ID).Msg("Failed to publish course media, rolling back course")
		if delErr := s.courseRepo.Delete(ctx, course.ID); delErr != nil {
			s.logger.Error().Err(delErr).Int64("courseID", course.ID).Msg("Failed to roll back course after media publish failure")
		}
		discard()
		return nil, fmt.Errorf("failed to publish course media: %w", err)
	}

	s.logger.Info().Int64("courseID", course.ID).Str("title", course.Title).Int("lectures", len(course.Content)).Msg("Course created")
	return course, nil
}

// UpdateCourse applies a partial metadata update to an existing course
func (s *CourseService) UpdateCourse(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Level != nil {
		level := models.Level(*req.Level)
		if !level.IsValid() {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidCourseLevel, *req.Level)
		}
		course.Level = level
	}
	if req.Duration != nil {
		course.Duration = *req.Duration
	}
	if req.Price != nil {
		course.Price = *req.Price
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// DeleteCourse removes a course, its dependent enrollments, and its media.
// The enrollments go in the same storage transaction as the course row;
// media cleanup runs after and is only logged on failure.
func (s *CourseService) DeleteCourse(ctx context.Context, id int64) error {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.removeMedia(course)
	s.logger.Info().Int64("courseID", id).Msg("Course deleted")
	return nil
}

func (s *CourseService) removeMedia(course *models.Course) {
	if err := s.storage.DeleteFile(course.Thumbnail); err != nil {
		s.logger.Warn().Err(err).Int64("courseID", course.ID).Msg("Failed to delete course thumbnail")
	}
	if course.Poster != defaultPoster {
		if err := s.storage.DeleteFile(course.Poster); err != nil {
			s.logger.Warn().Err(err).Int64("courseID", course.ID).Msg("Failed to delete course poster")
		}
	}
	for _, item := range course.Content {
		if item.Type != models.ContentVideo || item.URL == "" {
			continue
		}
		if err := s.storage.DeleteFile(item.URL); err != nil {
			s.logger.Warn().Err(err).Int64("courseID", course.ID).Str("url", item.URL).Msg("Failed to delete lecture video")
		}
	}
}

func buildCourse(form *dto.CreateCourseForm) (*models.Course, error) {
	title := strings.TrimSpace(form.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(form.Description) == "" {
		return nil, fmt.Errorf("%w: description cannot be empty", apperrors.ErrValidationFailed)
	}

	category := strings.TrimSpace(form.Category)
	if category == "" {
		category = defaultCategory
	}

	level := models.LevelBeginner
	if form.Level != "" {
		level = models.Level(form.Level)
		if !level.IsValid() {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidCourseLevel, form.Level)
		}
	}

	duration := strings.TrimSpace(form.Duration)
	if duration == "" {
		duration = defaultDuration
	}

	if form.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", apperrors.ErrValidationFailed)
	}

	return &models.Course{
		Title:       title,
		Description: form.Description,
		Category:    category,
		Level:       level,
		Duration:    duration,
		Poster:      defaultPoster,
		Price:       form.Price,
		Content:     []models.ContentItem{},
	}, nil
}
