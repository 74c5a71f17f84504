package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnhub/backend/internal/app/models"
	"github.com/learnhub/backend/internal/pkg/apperrors"
)

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

// Create inserts a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	content, err := marshalContent(course.Content)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO courses (title, description, category, level, duration, thumbnail, poster, price, content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err = r.db.QueryRow(ctx, query,
		course.Title,
		course.Description,
		course.Category,
		course.Level,
		course.Duration,
		course.Thumbnail,
		course.Poster,
		course.Price,
		content,
	).Scan(&course.ID)

	if err != nil {
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `
		SELECT id, title, description, category, level, duration, thumbnail, poster, price, content
		FROM courses
		WHERE id = $1
	`

	course, err := scanCourse(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return course, nil
}

// GetAll retrieves all courses
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	query := `
		SELECT id, title, description, category, level, duration, thumbnail, poster, price, content
		FROM courses
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// Update rewrites the metadata and content of an existing course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	content, err := marshalContent(course.Content)
	if err != nil {
		return err
	}

	query := `
		UPDATE courses
		SET title = $1, description = $2, category = $3, level = $4,
		    duration = $5, thumbnail = $6, poster = $7, price = $8, content = $9
		WHERE id = $10
	`

	cmdTag, err := r.db.Exec(ctx, query,
		course.Title,
		course.Description,
		course.Category,
		course.Level,
		course.Duration,
		course.Thumbnail,
		course.Poster,
		course.Price,
		content,
		course.ID,
	)

	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete removes a course together with every enrollment referencing it.
// Both deletes run in one transaction so the ledger can never be observed
// pointing at a missing course.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM enrollments WHERE course_id = $1`, id); err != nil {
		return fmt.Errorf("error deleting course enrollments: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing course deletion: %w", err)
	}

	return nil
}

// rowScanner covers both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*models.Course, error) {
	var course models.Course
	var content []byte

	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Category,
		&course.Level,
		&course.Duration,
		&course.Thumbnail,
		&course.Poster,
		&course.Price,
		&content,
	)
	if err != nil {
		return nil, err
	}

	// A NULL or missing content column means "no content", never an error.
	course.Content = []models.ContentItem{}
	if len(content) > 0 {
		if err := json.Unmarshal(content, &course.Content); err != nil {
			return nil, fmt.Errorf("error decoding course content: %w", err)
		}
		if course.Content == nil {
			course.Content = []models.ContentItem{}
		}
	}

	return &course, nil
}

func marshalContent(items []models.ContentItem) ([]byte, error) {
	if items == nil {
		items = []models.ContentItem{}
	}
	content, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("error encoding course content: %w", err)
	}
	return content, nil
}
