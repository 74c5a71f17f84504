package models

import "time"

// Enrollment records that a user is taking a course, with a progress
// measure. Exactly one row exists per (UserID, CourseID) pair; the storage
// layer enforces this with a unique constraint. Completed is true if and
// only if Progress is 100.
type Enrollment struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"userId" db:"user_id"`
	CourseID   int64     `json:"courseId" db:"course_id"`
	Progress   int       `json:"progress" db:"progress"` // Percentage, always within [0,100]
	Completed  bool      `json:"completed" db:"completed"`
	EnrolledAt time.Time `json:"enrolledAt" db:"enrolled_at"` // Set at creation, immutable
}

// ClampProgress bounds a submitted progress value into the valid [0,100]
// range. Out-of-range values are clamped to the nearest bound, not rejected.
func ClampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
