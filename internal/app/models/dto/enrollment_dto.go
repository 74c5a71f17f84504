package dto

// EnrollRequest represents a request to enroll the caller in a course
type EnrollRequest struct {
	CourseID int64 `json:"courseId" binding:"required,min=1"`
}

// ProgressRequest submits an absolute progress value for one of the
// caller's enrollments. The client computes the percentage itself; the
// server only clamps and stores it.
type ProgressRequest struct {
	CourseID int64 `json:"courseId" binding:"required,min=1"`
	Progress *int  `json:"progress" binding:"required"`
}
