package dto

// CreateCourseForm carries the metadata fields of a multipart course
// submission. The media parts (thumbnail, poster, video / lecture_i) and
// the indexed lecture fields are read from the multipart form directly.
type CreateCourseForm struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description" binding:"required"`
	Category    string `form:"category"`
	Level       string `form:"level"`
	Duration    string `form:"duration"`
	Price       int    `form:"price"`
}

// UpdateCourseRequest represents a partial metadata update of a course.
// Nil fields are left untouched.
type UpdateCourseRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Level       *string `json:"level,omitempty"`
	Duration    *string `json:"duration,omitempty"`
	Price       *int    `json:"price,omitempty"`
}
