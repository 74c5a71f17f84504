package models

// Level defines the course difficulty level
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// IsValid reports whether the level is one of the known values.
func (l Level) IsValid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// ContentType identifies the kind of a content item
type ContentType string

const (
	ContentVideo    ContentType = "video"
	ContentDocument ContentType = "document"
	ContentQuiz     ContentType = "quiz"
)

// QuizQuestion is a single question inside a quiz content item
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
}

// ContentItem is one unit of course material within the ordered content
// sequence of a course.
type ContentItem struct {
	Type        ContentType    `json:"type"`
	Title       string         `json:"title"`
	URL         string         `json:"url,omitempty"`
	Description string         `json:"description,omitempty"`
	Duration    string         `json:"duration,omitempty"`
	FileSize    string         `json:"fileSize,omitempty"`
	Questions   []QuizQuestion `json:"questions,omitempty"`
}

// Course defines the course model based on the 'courses' table.
// Content is stored as a JSONB column; it is always a sequence, possibly
// empty, never nil for consumers.
type Course struct {
	ID          int64         `json:"id" db:"id"`
	Title       string        `json:"title" db:"title"`
	Description string        `json:"description" db:"description"`
	Category    string        `json:"category" db:"category"`
	Level       Level         `json:"level" db:"level"`
	Duration    string        `json:"duration" db:"duration"`
	Thumbnail   string        `json:"thumbnail" db:"thumbnail"`
	Poster      string        `json:"poster" db:"poster"`
	Price       int           `json:"price" db:"price"` // Smallest currency unit
	Content     []ContentItem `json:"content" db:"content"`
}
