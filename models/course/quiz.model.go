package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz is an assessment attached to a lesson. Questions holds the question
// bank as JSON: an array of {prompt, options, answer_index}. The answer key
// never leaves the server.
type Quiz struct {
	gorm.Model
	CourseID  uint           `json:"course_id" gorm:"index;not null"`
	LessonID  uint           `json:"lesson_id" gorm:"index;not null"`
	Title     string         `json:"title"`
	PassScore int            `json:"pass_score" gorm:"default:0"` // minimum correct answers to pass
	Questions datatypes.JSON `json:"-"`
	IsDeleted bool           `gorm:"default:false"`
}

// QuizQuestion is the decoded shape of one Questions element.
type QuizQuestion struct {
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
}

// QuizAttempt represents a learner's attempt at a quiz.
type QuizAttempt struct {
	gorm.Model
	UserID        uint           `json:"user_id" gorm:"index;not null"`
	QuizID        uint           `json:"quiz_id" gorm:"index;not null"`
	Answers       datatypes.JSON `json:"answers"` // selected answers as submitted
	Score         int            `json:"score"`
	MaxScore      int            `json:"max_score"`
	AttemptNumber int            `json:"attempt_number" gorm:"default:1"`
	CompletedAt   time.Time      `json:"completed_at"`
	IsDeleted     bool           `gorm:"default:false"`
}
