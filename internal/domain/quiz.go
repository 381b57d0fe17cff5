package domain

import (
	"time"

	"github.com/google/uuid"
)

type QuestionType string

const (
	QuestionSingle   QuestionType = "single"
	QuestionMultiple QuestionType = "multiple"
)

func (t QuestionType) Valid() bool {
	return t == QuestionSingle || t == QuestionMultiple
}

type Quiz struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CourseID    uint           `gorm:"not null;uniqueIndex:idx_quiz_course_section" json:"course_id"`
	Title       string         `gorm:"not null;size:200" json:"title"`
	Section     string         `gorm:"not null;size:100;uniqueIndex:idx_quiz_course_section" json:"section"`
	MaxAttempts int            `gorm:"not null" json:"max_attempts"`
	Active      bool           `json:"active"`
	Questions   []QuizQuestion `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE;" json:"questions,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type QuizQuestion struct {
	ID      uint         `gorm:"primaryKey" json:"id"`
	QuizID  uint         `gorm:"index;not null" json:"quiz_id"`
	Text    string       `gorm:"not null" json:"text"`
	Type    QuestionType `gorm:"size:20;not null" json:"type"`
	Order   *int         `gorm:"column:sort_order" json:"order"`
	Options []QuizOption `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE;" json:"options,omitempty"`
}

// CorrectOptionIDs returns the ids of the options flagged as correct.
func (q QuizQuestion) CorrectOptionIDs() map[uint]struct{} {
	ids := make(map[uint]struct{})
	for _, o := range q.Options {
		if o.Correct {
			ids[o.ID] = struct{}{}
		}
	}
	return ids
}

type QuizOption struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"index;not null" json:"question_id"`
	Text       string `gorm:"not null" json:"text"`
	Correct    bool   `json:"correct"`
	Order      *int   `gorm:"column:sort_order" json:"order"`
}

type QuizAttempt struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	QuizID         uint         `gorm:"not null;uniqueIndex:idx_attempt_quiz_user_number" json:"quiz_id"`
	UserID         uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_attempt_quiz_user_number" json:"user_id"`
	Number         int          `gorm:"not null;uniqueIndex:idx_attempt_quiz_user_number" json:"number"`
	Score          int          `json:"score"`
	TotalQuestions int          `json:"total_questions"`
	Passed         bool         `json:"passed"`
	Answers        []QuizAnswer `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE;" json:"answers,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

// Percent is the share of correctly answered questions, 0 for an empty quiz.
func (a QuizAttempt) Percent() float64 {
	if a.TotalQuestions <= 0 {
		return 0
	}
	return float64(a.Score) * 100 / float64(a.TotalQuestions)
}

type QuizAnswer struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	AttemptID  uint  `gorm:"index;not null" json:"attempt_id"`
	QuestionID uint  `gorm:"index;not null" json:"question_id"`
	OptionID   *uint `json:"option_id"`
	Correct    bool  `json:"correct"`
}
