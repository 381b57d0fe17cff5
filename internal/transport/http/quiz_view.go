package handlers

import (
	"coursestream/internal/application/usecase"
	"coursestream/internal/domain"
)

// Learners get quizzes without the correct flags.

type optionView struct {
	ID    uint   `json:"id"`
	Text  string `json:"text"`
	Order *int   `json:"order"`
}

type questionView struct {
	ID      uint                `json:"id"`
	Text    string              `json:"text"`
	Type    domain.QuestionType `json:"type"`
	Order   *int                `json:"order"`
	Options []optionView        `json:"options"`
}

type quizView struct {
	ID          uint           `json:"id"`
	CourseID    uint           `json:"course_id"`
	Title       string         `json:"title"`
	Section     string         `json:"section"`
	MaxAttempts int            `json:"max_attempts"`
	Questions   []questionView `json:"questions"`
}

type sessionView struct {
	Quiz         quizView            `json:"quiz"`
	AttemptsUsed int                 `json:"attempts_used"`
	AttemptsLeft int                 `json:"attempts_left"`
	LastAttempt  *domain.QuizAttempt `json:"last_attempt,omitempty"`
}

func newQuizView(q *domain.Quiz) quizView {
	v := quizView{
		ID:          q.ID,
		CourseID:    q.CourseID,
		Title:       q.Title,
		Section:     q.Section,
		MaxAttempts: q.MaxAttempts,
		Questions:   make([]questionView, 0, len(q.Questions)),
	}
	for _, question := range q.Questions {
		qv := questionView{
			ID:      question.ID,
			Text:    question.Text,
			Type:    question.Type,
			Order:   question.Order,
			Options: make([]optionView, 0, len(question.Options)),
		}
		for _, o := range question.Options {
			qv.Options = append(qv.Options, optionView{ID: o.ID, Text: o.Text, Order: o.Order})
		}
		v.Questions = append(v.Questions, qv)
	}
	return v
}

func newSessionView(s *usecase.QuizSession) sessionView {
	return sessionView{
		Quiz:         newQuizView(s.Quiz),
		AttemptsUsed: s.AttemptsUsed,
		AttemptsLeft: s.AttemptsLeft,
		LastAttempt:  s.LastAttempt,
	}
}
