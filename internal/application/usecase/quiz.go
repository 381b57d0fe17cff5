package usecase

import (
	"context"
	"strings"

	"coursestream/internal/domain"
	"coursestream/internal/infrastructure/logger"
	"coursestream/internal/infrastructure/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type certificateIssuer interface {
	AutoIssue(ctx context.Context, userID uuid.UUID, courseID uint)
}

type QuizInput struct {
	Title       string
	Section     string
	MaxAttempts int
	Active      *bool
}

type QuestionInput struct {
	Text  string
	Type  domain.QuestionType
	Order *int
}

type OptionInput struct {
	Text    string
	Correct bool
	Order   *int
}

// QuizSession is what a learner sees before answering.
type QuizSession struct {
	Quiz         *domain.Quiz        `json:"quiz"`
	AttemptsUsed int                 `json:"attempts_used"`
	AttemptsLeft int                 `json:"attempts_left"`
	LastAttempt  *domain.QuizAttempt `json:"last_attempt,omitempty"`
}

type SubmitResult struct {
	Attempt      *domain.QuizAttempt `json:"attempt"`
	Percent      int                 `json:"percent"`
	Results      map[uint]bool       `json:"results"`
	AttemptsLeft int                 `json:"attempts_left"`
}

type QuestionReview struct {
	Question domain.QuizQuestion `json:"question"`
	Selected []uint              `json:"selected"`
	Correct  bool                `json:"correct"`
}

type AttemptReview struct {
	Attempt   *domain.QuizAttempt `json:"attempt"`
	Percent   int                 `json:"percent"`
	Questions []QuestionReview    `json:"questions"`
}

type QuizUseCase struct {
	quizzes       *repository.QuizRepository
	courses       *repository.CourseRepository
	guard         *AccessGuard
	certificates  certificateIssuer
	passThreshold int
	log           *logger.Logger
}

func NewQuizUseCase(
	qr *repository.QuizRepository,
	cr *repository.CourseRepository,
	g *AccessGuard,
	ci certificateIssuer,
	passThreshold int,
	l *logger.Logger,
) *QuizUseCase {
	return &QuizUseCase{
		quizzes:       qr,
		courses:       cr,
		guard:         g,
		certificates:  ci,
		passThreshold: passThreshold,
		log:           l,
	}
}

func normalizeQuiz(in QuizInput) (QuizInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Section = strings.TrimSpace(in.Section)
	if in.Title == "" {
		return in, domain.Invalid("title", "is required")
	}
	if in.Section == "" {
		return in, domain.Invalid("section", "is required")
	}
	if in.MaxAttempts < 1 {
		in.MaxAttempts = 1
	}
	return in, nil
}

// sectionFree reports ErrSectionTaken when another quiz of the course already
// uses section.
func (uc *QuizUseCase) sectionFree(ctx context.Context, courseID uint, section string, quizID uint) error {
	existing, err := uc.quizzes.FindBySection(ctx, courseID, section)
	if errors.Is(err, domain.ErrQuizNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != quizID {
		return domain.ErrSectionTaken
	}
	return nil
}

func (uc *QuizUseCase) CreateQuiz(ctx context.Context, courseID uint, in QuizInput) (*domain.Quiz, error) {
	in, err := normalizeQuiz(in)
	if err != nil {
		return nil, err
	}
	if _, err := uc.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	if err := uc.sectionFree(ctx, courseID, in.Section, 0); err != nil {
		return nil, err
	}

	q := &domain.Quiz{
		CourseID:    courseID,
		Title:       in.Title,
		Section:     in.Section,
		MaxAttempts: in.MaxAttempts,
		Active:      in.Active == nil || *in.Active,
	}
	if err := uc.quizzes.CreateQuiz(ctx, q); err != nil {
		return nil, err
	}
	uc.log.Info("quiz created", "course", courseID, "quiz", q.ID, "section", q.Section)
	return q, nil
}

func (uc *QuizUseCase) courseQuiz(ctx context.Context, courseID, quizID uint) (*domain.Quiz, error) {
	q, err := uc.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if q.CourseID != courseID {
		return nil, domain.ErrQuizNotFound
	}
	return q, nil
}

func (uc *QuizUseCase) UpdateQuiz(ctx context.Context, courseID, quizID uint, in QuizInput) (*domain.Quiz, error) {
	in, err := normalizeQuiz(in)
	if err != nil {
		return nil, err
	}
	q, err := uc.courseQuiz(ctx, courseID, quizID)
	if err != nil {
		return nil, err
	}
	if err := uc.sectionFree(ctx, courseID, in.Section, q.ID); err != nil {
		return nil, err
	}

	q.Title = in.Title
	q.Section = in.Section
	q.MaxAttempts = in.MaxAttempts
	if in.Active != nil {
		q.Active = *in.Active
	}
	if err := uc.quizzes.UpdateQuiz(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Quiz returns a quiz with answers flagged. Administrators only.
func (uc *QuizUseCase) Quiz(ctx context.Context, courseID, quizID uint) (*domain.Quiz, error) {
	return uc.courseQuiz(ctx, courseID, quizID)
}

func (uc *QuizUseCase) Quizzes(ctx context.Context, courseID uint) ([]domain.Quiz, error) {
	return uc.quizzes.QuizzesByCourse(ctx, courseID)
}

func normalizeQuestion(in QuestionInput) (QuestionInput, error) {
	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" {
		return in, domain.Invalid("text", "is required")
	}
	if in.Type == "" {
		in.Type = domain.QuestionSingle
	}
	if !in.Type.Valid() {
		return in, domain.Invalid("type", "must be single or multiple")
	}
	return in, nil
}

func (uc *QuizUseCase) AddQuestion(ctx context.Context, courseID, quizID uint, in QuestionInput) (*domain.QuizQuestion, error) {
	in, err := normalizeQuestion(in)
	if err != nil {
		return nil, err
	}
	if _, err := uc.courseQuiz(ctx, courseID, quizID); err != nil {
		return nil, err
	}
	q := &domain.QuizQuestion{QuizID: quizID, Text: in.Text, Type: in.Type, Order: in.Order}
	if err := uc.quizzes.CreateQuestion(ctx, q); err != nil {
		return nil, errors.Wrap(err, "creating question")
	}
	return q, nil
}

func (uc *QuizUseCase) quizQuestion(ctx context.Context, courseID, quizID, questionID uint) (*domain.QuizQuestion, error) {
	if _, err := uc.courseQuiz(ctx, courseID, quizID); err != nil {
		return nil, err
	}
	q, err := uc.quizzes.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q.QuizID != quizID {
		return nil, domain.ErrQuestionNotFound
	}
	return q, nil
}

func (uc *QuizUseCase) UpdateQuestion(ctx context.Context, courseID, quizID, questionID uint, in QuestionInput) (*domain.QuizQuestion, error) {
	in, err := normalizeQuestion(in)
	if err != nil {
		return nil, err
	}
	q, err := uc.quizQuestion(ctx, courseID, quizID, questionID)
	if err != nil {
		return nil, err
	}
	q.Text = in.Text
	q.Type = in.Type
	q.Order = in.Order
	if err := uc.quizzes.UpdateQuestion(ctx, q); err != nil {
		return nil, errors.Wrap(err, "updating question")
	}
	return q, nil
}

func (uc *QuizUseCase) DeleteQuestion(ctx context.Context, courseID, quizID, questionID uint) error {
	if _, err := uc.quizQuestion(ctx, courseID, quizID, questionID); err != nil {
		return err
	}
	return uc.quizzes.DeleteQuestion(ctx, questionID)
}

// AddOption adds an answer option. Marking it correct on a single-choice
// question clears the flag on the others.
func (uc *QuizUseCase) AddOption(ctx context.Context, courseID, quizID, questionID uint, in OptionInput) (*domain.QuizOption, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, domain.Invalid("text", "is required")
	}
	q, err := uc.quizQuestion(ctx, courseID, quizID, questionID)
	if err != nil {
		return nil, err
	}
	o := &domain.QuizOption{QuestionID: q.ID, Text: text, Correct: in.Correct, Order: in.Order}
	if err := uc.quizzes.SaveOption(ctx, o, q.Type == domain.QuestionSingle); err != nil {
		return nil, errors.Wrap(err, "saving option")
	}
	return o, nil
}

func (uc *QuizUseCase) UpdateOption(ctx context.Context, courseID, quizID, questionID, optionID uint, in OptionInput) (*domain.QuizOption, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, domain.Invalid("text", "is required")
	}
	q, err := uc.quizQuestion(ctx, courseID, quizID, questionID)
	if err != nil {
		return nil, err
	}
	o, err := uc.quizzes.GetOption(ctx, optionID)
	if err != nil {
		return nil, err
	}
	if o.QuestionID != q.ID {
		return nil, domain.ErrOptionNotFound
	}
	o.Text = text
	o.Correct = in.Correct
	o.Order = in.Order
	if err := uc.quizzes.SaveOption(ctx, o, q.Type == domain.QuestionSingle); err != nil {
		return nil, errors.Wrap(err, "saving option")
	}
	return o, nil
}

func (uc *QuizUseCase) DeleteOption(ctx context.Context, courseID, quizID, questionID, optionID uint) error {
	if _, err := uc.quizQuestion(ctx, courseID, quizID, questionID); err != nil {
		return err
	}
	o, err := uc.quizzes.GetOption(ctx, optionID)
	if err != nil {
		return err
	}
	if o.QuestionID != questionID {
		return domain.ErrOptionNotFound
	}
	return uc.quizzes.DeleteOption(ctx, optionID)
}

// playable loads a quiz the actor may answer.
func (uc *QuizUseCase) playable(ctx context.Context, actor domain.Actor, courseID, quizID uint) (*domain.Quiz, error) {
	if _, err := uc.guard.Check(ctx, actor, courseID); err != nil {
		return nil, err
	}
	q, err := uc.courseQuiz(ctx, courseID, quizID)
	if err != nil {
		return nil, err
	}
	if !q.Active {
		return nil, domain.ErrQuizInactive
	}
	return q, nil
}

func attemptsLeft(limit, used int) int {
	if left := limit - used; left > 0 {
		return left
	}
	return 0
}

func (uc *QuizUseCase) Session(ctx context.Context, actor domain.Actor, courseID, quizID uint) (*QuizSession, error) {
	q, err := uc.playable(ctx, actor, courseID, quizID)
	if err != nil {
		return nil, err
	}
	attempts, err := uc.quizzes.Attempts(ctx, quizID, actor.UserID)
	if err != nil {
		return nil, err
	}

	s := &QuizSession{
		Quiz:         q,
		AttemptsUsed: len(attempts),
		AttemptsLeft: attemptsLeft(q.MaxAttempts, len(attempts)),
	}
	if len(attempts) > 0 {
		s.LastAttempt = &attempts[0]
	}
	return s, nil
}

// Submit grades and stores an attempt, then tries to issue the course
// certificate.
func (uc *QuizUseCase) Submit(ctx context.Context, actor domain.Actor, courseID, quizID uint, selections map[uint][]uint) (*SubmitResult, error) {
	q, err := uc.playable(ctx, actor, courseID, quizID)
	if err != nil {
		return nil, err
	}

	grade := domain.GradeAttempt(q, selections, uc.passThreshold)
	attempt := &domain.QuizAttempt{
		QuizID:         q.ID,
		UserID:         actor.UserID,
		Score:          grade.Correct,
		TotalQuestions: grade.Total,
		Passed:         grade.Passed,
		Answers:        grade.Answers,
	}
	if err := uc.quizzes.CreateAttempt(ctx, attempt, q.MaxAttempts); err != nil {
		return nil, err
	}
	uc.log.Info("quiz attempt stored", "user", actor.UserID, "quiz", q.ID, "number", attempt.Number, "percent", grade.Percent)

	uc.certificates.AutoIssue(ctx, actor.UserID, courseID)

	return &SubmitResult{
		Attempt:      attempt,
		Percent:      grade.Percent,
		Results:      grade.Results,
		AttemptsLeft: attemptsLeft(q.MaxAttempts, attempt.Number),
	}, nil
}

func (uc *QuizUseCase) Attempts(ctx context.Context, actor domain.Actor, courseID, quizID uint) ([]domain.QuizAttempt, error) {
	if _, err := uc.guard.Check(ctx, actor, courseID); err != nil {
		return nil, err
	}
	if _, err := uc.courseQuiz(ctx, courseID, quizID); err != nil {
		return nil, err
	}
	attempts, err := uc.quizzes.Attempts(ctx, quizID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if attempts == nil {
		attempts = []domain.QuizAttempt{}
	}
	return attempts, nil
}

// Review pairs the latest attempt's selections with each question.
func (uc *QuizUseCase) Review(ctx context.Context, actor domain.Actor, courseID, quizID uint) (*AttemptReview, error) {
	if _, err := uc.guard.Check(ctx, actor, courseID); err != nil {
		return nil, err
	}
	q, err := uc.courseQuiz(ctx, courseID, quizID)
	if err != nil {
		return nil, err
	}
	attempt, err := uc.quizzes.LatestAttempt(ctx, quizID, actor.UserID)
	if err != nil {
		return nil, err
	}

	selected := make(map[uint][]uint)
	for _, a := range attempt.Answers {
		if a.OptionID != nil {
			selected[a.QuestionID] = append(selected[a.QuestionID], *a.OptionID)
		}
	}

	review := &AttemptReview{
		Attempt:   attempt,
		Percent:   domain.Percent(attempt.Score, attempt.TotalQuestions),
		Questions: make([]QuestionReview, 0, len(q.Questions)),
	}
	for _, question := range q.Questions {
		ids := selected[question.ID]
		if ids == nil {
			ids = []uint{}
		}
		set := make(map[uint]struct{}, len(ids))
		for _, id := range ids {
			set[id] = struct{}{}
		}
		review.Questions = append(review.Questions, QuestionReview{
			Question: question,
			Selected: ids,
			Correct:  domain.QuestionCorrect(question, set),
		})
	}
	return review, nil
}
