package repository

import (
	"context"
	"sync"
	"testing"

	"coursestream/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedQuiz(t *testing.T, repo *QuizRepository, courseID uint, section string, maxAttempts int) *domain.Quiz {
	q := &domain.Quiz{CourseID: courseID, Title: "Quiz " + section, Section: section, MaxAttempts: maxAttempts, Active: true}
	require.NoError(t, repo.CreateQuiz(context.Background(), q))
	return q
}

func TestQuizRepository_SectionUnique(t *testing.T) {
	db := newDB(t)
	repo := NewQuizRepository(db)
	course := seedCourse(t, db, "Go")

	seedQuiz(t, repo, course.ID, "Intro", 1)
	err := repo.CreateQuiz(context.Background(), &domain.Quiz{CourseID: course.ID, Title: "dup", Section: "Intro", MaxAttempts: 1})
	assert.ErrorIs(t, err, domain.ErrSectionTaken)

	found, err := repo.FindBySection(context.Background(), course.ID, "Intro")
	require.NoError(t, err)
	assert.Equal(t, "Quiz Intro", found.Title)

	_, err = repo.FindBySection(context.Background(), course.ID, "Other")
	assert.ErrorIs(t, err, domain.ErrQuizNotFound)
}

func TestQuizRepository_GetQuizOrdersQuestionsAndOptions(t *testing.T) {
	db := newDB(t)
	repo := NewQuizRepository(db)
	ctx := context.Background()
	course := seedCourse(t, db, "Go")
	quiz := seedQuiz(t, repo, course.ID, "Intro", 1)

	second := &domain.QuizQuestion{QuizID: quiz.ID, Text: "second", Type: domain.QuestionSingle, Order: intp(2)}
	first := &domain.QuizQuestion{QuizID: quiz.ID, Text: "first", Type: domain.QuestionSingle, Order: intp(1)}
	last := &domain.QuizQuestion{QuizID: quiz.ID, Text: "last", Type: domain.QuestionMultiple}
	for _, q := range []*domain.QuizQuestion{second, first, last} {
		require.NoError(t, repo.CreateQuestion(ctx, q))
	}
	require.NoError(t, repo.SaveOption(ctx, &domain.QuizOption{QuestionID: first.ID, Text: "b", Order: intp(2)}, false))
	require.NoError(t, repo.SaveOption(ctx, &domain.QuizOption{QuestionID: first.ID, Text: "a", Order: intp(1)}, false))

	got, err := repo.GetQuiz(ctx, quiz.ID)
	require.NoError(t, err)
	require.Len(t, got.Questions, 3)
	assert.Equal(t, "first", got.Questions[0].Text)
	assert.Equal(t, "second", got.Questions[1].Text)
	assert.Equal(t, "last", got.Questions[2].Text)
	require.Len(t, got.Questions[0].Options, 2)
	assert.Equal(t, "a", got.Questions[0].Options[0].Text)

	_, err = repo.GetQuiz(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrQuizNotFound)
}

func TestQuizRepository_SaveOptionExclusive(t *testing.T) {
	db := newDB(t)
	repo := NewQuizRepository(db)
	ctx := context.Background()
	course := seedCourse(t, db, "Go")
	quiz := seedQuiz(t, repo, course.ID, "Intro", 1)

	q := &domain.QuizQuestion{QuizID: quiz.ID, Text: "pick one", Type: domain.QuestionSingle}
	require.NoError(t, repo.CreateQuestion(ctx, q))

	a := &domain.QuizOption{QuestionID: q.ID, Text: "a", Correct: true}
	require.NoError(t, repo.SaveOption(ctx, a, true))
	b := &domain.QuizOption{QuestionID: q.ID, Text: "b", Correct: true}
	require.NoError(t, repo.SaveOption(ctx, b, true))

	got, err := repo.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Len(t, got.CorrectOptionIDs(), 1)
	assert.Contains(t, got.CorrectOptionIDs(), b.ID)

	require.NoError(t, repo.DeleteQuestion(ctx, q.ID))
	_, err = repo.GetOption(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrOptionNotFound)
}

func TestQuizRepository_CreateAttemptBounded(t *testing.T) {
	db := newDB(t)
	repo := NewQuizRepository(db)
	ctx := context.Background()
	course := seedCourse(t, db, "Go")
	u := seedUser(t, db, "ana")
	quiz := seedQuiz(t, repo, course.ID, "Intro", 2)

	optionID := uint(1)
	for i := 1; i <= 2; i++ {
		a := &domain.QuizAttempt{QuizID: quiz.ID, UserID: u.ID, Score: i, TotalQuestions: 2,
			Answers: []domain.QuizAnswer{{QuestionID: 1, OptionID: &optionID, Correct: true}}}
		require.NoError(t, repo.CreateAttempt(ctx, a, quiz.MaxAttempts))
		assert.Equal(t, i, a.Number)
	}

	err := repo.CreateAttempt(ctx, &domain.QuizAttempt{QuizID: quiz.ID, UserID: u.ID}, quiz.MaxAttempts)
	assert.ErrorIs(t, err, domain.ErrAttemptsExhausted)

	attempts, err := repo.Attempts(ctx, quiz.ID, u.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, 2, attempts[0].Number)

	latest, err := repo.LatestAttempt(ctx, quiz.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Number)
	require.Len(t, latest.Answers, 1)
	assert.Equal(t, optionID, *latest.Answers[0].OptionID)

	byQuiz, err := repo.AttemptsByQuiz(ctx, u.ID, []uint{quiz.ID, 999})
	require.NoError(t, err)
	assert.Len(t, byQuiz[quiz.ID], 2)
	assert.Empty(t, byQuiz[999])
}

func TestQuizRepository_ConcurrentAttemptsNeverExceedMax(t *testing.T) {
	db := newDB(t)
	repo := NewQuizRepository(db)
	course := seedCourse(t, db, "Go")
	u := seedUser(t, db, "ana")
	quiz := seedQuiz(t, repo, course.ID, "Intro", 3)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.CreateAttempt(context.Background(), &domain.QuizAttempt{QuizID: quiz.ID, UserID: u.ID}, quiz.MaxAttempts)
		}()
	}
	wg.Wait()

	count, err := repo.CountAttempts(context.Background(), quiz.ID, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestQuizRepository_NoAttempts(t *testing.T) {
	db := newDB(t)
	repo := NewQuizRepository(db)
	u := seedUser(t, db, "ana")

	_, err := repo.LatestAttempt(context.Background(), 1, u.ID)
	assert.ErrorIs(t, err, domain.ErrNoAttempts)
}
