package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"coursestream/internal/domain"
	"coursestream/internal/infrastructure/cache"
	"coursestream/internal/infrastructure/logger"
	"coursestream/internal/infrastructure/ratelimit"
	"coursestream/internal/infrastructure/repository"
	"coursestream/internal/infrastructure/security"
	"coursestream/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentMail struct {
	to, name, token string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeSender) SendPasswordReset(_ context.Context, to, name, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, name: name, token: token})
	return nil
}

type env struct {
	db   *gorm.DB
	mr   *miniredis.Miniredis
	mail *fakeSender

	auth     *AuthUseCase
	admin    *UserAdminUseCase
	courses  *CourseUseCase
	quizzes  *QuizUseCase
	progress *ProgressUseCase
	certs    *CertificateUseCase
	qa       *QAUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := testutil.NewDB(t)
	require.NoError(t, repository.Migrate(db))
	rdb, mr := testutil.NewRedis(t)
	log := logger.Discard()

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db, rdb)
	enrollRepo := repository.NewEnrollmentRepository(db)
	contentRepo := repository.NewContentRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	certRepo := repository.NewCertificateRepository(db)
	qaRepo := repository.NewQARepository(db)

	guard := NewAccessGuard(courseRepo, enrollRepo)
	mail := &fakeSender{}
	certs := NewCertificateUseCase(certRepo, contentRepo, quizRepo, progressRepo, guard, domain.DefaultCertificateMinScore, log)

	return &env{
		db:   db,
		mr:   mr,
		mail: mail,
		auth: NewAuthUseCase(userRepo, cache.NewTokenCache(rdb), security.NewFastHasher(),
			security.NewTokenManager("access", "refresh"), mail, ratelimit.NewAttemptLimiter(), log),
		admin:    NewUserAdminUseCase(userRepo, log),
		courses:  NewCourseUseCase(courseRepo, enrollRepo, contentRepo, quizRepo, guard, log),
		quizzes:  NewQuizUseCase(quizRepo, courseRepo, guard, certs, domain.DefaultPassThreshold, log),
		progress: NewProgressUseCase(progressRepo, contentRepo, guard, certs, log),
		certs:    certs,
		qa:       NewQAUseCase(qaRepo, contentRepo, guard, log),
	}
}

func (e *env) register(t *testing.T, username string) domain.Actor {
	t.Helper()
	u, err := e.auth.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	return domain.Actor{UserID: u.ID, Role: u.Role}
}

// course creates an active course with two videos of 100 seconds.
func (e *env) course(t *testing.T) (*domain.Course, []*domain.Video) {
	t.Helper()
	ctx := context.Background()

	c, err := e.courses.Create(ctx, CourseInput{Title: "Go"})
	require.NoError(t, err)

	var videos []*domain.Video
	for _, title := range []string{"Intro", "Types"} {
		v, err := e.courses.AddVideo(ctx, c.ID, VideoInput{Title: title, URL: "https://cdn/" + title, Section: "Basics", DurationSeconds: 100})
		require.NoError(t, err)
		videos = append(videos, v)
	}
	return c, videos
}

// quiz builds a one-question single-choice quiz and returns the right and
// wrong option ids.
func (e *env) quiz(t *testing.T, courseID uint, section string, maxAttempts int) (*domain.Quiz, uint, uint) {
	t.Helper()
	ctx := context.Background()

	q, err := e.quizzes.CreateQuiz(ctx, courseID, QuizInput{Title: "Check " + section, Section: section, MaxAttempts: maxAttempts})
	require.NoError(t, err)
	question, err := e.quizzes.AddQuestion(ctx, courseID, q.ID, QuestionInput{Text: "2+2?", Type: domain.QuestionSingle})
	require.NoError(t, err)
	right, err := e.quizzes.AddOption(ctx, courseID, q.ID, question.ID, OptionInput{Text: "4", Correct: true})
	require.NoError(t, err)
	wrong, err := e.quizzes.AddOption(ctx, courseID, q.ID, question.ID, OptionInput{Text: "5"})
	require.NoError(t, err)

	q, err = e.quizzes.Quiz(ctx, courseID, q.ID)
	require.NoError(t, err)
	return q, right.ID, wrong.ID
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

