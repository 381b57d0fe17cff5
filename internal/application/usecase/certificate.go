package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"coursestream/internal/domain"
	"coursestream/internal/infrastructure/logger"
	"coursestream/internal/infrastructure/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

// CertificateStatus is either an issued certificate or the progress toward one.
type CertificateStatus struct {
	Certificate *domain.Certificate `json:"certificate,omitempty"`
	Eligibility *domain.Eligibility `json:"eligibility,omitempty"`
}

type CertificateUseCase struct {
	certs    *repository.CertificateRepository
	content  *repository.ContentRepository
	quizzes  *repository.QuizRepository
	progress *repository.ProgressRepository
	guard    *AccessGuard
	minScore float64
	log      *logger.Logger
	now      func() time.Time
}

func NewCertificateUseCase(
	cr *repository.CertificateRepository,
	ctr *repository.ContentRepository,
	qr *repository.QuizRepository,
	pr *repository.ProgressRepository,
	g *AccessGuard,
	minScore float64,
	l *logger.Logger,
) *CertificateUseCase {
	return &CertificateUseCase{
		certs:    cr,
		content:  ctr,
		quizzes:  qr,
		progress: pr,
		guard:    g,
		minScore: minScore,
		log:      l,
		now:      time.Now,
	}
}

func newCertificateCode() string {
	return "CERT-" + strings.ToUpper(uuid.NewString()[:8])
}

// Eligibility computes where a user stands on a course right now.
func (uc *CertificateUseCase) Eligibility(ctx context.Context, userID uuid.UUID, courseID uint) (*domain.Eligibility, error) {
	videos, err := uc.content.Videos(ctx, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "loading videos")
	}
	completed, err := uc.progress.CompletedVideoIDs(ctx, userID, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "loading progress")
	}
	quizzes, err := uc.quizzes.QuizzesByCourse(ctx, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "loading quizzes")
	}

	ids := make([]uint, 0, len(quizzes))
	for _, q := range quizzes {
		if q.Active {
			ids = append(ids, q.ID)
		}
	}
	attempts, err := uc.quizzes.AttemptsByQuiz(ctx, userID, ids)
	if err != nil {
		return nil, errors.Wrap(err, "loading attempts")
	}

	e := domain.ComputeEligibility(videos, completed, quizzes, attempts, uc.minScore)
	return &e, nil
}

func (uc *CertificateUseCase) Status(ctx context.Context, actor domain.Actor, courseID uint) (*CertificateStatus, error) {
	if _, err := uc.guard.Check(ctx, actor, courseID); err != nil {
		return nil, err
	}

	cert, err := uc.certs.GetByUserCourse(ctx, actor.UserID, courseID)
	if err == nil {
		return &CertificateStatus{Certificate: cert}, nil
	}
	if !errors.Is(err, domain.ErrCertificateNotFound) {
		return nil, err
	}

	e, err := uc.Eligibility(ctx, actor.UserID, courseID)
	if err != nil {
		return nil, err
	}
	return &CertificateStatus{Eligibility: e}, nil
}

func (uc *CertificateUseCase) Issue(ctx context.Context, actor domain.Actor, courseID uint) (*domain.Certificate, error) {
	if _, err := uc.guard.Check(ctx, actor, courseID); err != nil {
		return nil, err
	}
	return uc.issue(ctx, actor.UserID, courseID)
}

// AutoIssue issues the certificate when the user has just become eligible.
// Nothing is returned; failures are only logged.
func (uc *CertificateUseCase) AutoIssue(ctx context.Context, userID uuid.UUID, courseID uint) {
	cert, err := uc.issue(ctx, userID, courseID)
	switch {
	case errors.Is(err, domain.ErrNotEligible):
		uc.log.Debug("certificate not issued yet", "user", userID, "course", courseID)
	case err != nil:
		uc.log.Error("certificate auto-issue failed", err, "user", userID, "course", courseID)
	default:
		uc.log.Debug("certificate ready", "user", userID, "course", courseID, "code", cert.Code)
	}
}

func (uc *CertificateUseCase) issue(ctx context.Context, userID uuid.UUID, courseID uint) (*domain.Certificate, error) {
	existing, err := uc.certs.GetByUserCourse(ctx, userID, courseID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrCertificateNotFound) {
		return nil, err
	}

	e, err := uc.Eligibility(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !e.Eligible {
		return nil, domain.ErrNotEligible
	}

	snapshot, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, "encoding eligibility")
	}
	cert := &domain.Certificate{
		UserID:          userID,
		CourseID:        courseID,
		Code:            newCertificateCode(),
		IssuedAt:        uc.now(),
		AverageScore:    e.AverageScore,
		VideosCompleted: e.VideosCompleted,
		TotalVideos:     e.TotalVideos,
		QuizzesPassed:   e.QuizzesPassed,
		TotalQuizzes:    e.TotalQuizzes,
		Snapshot:        datatypes.JSON(snapshot),
	}
	if err := uc.certs.Create(ctx, cert); err != nil {
		return nil, errors.Wrap(err, "storing certificate")
	}
	uc.log.Info("certificate issued", "user", userID, "course", courseID, "code", cert.Code)
	return cert, nil
}

// Verify looks a certificate up by its public code.
func (uc *CertificateUseCase) Verify(ctx context.Context, code string) (*domain.Certificate, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, domain.ErrCertificateNotFound
	}
	return uc.certs.GetByCode(ctx, code)
}

func (uc *CertificateUseCase) Mine(ctx context.Context, userID uuid.UUID) ([]domain.Certificate, error) {
	certs, err := uc.certs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if certs == nil {
		certs = []domain.Certificate{}
	}
	return certs, nil
}
