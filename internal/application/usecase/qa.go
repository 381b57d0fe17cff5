package usecase

import (
	"context"
	"strings"

	"coursestream/internal/domain"
	"coursestream/internal/infrastructure/logger"
	"coursestream/internal/infrastructure/repository"

	"github.com/pkg/errors"
)

type QAUseCase struct {
	qa      *repository.QARepository
	content *repository.ContentRepository
	guard   *AccessGuard
	log     *logger.Logger
}

func NewQAUseCase(qr *repository.QARepository, ctr *repository.ContentRepository, g *AccessGuard, l *logger.Logger) *QAUseCase {
	return &QAUseCase{qa: qr, content: ctr, guard: g, log: l}
}

func (uc *QAUseCase) courseVideo(ctx context.Context, actor domain.Actor, courseID, videoID uint) error {
	if _, err := uc.guard.Check(ctx, actor, courseID); err != nil {
		return err
	}
	v, err := uc.content.GetVideo(ctx, videoID)
	if err != nil {
		return err
	}
	if v.CourseID != courseID {
		return domain.ErrVideoNotFound
	}
	return nil
}

func (uc *QAUseCase) Ask(ctx context.Context, actor domain.Actor, courseID, videoID uint, title, body string) (*domain.VideoQuestion, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" {
		return nil, domain.Invalid("title", "is required")
	}
	if body == "" {
		return nil, domain.Invalid("body", "is required")
	}
	if err := uc.courseVideo(ctx, actor, courseID, videoID); err != nil {
		return nil, err
	}

	q := &domain.VideoQuestion{CourseID: courseID, VideoID: videoID, UserID: actor.UserID, Title: title, Body: body}
	if err := uc.qa.CreateQuestion(ctx, q); err != nil {
		return nil, errors.Wrap(err, "creating question")
	}
	return q, nil
}

func (uc *QAUseCase) Reply(ctx context.Context, actor domain.Actor, courseID, videoID, questionID uint, body string) (*domain.VideoReply, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.Invalid("body", "is required")
	}
	if _, err := uc.guard.Check(ctx, actor, courseID); err != nil {
		return nil, err
	}

	q, err := uc.qa.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q.CourseID != courseID || q.VideoID != videoID {
		return nil, domain.ErrQuestionNotFound
	}
	if q.Closed {
		return nil, domain.ErrQuestionClosed
	}

	reply := &domain.VideoReply{QuestionID: q.ID, UserID: actor.UserID, Body: body, FromInstructor: actor.IsAdmin()}
	if err := uc.qa.CreateReply(ctx, reply); err != nil {
		return nil, errors.Wrap(err, "creating reply")
	}
	return reply, nil
}

func (uc *QAUseCase) ListForVideo(ctx context.Context, actor domain.Actor, courseID, videoID uint) ([]domain.VideoQuestion, error) {
	if err := uc.courseVideo(ctx, actor, courseID, videoID); err != nil {
		return nil, err
	}
	questions, err := uc.qa.ListForVideo(ctx, courseID, videoID)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []domain.VideoQuestion{}
	}
	return questions, nil
}

func (uc *QAUseCase) SetClosed(ctx context.Context, questionID uint, closed bool) error {
	return uc.qa.SetClosed(ctx, questionID, closed)
}

func (uc *QAUseCase) Pending(ctx context.Context) ([]domain.VideoQuestion, error) {
	questions, err := uc.qa.Pending(ctx)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []domain.VideoQuestion{}
	}
	return questions, nil
}

func (uc *QAUseCase) CountPending(ctx context.Context) (int64, error) {
	return uc.qa.CountPending(ctx)
}
