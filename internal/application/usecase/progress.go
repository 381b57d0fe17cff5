package usecase

import (
	"context"
	"time"

	"coursestream/internal/domain"
	"coursestream/internal/infrastructure/logger"
	"coursestream/internal/infrastructure/repository"

	"github.com/pkg/errors"
)

// AutoCompleteRatio is the share of a video that counts as watched.
const AutoCompleteRatio = 0.95

type CourseProgress struct {
	TotalVideos     int                    `json:"total_videos"`
	CompletedVideos int                    `json:"completed_videos"`
	Percent         int                    `json:"percent"`
	Resume          *domain.VideoProgress  `json:"resume,omitempty"`
	Videos          []domain.VideoProgress `json:"videos"`
}

type ProgressUseCase struct {
	progress     *repository.ProgressRepository
	content      *repository.ContentRepository
	guard        *AccessGuard
	certificates certificateIssuer
	log          *logger.Logger
	now          func() time.Time
}

func NewProgressUseCase(
	pr *repository.ProgressRepository,
	ctr *repository.ContentRepository,
	g *AccessGuard,
	ci certificateIssuer,
	l *logger.Logger,
) *ProgressUseCase {
	return &ProgressUseCase{
		progress:     pr,
		content:      ctr,
		guard:        g,
		certificates: ci,
		log:          l,
		now:          time.Now,
	}
}

func (uc *ProgressUseCase) video(ctx context.Context, actor domain.Actor, courseID, videoID uint) (*domain.Video, error) {
	if _, err := uc.guard.Check(ctx, actor, courseID); err != nil {
		return nil, err
	}
	v, err := uc.content.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if v.CourseID != courseID {
		return nil, domain.ErrVideoNotFound
	}
	return v, nil
}

// complete flags p as done once; it reports whether p changed.
func (uc *ProgressUseCase) complete(p *domain.VideoProgress) bool {
	if p.Completed {
		return false
	}
	now := uc.now()
	p.Completed = true
	p.CompletedAt = &now
	return true
}

// SavePosition records where the learner is in a video. Reaching 95% of a
// video with a known duration completes it.
func (uc *ProgressUseCase) SavePosition(ctx context.Context, actor domain.Actor, courseID, videoID uint, position float64) (*domain.VideoProgress, error) {
	v, err := uc.video(ctx, actor, courseID, videoID)
	if err != nil {
		return nil, err
	}
	if position < 0 {
		position = 0
	}

	p, err := uc.progress.GetOrNew(ctx, actor.UserID, courseID, videoID)
	if err != nil {
		return nil, errors.Wrap(err, "loading progress")
	}
	p.PositionSeconds = position

	justCompleted := false
	if v.DurationSeconds > 0 && position >= float64(v.DurationSeconds)*AutoCompleteRatio {
		justCompleted = uc.complete(p)
	}
	if err := uc.progress.Upsert(ctx, p); err != nil {
		return nil, errors.Wrap(err, "saving progress")
	}

	if justCompleted {
		uc.certificates.AutoIssue(ctx, actor.UserID, courseID)
	}
	return p, nil
}

// MarkComplete is idempotent; the completion time is kept from the first call.
func (uc *ProgressUseCase) MarkComplete(ctx context.Context, actor domain.Actor, courseID, videoID uint) (*domain.VideoProgress, error) {
	if _, err := uc.video(ctx, actor, courseID, videoID); err != nil {
		return nil, err
	}

	p, err := uc.progress.GetOrNew(ctx, actor.UserID, courseID, videoID)
	if err != nil {
		return nil, errors.Wrap(err, "loading progress")
	}
	if !uc.complete(p) {
		return p, nil
	}
	if err := uc.progress.Upsert(ctx, p); err != nil {
		return nil, errors.Wrap(err, "saving progress")
	}

	uc.log.Debug("video completed", "user", actor.UserID, "course", courseID, "video", videoID)
	uc.certificates.AutoIssue(ctx, actor.UserID, courseID)
	return p, nil
}

// Resume returns the video the learner touched last, nil when none.
func (uc *ProgressUseCase) Resume(ctx context.Context, actor domain.Actor, courseID uint) (*domain.VideoProgress, error) {
	if _, err := uc.guard.Check(ctx, actor, courseID); err != nil {
		return nil, err
	}
	p, err := uc.progress.Latest(ctx, actor.UserID, courseID)
	if errors.Is(err, domain.ErrNoProgress) {
		return nil, nil
	}
	return p, err
}

func (uc *ProgressUseCase) Summary(ctx context.Context, actor domain.Actor, courseID uint) (*CourseProgress, error) {
	resume, err := uc.Resume(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}
	videos, err := uc.content.Videos(ctx, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "loading videos")
	}
	rows, err := uc.progress.ForCourse(ctx, actor.UserID, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "loading progress")
	}

	exists := make(map[uint]bool, len(videos))
	for _, v := range videos {
		exists[v.ID] = true
	}
	summary := &CourseProgress{TotalVideos: len(videos), Resume: resume, Videos: []domain.VideoProgress{}}
	for _, r := range rows {
		if !exists[r.VideoID] {
			continue
		}
		summary.Videos = append(summary.Videos, r)
		if r.Completed {
			summary.CompletedVideos++
		}
	}
	summary.Percent = domain.Percent(summary.CompletedVideos, summary.TotalVideos)
	if summary.Percent > 100 {
		summary.Percent = 100
	}
	return summary, nil
}

// Completed lists the completed videos of a course.
func (uc *ProgressUseCase) Completed(ctx context.Context, actor domain.Actor, courseID uint) ([]domain.VideoProgress, error) {
	summary, err := uc.Summary(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}
	done := make([]domain.VideoProgress, 0, summary.CompletedVideos)
	for _, p := range summary.Videos {
		if p.Completed {
			done = append(done, p)
		}
	}
	return done, nil
}
