package repository

import (
	"context"
	"errors"

	"coursestream/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetOrNew returns the stored progress for a video, or an unsaved record.
func (r *ProgressRepository) GetOrNew(ctx context.Context, userID uuid.UUID, courseID, videoID uint) (*domain.VideoProgress, error) {
	var p domain.VideoProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ? AND video_id = ?", userID, courseID, videoID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.VideoProgress{UserID: userID, CourseID: courseID, VideoID: videoID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert writes p keyed by (user, course, video) and reloads the stored row
// into it. A completed row stays completed and keeps its first CompletedAt.
func (r *ProgressRepository) Upsert(ctx context.Context, p *domain.VideoProgress) error {
	row := domain.VideoProgress{
		UserID:          p.UserID,
		CourseID:        p.CourseID,
		VideoID:         p.VideoID,
		PositionSeconds: p.PositionSeconds,
		Completed:       p.Completed,
		CompletedAt:     p.CompletedAt,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "course_id"}, {Name: "video_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"position_seconds": gorm.Expr("excluded.position_seconds"),
			"completed":        gorm.Expr("video_progress.completed OR excluded.completed"),
			"completed_at":     gorm.Expr("COALESCE(video_progress.completed_at, excluded.completed_at)"),
			"updated_at":       gorm.Expr("excluded.updated_at"),
		}),
	}).Create(&row).Error
	if err != nil {
		return err
	}

	var stored domain.VideoProgress
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ? AND video_id = ?", p.UserID, p.CourseID, p.VideoID).
		First(&stored).Error
	if err != nil {
		return err
	}
	*p = stored
	return nil
}

// Latest returns the progress updated most recently within a course.
func (r *ProgressRepository) Latest(ctx context.Context, userID uuid.UUID, courseID uint) (*domain.VideoProgress, error) {
	var p domain.VideoProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("updated_at desc, id desc").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoProgress
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProgressRepository) ForCourse(ctx context.Context, userID uuid.UUID, courseID uint) ([]domain.VideoProgress, error) {
	var rows []domain.VideoProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("video_id asc").
		Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) CompletedVideoIDs(ctx context.Context, userID uuid.UUID, courseID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&domain.VideoProgress{}).
		Where("user_id = ? AND course_id = ? AND completed = ?", userID, courseID, true).
		Pluck("video_id", &ids).Error
	if err != nil {
		return nil, err
	}
	done := make(map[uint]bool, len(ids))
	for _, id := range ids {
		done[id] = true
	}
	return done, nil
}
