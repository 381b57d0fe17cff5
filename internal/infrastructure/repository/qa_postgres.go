package repository

import (
	"context"
	"errors"
	"time"

	"coursestream/internal/domain"

	"gorm.io/gorm"
)

type QARepository struct {
	db *gorm.DB
}

func NewQARepository(db *gorm.DB) *QARepository {
	return &QARepository{db: db}
}

func repliesInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("created_at asc, id asc")
}

// pendingScope keeps open questions no instructor has answered yet.
func pendingScope(db *gorm.DB) *gorm.DB {
	return db.Where("closed = ?", false).
		Where("NOT EXISTS (SELECT 1 FROM video_replies WHERE video_replies.question_id = video_questions.id AND video_replies.from_instructor = ?)", true)
}

func (r *QARepository) CreateQuestion(ctx context.Context, q *domain.VideoQuestion) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *QARepository) GetQuestion(ctx context.Context, id uint) (*domain.VideoQuestion, error) {
	var q domain.VideoQuestion
	err := r.db.WithContext(ctx).Preload("Replies", repliesInOrder).First(&q, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, err
	}
	return &q, nil
}

// ListForVideo returns the questions under a video, newest first.
func (r *QARepository) ListForVideo(ctx context.Context, courseID, videoID uint) ([]domain.VideoQuestion, error) {
	var questions []domain.VideoQuestion
	err := r.db.WithContext(ctx).
		Preload("Replies", repliesInOrder).
		Where("course_id = ? AND video_id = ?", courseID, videoID).
		Order("created_at desc, id desc").
		Find(&questions).Error
	return questions, err
}

func (r *QARepository) CreateReply(ctx context.Context, reply *domain.VideoReply) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reply).Error; err != nil {
			return err
		}
		return tx.Model(&domain.VideoQuestion{}).
			Where("id = ?", reply.QuestionID).
			Update("updated_at", time.Now()).Error
	})
}

func (r *QARepository) SetClosed(ctx context.Context, id uint, closed bool) error {
	result := r.db.WithContext(ctx).Model(&domain.VideoQuestion{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"closed": closed, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

// Pending lists unanswered open questions, oldest first.
func (r *QARepository) Pending(ctx context.Context) ([]domain.VideoQuestion, error) {
	var questions []domain.VideoQuestion
	err := r.db.WithContext(ctx).
		Scopes(pendingScope).
		Preload("Replies", repliesInOrder).
		Order("created_at asc, id asc").
		Find(&questions).Error
	return questions, err
}

func (r *QARepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.VideoQuestion{}).
		Scopes(pendingScope).
		Count(&count).Error
	return count, err
}
