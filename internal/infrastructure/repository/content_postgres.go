package repository

import (
	"context"
	"errors"

	"coursestream/internal/domain"

	"gorm.io/gorm"
)

// ContentRepository stores the videos and PDF materials of courses.
type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) CreateVideo(ctx context.Context, v *domain.Video) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *ContentRepository) UpdateVideo(ctx context.Context, v *domain.Video) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *ContentRepository) GetVideo(ctx context.Context, id uint) (*domain.Video, error) {
	var v domain.Video
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVideoNotFound
		}
		return nil, err
	}
	return &v, nil
}

// DeleteVideo removes the video and the watch progress attached to it.
func (r *ContentRepository) DeleteVideo(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ?", id).Delete(&domain.VideoProgress{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Video{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrVideoNotFound
		}
		return nil
	})
}

func (r *ContentRepository) Videos(ctx context.Context, courseID uint) ([]domain.Video, error) {
	var videos []domain.Video
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order(orderBySort).
		Find(&videos).Error
	return videos, err
}

// ReorderVideos gives the listed videos positions 1..n. Ids from other
// courses are left alone.
func (r *ContentRepository) ReorderVideos(ctx context.Context, courseID uint, ids []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			err := tx.Model(&domain.Video{}).
				Where("id = ? AND course_id = ?", id, courseID).
				Update("sort_order", i+1).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ContentRepository) CreatePDF(ctx context.Context, p *domain.MaterialPDF) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ContentRepository) UpdatePDF(ctx context.Context, p *domain.MaterialPDF) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ContentRepository) GetPDF(ctx context.Context, id uint) (*domain.MaterialPDF, error) {
	var p domain.MaterialPDF
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPDFNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ContentRepository) DeletePDF(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.MaterialPDF{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrPDFNotFound
	}
	return nil
}

func (r *ContentRepository) PDFs(ctx context.Context, courseID uint) ([]domain.MaterialPDF, error) {
	var pdfs []domain.MaterialPDF
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order(orderBySort).
		Find(&pdfs).Error
	return pdfs, err
}
