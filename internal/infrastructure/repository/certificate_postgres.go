package repository

import (
	"context"
	"errors"

	"coursestream/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CertificateRepository struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

// Create stores c. When the user already holds a certificate for the course
// the stored one is loaded into c instead.
func (r *CertificateRepository) Create(ctx context.Context, c *domain.Certificate) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		existing, getErr := r.GetByUserCourse(ctx, c.UserID, c.CourseID)
		if getErr != nil {
			return err
		}
		*c = *existing
		return nil
	}
	return err
}

func (r *CertificateRepository) GetByUserCourse(ctx context.Context, userID uuid.UUID, courseID uint) (*domain.Certificate, error) {
	return r.first(ctx, "user_id = ? AND course_id = ?", userID, courseID)
}

func (r *CertificateRepository) GetByCode(ctx context.Context, code string) (*domain.Certificate, error) {
	return r.first(ctx, "code = ?", code)
}

func (r *CertificateRepository) first(ctx context.Context, query string, args ...interface{}) (*domain.Certificate, error) {
	var c domain.Certificate
	err := r.db.WithContext(ctx).Preload("Course").Where(query, args...).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCertificateNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CertificateRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Certificate, error) {
	var certs []domain.Certificate
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("issued_at desc").
		Find(&certs).Error
	return certs, err
}
