package repository

import (
	"context"

	"coursestream/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Enroll is idempotent.
func (r *EnrollmentRepository) Enroll(ctx context.Context, userID uuid.UUID, courseID uint) error {
	e := domain.Enrollment{UserID: userID, CourseID: courseID}
	return r.db.WithContext(ctx).
		Where(domain.Enrollment{UserID: userID, CourseID: courseID}).
		FirstOrCreate(&e).Error
}

func (r *EnrollmentRepository) Cancel(ctx context.Context, userID uuid.UUID, courseID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&domain.Enrollment{}).Error
}

func (r *EnrollmentRepository) IsEnrolled(ctx context.Context, userID uuid.UUID, courseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

// Courses lists the courses a user is enrolled in, most recent first.
func (r *EnrollmentRepository) Courses(ctx context.Context, userID uuid.UUID) ([]domain.Course, error) {
	var courses []domain.Course
	err := r.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.user_id = ?", userID).
		Order("enrollments.created_at desc").
		Find(&courses).Error
	return courses, err
}
