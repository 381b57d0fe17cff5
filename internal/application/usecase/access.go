package usecase

import (
	"context"

	"coursestream/internal/domain"
	"coursestream/internal/infrastructure/repository"
)

// AccessGuard decides who may see the content of a course: administrators
// always, learners once enrolled in an active course.
type AccessGuard struct {
	courses     *repository.CourseRepository
	enrollments *repository.EnrollmentRepository
}

func NewAccessGuard(courses *repository.CourseRepository, enrollments *repository.EnrollmentRepository) *AccessGuard {
	return &AccessGuard{courses: courses, enrollments: enrollments}
}

func (g *AccessGuard) Check(ctx context.Context, actor domain.Actor, courseID uint) (*domain.Course, error) {
	course, err := g.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return course, nil
	}
	if !course.Active {
		return nil, domain.ErrCourseInactive
	}
	enrolled, err := g.enrollments.IsEnrolled(ctx, actor.UserID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, domain.ErrNotEnrolled
	}
	return course, nil
}
