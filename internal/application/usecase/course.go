package usecase

import (
	"context"
	"strings"

	"coursestream/internal/domain"
	"coursestream/internal/infrastructure/logger"
	"coursestream/internal/infrastructure/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

type CourseInput struct {
	Title       string
	Description string
	Category    string
	CoverURL    string
}

type VideoInput struct {
	Title           string
	Description     string
	URL             string
	Section         string
	Order           *int
	DurationSeconds int
}

type PDFInput struct {
	Title   string
	FileURL string
	Section string
	Order   *int
}

type CoursePage struct {
	Courses []domain.Course `json:"courses"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Size    int             `json:"size"`
}

type CourseUseCase struct {
	courses     *repository.CourseRepository
	enrollments *repository.EnrollmentRepository
	content     *repository.ContentRepository
	quizzes     *repository.QuizRepository
	guard       *AccessGuard
	log         *logger.Logger
}

func NewCourseUseCase(
	cr *repository.CourseRepository,
	er *repository.EnrollmentRepository,
	ctr *repository.ContentRepository,
	qr *repository.QuizRepository,
	g *AccessGuard,
	l *logger.Logger,
) *CourseUseCase {
	return &CourseUseCase{
		courses:     cr,
		enrollments: er,
		content:     ctr,
		quizzes:     qr,
		guard:       g,
		log:         l,
	}
}

func pageBounds(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

// List pages through courses. A nil active lists every course regardless of
// status.
func (uc *CourseUseCase) List(ctx context.Context, search, category string, active *bool, page, size int) (*CoursePage, error) {
	page, size = pageBounds(page, size)
	filter := repository.CourseFilter{Search: search, Category: category, Active: active}

	courses, total, err := uc.courses.List(ctx, filter, size, (page-1)*size)
	if err != nil {
		return nil, errors.Wrap(err, "listing courses")
	}
	if courses == nil {
		courses = []domain.Course{}
	}
	return &CoursePage{Courses: courses, Total: total, Page: page, Size: size}, nil
}

// Get returns a course. Disabled courses are only visible to administrators.
func (uc *CourseUseCase) Get(ctx context.Context, actor *domain.Actor, id uint) (*domain.Course, error) {
	course, err := uc.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !course.Active && (actor == nil || !actor.IsAdmin()) {
		return nil, domain.ErrCourseNotFound
	}
	return course, nil
}

func validateCourse(in CourseInput) (CourseInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	if in.Title == "" {
		return in, domain.Invalid("title", "is required")
	}
	return in, nil
}

func (uc *CourseUseCase) Create(ctx context.Context, in CourseInput) (*domain.Course, error) {
	in, err := validateCourse(in)
	if err != nil {
		return nil, err
	}
	course := &domain.Course{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		CoverURL:    in.CoverURL,
		Active:      true,
	}
	if err := uc.courses.Create(ctx, course); err != nil {
		return nil, errors.Wrap(err, "creating course")
	}
	uc.log.Info("course created", "course", course.ID)
	return course, nil
}

func (uc *CourseUseCase) Update(ctx context.Context, id uint, in CourseInput) (*domain.Course, error) {
	in, err := validateCourse(in)
	if err != nil {
		return nil, err
	}
	course, err := uc.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Title = in.Title
	course.Description = in.Description
	course.Category = in.Category
	course.CoverURL = in.CoverURL
	if err := uc.courses.Update(ctx, course); err != nil {
		return nil, errors.Wrap(err, "updating course")
	}
	return course, nil
}

func (uc *CourseUseCase) Disable(ctx context.Context, id uint) error {
	if err := uc.courses.SetActive(ctx, id, false); err != nil {
		return err
	}
	uc.log.Info("course disabled", "course", id)
	return nil
}

func (uc *CourseUseCase) Enable(ctx context.Context, id uint) error {
	return uc.courses.SetActive(ctx, id, true)
}

func (uc *CourseUseCase) Enroll(ctx context.Context, userID uuid.UUID, courseID uint) error {
	course, err := uc.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if !course.Active {
		return domain.ErrCourseInactive
	}
	return uc.enrollments.Enroll(ctx, userID, courseID)
}

func (uc *CourseUseCase) Cancel(ctx context.Context, userID uuid.UUID, courseID uint) error {
	return uc.enrollments.Cancel(ctx, userID, courseID)
}

func (uc *CourseUseCase) IsEnrolled(ctx context.Context, userID uuid.UUID, courseID uint) (bool, error) {
	return uc.enrollments.IsEnrolled(ctx, userID, courseID)
}

func (uc *CourseUseCase) MyCourses(ctx context.Context, userID uuid.UUID) ([]domain.Course, error) {
	courses, err := uc.enrollments.Courses(ctx, userID)
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []domain.Course{}
	}
	return courses, nil
}

func validateVideo(in VideoInput) (VideoInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.URL = strings.TrimSpace(in.URL)
	in.Section = strings.TrimSpace(in.Section)
	switch {
	case in.Title == "":
		return in, domain.Invalid("title", "is required")
	case in.URL == "":
		return in, domain.Invalid("url", "is required")
	case in.DurationSeconds < 0:
		return in, domain.Invalid("duration_seconds", "must not be negative")
	}
	return in, nil
}

func (uc *CourseUseCase) AddVideo(ctx context.Context, courseID uint, in VideoInput) (*domain.Video, error) {
	in, err := validateVideo(in)
	if err != nil {
		return nil, err
	}
	if _, err := uc.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	v := &domain.Video{
		CourseID:        courseID,
		Title:           in.Title,
		Description:     in.Description,
		URL:             in.URL,
		Section:         in.Section,
		Order:           in.Order,
		DurationSeconds: in.DurationSeconds,
	}
	if err := uc.content.CreateVideo(ctx, v); err != nil {
		return nil, errors.Wrap(err, "creating video")
	}
	return v, nil
}

func (uc *CourseUseCase) courseVideo(ctx context.Context, courseID, videoID uint) (*domain.Video, error) {
	v, err := uc.content.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if v.CourseID != courseID {
		return nil, domain.ErrVideoNotFound
	}
	return v, nil
}

func (uc *CourseUseCase) UpdateVideo(ctx context.Context, courseID, videoID uint, in VideoInput) (*domain.Video, error) {
	in, err := validateVideo(in)
	if err != nil {
		return nil, err
	}
	v, err := uc.courseVideo(ctx, courseID, videoID)
	if err != nil {
		return nil, err
	}
	v.Title = in.Title
	v.Description = in.Description
	v.URL = in.URL
	v.Section = in.Section
	v.Order = in.Order
	v.DurationSeconds = in.DurationSeconds
	if err := uc.content.UpdateVideo(ctx, v); err != nil {
		return nil, errors.Wrap(err, "updating video")
	}
	return v, nil
}

func (uc *CourseUseCase) DeleteVideo(ctx context.Context, courseID, videoID uint) error {
	if _, err := uc.courseVideo(ctx, courseID, videoID); err != nil {
		return err
	}
	return uc.content.DeleteVideo(ctx, videoID)
}

func (uc *CourseUseCase) ReorderVideos(ctx context.Context, courseID uint, ids []uint) error {
	if _, err := uc.courses.GetByID(ctx, courseID); err != nil {
		return err
	}
	return uc.content.ReorderVideos(ctx, courseID, ids)
}

// VideoView is the watch page of a video: the video, the section it sits in
// and the course outline for navigation.
type VideoView struct {
	Video   *domain.Video  `json:"video"`
	Section string         `json:"section"`
	Outline domain.Outline `json:"outline"`
}

// Video returns a video to someone allowed to watch it.
func (uc *CourseUseCase) Video(ctx context.Context, actor domain.Actor, courseID, videoID uint) (*VideoView, error) {
	_, outline, err := uc.Outline(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}
	video, err := uc.courseVideo(ctx, courseID, videoID)
	if err != nil {
		return nil, err
	}

	section, ok := outline.Locate(domain.KindVideo, video.ID)
	if !ok {
		section = domain.NormalizeSection(video.Section)
	}
	return &VideoView{Video: video, Section: section, Outline: outline}, nil
}

func (uc *CourseUseCase) Videos(ctx context.Context, actor domain.Actor, courseID uint) ([]domain.Video, error) {
	if _, err := uc.guard.Check(ctx, actor, courseID); err != nil {
		return nil, err
	}
	return uc.content.Videos(ctx, courseID)
}

func validatePDF(in PDFInput) (PDFInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.FileURL = strings.TrimSpace(in.FileURL)
	in.Section = strings.TrimSpace(in.Section)
	if in.Title == "" {
		return in, domain.Invalid("title", "is required")
	}
	if in.FileURL == "" {
		return in, domain.Invalid("file_url", "is required")
	}
	return in, nil
}

func (uc *CourseUseCase) AddPDF(ctx context.Context, courseID uint, in PDFInput) (*domain.MaterialPDF, error) {
	in, err := validatePDF(in)
	if err != nil {
		return nil, err
	}
	if _, err := uc.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	p := &domain.MaterialPDF{CourseID: courseID, Title: in.Title, FileURL: in.FileURL, Section: in.Section, Order: in.Order}
	if err := uc.content.CreatePDF(ctx, p); err != nil {
		return nil, errors.Wrap(err, "creating material")
	}
	return p, nil
}

func (uc *CourseUseCase) coursePDF(ctx context.Context, courseID, pdfID uint) (*domain.MaterialPDF, error) {
	p, err := uc.content.GetPDF(ctx, pdfID)
	if err != nil {
		return nil, err
	}
	if p.CourseID != courseID {
		return nil, domain.ErrPDFNotFound
	}
	return p, nil
}

func (uc *CourseUseCase) UpdatePDF(ctx context.Context, courseID, pdfID uint, in PDFInput) (*domain.MaterialPDF, error) {
	in, err := validatePDF(in)
	if err != nil {
		return nil, err
	}
	p, err := uc.coursePDF(ctx, courseID, pdfID)
	if err != nil {
		return nil, err
	}
	p.Title = in.Title
	p.FileURL = in.FileURL
	p.Section = in.Section
	p.Order = in.Order
	if err := uc.content.UpdatePDF(ctx, p); err != nil {
		return nil, errors.Wrap(err, "updating material")
	}
	return p, nil
}

func (uc *CourseUseCase) DeletePDF(ctx context.Context, courseID, pdfID uint) error {
	if _, err := uc.coursePDF(ctx, courseID, pdfID); err != nil {
		return err
	}
	return uc.content.DeletePDF(ctx, pdfID)
}

func (uc *CourseUseCase) PDF(ctx context.Context, actor domain.Actor, courseID, pdfID uint) (*domain.MaterialPDF, error) {
	if _, err := uc.guard.Check(ctx, actor, courseID); err != nil {
		return nil, err
	}
	return uc.coursePDF(ctx, courseID, pdfID)
}

// Outline assembles the sectioned content of a course. Learners do not see
// inactive quizzes.
func (uc *CourseUseCase) Outline(ctx context.Context, actor domain.Actor, courseID uint) (*domain.Course, domain.Outline, error) {
	course, err := uc.guard.Check(ctx, actor, courseID)
	if err != nil {
		return nil, nil, err
	}

	videos, err := uc.content.Videos(ctx, courseID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading videos")
	}
	pdfs, err := uc.content.PDFs(ctx, courseID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading materials")
	}
	quizzes, err := uc.quizzes.QuizzesByCourse(ctx, courseID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading quizzes")
	}
	if !actor.IsAdmin() {
		visible := quizzes[:0]
		for _, q := range quizzes {
			if q.Active {
				visible = append(visible, q)
			}
		}
		quizzes = visible
	}

	return course, domain.BuildOutline(videos, pdfs, quizzes), nil
}
