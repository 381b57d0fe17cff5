package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"coursestream/internal/domain"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	courseListIndex = "courses:list:keys"
	courseDetailTTL = time.Hour
	courseListTTL   = 10 * time.Minute
)

func courseDetailKey(id uint) string {
	return fmt.Sprintf("course:detail:%d", id)
}

// CourseFilter narrows a course listing. A nil Active lists every course.
type CourseFilter struct {
	Search   string
	Category string
	Active   *bool
}

func (f CourseFilter) cacheKey(limit, offset int) string {
	status := "all"
	if f.Active != nil {
		status = fmt.Sprint(*f.Active)
	}
	return fmt.Sprintf("courses:list:%s:%s:%s:%d:%d", strings.ToLower(f.Search), f.Category, status, limit, offset)
}

type courseList struct {
	Courses []domain.Course
	Total   int64
}

// CourseRepository reads through a Redis cache when one is configured.
type CourseRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewCourseRepository(db *gorm.DB, rdb *redis.Client) *CourseRepository {
	return &CourseRepository{db: db, rdb: rdb}
}

func (r *CourseRepository) List(ctx context.Context, f CourseFilter, limit, offset int) ([]domain.Course, int64, error) {
	key := f.cacheKey(limit, offset)
	var cached courseList
	if r.cacheGet(ctx, key, &cached) {
		return cached.Courses, cached.Total, nil
	}

	var courses []domain.Course
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Course{})
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Active != nil {
		query = query.Where("active = ?", *f.Active)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Limit(limit).Offset(offset).Order("created_at desc, id desc").Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	if r.cacheSet(ctx, key, courseList{Courses: courses, Total: total}, courseListTTL) {
		r.rdb.SAdd(ctx, courseListIndex, key)
	}
	return courses, total, nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id uint) (*domain.Course, error) {
	key := courseDetailKey(id)
	var course domain.Course
	if r.cacheGet(ctx, key, &course) {
		return &course, nil
	}

	err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}

	r.cacheSet(ctx, key, course, courseDetailTTL)
	return &course, nil
}

func (r *CourseRepository) Create(ctx context.Context, c *domain.Course) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return err
	}
	r.invalidate(ctx, 0)
	return nil
}

func (r *CourseRepository) Update(ctx context.Context, c *domain.Course) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return err
	}
	r.invalidate(ctx, c.ID)
	return nil
}

// SetActive enables or disables a course. Disabling is the only delete.
func (r *CourseRepository) SetActive(ctx context.Context, id uint, active bool) error {
	result := r.db.WithContext(ctx).Model(&domain.Course{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"active": active, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCourseNotFound
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CourseRepository) cacheGet(ctx context.Context, key string, dst interface{}) bool {
	if r.rdb == nil {
		return false
	}
	val, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dst) == nil
}

func (r *CourseRepository) cacheSet(ctx context.Context, key string, v interface{}, ttl time.Duration) bool {
	if r.rdb == nil {
		return false
	}
	data, err := json.Marshal(v)
	if err != nil {
		return false
	}
	return r.rdb.Set(ctx, key, data, ttl).Err() == nil
}

// invalidate drops every cached listing and, when id is set, the course detail.
func (r *CourseRepository) invalidate(ctx context.Context, id uint) {
	if r.rdb == nil {
		return
	}
	keys := r.rdb.SMembers(ctx, courseListIndex).Val()
	keys = append(keys, courseListIndex)
	if id != 0 {
		keys = append(keys, courseDetailKey(id))
	}
	r.rdb.Del(ctx, keys...)
}
