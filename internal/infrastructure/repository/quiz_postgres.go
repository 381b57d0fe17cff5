package repository

import (
	"context"
	"errors"

	"coursestream/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

func sorted(db *gorm.DB) *gorm.DB {
	return db.Order(orderBySort)
}

func (r *QuizRepository) CreateQuiz(ctx context.Context, q *domain.Quiz) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(q).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrSectionTaken
	}
	return err
}

func (r *QuizRepository) UpdateQuiz(ctx context.Context, q *domain.Quiz) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(q).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrSectionTaken
	}
	return err
}

// GetQuiz loads a quiz with its questions and options in display order.
func (r *QuizRepository) GetQuiz(ctx context.Context, id uint) (*domain.Quiz, error) {
	var q domain.Quiz
	err := r.db.WithContext(ctx).
		Preload("Questions", sorted).
		Preload("Questions.Options", sorted).
		First(&q, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrQuizNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *QuizRepository) QuizzesByCourse(ctx context.Context, courseID uint) ([]domain.Quiz, error) {
	var quizzes []domain.Quiz
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("id asc").
		Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) FindBySection(ctx context.Context, courseID uint, section string) (*domain.Quiz, error) {
	var q domain.Quiz
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND section = ?", courseID, section).
		First(&q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrQuizNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *QuizRepository) CreateQuestion(ctx context.Context, q *domain.QuizQuestion) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(q).Error
}

func (r *QuizRepository) UpdateQuestion(ctx context.Context, q *domain.QuizQuestion) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(q).Error
}

func (r *QuizRepository) GetQuestion(ctx context.Context, id uint) (*domain.QuizQuestion, error) {
	var q domain.QuizQuestion
	err := r.db.WithContext(ctx).Preload("Options", sorted).First(&q, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *QuizRepository) DeleteQuestion(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&domain.QuizOption{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.QuizQuestion{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrQuestionNotFound
		}
		return nil
	})
}

// SaveOption creates or updates an option. With exclusive set and the option
// marked correct, every other option of the question loses its correct flag.
func (r *QuizRepository) SaveOption(ctx context.Context, o *domain.QuizOption, exclusive bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if exclusive && o.Correct {
			err := tx.Model(&domain.QuizOption{}).
				Where("question_id = ? AND id <> ?", o.QuestionID, o.ID).
				Update("correct", false).Error
			if err != nil {
				return err
			}
		}
		return tx.Save(o).Error
	})
}

func (r *QuizRepository) GetOption(ctx context.Context, id uint) (*domain.QuizOption, error) {
	var o domain.QuizOption
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOptionNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *QuizRepository) DeleteOption(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.QuizOption{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrOptionNotFound
	}
	return nil
}

func (r *QuizRepository) CountAttempts(ctx context.Context, quizID uint, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.QuizAttempt{}).
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Count(&count).Error
	return count, err
}

// CreateAttempt numbers and stores an attempt with its answers, provided the
// user still has attempts left.
func (r *QuizRepository) CreateAttempt(ctx context.Context, a *domain.QuizAttempt, maxAttempts int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&domain.QuizAttempt{}).
			Where("quiz_id = ? AND user_id = ?", a.QuizID, a.UserID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count >= int64(maxAttempts) {
			return domain.ErrAttemptsExhausted
		}
		a.Number = int(count) + 1
		return tx.Create(a).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrAttemptConflict
	}
	return err
}

// Attempts lists a user's attempts on a quiz, newest first.
func (r *QuizRepository) Attempts(ctx context.Context, quizID uint, userID uuid.UUID) ([]domain.QuizAttempt, error) {
	var attempts []domain.QuizAttempt
	err := r.db.WithContext(ctx).
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Order("number desc").
		Find(&attempts).Error
	return attempts, err
}

func (r *QuizRepository) LatestAttempt(ctx context.Context, quizID uint, userID uuid.UUID) (*domain.QuizAttempt, error) {
	var a domain.QuizAttempt
	err := r.db.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Order("number desc").
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoAttempts
		}
		return nil, err
	}
	return &a, nil
}

// AttemptsByQuiz groups a user's attempts on the given quizzes by quiz id.
func (r *QuizRepository) AttemptsByQuiz(ctx context.Context, userID uuid.UUID, quizIDs []uint) (map[uint][]domain.QuizAttempt, error) {
	byQuiz := make(map[uint][]domain.QuizAttempt, len(quizIDs))
	if len(quizIDs) == 0 {
		return byQuiz, nil
	}

	var attempts []domain.QuizAttempt
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND quiz_id IN ?", userID, quizIDs).
		Order("quiz_id asc, number asc").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	for _, a := range attempts {
		byQuiz[a.QuizID] = append(byQuiz[a.QuizID], a)
	}
	return byQuiz, nil
}
