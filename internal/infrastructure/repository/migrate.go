package repository

import (
	"coursestream/internal/domain"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserGorm{},
		&domain.Enrollment{},
		&domain.Course{},
		&domain.Video{},
		&domain.MaterialPDF{},
		&domain.Quiz{},
		&domain.QuizQuestion{},
		&domain.QuizOption{},
		&domain.QuizAttempt{},
		&domain.QuizAnswer{},
		&domain.VideoProgress{},
		&domain.Certificate{},
		&domain.VideoQuestion{},
		&domain.VideoReply{},
	)
}

// orderBySort sorts rows by their optional position, unset positions last.
const orderBySort = "sort_order IS NULL, sort_order asc, id asc"
