package domain

import (
	"time"

	"github.com/google/uuid"
)

type VideoProgress struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_video;index:idx_progress_user_course" json:"user_id"`
	CourseID        uint       `gorm:"not null;uniqueIndex:idx_progress_user_video;index:idx_progress_user_course" json:"course_id"`
	VideoID         uint       `gorm:"not null;uniqueIndex:idx_progress_user_video" json:"video_id"`
	PositionSeconds float64    `json:"position_seconds"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completed_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (VideoProgress) TableName() string { return "video_progress" }
