package domain

import (
	"time"

	"github.com/google/uuid"
)

type VideoQuestion struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	CourseID  uint         `gorm:"index;not null" json:"course_id"`
	VideoID   uint         `gorm:"index;not null" json:"video_id"`
	UserID    uuid.UUID    `gorm:"type:uuid;not null" json:"user_id"`
	Title     string       `gorm:"not null;size:200" json:"title"`
	Body      string       `gorm:"not null" json:"body"`
	Closed    bool         `json:"closed"`
	Replies   []VideoReply `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE;" json:"replies,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type VideoReply struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	QuestionID     uint      `gorm:"index;not null" json:"question_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Body           string    `gorm:"not null" json:"body"`
	FromInstructor bool      `json:"from_instructor"`
	CreatedAt      time.Time `json:"created_at"`
}
