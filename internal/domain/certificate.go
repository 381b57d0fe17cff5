package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Certificate struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_certificate_user_course" json:"user_id"`
	CourseID        uint           `gorm:"not null;uniqueIndex:idx_certificate_user_course" json:"course_id"`
	Code            string         `gorm:"uniqueIndex;not null;size:50" json:"code"`
	IssuedAt        time.Time      `json:"issued_at"`
	AverageScore    float64        `json:"average_score"`
	VideosCompleted int            `json:"videos_completed"`
	TotalVideos     int            `json:"total_videos"`
	QuizzesPassed   int            `json:"quizzes_passed"`
	TotalQuizzes    int            `json:"total_quizzes"`
	Snapshot        datatypes.JSON `json:"snapshot"`
	Course          *Course        `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}
