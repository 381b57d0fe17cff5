package domain

import "time"

type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"index;not null;size:200" json:"title"`
	Description string    `json:"description"`
	Category    string    `gorm:"index;size:100" json:"category"`
	CoverURL    string    `json:"cover_url"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Video struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CourseID        uint      `gorm:"index;not null" json:"course_id"`
	Title           string    `gorm:"not null;size:200" json:"title"`
	Description     string    `json:"description"`
	URL             string    `gorm:"not null" json:"url"`
	Section         string    `gorm:"size:100" json:"section"`
	Order           *int      `gorm:"column:sort_order" json:"order"`
	DurationSeconds int       `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type MaterialPDF struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"index;not null" json:"course_id"`
	Title     string    `gorm:"not null;size:200" json:"title"`
	Section   string    `gorm:"size:100" json:"section"`
	FileURL   string    `gorm:"not null" json:"file_url"`
	Order     *int      `gorm:"column:sort_order" json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
