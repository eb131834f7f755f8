package models

import "time"

// Feedback is a submitted feedback form.
type Feedback struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UUID        string    `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	Name        string    `gorm:"type:varchar(150);not null" json:"name"`
	Email       string    `gorm:"type:varchar(200);not null;index" json:"email"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	UserID      *uint     `gorm:"index;default:null" json:"user_id,omitempty"`
	SubmittedAt time.Time `gorm:"not null" json:"submitted_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
