package model

import (
	"time"

	"gorm.io/gorm"
)

// Test is one generated placement assessment. TotalQuestions is fixed at
// creation and must equal the number of persisted Question rows.
type Test struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	UserID         string         `json:"user_id" gorm:"not null;index"`
	Topic          string         `json:"topic" gorm:"not null"`
	Goal           string         `json:"goal" gorm:"type:text;not null"`
	Experience     string         `json:"experience" gorm:"type:text;not null"`
	Model          string         `json:"model" gorm:"not null"` // generating model id
	TotalQuestions int            `json:"total_questions" gorm:"not null"`
	Questions      []Question     `json:"questions,omitempty" gorm:"foreignKey:TestID"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
