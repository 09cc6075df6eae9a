package model

import (
	"time"

	"gorm.io/gorm"
)

// Attempt is one learner's pass through a Test. Completed flips false→true
// exactly once, claimed with a conditional update in the repository so two
// concurrent submissions cannot both trigger plan synthesis.
type Attempt struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	UserID      string         `json:"user_id" gorm:"not null;index"`
	TestID      uint           `json:"test_id" gorm:"not null;index"`
	Test        Test           `json:"test,omitempty" gorm:"foreignKey:TestID"`
	Completed   bool           `json:"completed" gorm:"not null;default:false"`
	StartedAt   time.Time      `json:"started_at" gorm:"autoCreateTime"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Answers     []AnswerRecord `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
