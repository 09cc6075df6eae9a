package model

import "time"

// AnswerRecord holds one graded answer. The composite unique index on
// (attempt_id, question_id) is load-bearing: the repository upserts against
// it so duplicate submissions merge instead of inflating the answered count.
// No soft delete here, it would punch holes in the unique constraint.
type AnswerRecord struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	AttemptID   uint      `json:"attempt_id" gorm:"not null;uniqueIndex:idx_answer_attempt_question"`
	QuestionID  uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_answer_attempt_question"`
	Question    Question  `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Response    *string   `json:"response,omitempty" gorm:"type:text"` // nil means skipped
	IsCorrect   bool      `json:"is_correct" gorm:"not null"`
	IdealAnswer *string   `json:"ideal_answer,omitempty" gorm:"type:text"`
	Feedback    *string   `json:"feedback,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
