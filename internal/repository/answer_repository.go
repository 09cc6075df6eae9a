package repository

import (
	"github.com/pathwise-app/backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository interface {
	// Upsert inserts the record or, when a row for (attempt, question)
	// already exists, updates it in place. Single atomic statement against
	// the composite unique index, never a read-then-write check, which is
	// what let duplicate rows inflate the answered count before.
	Upsert(answer *model.AnswerRecord) error
	CountByAttempt(attemptID uint) (int64, error)
	FindByAttemptID(attemptID uint) ([]model.AnswerRecord, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Upsert(answer *model.AnswerRecord) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "attempt_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"response", "is_correct", "ideal_answer", "feedback", "updated_at",
		}),
	}).Create(answer).Error
}

func (r *answerRepository) CountByAttempt(attemptID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.AnswerRecord{}).Where("attempt_id = ?", attemptID).Count(&count).Error
	return count, err
}

func (r *answerRepository) FindByAttemptID(attemptID uint) ([]model.AnswerRecord, error) {
	var answers []model.AnswerRecord
	err := r.db.Preload("Question").
		Joins("JOIN questions ON questions.id = answer_records.question_id").
		Where("answer_records.attempt_id = ?", attemptID).
		Order("questions.order_in_test ASC").
		Find(&answers).Error
	return answers, err
}
