package repository

import (
	"github.com/pathwise-app/backend/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	FindByID(id uint) (*model.Question, error)
	FindByTestID(testID uint) ([]model.Question, error)

	// BackfillCorrectAnswer sets the reference answer only when none exists
	// yet. Conditional at the storage layer so concurrent judges cannot
	// overwrite each other; the first write wins.
	BackfillCorrectAnswer(questionID uint, answer string) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByTestID(testID uint) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Where("test_id = ?", testID).Order("order_in_test ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) BackfillCorrectAnswer(questionID uint, answer string) error {
	return r.db.Model(&model.Question{}).
		Where("id = ? AND correct_answer IS NULL", questionID).
		Update("correct_answer", answer).Error
}
