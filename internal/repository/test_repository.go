package repository

import (
	"github.com/pathwise-app/backend/internal/model"
	"gorm.io/gorm"
)

type TestRepository interface {
	// CreateWithQuestions persists the test and its questions in one
	// transaction, in slice order. Question IDs are populated on return.
	CreateWithQuestions(test *model.Test) error
	FindByID(id uint) (*model.Test, error)
	FindByIDWithQuestions(id uint) (*model.Test, error)
	CountQuestions(testID uint) (int64, error)
}

type testRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) CreateWithQuestions(test *model.Test) error {
	// GORM inserts the associated questions in slice order and backfills
	// their IDs, which the response echoes to the client.
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(test).Error
	})
}

func (r *testRepository) FindByID(id uint) (*model.Test, error) {
	var test model.Test
	if err := r.db.First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *testRepository) FindByIDWithQuestions(id uint) (*model.Test, error) {
	var test model.Test
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.order_in_test ASC")
	}).First(&test, id).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *testRepository) CountQuestions(testID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Question{}).Where("test_id = ?", testID).Count(&count).Error
	return count, err
}
