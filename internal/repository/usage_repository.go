package repository

import (
	"github.com/pathwise-app/backend/internal/model"
	"gorm.io/gorm"
)

// UsageRepository is append-only; the pipeline writes usage rows and never
// reads them back.
type UsageRepository interface {
	Create(record *model.UsageRecord) error
}

type usageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

func (r *usageRepository) Create(record *model.UsageRecord) error {
	return r.db.Create(record).Error
}
