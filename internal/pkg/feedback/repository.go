package feedback

import (
	"context"

	"gorm.io/gorm"

	"github.com/ManuelReschke/BlockHolder/app/models"
)

type Repository interface {
	Create(ctx context.Context, fb *models.Feedback) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, fb *models.Feedback) error {
	return r.db.WithContext(ctx).Create(fb).Error
}
