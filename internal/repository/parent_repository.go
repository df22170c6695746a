package repository

import (
	"context"

	"kidlearn_backend/internal/model"

	"gorm.io/gorm"
)

type ParentRepository struct {
	DB *gorm.DB
}

func NewParentRepository(db *gorm.DB) *ParentRepository {
	return &ParentRepository{DB: db}
}

func (r *ParentRepository) FindByEmail(ctx context.Context, email string) (*model.Parent, error) {
	var parent model.Parent
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&parent).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &parent, nil
}

func (r *ParentRepository) Create(ctx context.Context, parent *model.Parent) error {
	return r.DB.WithContext(ctx).Create(parent).Error
}
