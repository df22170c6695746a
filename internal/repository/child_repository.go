package repository

import (
	"context"

	"kidlearn_backend/internal/model"

	"gorm.io/gorm"
)

type ChildRepository struct {
	DB *gorm.DB
}

func NewChildRepository(db *gorm.DB) *ChildRepository {
	return &ChildRepository{DB: db}
}

// GetChild returns (nil, nil) when the child does not exist so callers
// can classify "not found" without unwrapping gorm errors.
func (r *ChildRepository) GetChild(ctx context.Context, childID string) (*model.Child, error) {
	var child model.Child
	err := r.DB.WithContext(ctx).Where("id = ?", childID).First(&child).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &child, nil
}

func (r *ChildRepository) FindByParent(ctx context.Context, parentID string) ([]model.Child, error) {
	var children []model.Child
	err := r.DB.WithContext(ctx).Where("parent_id = ?", parentID).Order("created_at").Find(&children).Error
	return children, err
}

func (r *ChildRepository) Create(ctx context.Context, child *model.Child) error {
	return r.DB.WithContext(ctx).Create(child).Error
}
