package repository

import (
	"context"
	"errors"
	"time"

	"kidlearn_backend/internal/model"

	"gorm.io/gorm"
)

// ErrStaleRecord is returned when an optimistic update lost the race:
// another writer bumped the version between validation and this write.
var ErrStaleRecord = errors.New("progress record was modified concurrently")

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) GetProgressRecord(ctx context.Context, childID, activityID string) (*model.ProgressRecord, error) {
	var record model.ProgressRecord
	err := r.DB.WithContext(ctx).
		Where("child_id = ? AND activity_id = ?", childID, activityID).
		First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *ProgressRepository) FindByChild(ctx context.Context, childID string) ([]model.ProgressRecord, error) {
	var records []model.ProgressRecord
	err := r.DB.WithContext(ctx).Where("child_id = ?", childID).Order("updated_at DESC").Find(&records).Error
	return records, err
}

// ApplyUpdate projects a validated payload onto the record for (child,
// activity), creating it on first contact. The update is guarded by the
// version column: validation ran against a snapshot, and a concurrent
// writer invalidates that snapshot, so a version mismatch surfaces as
// ErrStaleRecord instead of silently overwriting.
func (r *ProgressRepository) ApplyUpdate(ctx context.Context, childID string, p *model.ProgressUpdatePayload, expected *model.ProgressRecord) (*model.ProgressRecord, error) {
	if expected == nil {
		record := &model.ProgressRecord{
			ChildID:    childID,
			ActivityID: p.ActivityID,
			Status:     model.StatusInProgress,
			TimeSpent:  p.TimeSpent,
			Attempts:   1,
			Version:    1,
		}
		applyPayload(record, p)
		if err := r.DB.WithContext(ctx).Create(record).Error; err != nil {
			return nil, err
		}
		return record, nil
	}

	updated := *expected
	updated.TimeSpent += p.TimeSpent
	applyPayload(&updated, p)
	updated.Version = expected.Version + 1

	res := r.DB.WithContext(ctx).Model(&model.ProgressRecord{}).
		Where("id = ? AND version = ?", expected.ID, expected.Version).
		Updates(map[string]interface{}{
			"status":       updated.Status,
			"score":        updated.Score,
			"time_spent":   updated.TimeSpent,
			"attempts":     updated.Attempts,
			"version":      updated.Version,
			"completed_at": updated.CompletedAt,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStaleRecord
	}
	return &updated, nil
}

func applyPayload(record *model.ProgressRecord, p *model.ProgressUpdatePayload) {
	if p.Score != nil {
		record.Score = *p.Score
	}
	if p.Status != nil {
		if *p.Status == model.StatusCompleted && record.Status != model.StatusCompleted {
			now := time.Now().UTC()
			record.CompletedAt = &now
		}
		if *p.Status == model.StatusInProgress && record.Status == model.StatusCompleted {
			record.Attempts++
		}
		record.Status = *p.Status
	}
}

type ChildSummary struct {
	ChildID        string  `json:"childId"`
	TotalRecords   int64   `json:"totalRecords"`
	CompletedCount int64   `json:"completedCount"`
	AverageScore   float64 `json:"averageScore"`
	TotalTimeSpent int64   `json:"totalTimeSpent"`
}

func (r *ProgressRepository) GetChildSummary(ctx context.Context, childID string) (*ChildSummary, error) {
	summary := &ChildSummary{ChildID: childID}

	err := r.DB.WithContext(ctx).Model(&model.ProgressRecord{}).
		Where("child_id = ?", childID).
		Count(&summary.TotalRecords).Error
	if err != nil {
		return nil, err
	}

	err = r.DB.WithContext(ctx).Model(&model.ProgressRecord{}).
		Where("child_id = ? AND status = ?", childID, model.StatusCompleted).
		Count(&summary.CompletedCount).Error
	if err != nil {
		return nil, err
	}

	row := r.DB.WithContext(ctx).Model(&model.ProgressRecord{}).
		Where("child_id = ?", childID).
		Select("COALESCE(AVG(score), 0), COALESCE(SUM(time_spent), 0)").
		Row()
	if err := row.Scan(&summary.AverageScore, &summary.TotalTimeSpent); err != nil {
		return nil, err
	}
	return summary, nil
}
