package model

import (
	"time"
)

type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "NOT_STARTED"
	StatusInProgress ProgressStatus = "IN_PROGRESS"
	StatusCompleted  ProgressStatus = "COMPLETED"
	StatusPaused     ProgressStatus = "PAUSED"
)

func (s ProgressStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusPaused:
		return true
	}
	return false
}

// ProgressRecord is the persisted state of one child's attempt at one
// activity. One row per (child, activity) pair. Version backs the
// optimistic write check done by the service layer.
type ProgressRecord struct {
	UUIDBase
	ChildID     string         `gorm:"index:idx_child_activity,unique;type:varchar(36);not null" json:"childId"`
	ActivityID  string         `gorm:"index:idx_child_activity,unique;type:varchar(36);not null" json:"activityId"`
	Status      ProgressStatus `gorm:"size:16;default:'NOT_STARTED'" json:"status"`
	Score       float64        `gorm:"default:0" json:"score"`
	TimeSpent   int            `gorm:"default:0" json:"timeSpent"` // seconds
	Attempts    int            `gorm:"default:0" json:"attempts"`
	Version     int            `gorm:"default:0" json:"-"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}

func (ProgressRecord) TableName() string {
	return "progress_records"
}
