package service

import (
	"context"

	"kidlearn_backend/internal/model"
	"kidlearn_backend/internal/repository"
	"kidlearn_backend/internal/util"
	"kidlearn_backend/internal/validation"
	"kidlearn_backend/pkg/logger"
	"kidlearn_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// ChildReader, ActivityReader and ProgressStore are satisfied by the
// gorm repositories; tests swap in in-memory fakes.
type ChildReader interface {
	GetChild(ctx context.Context, childID string) (*model.Child, error)
}

type ActivityReader interface {
	GetActivity(ctx context.Context, activityID string) (*model.Activity, error)
}

type ProgressStore interface {
	GetProgressRecord(ctx context.Context, childID, activityID string) (*model.ProgressRecord, error)
	ApplyUpdate(ctx context.Context, childID string, p *model.ProgressUpdatePayload, expected *model.ProgressRecord) (*model.ProgressRecord, error)
	FindByChild(ctx context.Context, childID string) ([]model.ProgressRecord, error)
	GetChildSummary(ctx context.Context, childID string) (*repository.ChildSummary, error)
}

// Actor is the authenticated principal a request acts for.
type Actor struct {
	ParentID string
	Admin    bool
}

// dataStore bundles the three stores into the engine's read-only view
// of persisted state.
type dataStore struct {
	children   ChildReader
	activities ActivityReader
	progress   ProgressStore
}

func (s *dataStore) GetChild(ctx context.Context, childID string) (*model.Child, error) {
	return s.children.GetChild(ctx, childID)
}

func (s *dataStore) GetActivity(ctx context.Context, activityID string) (*model.Activity, error) {
	return s.activities.GetActivity(ctx, activityID)
}

func (s *dataStore) GetProgressRecord(ctx context.Context, childID, activityID string) (*model.ProgressRecord, error) {
	return s.progress.GetProgressRecord(ctx, childID, activityID)
}

// ProgressService validates self-reported telemetry through the engine
// and, only when the result is clean, persists the sanitized projection.
type ProgressService struct {
	Engine     *validation.Engine
	Children   ChildReader
	Activities ActivityReader
	Progress   ProgressStore
	Anomaly    *AnomalyService
}

func NewProgressService(
	children ChildReader,
	activities ActivityReader,
	progress ProgressStore,
	anomaly *AnomalyService,
	thresholds validation.Thresholds,
) *ProgressService {
	store := &dataStore{children: children, activities: activities, progress: progress}
	return &ProgressService{
		Engine:     validation.NewEngine(store, thresholds),
		Children:   children,
		Activities: activities,
		Progress:   progress,
		Anomaly:    anomaly,
	}
}

// authorizeChild rejects actors reaching into another family's data.
// A missing child is not a permission error; callers decide whether the
// engine or a not-found sentinel reports it.
func (s *ProgressService) authorizeChild(ctx context.Context, actor Actor, childID string) (*model.Child, error) {
	child, err := s.Children.GetChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	if child != nil && !actor.Admin && child.ParentID != actor.ParentID {
		return nil, util.ErrPermissionDenied
	}
	return child, nil
}

// UpdateProgress runs the full validate-then-persist sequence. The
// record is nil whenever the result is invalid or validation itself
// failed. The write is guarded by the version of the snapshot the
// engine validated against: a writer that committed in between
// invalidates that snapshot and surfaces as repository.ErrStaleRecord,
// never as a silent overwrite.
func (s *ProgressService) UpdateProgress(ctx context.Context, actor Actor, childID string, payload *model.ProgressUpdatePayload) (*validation.ValidationResult, *model.ProgressRecord, error) {
	if _, err := s.authorizeChild(ctx, actor, childID); err != nil {
		return nil, nil, err
	}

	result, err := s.Engine.ValidateProgressUpdate(ctx, childID, payload)
	monitoring.ObserveValidation(result)
	if err != nil {
		logger.Log.Error("progress validation could not complete",
			zap.String("childId", childID),
			zap.String("activityId", payload.ActivityID),
			zap.Error(err))
		return result, nil, err
	}

	if len(result.Warnings) > 0 {
		// Heuristic signals never block the write; they feed review.
		go s.Anomaly.ReportFlagged(childID, payload, result)
	}

	if !result.IsValid {
		logger.Log.Info("progress update rejected",
			zap.String("childId", childID),
			zap.String("activityId", payload.ActivityID),
			zap.Int("errors", len(result.Errors)))
		return result, nil, nil
	}

	record, err := s.Progress.ApplyUpdate(ctx, childID, result.SanitizedData, result.ExistingRecord)
	if err != nil {
		return result, nil, err
	}

	logger.Log.Info("progress update accepted",
		zap.String("childId", childID),
		zap.String("activityId", record.ActivityID),
		zap.String("status", string(record.Status)),
		zap.Int("warnings", len(result.Warnings)))
	return result, record, nil
}

func (s *ProgressService) GetProgress(ctx context.Context, actor Actor, childID, activityID string) (*model.ProgressRecord, error) {
	child, err := s.authorizeChild(ctx, actor, childID)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, util.ErrChildNotFound
	}

	activity, err := s.Activities.GetActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, util.ErrActivityNotFound
	}

	return s.Progress.GetProgressRecord(ctx, childID, activityID)
}

func (s *ProgressService) GetChildProgress(ctx context.Context, actor Actor, childID string) ([]model.ProgressRecord, *repository.ChildSummary, error) {
	child, err := s.authorizeChild(ctx, actor, childID)
	if err != nil {
		return nil, nil, err
	}
	if child == nil {
		return nil, nil, util.ErrChildNotFound
	}

	records, err := s.Progress.FindByChild(ctx, childID)
	if err != nil {
		return nil, nil, err
	}
	summary, err := s.Progress.GetChildSummary(ctx, childID)
	if err != nil {
		return nil, nil, err
	}
	return records, summary, nil
}
