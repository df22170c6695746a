package validation

import (
	"context"
	"fmt"

	"kidlearn_backend/internal/model"
)

// DataStore is the read-only view of persisted state the engine needs.
// Implementations return (nil, nil) for "not found" so the engine can
// classify it instead of unwrapping driver errors. A non-nil error means
// the store itself failed and validation cannot conclude.
type DataStore interface {
	GetChild(ctx context.Context, childID string) (*model.Child, error)
	GetActivity(ctx context.Context, activityID string) (*model.Activity, error)
	GetProgressRecord(ctx context.Context, childID, activityID string) (*model.ProgressRecord, error)
}

// storedState is the snapshot the three reads produce. The snapshot is
// not transactional; the caller guards the subsequent write with the
// record's version column.
type storedState struct {
	child    *model.Child
	activity *model.Activity
	existing *model.ProgressRecord
}

func (e *Engine) readStoredState(ctx context.Context, childID, activityID string) (*storedState, error) {
	child, err := e.store.GetChild(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("read child %s: %w", childID, err)
	}
	activity, err := e.store.GetActivity(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("read activity %s: %w", activityID, err)
	}
	existing, err := e.store.GetProgressRecord(ctx, childID, activityID)
	if err != nil {
		return nil, fmt.Errorf("read progress record (%s, %s): %w", childID, activityID, err)
	}
	return &storedState{child: child, activity: activity, existing: existing}, nil
}

// consistencyChecks cross-references the payload with the stored
// snapshot. Every rule runs; nothing short-circuits, so one response
// carries the full diagnostic.
func consistencyChecks(childID string, p *model.ProgressUpdatePayload, state *storedState, t Thresholds) []ConsistencyCheckResult {
	var checks []ConsistencyCheckResult

	if state.child == nil {
		checks = append(checks, failed(CheckChildExists,
			fmt.Sprintf("child %s not found", childID), nil))
	} else {
		checks = append(checks, passed(CheckChildExists, "child found"))
		if !state.child.IsActive {
			checks = append(checks, failed(CheckChildActive,
				fmt.Sprintf("child %s is deactivated", childID), nil))
		} else {
			checks = append(checks, passed(CheckChildActive, "child is active"))
		}
	}

	if state.activity == nil {
		checks = append(checks, failed(CheckActivityExists,
			fmt.Sprintf("activity %s not found", p.ActivityID), nil))
	} else {
		checks = append(checks, passed(CheckActivityExists, "activity found"))
		if state.child != nil {
			if state.activity.ChildID != state.child.ID {
				checks = append(checks, failed(CheckActivityOwnership,
					fmt.Sprintf("activity %s is not assigned to child %s", p.ActivityID, childID),
					map[string]interface{}{"planId": state.activity.PlanID}))
			} else {
				checks = append(checks, passed(CheckActivityOwnership, "activity belongs to the child"))
			}
		}
	}

	if state.existing != nil {
		if p.Status != nil {
			if !IsValidTransition(state.existing.Status, *p.Status) {
				checks = append(checks, failed(CheckStatusTransition,
					fmt.Sprintf("cannot transition from %s to %s", state.existing.Status, *p.Status),
					map[string]interface{}{
						"currentStatus":   string(state.existing.Status),
						"requestedStatus": string(*p.Status),
					}))
			} else {
				checks = append(checks, passed(CheckStatusTransition,
					fmt.Sprintf("transition %s to %s allowed", state.existing.Status, *p.Status)))
			}
		}

		// A large score drop between updates is not physically meaningful
		// for "progress"; treat it as anomalous rather than a new truth.
		if p.Score != nil && state.existing.Score > 0 {
			drop := state.existing.Score - *p.Score
			if drop > t.ScoreRegressionLimit {
				checks = append(checks, failed(CheckScoreRegression,
					fmt.Sprintf("score dropped %.1f points from %.1f to %.1f", drop, state.existing.Score, *p.Score),
					map[string]interface{}{
						"existingScore": state.existing.Score,
						"newScore":      *p.Score,
						"drop":          drop,
					}))
			} else {
				checks = append(checks, passed(CheckScoreRegression, "no anomalous score regression"))
			}
		}
	}

	return checks
}
