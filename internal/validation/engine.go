// Package validation implements the progress validation and consistency
// engine: the single gate self-reported learning telemetry passes before
// it becomes the system of record.
//
// The engine is stateless and side-effect-free. One call performs three
// reads through the injected DataStore and no writes; persistence is the
// caller's job after inspecting the ValidationResult. Expected
// validation failures are values on the result, never errors; a non-nil
// error from ValidateProgressUpdate always means infrastructure failed.
package validation

import (
	"context"
	"sync/atomic"
	"time"

	"kidlearn_backend/internal/model"
)

type Engine struct {
	store      DataStore
	thresholds atomic.Pointer[Thresholds]
	now        func() time.Time
}

func NewEngine(store DataStore, t Thresholds) *Engine {
	e := &Engine{store: store, now: time.Now}
	e.thresholds.Store(&t)
	return e
}

// SetThresholds swaps the policy constants at runtime; in-flight
// validations keep the snapshot they started with.
func (e *Engine) SetThresholds(t Thresholds) {
	e.thresholds.Store(&t)
}

func (e *Engine) Thresholds() Thresholds {
	return *e.thresholds.Load()
}

// ValidateProgressUpdate checks one progress payload against structural
// rules, stored state, timing arithmetic and anti-gaming heuristics.
//
// A structurally malformed payload is rejected before any business
// logic or store read runs. Otherwise every check runs to completion and
// the result enumerates all of them. The returned error is non-nil only
// when a store read fails; the accompanying result is then marked with a
// system-severity error and is never valid.
func (e *Engine) ValidateProgressUpdate(ctx context.Context, childID string, payload *model.ProgressUpdatePayload) (*ValidationResult, error) {
	t := e.Thresholds()
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationWarning{},
	}

	schemaErrs, sanitized := ValidateSchema(payload, e.now(), t)
	result.SanitizedData = sanitized
	if len(schemaErrs) > 0 {
		result.Errors = schemaErrs
		return result, nil
	}

	state, err := e.readStoredState(ctx, childID, sanitized.ActivityID)
	if err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:    "",
			Message:  "validation could not be completed: data store unavailable",
			Code:     "SYSTEM_ERROR",
			Severity: SeveritySystem,
		})
		return result, err
	}
	result.ExistingRecord = state.existing

	checks := consistencyChecks(childID, sanitized, state, t)

	estimated := 0
	if state.activity != nil {
		estimated = state.activity.EstimatedDuration
	}
	checks = append(checks, businessChecks(sanitized, estimated, t)...)

	for _, c := range checks {
		if !c.Passed {
			result.Errors = append(result.Errors, ValidationError{
				Field:    checkField(c.Check),
				Message:  c.Message,
				Code:     c.Check,
				Severity: SeverityError,
			})
		}
	}

	heuristics := heuristicChecks(sanitized, t)
	for _, h := range heuristics {
		if !h.Passed {
			result.Warnings = append(result.Warnings, ValidationWarning{
				Field:   checkField(h.Check),
				Message: h.Message,
				Code:    h.Check,
			})
		}
	}

	result.ConsistencyChecks = append(checks, heuristics...)
	result.IsValid = len(result.Errors) == 0
	return result, nil
}

// checkField maps a check name to the payload field a client would look
// at first. Best effort; the check name on the error code is what the
// HTTP layer keys on.
func checkField(check string) string {
	switch check {
	case CheckChildExists, CheckChildActive:
		return "childId"
	case CheckActivityExists, CheckActivityOwnership:
		return "activityId"
	case CheckStatusTransition:
		return "status"
	case CheckScoreRegression, CheckScoreHelpPlausible:
		return "score"
	case CheckReasonableTime, CheckSessionTime, CheckQuickPerfectScore:
		return "timeSpent"
	case CheckFocusChronology:
		return "sessionData.focusEvents"
	case CheckHelpRequestCount:
		return "helpRequestsCount"
	case CheckPauseResume:
		return "pauseCount"
	}
	return ""
}
