package validation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"kidlearn_backend/internal/model"
)

// ValidateSchema runs every structural rule over the payload and returns
// all violations plus a sanitized copy. It never stops at the first
// error: the client gets the complete list in one response.
//
// The sanitized copy is what the caller persists; unknown fields are
// already dropped by the typed JSON decode, so sanitization here is
// normalization (UTC timestamps, trimmed free text).
func ValidateSchema(p *model.ProgressUpdatePayload, now time.Time, t Thresholds) ([]ValidationError, *model.ProgressUpdatePayload) {
	var errs []ValidationError

	add := func(field, code, message string) {
		errs = append(errs, ValidationError{
			Field:    field,
			Message:  message,
			Code:     code,
			Severity: SeverityError,
		})
	}

	if strings.TrimSpace(p.ActivityID) == "" {
		add("activityId", "ACTIVITY_ID_REQUIRED", "activityId must not be empty")
	}

	if p.TimeSpent < 1 || p.TimeSpent > t.MaxTimeSpentSeconds {
		add("timeSpent", "TIME_SPENT_OUT_OF_RANGE",
			fmt.Sprintf("timeSpent must be between 1 and %d seconds, got %d", t.MaxTimeSpentSeconds, p.TimeSpent))
	}

	if p.Score != nil {
		score := *p.Score
		if score < 0 || score > 100 {
			add("score", "SCORE_OUT_OF_RANGE", fmt.Sprintf("score must be between 0 and 100, got %g", score))
		}
		if math.Abs(score*100-math.Round(score*100)) > 1e-9 {
			add("score", "SCORE_TOO_PRECISE", "score must have at most 2 decimal places")
		}
	}

	if p.Status != nil && !p.Status.Valid() {
		add("status", "INVALID_STATUS", fmt.Sprintf("unknown progress status %q", string(*p.Status)))
	}

	// Completion without a score is meaningless for the record of truth.
	if p.Status != nil && *p.Status == model.StatusCompleted && p.Score == nil {
		add("score", "SCORE_REQUIRED", "score is required when status is COMPLETED")
	}

	validateCounter := func(field string, v *int, max int) {
		if v != nil && (*v < 0 || *v > max) {
			add(field, "COUNT_OUT_OF_RANGE", fmt.Sprintf("%s must be between 0 and %d, got %d", field, max, *v))
		}
	}
	validateCounter("helpRequestsCount", p.HelpRequestsCount, t.MaxHelpRequestsCount)
	validateCounter("pauseCount", p.PauseCount, t.MaxPauseCount)
	validateCounter("resumeCount", p.ResumeCount, t.MaxResumeCount)

	// A session can end on an unresolved pause, hence the +1.
	if p.PauseCount != nil {
		resumes := 0
		if p.ResumeCount != nil {
			resumes = *p.ResumeCount
		}
		if *p.PauseCount > resumes+1 {
			add("pauseCount", "PAUSE_RESUME_MISMATCH",
				fmt.Sprintf("pauseCount %d exceeds resumeCount %d + 1", *p.PauseCount, resumes))
		}
	}

	if p.SessionData != nil {
		validateSessionData(p.SessionData, now, t, add)
	}

	return errs, sanitize(p)
}

func validateSessionData(sd *model.ActivitySessionData, now time.Time, t Thresholds, add func(field, code, message string)) {
	if sd.StartTime.IsZero() {
		add("sessionData.startTime", "INVALID_TIMESTAMP", "startTime is required and must be a valid timestamp")
	} else if sd.StartTime.After(now) {
		add("sessionData.startTime", "TIMESTAMP_IN_FUTURE", "startTime must not be in the future")
	}

	if sd.EndTime != nil {
		if sd.EndTime.After(now) {
			add("sessionData.endTime", "TIMESTAMP_IN_FUTURE", "endTime must not be in the future")
		}
		if !sd.StartTime.IsZero() && !sd.EndTime.Time.After(sd.StartTime.Time) {
			add("sessionData.endTime", "END_BEFORE_START", "endTime must be after startTime")
		}
	}

	if sd.PausedDuration < 0 || sd.PausedDuration > t.MaxPausedDurationSeconds {
		add("sessionData.pausedDuration", "PAUSED_DURATION_OUT_OF_RANGE",
			fmt.Sprintf("pausedDuration must be between 0 and %d seconds, got %d", t.MaxPausedDurationSeconds, sd.PausedDuration))
	}

	// Oversized traces are rejected, never silently truncated.
	validateCap := func(field string, n, max int) {
		if n > max {
			add(field, "ARRAY_LIMIT_EXCEEDED", fmt.Sprintf("%s holds %d entries, limit is %d", field, n, max))
		}
	}
	validateCap("sessionData.focusEvents", len(sd.FocusEvents), t.MaxFocusEvents)
	validateCap("sessionData.difficultyAdjustments", len(sd.DifficultyAdjustments), t.MaxDifficultyAdjustments)
	validateCap("sessionData.helpRequests", len(sd.HelpRequests), t.MaxHelpRequests)
	validateCap("sessionData.interactionEvents", len(sd.InteractionEvents), t.MaxInteractionEvents)

	for i, ev := range sd.FocusEvents {
		if ev.Type != model.FocusGained && ev.Type != model.FocusLost {
			add(fmt.Sprintf("sessionData.focusEvents[%d].type", i), "INVALID_FOCUS_EVENT",
				fmt.Sprintf("focus event type must be focus or blur, got %q", string(ev.Type)))
		}
	}
}

func sanitize(p *model.ProgressUpdatePayload) *model.ProgressUpdatePayload {
	cp := p.Clone()
	cp.ActivityID = strings.TrimSpace(cp.ActivityID)
	if cp.SessionData != nil {
		sd := cp.SessionData
		sd.StartTime.Time = sd.StartTime.UTC()
		if sd.EndTime != nil {
			sd.EndTime.Time = sd.EndTime.UTC()
		}
		for i := range sd.HelpRequests {
			sd.HelpRequests[i].Question = strings.TrimSpace(sd.HelpRequests[i].Question)
			sd.HelpRequests[i].Timestamp.Time = sd.HelpRequests[i].Timestamp.UTC()
		}
		for i := range sd.FocusEvents {
			sd.FocusEvents[i].Timestamp.Time = sd.FocusEvents[i].Timestamp.UTC()
		}
		for i := range sd.InteractionEvents {
			sd.InteractionEvents[i].Kind = strings.TrimSpace(sd.InteractionEvents[i].Kind)
			sd.InteractionEvents[i].Timestamp.Time = sd.InteractionEvents[i].Timestamp.UTC()
		}
		for i := range sd.DifficultyAdjustments {
			sd.DifficultyAdjustments[i].Timestamp.Time = sd.DifficultyAdjustments[i].Timestamp.UTC()
		}
	}
	return cp
}
