package validation

import (
	"fmt"
	"math"

	"kidlearn_backend/internal/model"
)

// businessChecks are the time and behavior rules that only need the
// payload and the activity's estimated duration. They run after the
// schema gate, all of them, regardless of individual outcomes.
func businessChecks(p *model.ProgressUpdatePayload, estimatedDuration int, t Thresholds) []ConsistencyCheckResult {
	checks := []ConsistencyCheckResult{
		checkReasonableTimeSpent(p.TimeSpent, estimatedDuration, t),
		checkSessionTimeConsistency(p, t),
		checkFocusEventChronology(p.SessionData),
		checkHelpRequestCountConsistency(p, t),
		checkPauseResumeConsistency(p, t),
	}
	return checks
}

func checkReasonableTimeSpent(timeSpent, estimatedDuration int, t Thresholds) ConsistencyCheckResult {
	if estimatedDuration <= 0 {
		return passed(CheckReasonableTime, "activity has no estimated duration, skipping ratio check")
	}
	ratio := float64(timeSpent) / float64(estimatedDuration)
	if ratio < t.MinTimeRatio || ratio > t.MaxTimeRatio {
		return failed(CheckReasonableTime,
			fmt.Sprintf("timeSpent is implausible for this activity: ratio %.2f outside [%.1f, %.1f]",
				ratio, t.MinTimeRatio, t.MaxTimeRatio),
			map[string]interface{}{
				"ratio":             ratio,
				"timeSpent":         timeSpent,
				"estimatedDuration": estimatedDuration,
			})
	}
	return passed(CheckReasonableTime, fmt.Sprintf("time spent ratio %.2f within bounds", ratio))
}

func checkSessionTimeConsistency(p *model.ProgressUpdatePayload, t Thresholds) ConsistencyCheckResult {
	sd := p.SessionData
	if sd == nil || sd.EndTime == nil || sd.StartTime.IsZero() {
		return passed(CheckSessionTime, "no complete session window supplied")
	}

	sessionDuration := int(sd.EndTime.Sub(sd.StartTime.Time).Seconds())
	activeDuration := sessionDuration - sd.PausedDuration

	if sessionDuration <= 0 || activeDuration <= 0 {
		return failed(CheckSessionTime, "session arithmetic is not positive",
			map[string]interface{}{
				"sessionDuration": sessionDuration,
				"activeDuration":  activeDuration,
				"pausedDuration":  sd.PausedDuration,
			})
	}

	tolerance := float64(activeDuration) * t.TimeDriftFraction
	if tolerance < float64(t.MinTimeDriftSeconds) {
		tolerance = float64(t.MinTimeDriftSeconds)
	}
	drift := math.Abs(float64(p.TimeSpent - activeDuration))
	if drift > tolerance {
		return failed(CheckSessionTime,
			fmt.Sprintf("timeSpent %ds drifts %.0fs from active session duration %ds (tolerance %.0fs)",
				p.TimeSpent, drift, activeDuration, tolerance),
			map[string]interface{}{
				"timeSpent":      p.TimeSpent,
				"activeDuration": activeDuration,
				"drift":          drift,
				"tolerance":      tolerance,
			})
	}
	return passed(CheckSessionTime, "timeSpent agrees with the session window")
}

// checkFocusEventChronology rejects focus traces whose supplied order is
// not already non-decreasing by timestamp. Sorting client-side and
// resubmitting does not help a tampered trace: the timestamps themselves
// came out of order.
func checkFocusEventChronology(sd *model.ActivitySessionData) ConsistencyCheckResult {
	if sd == nil || len(sd.FocusEvents) < 2 {
		return passed(CheckFocusChronology, "fewer than two focus events")
	}
	for i := 1; i < len(sd.FocusEvents); i++ {
		if sd.FocusEvents[i].Timestamp.Before(sd.FocusEvents[i-1].Timestamp.Time) {
			return failed(CheckFocusChronology,
				fmt.Sprintf("focus event %d is earlier than event %d", i, i-1),
				map[string]interface{}{"index": i})
		}
	}
	return passed(CheckFocusChronology, "focus events are in chronological order")
}

func checkHelpRequestCountConsistency(p *model.ProgressUpdatePayload, t Thresholds) ConsistencyCheckResult {
	if p.HelpRequestsCount == nil || p.SessionData == nil || p.SessionData.HelpRequests == nil {
		return passed(CheckHelpRequestCount, "declared count and session help requests not both present")
	}
	declared := *p.HelpRequestsCount
	logged := len(p.SessionData.HelpRequests)
	diff := declared - logged
	if diff < 0 {
		diff = -diff
	}
	// ±1 tolerates a request logged but not yet counted, or vice versa.
	if diff > t.HelpCountTolerance {
		return failed(CheckHelpRequestCount,
			fmt.Sprintf("declared helpRequestsCount %d disagrees with %d logged help requests", declared, logged),
			map[string]interface{}{"declared": declared, "logged": logged})
	}
	return passed(CheckHelpRequestCount, "help request counts agree")
}

func checkPauseResumeConsistency(p *model.ProgressUpdatePayload, t Thresholds) ConsistencyCheckResult {
	pauses, resumes := 0, 0
	if p.PauseCount != nil {
		pauses = *p.PauseCount
	}
	if p.ResumeCount != nil {
		resumes = *p.ResumeCount
	}

	// Prefer counts derived from the interaction trace when one exists.
	if p.SessionData != nil && len(p.SessionData.InteractionEvents) > 0 {
		derivedPauses, derivedResumes := 0, 0
		for _, ev := range p.SessionData.InteractionEvents {
			switch ev.Kind {
			case "pause":
				derivedPauses++
			case "resume":
				derivedResumes++
			}
		}
		if derivedPauses > 0 || derivedResumes > 0 {
			pauses, resumes = derivedPauses, derivedResumes
		}
	}

	if pauses > resumes+1 {
		return failed(CheckPauseResume,
			fmt.Sprintf("pause count %d exceeds resume count %d + 1", pauses, resumes),
			map[string]interface{}{"pauses": pauses, "resumes": resumes})
	}
	return passed(CheckPauseResume, "pause and resume counts are coherent")
}
