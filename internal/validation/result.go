package validation

import "kidlearn_backend/internal/model"

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	// SeveritySystem marks "we could not check", never "your data is bad".
	SeveritySystem Severity = "system"
)

// Names of the individual consistency checks. The HTTP layer maps these
// to status codes, so they are part of the engine's contract.
const (
	CheckChildExists        = "child_exists"
	CheckChildActive        = "child_active"
	CheckActivityExists     = "activity_exists"
	CheckActivityOwnership  = "activity_ownership"
	CheckStatusTransition   = "valid_status_transition"
	CheckScoreRegression    = "score_regression"
	CheckReasonableTime     = "reasonable_time_spent"
	CheckSessionTime        = "time_spent_session_consistency"
	CheckFocusChronology    = "focus_event_chronology"
	CheckHelpRequestCount   = "help_request_count_consistency"
	CheckPauseResume        = "pause_resume_consistency"
	CheckScoreHelpPlausible = "score_help_plausibility"
	CheckQuickPerfectScore  = "quick_perfect_score"
)

type ValidationError struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
}

type ValidationWarning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ConsistencyCheckResult is the outcome of one named rule. Data carries
// rule-specific diagnostics (ratios, computed durations) for the caller.
type ConsistencyCheckResult struct {
	Check   string                 `json:"check"`
	Passed  bool                   `json:"passed"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

type ValidationResult struct {
	IsValid           bool                         `json:"isValid"`
	Errors            []ValidationError            `json:"errors"`
	Warnings          []ValidationWarning          `json:"warnings"`
	SanitizedData     *model.ProgressUpdatePayload `json:"sanitizedData,omitempty"`
	ConsistencyChecks []ConsistencyCheckResult     `json:"consistencyChecks"`

	// ExistingRecord is the progress record snapshot the consistency
	// checks ran against, nil on first contact. The caller must guard
	// its subsequent write with this record's version; re-reading would
	// open a window for a concurrent writer to invalidate the verdict.
	ExistingRecord *model.ProgressRecord `json:"-"`
}

// HasSystemError reports whether validation itself failed, as opposed to
// the payload being invalid.
func (r *ValidationResult) HasSystemError() bool {
	for _, e := range r.Errors {
		if e.Severity == SeveritySystem {
			return true
		}
	}
	return false
}

// FailedCheck returns the named check result if it ran and failed.
func (r *ValidationResult) FailedCheck(name string) *ConsistencyCheckResult {
	for i := range r.ConsistencyChecks {
		if r.ConsistencyChecks[i].Check == name && !r.ConsistencyChecks[i].Passed {
			return &r.ConsistencyChecks[i]
		}
	}
	return nil
}

func passed(check, message string) ConsistencyCheckResult {
	return ConsistencyCheckResult{Check: check, Passed: true, Message: message}
}

func failed(check, message string, data map[string]interface{}) ConsistencyCheckResult {
	return ConsistencyCheckResult{Check: check, Passed: false, Message: message, Data: data}
}
