package validation

// Thresholds collects every policy constant the engine applies. The
// values are carried over from observed product behavior, not derived
// from a model, so they live in configuration rather than literals and
// can be reloaded at runtime.
type Thresholds struct {
	MaxTimeSpentSeconds      int `mapstructure:"max_time_spent_seconds"`
	MaxPausedDurationSeconds int `mapstructure:"max_paused_duration_seconds"`

	MaxFocusEvents           int `mapstructure:"max_focus_events"`
	MaxDifficultyAdjustments int `mapstructure:"max_difficulty_adjustments"`
	MaxHelpRequests          int `mapstructure:"max_help_requests"`
	MaxInteractionEvents     int `mapstructure:"max_interaction_events"`

	MaxHelpRequestsCount int `mapstructure:"max_help_requests_count"`
	MaxPauseCount        int `mapstructure:"max_pause_count"`
	MaxResumeCount       int `mapstructure:"max_resume_count"`

	// Database consistency
	ScoreRegressionLimit float64 `mapstructure:"score_regression_limit"`

	// Time plausibility
	MinTimeRatio         float64 `mapstructure:"min_time_ratio"`
	MaxTimeRatio         float64 `mapstructure:"max_time_ratio"`
	TimeDriftFraction    float64 `mapstructure:"time_drift_fraction"`
	MinTimeDriftSeconds  int     `mapstructure:"min_time_drift_seconds"`
	HelpCountTolerance   int     `mapstructure:"help_count_tolerance"`

	// Anti-gaming heuristics
	HelpPenaltyPerRequest  float64 `mapstructure:"help_penalty_per_request"`
	HelpPenaltyCap         float64 `mapstructure:"help_penalty_cap"`
	HelpScoreTolerance     float64 `mapstructure:"help_score_tolerance"`
	QuickCompletionSeconds int     `mapstructure:"quick_completion_seconds"`
	SuspiciousScore        float64 `mapstructure:"suspicious_score"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxTimeSpentSeconds:      14400,
		MaxPausedDurationSeconds: 7200,

		MaxFocusEvents:           1000,
		MaxDifficultyAdjustments: 50,
		MaxHelpRequests:          100,
		MaxInteractionEvents:     5000,

		MaxHelpRequestsCount: 100,
		MaxPauseCount:        50,
		MaxResumeCount:       50,

		ScoreRegressionLimit: 20,

		MinTimeRatio:        0.1,
		MaxTimeRatio:        5.0,
		TimeDriftFraction:   0.1,
		MinTimeDriftSeconds: 5,
		HelpCountTolerance:  1,

		HelpPenaltyPerRequest:  2,
		HelpPenaltyCap:         20,
		HelpScoreTolerance:     5,
		QuickCompletionSeconds: 30,
		SuspiciousScore:        95,
	}
}
