package validation

import (
	"testing"
	"time"

	"kidlearn_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64              { return &v }
func ip(v int) *int                      { return &v }
func sp(s model.ProgressStatus) *model.ProgressStatus { return &s }

func ft(t time.Time) model.FlexTime { return model.FlexTime{Time: t} }

func basePayload() *model.ProgressUpdatePayload {
	return &model.ProgressUpdatePayload{
		ActivityID: "act-1",
		TimeSpent:  300,
	}
}

func errCodes(errs []ValidationError) []string {
	codes := make([]string, len(errs))
	for i, e := range errs {
		codes[i] = e.Code
	}
	return codes
}

func TestValidateSchemaTimeSpentBounds(t *testing.T) {
	now := time.Now()
	th := DefaultThresholds()

	tests := []struct {
		name      string
		timeSpent int
		wantErr   bool
	}{
		{"lower bound", 1, false},
		{"upper bound", 14400, false},
		{"zero", 0, true},
		{"negative", -5, true},
		{"over four hours", 14401, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := basePayload()
			p.TimeSpent = tt.timeSpent
			errs, _ := ValidateSchema(p, now, th)
			if tt.wantErr {
				assert.Contains(t, errCodes(errs), "TIME_SPENT_OUT_OF_RANGE")
			} else {
				assert.NotContains(t, errCodes(errs), "TIME_SPENT_OUT_OF_RANGE")
			}
		})
	}
}

func TestValidateSchemaScore(t *testing.T) {
	now := time.Now()
	th := DefaultThresholds()

	t.Run("out of range", func(t *testing.T) {
		p := basePayload()
		p.Score = fp(101)
		errs, _ := ValidateSchema(p, now, th)
		assert.Contains(t, errCodes(errs), "SCORE_OUT_OF_RANGE")
	})

	t.Run("two decimals allowed", func(t *testing.T) {
		p := basePayload()
		p.Score = fp(87.25)
		errs, _ := ValidateSchema(p, now, th)
		assert.Empty(t, errs)
	})

	t.Run("three decimals rejected", func(t *testing.T) {
		p := basePayload()
		p.Score = fp(87.251)
		errs, _ := ValidateSchema(p, now, th)
		assert.Contains(t, errCodes(errs), "SCORE_TOO_PRECISE")
	})

	t.Run("completed requires score", func(t *testing.T) {
		p := basePayload()
		p.Status = sp(model.StatusCompleted)
		errs, _ := ValidateSchema(p, now, th)
		assert.Contains(t, errCodes(errs), "SCORE_REQUIRED")
	})

	t.Run("completed with score is fine", func(t *testing.T) {
		p := basePayload()
		p.Status = sp(model.StatusCompleted)
		p.Score = fp(90)
		errs, _ := ValidateSchema(p, now, th)
		assert.Empty(t, errs)
	})
}

func TestValidateSchemaStatus(t *testing.T) {
	p := basePayload()
	p.Status = sp(model.ProgressStatus("DONE"))
	errs, _ := ValidateSchema(p, time.Now(), DefaultThresholds())
	assert.Contains(t, errCodes(errs), "INVALID_STATUS")
}

func TestValidateSchemaPauseResume(t *testing.T) {
	now := time.Now()
	th := DefaultThresholds()

	tests := []struct {
		name    string
		pauses  *int
		resumes *int
		wantErr bool
	}{
		{"one unresolved pause", ip(3), ip(2), false},
		{"balanced", ip(2), ip(2), false},
		{"two more pauses than resumes", ip(4), ip(2), true},
		{"pause without any resume field", ip(1), nil, false},
		{"two pauses without resume field", ip(2), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := basePayload()
			p.PauseCount = tt.pauses
			p.ResumeCount = tt.resumes
			errs, _ := ValidateSchema(p, now, th)
			if tt.wantErr {
				assert.Contains(t, errCodes(errs), "PAUSE_RESUME_MISMATCH")
			} else {
				assert.NotContains(t, errCodes(errs), "PAUSE_RESUME_MISMATCH")
			}
		})
	}
}

func TestValidateSchemaSessionData(t *testing.T) {
	now := time.Now()
	th := DefaultThresholds()

	t.Run("future start time", func(t *testing.T) {
		p := basePayload()
		p.SessionData = &model.ActivitySessionData{StartTime: ft(now.Add(time.Hour))}
		errs, _ := ValidateSchema(p, now, th)
		assert.Contains(t, errCodes(errs), "TIMESTAMP_IN_FUTURE")
	})

	t.Run("end before start", func(t *testing.T) {
		end := ft(now.Add(-time.Hour))
		p := basePayload()
		p.SessionData = &model.ActivitySessionData{
			StartTime: ft(now.Add(-30 * time.Minute)),
			EndTime:   &end,
		}
		errs, _ := ValidateSchema(p, now, th)
		assert.Contains(t, errCodes(errs), "END_BEFORE_START")
	})

	t.Run("paused duration over cap", func(t *testing.T) {
		p := basePayload()
		p.SessionData = &model.ActivitySessionData{
			StartTime:      ft(now.Add(-time.Hour)),
			PausedDuration: 7201,
		}
		errs, _ := ValidateSchema(p, now, th)
		assert.Contains(t, errCodes(errs), "PAUSED_DURATION_OUT_OF_RANGE")
	})

	t.Run("focus event cap is an error not a truncation", func(t *testing.T) {
		events := make([]model.FocusEvent, 1001)
		for i := range events {
			events[i] = model.FocusEvent{Type: model.FocusGained, Timestamp: ft(now.Add(-time.Hour))}
		}
		p := basePayload()
		p.SessionData = &model.ActivitySessionData{
			StartTime:   ft(now.Add(-2 * time.Hour)),
			FocusEvents: events,
		}
		errs, sanitized := ValidateSchema(p, now, th)
		assert.Contains(t, errCodes(errs), "ARRAY_LIMIT_EXCEEDED")
		assert.Len(t, sanitized.SessionData.FocusEvents, 1001)
	})

	t.Run("unknown focus event type", func(t *testing.T) {
		p := basePayload()
		p.SessionData = &model.ActivitySessionData{
			StartTime:   ft(now.Add(-time.Hour)),
			FocusEvents: []model.FocusEvent{{Type: "minimize", Timestamp: ft(now.Add(-time.Hour))}},
		}
		errs, _ := ValidateSchema(p, now, th)
		assert.Contains(t, errCodes(errs), "INVALID_FOCUS_EVENT")
	})
}

func TestValidateSchemaCollectsAllErrors(t *testing.T) {
	p := &model.ProgressUpdatePayload{
		ActivityID: "",
		TimeSpent:  0,
		Score:      fp(150),
		Status:     sp(model.ProgressStatus("BOGUS")),
	}
	errs, _ := ValidateSchema(p, time.Now(), DefaultThresholds())
	require.GreaterOrEqual(t, len(errs), 4)
}

func TestSanitizeIsIdempotent(t *testing.T) {
	now := time.Now()
	th := DefaultThresholds()
	end := ft(now.Add(-10 * time.Minute))

	p := basePayload()
	p.ActivityID = "  act-1  "
	p.Score = fp(88)
	p.SessionData = &model.ActivitySessionData{
		StartTime:      ft(now.Add(-30 * time.Minute)),
		EndTime:        &end,
		PausedDuration: 60,
		HelpRequests: []model.HelpRequest{
			{Question: "  what is 2+2  ", Timestamp: ft(now.Add(-20 * time.Minute)), Resolved: true},
		},
	}

	errs, sanitized := ValidateSchema(p, now, th)
	require.Empty(t, errs)
	assert.Equal(t, "act-1", sanitized.ActivityID)
	assert.Equal(t, "what is 2+2", sanitized.SessionData.HelpRequests[0].Question)

	errs2, sanitized2 := ValidateSchema(sanitized, now, th)
	assert.Empty(t, errs2)
	assert.Equal(t, sanitized, sanitized2)
}

func TestSanitizeDoesNotAliasCallerData(t *testing.T) {
	p := basePayload()
	p.Score = fp(50)
	_, sanitized := ValidateSchema(p, time.Now(), DefaultThresholds())

	*sanitized.Score = 99
	assert.Equal(t, 50.0, *p.Score)
}
