package validation

import (
	"testing"
	"time"

	"kidlearn_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckReasonableTimeSpent(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name      string
		timeSpent int
		estimated int
		wantPass  bool
		wantRatio float64
	}{
		{"way too fast", 30, 600, false, 0.05},
		{"lower edge", 60, 600, true, 0.1},
		{"typical", 540, 600, true, 0.9},
		{"upper edge", 3000, 600, true, 5.0},
		{"way too slow", 3001, 600, false, 0},
		{"no estimate skips the check", 30, 0, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := checkReasonableTimeSpent(tt.timeSpent, tt.estimated, th)
			assert.Equal(t, CheckReasonableTime, res.Check)
			assert.Equal(t, tt.wantPass, res.Passed)
			if !tt.wantPass && tt.wantRatio > 0 {
				require.NotNil(t, res.Data)
				assert.InDelta(t, tt.wantRatio, res.Data["ratio"], 1e-9)
			}
		})
	}
}

func TestCheckSessionTimeConsistency(t *testing.T) {
	th := DefaultThresholds()
	start := time.Now().Add(-time.Hour)

	session := func(sessionSeconds, paused, timeSpent int) *model.ProgressUpdatePayload {
		end := ft(start.Add(time.Duration(sessionSeconds) * time.Second))
		return &model.ProgressUpdatePayload{
			ActivityID: "act-1",
			TimeSpent:  timeSpent,
			SessionData: &model.ActivitySessionData{
				StartTime:      ft(start),
				EndTime:        &end,
				PausedDuration: paused,
			},
		}
	}

	t.Run("within tolerance", func(t *testing.T) {
		// 120s session, 30s paused: active 90s, tolerance max(9s, 5s).
		res := checkSessionTimeConsistency(session(120, 30, 95), th)
		assert.True(t, res.Passed)
	})

	t.Run("drift beyond tolerance", func(t *testing.T) {
		res := checkSessionTimeConsistency(session(120, 30, 150), th)
		require.False(t, res.Passed)
		assert.Equal(t, 90, res.Data["activeDuration"])
		assert.Equal(t, 150, res.Data["timeSpent"])
	})

	t.Run("floor tolerance for tiny sessions", func(t *testing.T) {
		// active 20s, 10% would be 2s; the 5s floor applies.
		res := checkSessionTimeConsistency(session(20, 0, 24), th)
		assert.True(t, res.Passed)
	})

	t.Run("paused longer than session", func(t *testing.T) {
		res := checkSessionTimeConsistency(session(120, 200, 60), th)
		assert.False(t, res.Passed)
	})

	t.Run("no end time skips", func(t *testing.T) {
		p := session(120, 0, 60)
		p.SessionData.EndTime = nil
		res := checkSessionTimeConsistency(p, th)
		assert.True(t, res.Passed)
	})
}

func TestCheckFocusEventChronology(t *testing.T) {
	base := time.Now().Add(-time.Hour)
	ev := func(offset time.Duration) model.FocusEvent {
		return model.FocusEvent{Type: model.FocusGained, Timestamp: ft(base.Add(offset))}
	}

	t.Run("ordered", func(t *testing.T) {
		sd := &model.ActivitySessionData{FocusEvents: []model.FocusEvent{ev(0), ev(time.Minute), ev(time.Minute)}}
		assert.True(t, checkFocusEventChronology(sd).Passed)
	})

	t.Run("out of order", func(t *testing.T) {
		sd := &model.ActivitySessionData{FocusEvents: []model.FocusEvent{ev(time.Minute), ev(0)}}
		res := checkFocusEventChronology(sd)
		require.False(t, res.Passed)
		assert.Equal(t, 1, res.Data["index"])
	})

	t.Run("single event", func(t *testing.T) {
		sd := &model.ActivitySessionData{FocusEvents: []model.FocusEvent{ev(0)}}
		assert.True(t, checkFocusEventChronology(sd).Passed)
	})

	t.Run("nil session data", func(t *testing.T) {
		assert.True(t, checkFocusEventChronology(nil).Passed)
	})
}

func TestCheckHelpRequestCountConsistency(t *testing.T) {
	th := DefaultThresholds()
	now := time.Now().Add(-time.Hour)

	logged := func(n int) *model.ActivitySessionData {
		reqs := make([]model.HelpRequest, n)
		for i := range reqs {
			reqs[i] = model.HelpRequest{Question: "help", Timestamp: ft(now)}
		}
		return &model.ActivitySessionData{StartTime: ft(now), HelpRequests: reqs}
	}

	tests := []struct {
		name     string
		declared *int
		sd       *model.ActivitySessionData
		wantPass bool
	}{
		{"exact match", ip(3), logged(3), true},
		{"off by one is tolerated", ip(4), logged(3), true},
		{"off by one the other way", ip(2), logged(3), true},
		{"off by two", ip(5), logged(3), false},
		{"no declared count", nil, logged(3), true},
		{"no session data", ip(3), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &model.ProgressUpdatePayload{ActivityID: "a", TimeSpent: 60, HelpRequestsCount: tt.declared, SessionData: tt.sd}
			assert.Equal(t, tt.wantPass, checkHelpRequestCountConsistency(p, th).Passed)
		})
	}
}

func TestCheckPauseResumeConsistency(t *testing.T) {
	th := DefaultThresholds()

	t.Run("declared counts coherent", func(t *testing.T) {
		p := &model.ProgressUpdatePayload{PauseCount: ip(3), ResumeCount: ip(2)}
		assert.True(t, checkPauseResumeConsistency(p, th).Passed)
	})

	t.Run("declared counts incoherent", func(t *testing.T) {
		p := &model.ProgressUpdatePayload{PauseCount: ip(5), ResumeCount: ip(2)}
		assert.False(t, checkPauseResumeConsistency(p, th).Passed)
	})

	t.Run("interaction trace overrides declared counts", func(t *testing.T) {
		ts := ft(time.Now().Add(-time.Hour))
		p := &model.ProgressUpdatePayload{
			PauseCount:  ip(1),
			ResumeCount: ip(1),
			SessionData: &model.ActivitySessionData{
				InteractionEvents: []model.InteractionEvent{
					{Kind: "pause", Timestamp: ts},
					{Kind: "pause", Timestamp: ts},
					{Kind: "pause", Timestamp: ts},
					{Kind: "resume", Timestamp: ts},
				},
			},
		}
		assert.False(t, checkPauseResumeConsistency(p, th).Passed)
	})
}
