package validation

import (
	"testing"

	"kidlearn_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckScoreHelpPlausibility(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name     string
		score    *float64
		helps    *int
		wantPass bool
	}{
		// 10 helps: penalty capped at 20, ceiling 80, tolerance +5.
		{"score above ceiling plus tolerance", fp(95), ip(10), false},
		{"score at the tolerance edge", fp(85), ip(10), true},
		{"score below ceiling", fp(82), ip(10), true},
		{"few helps barely dent the ceiling", fp(98), ip(1), true},
		{"no score", nil, ip(10), true},
		{"no help count", fp(100), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &model.ProgressUpdatePayload{ActivityID: "a", TimeSpent: 600, Score: tt.score, HelpRequestsCount: tt.helps}
			res := checkScoreHelpPlausibility(p, th)
			assert.Equal(t, tt.wantPass, res.Passed)
			if !tt.wantPass {
				require.NotNil(t, res.Data)
				assert.Equal(t, 80.0, res.Data["ceiling"])
			}
		})
	}
}

func TestCheckQuickPerfectScore(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name      string
		timeSpent int
		score     *float64
		wantPass  bool
	}{
		{"perfect score in twenty seconds", 20, fp(100), false},
		{"suspicious score at the threshold", 29, fp(95), false},
		{"fast but mediocre", 20, fp(60), true},
		{"slow and perfect", 600, fp(100), true},
		{"at the time threshold", 30, fp(100), true},
		{"no score", 20, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &model.ProgressUpdatePayload{ActivityID: "a", TimeSpent: tt.timeSpent, Score: tt.score}
			assert.Equal(t, tt.wantPass, checkQuickPerfectScore(p, th).Passed)
		})
	}
}
