package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	"kidlearn_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	child    *model.Child
	activity *model.Activity
	record   *model.ProgressRecord
	err      error
}

func (f *fakeStore) GetChild(ctx context.Context, childID string) (*model.Child, error) {
	return f.child, f.err
}

func (f *fakeStore) GetActivity(ctx context.Context, activityID string) (*model.Activity, error) {
	return f.activity, f.err
}

func (f *fakeStore) GetProgressRecord(ctx context.Context, childID, activityID string) (*model.ProgressRecord, error) {
	return f.record, f.err
}

func healthyStore() *fakeStore {
	child := &model.Child{IsActive: true}
	child.ID = "child-1"
	activity := &model.Activity{ChildID: "child-1", EstimatedDuration: 600}
	activity.ID = "act-1"
	return &fakeStore{child: child, activity: activity}
}

func validPayload() *model.ProgressUpdatePayload {
	return &model.ProgressUpdatePayload{
		ActivityID: "act-1",
		TimeSpent:  300,
		Score:      fp(85),
	}
}

func newTestEngine(store DataStore) *Engine {
	return NewEngine(store, DefaultThresholds())
}

func TestValidateProgressUpdateAccepts(t *testing.T) {
	e := newTestEngine(healthyStore())

	result, err := e.ValidateProgressUpdate(context.Background(), "child-1", validPayload())
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.NotEmpty(t, result.ConsistencyChecks)
	require.NotNil(t, result.SanitizedData)
	assert.Equal(t, "act-1", result.SanitizedData.ActivityID)
}

func TestValidateProgressUpdateSchemaGate(t *testing.T) {
	store := healthyStore()
	e := newTestEngine(store)

	p := validPayload()
	p.TimeSpent = 0
	result, err := e.ValidateProgressUpdate(context.Background(), "child-1", p)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.NotEmpty(t, result.Errors)
	// Malformed payloads never reach the store or the business checks.
	assert.Empty(t, result.ConsistencyChecks)
}

func TestValidateProgressUpdateChildNotFound(t *testing.T) {
	store := healthyStore()
	store.child = nil
	e := newTestEngine(store)

	result, err := e.ValidateProgressUpdate(context.Background(), "child-1", validPayload())
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.NotNil(t, result.FailedCheck(CheckChildExists))
	// Other checks still ran; the response is a complete diagnostic.
	found := false
	for _, c := range result.ConsistencyChecks {
		if c.Check == CheckActivityExists {
			found = true
			assert.True(t, c.Passed)
		}
	}
	assert.True(t, found)
}

func TestValidateProgressUpdateInactiveChild(t *testing.T) {
	store := healthyStore()
	store.child.IsActive = false
	e := newTestEngine(store)

	result, err := e.ValidateProgressUpdate(context.Background(), "child-1", validPayload())
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Nil(t, result.FailedCheck(CheckChildExists))
	assert.NotNil(t, result.FailedCheck(CheckChildActive))
}

func TestValidateProgressUpdateOwnership(t *testing.T) {
	store := healthyStore()
	store.activity.ChildID = "someone-else"
	e := newTestEngine(store)

	result, err := e.ValidateProgressUpdate(context.Background(), "child-1", validPayload())
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.NotNil(t, result.FailedCheck(CheckActivityOwnership))
}

func TestValidateProgressUpdateStatusTransition(t *testing.T) {
	store := healthyStore()
	store.record = &model.ProgressRecord{Status: model.StatusCompleted, Score: 80}

	tests := []struct {
		name      string
		requested model.ProgressStatus
		wantValid bool
	}{
		{"completed back to in progress", model.StatusInProgress, true},
		{"completed to not started", model.StatusNotStarted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(store)
			p := validPayload()
			p.Status = sp(tt.requested)
			if tt.requested == model.StatusCompleted {
				p.Score = fp(85)
			}
			result, err := e.ValidateProgressUpdate(context.Background(), "child-1", p)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.IsValid)
			if !tt.wantValid {
				assert.NotNil(t, result.FailedCheck(CheckStatusTransition))
			}
		})
	}
}

func TestValidateProgressUpdateScoreRegression(t *testing.T) {
	store := healthyStore()
	store.record = &model.ProgressRecord{Status: model.StatusInProgress, Score: 80}

	tests := []struct {
		name      string
		newScore  float64
		wantValid bool
	}{
		{"25 point drop is anomalous", 55, false},
		{"15 point drop passes", 65, true},
		{"exactly 20 point drop passes", 60, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(store)
			p := validPayload()
			p.Score = fp(tt.newScore)
			result, err := e.ValidateProgressUpdate(context.Background(), "child-1", p)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.IsValid)
			if !tt.wantValid {
				failed := result.FailedCheck(CheckScoreRegression)
				require.NotNil(t, failed)
				assert.Equal(t, 80.0, failed.Data["existingScore"])
			}
		})
	}
}

func TestValidateProgressUpdateHeuristicsWarnButDoNotBlock(t *testing.T) {
	e := newTestEngine(healthyStore())

	p := validPayload()
	p.TimeSpent = 90 // ratio 0.15, plausible for the 600s estimate
	p.Score = fp(95)
	p.HelpRequestsCount = ip(10)

	result, err := e.ValidateProgressUpdate(context.Background(), "child-1", p)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, CheckScoreHelpPlausible, result.Warnings[0].Code)
}

func TestValidateProgressUpdateQuickPerfectScoreWarning(t *testing.T) {
	store := healthyStore()
	store.activity.EstimatedDuration = 120
	e := newTestEngine(store)

	p := validPayload()
	p.TimeSpent = 20 // ratio 0.17 against the 120s estimate
	p.Score = fp(100)

	result, err := e.ValidateProgressUpdate(context.Background(), "child-1", p)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, CheckQuickPerfectScore, result.Warnings[0].Code)
}

func TestValidateProgressUpdateEnumeratesEveryProblem(t *testing.T) {
	store := healthyStore()
	store.child.IsActive = false
	store.record = &model.ProgressRecord{Status: model.StatusCompleted, Score: 90}
	e := newTestEngine(store)

	p := validPayload()
	p.Status = sp(model.StatusNotStarted)
	p.Score = fp(40) // 50 point regression
	p.TimeSpent = 30 // ratio 0.05

	result, err := e.ValidateProgressUpdate(context.Background(), "child-1", p)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.NotNil(t, result.FailedCheck(CheckChildActive))
	assert.NotNil(t, result.FailedCheck(CheckStatusTransition))
	assert.NotNil(t, result.FailedCheck(CheckScoreRegression))
	assert.NotNil(t, result.FailedCheck(CheckReasonableTime))
	assert.GreaterOrEqual(t, len(result.Errors), 4)
}

func TestValidateProgressUpdateCarriesStoredSnapshot(t *testing.T) {
	store := healthyStore()
	store.record = &model.ProgressRecord{Status: model.StatusInProgress, Score: 50, Version: 3}
	e := newTestEngine(store)

	result, err := e.ValidateProgressUpdate(context.Background(), "child-1", validPayload())
	require.NoError(t, err)
	// The caller guards its write with this snapshot's version, so the
	// result must carry the exact record the checks ran against.
	require.NotNil(t, result.ExistingRecord)
	assert.Equal(t, 3, result.ExistingRecord.Version)
	assert.Equal(t, 50.0, result.ExistingRecord.Score)

	store.record = nil
	result, err = e.ValidateProgressUpdate(context.Background(), "child-1", validPayload())
	require.NoError(t, err)
	assert.Nil(t, result.ExistingRecord)
}

func TestValidateProgressUpdateStoreFailure(t *testing.T) {
	e := newTestEngine(&fakeStore{err: errors.New("connection refused")})

	result, err := e.ValidateProgressUpdate(context.Background(), "child-1", validPayload())
	require.Error(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsValid)
	assert.True(t, result.HasSystemError())
}

func TestSetThresholds(t *testing.T) {
	store := healthyStore()
	store.record = &model.ProgressRecord{Status: model.StatusInProgress, Score: 80}
	e := newTestEngine(store)

	p := validPayload()
	p.Score = fp(65) // 15 point drop, fine under the default limit

	result, err := e.ValidateProgressUpdate(context.Background(), "child-1", p)
	require.NoError(t, err)
	assert.True(t, result.IsValid)

	tight := DefaultThresholds()
	tight.ScoreRegressionLimit = 10
	e.SetThresholds(tight)

	result, err = e.ValidateProgressUpdate(context.Background(), "child-1", p)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.NotNil(t, result.FailedCheck(CheckScoreRegression))
}

func TestEngineNowInjection(t *testing.T) {
	e := newTestEngine(healthyStore())
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return fixed }

	p := validPayload()
	start := model.FlexTime{Time: fixed.Add(time.Minute)} // future relative to the injected clock
	p.SessionData = &model.ActivitySessionData{StartTime: start}

	result, err := e.ValidateProgressUpdate(context.Background(), "child-1", p)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
}
