package model

import (
	"encoding/json"
	"strconv"
	"time"
)

// FlexTime decodes either an RFC3339 string or a unix-millisecond number,
// so browser clients can send whichever their telemetry layer produces.
// It always re-encodes as RFC3339 UTC.
type FlexTime struct {
	time.Time
}

func (t *FlexTime) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		parsed, err := time.Parse(time.RFC3339, s[1:len(s)-1])
		if err != nil {
			return err
		}
		t.Time = parsed.UTC()
		return nil
	}
	millis, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	t.Time = time.UnixMilli(millis).UTC()
	return nil
}

func (t FlexTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// ProgressUpdatePayload is the self-reported telemetry a client submits
// for one activity session. It is ephemeral: validated, projected onto
// the ProgressRecord, then discarded.
type ProgressUpdatePayload struct {
	ActivityID        string               `json:"activityId"`
	TimeSpent         int                  `json:"timeSpent"` // seconds
	Score             *float64             `json:"score,omitempty"`
	Status            *ProgressStatus      `json:"status,omitempty"`
	SessionData       *ActivitySessionData `json:"sessionData,omitempty"`
	HelpRequestsCount *int                 `json:"helpRequestsCount,omitempty"`
	PauseCount        *int                 `json:"pauseCount,omitempty"`
	ResumeCount       *int                 `json:"resumeCount,omitempty"`
}

type ActivitySessionData struct {
	StartTime             FlexTime               `json:"startTime"`
	EndTime               *FlexTime              `json:"endTime,omitempty"`
	PausedDuration        int                    `json:"pausedDuration"` // seconds
	FocusEvents           []FocusEvent           `json:"focusEvents,omitempty"`
	DifficultyAdjustments []DifficultyAdjustment `json:"difficultyAdjustments,omitempty"`
	HelpRequests          []HelpRequest          `json:"helpRequests,omitempty"`
	InteractionEvents     []InteractionEvent     `json:"interactionEvents,omitempty"`
}

type FocusEventType string

const (
	FocusGained FocusEventType = "focus"
	FocusLost   FocusEventType = "blur"
)

type FocusEvent struct {
	Type      FocusEventType `json:"type"`
	Timestamp FlexTime       `json:"timestamp"`
}

type DifficultyAdjustment struct {
	From      int      `json:"from"`
	To        int      `json:"to"`
	Reason    string   `json:"reason,omitempty"`
	Timestamp FlexTime `json:"timestamp"`
}

type HelpRequest struct {
	Question     string   `json:"question"`
	Timestamp    FlexTime `json:"timestamp"`
	Resolved     bool     `json:"resolved"`
	ResponseTime *int     `json:"responseTime,omitempty"` // seconds
}

type InteractionEvent struct {
	Kind      string   `json:"kind"`
	Target    string   `json:"target,omitempty"`
	Timestamp FlexTime `json:"timestamp"`
}

// Clone returns a deep copy so sanitization never aliases caller data.
func (p *ProgressUpdatePayload) Clone() *ProgressUpdatePayload {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Score != nil {
		v := *p.Score
		cp.Score = &v
	}
	if p.Status != nil {
		v := *p.Status
		cp.Status = &v
	}
	if p.HelpRequestsCount != nil {
		v := *p.HelpRequestsCount
		cp.HelpRequestsCount = &v
	}
	if p.PauseCount != nil {
		v := *p.PauseCount
		cp.PauseCount = &v
	}
	if p.ResumeCount != nil {
		v := *p.ResumeCount
		cp.ResumeCount = &v
	}
	if p.SessionData != nil {
		sd := *p.SessionData
		if p.SessionData.EndTime != nil {
			v := *p.SessionData.EndTime
			sd.EndTime = &v
		}
		sd.FocusEvents = append([]FocusEvent(nil), p.SessionData.FocusEvents...)
		sd.DifficultyAdjustments = append([]DifficultyAdjustment(nil), p.SessionData.DifficultyAdjustments...)
		sd.HelpRequests = append([]HelpRequest(nil), p.SessionData.HelpRequests...)
		sd.InteractionEvents = append([]InteractionEvent(nil), p.SessionData.InteractionEvents...)
		cp.SessionData = &sd
	}
	return &cp
}
