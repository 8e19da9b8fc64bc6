package domain

import "time"

// EventType names a change in a submission's review lifecycle.
type EventType string

const (
	EventSubmitted EventType = "submitted"
	EventReviewed  EventType = "reviewed"
	EventCompleted EventType = "completed"
)

// SubmissionEvent is pushed to review feed subscribers.
type SubmissionEvent struct {
	Type         EventType    `json:"type"`
	SubmissionID string       `json:"submissionId"`
	UserID       string       `json:"userId"`
	UserName     string       `json:"userName,omitempty"`
	Status       ReviewStatus `json:"status"`
	Score        float64      `json:"score"`
	RiskLabel    string       `json:"riskLabel,omitempty"`
	At           time.Time    `json:"at"`
}

// BulkResult reports the outcome of a bulk completion.
type BulkResult struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}
