package entity

import "time"

// StatusHistory is the audit trail of a submission: one row per applied
// transition, identifying who moved it and from where to where.
type StatusHistory struct {
	ID             int64     `json:"id"`
	SubmissionID   int64     `json:"submission_id"`
	ActorUserID    string    `json:"actor_user_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	Action         string    `json:"action"`
	Remarks        string    `json:"remarks,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}
