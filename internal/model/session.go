package model

import "time"

type SessionStatus string

const (
	SessionActive     SessionStatus = "active"
	SessionSubmitting SessionStatus = "submitting"
	SessionSubmitted  SessionStatus = "submitted"
)

// SessionInfo describes a live form session
type SessionInfo struct {
	ID           string        `json:"id"`
	Locale       string        `json:"locale"`
	Status       SessionStatus `json:"status"`
	StartedAt    time.Time     `json:"startedAt"`
	LastActiveAt time.Time     `json:"lastActiveAt"`
}
