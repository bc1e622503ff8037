package model

import "time"

// Response is one stored form submission
type Response struct {
	ID          string         `json:"id" bson:"_id,omitempty"`
	SubmittedAt time.Time      `json:"submitted_at" bson:"submittedAt"`
	Data        map[string]any `json:"data" bson:"data"`
}

// SubmitResponse is the storage collaborator reply
type SubmitResponse struct {
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}
