package service

import "surveyengine/internal/form"

// Broadcaster pushes session updates to live WebSocket clients (avoids import cycle)
type Broadcaster interface {
	BroadcastView(sessionID string, view form.View)
	DisconnectSession(sessionID string)
}

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastView(string, form.View) {}

func (nopBroadcaster) DisconnectSession(string) {}
