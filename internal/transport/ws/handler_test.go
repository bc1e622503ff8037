package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyengine/internal/form"
	"surveyengine/internal/schema"
	"surveyengine/internal/service"
)

const survey = `{
  "blocks": [{
    "title": "Intro",
    "questions": [
      {"id": "q_pref", "type": "single", "required": true, "label": {"en": "Like it?"},
       "options": [{"value": "yes", "label": {"en": "Yes"}}, {"value": "no", "label": {"en": "No"}}],
       "branches": [{"when": {"equals": "yes"}, "goto": "q_detail"}]},
      {"id": "q_detail", "type": "text", "label": {"en": "Why?"}}
    ]
  }]
}`

type fixture struct {
	server  *httptest.Server
	auth    *service.AuthService
	formSvc *service.FormService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := schema.Parse([]byte(survey))
	require.NoError(t, err)

	hub := NewHub(nil)
	auth := service.NewAuthService("test-secret", time.Hour)
	formSvc := service.NewFormService(service.FormServiceConfig{
		Schema: s,
		Submitter: form.SubmitterFunc(func(context.Context, form.Payload) (form.SubmitResult, error) {
			return form.SubmitResult{OK: true, Message: "saved"}, nil
		}),
	})
	formSvc.SetBroadcaster(hub)

	r := mux.NewRouter()
	r.HandleFunc("/api/ws/forms/{id}", NewHandler(hub, auth, formSvc, nil).FormWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &fixture{server: srv, auth: auth, formSvc: formSvc}
}

func (f *fixture) url(id, token string) string {
	return "ws" + strings.TrimPrefix(f.server.URL, "http") + "/api/ws/forms/" + id + "?token=" + token
}

func readMessage(t *testing.T, c *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, c.ReadJSON(&msg))
	return msg
}

func decodeView(t *testing.T, msg Message) form.View {
	t.Helper()
	require.Equal(t, MsgView, msg.Type)
	var v form.View
	require.NoError(t, json.Unmarshal(msg.Payload, &v))
	return v
}

func questionIDs(v form.View) []string {
	var ids []string
	for _, b := range v.Blocks {
		for _, q := range b.Questions {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

func TestFormWSLiveEvents(t *testing.T) {
	f := newFixture(t)
	info, _, err := f.formSvc.Start(context.Background(), "en")
	require.NoError(t, err)
	token, err := f.auth.GenerateSessionToken(info.ID, info.Locale)
	require.NoError(t, err)

	c, _, err := websocket.DefaultDialer.Dial(f.url(info.ID, token), nil)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, []string{"q_pref"}, questionIDs(decodeView(t, readMessage(t, c))))

	require.NoError(t, c.WriteJSON(map[string]any{
		"type":    "event",
		"payload": form.Event{Type: form.EventSelect, Question: "q_pref", Value: "yes"},
	}))
	assert.Equal(t, []string{"q_pref", "q_detail"}, questionIDs(decodeView(t, readMessage(t, c))))

	require.NoError(t, c.WriteJSON(map[string]any{
		"type":    "event",
		"payload": form.Event{Type: form.EventSelect, Question: "q_pref", Value: "maybe"},
	}))
	msg := readMessage(t, c)
	assert.Equal(t, MsgError, msg.Type)

	require.NoError(t, c.WriteJSON(map[string]any{"type": "submit"}))
	// the service pushes the reset view, then the result goes to the sender
	decodeView(t, readMessage(t, c))
	msg = readMessage(t, c)
	require.Equal(t, MsgSubmitResult, msg.Type)
	var out service.SubmitOutcome
	require.NoError(t, json.Unmarshal(msg.Payload, &out))
	assert.True(t, out.OK)
	assert.Equal(t, "saved", out.Message)
}

func TestFormWSRejectsForeignToken(t *testing.T) {
	f := newFixture(t)
	info, _, err := f.formSvc.Start(context.Background(), "en")
	require.NoError(t, err)
	token, err := f.auth.GenerateSessionToken("someone-else", "en")
	require.NoError(t, err)

	_, resp, err := websocket.DefaultDialer.Dial(f.url(info.ID, token), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(f.url(info.ID, ""), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
