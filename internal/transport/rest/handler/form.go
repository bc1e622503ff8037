package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"surveyengine/internal/form"
	"surveyengine/internal/service"
)

// FormHandler exposes form sessions over HTTP
type FormHandler struct {
	formSvc *service.FormService
	authSvc *service.AuthService
	logger  *slog.Logger
}

func NewFormHandler(formSvc *service.FormService, authSvc *service.AuthService, logger *slog.Logger) *FormHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FormHandler{
		formSvc: formSvc,
		authSvc: authSvc,
		logger:  logger,
	}
}

// CreateFormResponse is returned when a form session starts
type CreateFormResponse struct {
	SessionID string    `json:"sessionId"`
	Token     string    `json:"token"`
	Locale    string    `json:"locale"`
	View      form.View `json:"view"`
}

// Create handles POST /api/forms?lang=xx
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	info, view, err := h.formSvc.Start(r.Context(), r.URL.Query().Get("lang"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	token, err := h.authSvc.GenerateSessionToken(info.ID, info.Locale)
	if err != nil {
		h.logger.Error("sign session token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session token")
		return
	}

	writeJSON(w, http.StatusCreated, CreateFormResponse{
		SessionID: info.ID,
		Token:     token,
		Locale:    info.Locale,
		View:      view,
	})
}

// Get handles GET /api/forms/{id}
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.formSvc.View(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Event handles POST /api/forms/{id}/events
func (h *FormHandler) Event(w http.ResponseWriter, r *http.Request) {
	var ev form.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.formSvc.Apply(r.Context(), mux.Vars(r)["id"], ev)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Submit handles POST /api/forms/{id}/submit
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	out, err := h.formSvc.Submit(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}

	status := http.StatusOK
	switch {
	case out.OK:
	case len(out.Errors) > 0:
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, out)
}

// Reset handles POST /api/forms/{id}/reset
func (h *FormHandler) Reset(w http.ResponseWriter, r *http.Request) {
	view, err := h.formSvc.Reset(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Delete handles DELETE /api/forms/{id}
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.formSvc.End(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FormHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSubmitInFlight):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, form.ErrNotRendered),
		errors.Is(err, form.ErrWrongType),
		errors.Is(err, form.ErrUnknownOption),
		errors.Is(err, form.ErrInvalidOrder),
		errors.Is(err, form.ErrUnknownEvent):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("form request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
