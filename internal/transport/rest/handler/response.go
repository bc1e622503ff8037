package handler

import (
	"encoding/json"
	"net/http"

	"surveyengine/internal/metrics"
	"surveyengine/internal/model"
	"surveyengine/internal/service"
)

const msgFetchFailed = "Failed to fetch responses"

// ResponseHandler is the HTTP face of the storage collaborator.
// It answers with a {"message"} body, which the submit client reads.
type ResponseHandler struct {
	responseSvc *service.ResponseService
	metrics     *metrics.Collector
}

func NewResponseHandler(responseSvc *service.ResponseService, m *metrics.Collector) *ResponseHandler {
	return &ResponseHandler{
		responseSvc: responseSvc,
		metrics:     m,
	}
}

// Submit handles POST /api/submit
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var data map[string]any
	// null decodes without error but is not an object
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil || data == nil {
		h.count("bad_request")
		writeJSON(w, http.StatusBadRequest, model.SubmitResponse{Message: "invalid request body"})
		return
	}

	resp, err := h.responseSvc.Save(r.Context(), data)
	if err != nil {
		h.count("error")
		writeJSON(w, http.StatusInternalServerError, model.SubmitResponse{Message: service.MsgResponseFailed})
		return
	}

	h.count("ok")
	writeJSON(w, http.StatusOK, model.SubmitResponse{ID: resp.ID, Message: service.MsgResponseSaved})
}

// List handles GET /api/responses
func (h *ResponseHandler) List(w http.ResponseWriter, r *http.Request) {
	responses, err := h.responseSvc.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, model.SubmitResponse{Message: msgFetchFailed})
		return
	}
	writeJSON(w, http.StatusOK, responses)
}

func (h *ResponseHandler) count(status string) {
	if h.metrics != nil {
		h.metrics.ResponsesStored.WithLabelValues(status).Inc()
	}
}
