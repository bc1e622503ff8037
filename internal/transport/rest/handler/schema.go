package handler

import (
	"net/http"

	"surveyengine/internal/schema"
)

type SchemaHandler struct {
	schema *schema.Schema
}

func NewSchemaHandler(s *schema.Schema) *SchemaHandler {
	return &SchemaHandler{schema: s}
}

// Get handles GET /api/schema
func (h *SchemaHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.schema.Definition())
}
