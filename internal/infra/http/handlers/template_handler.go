package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/utilflow/lead-sequencer/internal/entity"
)

type TemplateHandler struct {
	Templates entity.TemplateRepositoryInterface
}

func NewTemplateHandler(templates entity.TemplateRepositoryInterface) *TemplateHandler {
	return &TemplateHandler{Templates: templates}
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.Templates.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, templates)
}

type createTemplateRequest struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Type    string `json:"type"`
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if req.Subject == "" || req.Body == "" {
		writeError(w, http.StatusBadRequest, "subject and body are required")
		return
	}
	ttype := entity.TemplateType(req.Type)
	if !validTemplateType(ttype) {
		writeError(w, http.StatusBadRequest, "type must be no_show or follow_up_<n>")
		return
	}

	tpl := entity.NewEmailTemplate(req.Name, req.Subject, req.Body, ttype)
	if err := h.Templates.Create(r.Context(), tpl); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, tpl)
}

func validTemplateType(t entity.TemplateType) bool {
	if t == entity.TemplateNoShow {
		return true
	}
	rest, ok := strings.CutPrefix(string(t), "follow_up_")
	if !ok || rest == "" {
		return false
	}
	for _, c := range rest {
		if c < '0' || c > '9' {
			return false
		}
	}
	return rest[0] != '0'
}
