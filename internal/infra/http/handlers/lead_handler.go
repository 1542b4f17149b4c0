package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/utilflow/lead-sequencer/internal/entity"
	"github.com/utilflow/lead-sequencer/internal/infra/http/middleware"
	"github.com/utilflow/lead-sequencer/internal/usecase"
)

type LeadHandler struct {
	Leads    entity.LeadRepositoryInterface
	Logs     entity.LogRepositoryInterface
	CreateUC *usecase.CreateLeadUseCase
	UpsertUC *usecase.UpsertLeadUseCase
	UpdateUC *usecase.UpdateLeadUseCase
	StartUC  *usecase.StartSequenceUseCase
	NoShowUC *usecase.MarkNoShowUseCase
}

func NewLeadHandler(
	leads entity.LeadRepositoryInterface,
	logs entity.LogRepositoryInterface,
	createUC *usecase.CreateLeadUseCase,
	upsertUC *usecase.UpsertLeadUseCase,
	updateUC *usecase.UpdateLeadUseCase,
	startUC *usecase.StartSequenceUseCase,
	noShowUC *usecase.MarkNoShowUseCase,
) *LeadHandler {
	return &LeadHandler{
		Leads:    leads,
		Logs:     logs,
		CreateUC: createUC,
		UpsertUC: upsertUC,
		UpdateUC: updateUC,
		StartUC:  startUC,
		NoShowUC: noShowUC,
	}
}

// Create handles direct lead entry from the management UI.
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	lead, err := h.CreateUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordLeadCreated("ui")
	writeJSON(w, http.StatusCreated, lead)
}

// Upsert creates or updates a lead keyed on email, 201 when created
// and 200 when an existing lead was touched.
func (h *LeadHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpsertLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	out, err := h.UpsertUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	status := http.StatusOK
	if out.Created {
		status = http.StatusCreated
		middleware.RecordLeadCreated("api")
	}
	writeJSON(w, status, out.Lead)
}

func (h *LeadHandler) FindByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email query parameter is required")
		return
	}

	lead, err := h.Leads.FindByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no lead with that email")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Leads.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			writeError(w, http.StatusNotFound, "lead not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	lead, err := h.UpdateUC.Execute(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

type listLeadsResponse struct {
	Leads []*entity.Lead `json:"leads"`
	Count int            `json:"count"`
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := entity.LeadFilter{
		Search: q.Get("search"),
	}
	if status := q.Get("status"); status != "" {
		s := entity.LeadStatus(status)
		if !s.Valid() {
			writeError(w, http.StatusBadRequest, "unknown status filter")
			return
		}
		filter.Status = s
	}
	filter.Limit = intQuery(q.Get("limit"), 50)
	filter.Offset = intQuery(q.Get("offset"), 0)

	leads, err := h.Leads.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, listLeadsResponse{Leads: leads, Count: len(leads)})
}

func (h *LeadHandler) StartSequence(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.StartUC.Execute(r.Context(), id); err != nil {
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordSequenceStarted()
	writeJSON(w, http.StatusOK, map[string]string{"status": "sequence started"})
}

func (h *LeadHandler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	if err := h.NoShowUC.Execute(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "marked as no-show"})
}

func (h *LeadHandler) Trash(w http.ResponseWriter, r *http.Request) {
	if err := h.Leads.Trash(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			writeError(w, http.StatusNotFound, "lead not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "trashed"})
}

type bulkTrashRequest struct {
	IDs []string `json:"ids"`
}

type bulkTrashResponse struct {
	Trashed int `json:"trashed"`
	Missing int `json:"missing"`
}

// BulkTrash soft-deletes a batch of leads. Unknown IDs are counted,
// not fatal.
func (h *LeadHandler) BulkTrash(w http.ResponseWriter, r *http.Request) {
	var req bulkTrashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids is required")
		return
	}

	var resp bulkTrashResponse
	for _, id := range req.IDs {
		err := h.Leads.Trash(r.Context(), id)
		switch {
		case err == nil:
			resp.Trashed++
		case errors.Is(err, entity.ErrNotFound):
			resp.Missing++
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *LeadHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.Leads.FindByID(r.Context(), id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			writeError(w, http.StatusNotFound, "lead not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	entries, err := h.Logs.ListByLead(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func intQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
