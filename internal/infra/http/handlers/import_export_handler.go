package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/utilflow/lead-sequencer/internal/usecase"
)

type ImportExportHandler struct {
	ImportUC *usecase.ImportLeadsUseCase
	ExportUC *usecase.ExportLeadsUseCase
}

func NewImportExportHandler(importUC *usecase.ImportLeadsUseCase, exportUC *usecase.ExportLeadsUseCase) *ImportExportHandler {
	return &ImportExportHandler{ImportUC: importUC, ExportUC: exportUC}
}

// Import ingests a CSV upload. The "mapping" form field assigns lead
// fields to CSV columns, e.g. {"0":"first_name","2":"email"}.
func (h *ImportExportHandler) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file upload is required")
		return
	}
	defer file.Close()

	rawMapping := r.FormValue("mapping")
	if rawMapping == "" {
		writeError(w, http.StatusBadRequest, "mapping is required")
		return
	}

	mapping, err := parseColumnMapping(rawMapping)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.ImportUC.Execute(r.Context(), file, mapping)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *ImportExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", usecase.ExportFilename(time.Now())))

	if err := h.ExportUC.Execute(r.Context(), w); err != nil {
		// Headers are out already, the truncated body is the best we can do.
		return
	}
}

func parseColumnMapping(raw string) (map[int]string, error) {
	var byName map[string]string
	if err := json.Unmarshal([]byte(raw), &byName); err != nil {
		return nil, fmt.Errorf("mapping must be a JSON object of column index to field: %w", err)
	}

	mapping := make(map[int]string, len(byName))
	for col, field := range byName {
		idx, err := strconv.Atoi(col)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("invalid column index %q", col)
		}
		mapping[idx] = field
	}
	return mapping, nil
}
