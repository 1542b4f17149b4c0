package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/utilflow/lead-sequencer/internal/entity"
	"github.com/utilflow/lead-sequencer/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeUseCaseError maps engine errors onto HTTP statuses. Domain codes
// drive the mapping; anything unrecognized is a 500.
func writeUseCaseError(w http.ResponseWriter, err error) {
	var verr usecase.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Code: usecase.CodeValidation})
		return
	}

	var derr *usecase.DomainError
	if errors.As(err, &derr) {
		status := http.StatusInternalServerError
		switch derr.Code {
		case usecase.CodeLeadNotFound:
			status = http.StatusNotFound
		case usecase.CodeValidation, usecase.CodeInvalidEmail, usecase.CodeNoFields:
			status = http.StatusBadRequest
		case usecase.CodeAlreadyRunning:
			status = http.StatusConflict
		case usecase.CodeTemplateMissing, usecase.CodeSendFailed:
			status = http.StatusBadGateway
		}
		writeJSON(w, status, errorResponse{Error: derr.Message, Code: derr.Code})
		return
	}

	if errors.Is(err, entity.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	writeError(w, http.StatusInternalServerError, err.Error())
}
