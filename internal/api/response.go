package api

import (
	"encoding/json"
	"net/http"

	apperrors "nanolez-eduai/internal/common/errors"
	"nanolez-eduai/pkg/registry"
)

type resultResponse struct {
	Result interface{} `json:"result"`
}

type successResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type errorResponse struct {
	Success *bool  `json:"success,omitempty"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeResult(w http.ResponseWriter, envelope registry.Envelope, result interface{}) {
	if envelope == registry.EnvelopeSuccess {
		writeJSON(w, http.StatusOK, successResponse{Success: true, Data: result})
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{Result: result})
}

// writeError answers with the status mapped from the error code. Internal
// errors never leak their cause.
func writeError(w http.ResponseWriter, envelope registry.Envelope, err *apperrors.StandardError) int {
	status := apperrors.HTTPStatus(err.Code)
	body := errorResponse{Error: err.Message, Code: string(err.Code)}
	if err.Code != apperrors.ErrCodeInternal {
		body.Details = err.Details
	}
	if envelope == registry.EnvelopeSuccess {
		f := false
		body.Success = &f
	}
	writeJSON(w, status, body)
	return status
}
