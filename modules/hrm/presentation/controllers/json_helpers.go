package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/nordwind/backoffice/pkg/composables"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		panic(err)
	}
}

type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func writeAPIError(w http.ResponseWriter, r *http.Request, status int, code string, message string) {
	meta := map[string]string{}
	if requestID, ok := composables.UseRequestID(r.Context()); ok {
		meta["request_id"] = requestID
	}
	writeJSON(w, status, apiError{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}
