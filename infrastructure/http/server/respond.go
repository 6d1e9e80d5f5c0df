package server

import (
	"encoding/json"
	"net/http"

	"pairchat/errors"
)

type errorResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError surfaces the error taxonomy verbatim: the status comes
// from the mapping in the errors package and the message is the error
// text itself, nothing is swallowed or rewritten on the way out.
func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, errors.HTTPStatus(err), errorResponse{Message: err.Error()})
}
