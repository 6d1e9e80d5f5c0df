package server

import (
	"encoding/json"
	"net/http"

	"pairchat/repositories"
)

// StatusServer records and lists client liveness pings. Kept public:
// the pings predate authentication and carry no user data.
type StatusServer struct {
	statusRepository repositories.IStatusRepository
}

func NewStatusServer(statusRepository repositories.IStatusRepository) *StatusServer {
	return &StatusServer{statusRepository: statusRepository}
}

type statusRequest struct {
	ClientName string `json:"client_name"`
}

func (s *StatusServer) Create(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ClientName == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	check, err := s.statusRepository.RecordStatus(req.ClientName)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, check)
}

func (s *StatusServer) List(w http.ResponseWriter, r *http.Request) {
	checks, err := s.statusRepository.ListStatus()
	if err != nil {
		respondError(w, err)
		return
	}
	if checks == nil {
		checks = []repositories.StatusCheck{}
	}
	respondJSON(w, http.StatusOK, checks)
}
