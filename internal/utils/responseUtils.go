package utils

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"myflix/internal/apperr"
)

type errorResponse struct {
	Error string `json:"error"`
}

func RespondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func SendJSONError(w http.ResponseWriter, message string, status int) {
	RespondWithJSON(w, status, errorResponse{Error: message})
}

// SendError translates a service error into its HTTP response. This is the
// single point where outcome kinds become status codes.
func SendError(w http.ResponseWriter, err error) {
	SendJSONError(w, apperr.PublicMessage(err), apperr.Status(err))
}
