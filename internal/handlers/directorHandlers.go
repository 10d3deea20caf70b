package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"myflix/internal/models"
	"myflix/internal/services"
	"myflix/internal/utils"
)

type DirectorHandler struct {
	directorService services.DirectorService
}

func NewDirectorHandler(directorService services.DirectorService) *DirectorHandler {
	return &DirectorHandler{directorService: directorService}
}

// AddDirector handles POST /directors.
func (d *DirectorHandler) AddDirector(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDirectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid director payload")
		utils.SendJSONError(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if _, err := d.directorService.AddDirector(r.Context(), &req); err != nil {
		utils.SendError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "Director created successfully"})
}

// GetDirectors handles GET /directors.
func (d *DirectorHandler) GetDirectors(w http.ResponseWriter, r *http.Request) {
	directors, err := d.directorService.GetDirectors(r.Context())
	if err != nil {
		utils.SendError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, directors)
}

// GetDirectorByName handles GET /directors/{name}.
func (d *DirectorHandler) GetDirectorByName(w http.ResponseWriter, r *http.Request) {
	director, err := d.directorService.GetDirectorByName(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		utils.SendError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, director)
}
