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

type GenreHandler struct {
	genreService services.GenreService
}

func NewGenreHandler(genreService services.GenreService) *GenreHandler {
	return &GenreHandler{genreService: genreService}
}

// AddGenre handles POST /genres.
func (g *GenreHandler) AddGenre(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGenreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid genre payload")
		utils.SendJSONError(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if _, err := g.genreService.AddGenre(r.Context(), &req); err != nil {
		utils.SendError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "Genre created successfully"})
}

// GetGenres handles GET /genres.
func (g *GenreHandler) GetGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := g.genreService.GetGenres(r.Context())
	if err != nil {
		utils.SendError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, genres)
}

// GetGenreByName handles GET /genres/{name}.
func (g *GenreHandler) GetGenreByName(w http.ResponseWriter, r *http.Request) {
	genre, err := g.genreService.GetGenreByName(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		utils.SendError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, genre)
}
