package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"myflix/internal/models"
	"myflix/internal/repositories"
	"myflix/internal/services"
	"myflix/internal/utils"
)

type MovieHandler struct {
	movieService services.MovieService
}

func NewMovieHandler(movieService services.MovieService) *MovieHandler {
	return &MovieHandler{movieService: movieService}
}

// AddMovie handles POST /movies.
func (m *MovieHandler) AddMovie(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid movie payload")
		utils.SendJSONError(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if _, err := m.movieService.AddMovie(r.Context(), &req); err != nil {
		utils.SendError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "Movie created successfully"})
}

// GetMovies handles GET /movies with optional genre, director and featured
// query filters.
func (m *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repositories.MovieFilter{
		Genre:    query.Get("genre"),
		Director: query.Get("director"),
	}
	if raw := query.Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			utils.SendJSONError(w, "featured must be true or false", http.StatusBadRequest)
			return
		}
		filter.Featured = &featured
	}

	movies, err := m.movieService.GetMovies(r.Context(), filter)
	if err != nil {
		utils.SendError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, movies)
}

// GetMovieByTitle handles GET /movies/{title}.
func (m *MovieHandler) GetMovieByTitle(w http.ResponseWriter, r *http.Request) {
	movie, err := m.movieService.GetMovieByTitle(r.Context(), mux.Vars(r)["title"])
	if err != nil {
		utils.SendError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, movie)
}
