package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"myflix/internal/services"
	"myflix/internal/utils"
)

type RecommendationHandler struct {
	recommendationService services.RecommendationService
}

func NewRecommendationHandler(recommendationService services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendationService: recommendationService}
}

// GetRecommendations handles GET /users/{username}/recommendations.
func (h *RecommendationHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	currentUsername, err := utils.GetUsernameFromContext(r)
	if err != nil {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	recommendations, err := h.recommendationService.GetRecommendations(r.Context(), currentUsername, mux.Vars(r)["username"])
	if err != nil {
		utils.SendError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"recommendations": recommendations})
}
