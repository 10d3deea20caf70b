package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"myflix/internal/models"
	"myflix/internal/services"
	"myflix/internal/utils"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register handles POST /users.
func (u *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid signup payload")
		utils.SendJSONError(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if _, err := u.userService.Register(r.Context(), &req); err != nil {
		utils.SendError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "User created successfully"})
}

// Login handles POST /login.
func (u *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		log.Error().Err(err).Msg("Invalid login payload")
		utils.SendJSONError(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	token, user, err := u.userService.Login(r.Context(), &creds)
	if err != nil {
		utils.SendError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, models.LoginResponse{Token: token, Username: user.Username})
}

// GetProfile handles GET /users/{username}.
func (u *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	currentUsername, err := utils.GetUsernameFromContext(r)
	if err != nil {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := u.userService.GetProfile(r.Context(), currentUsername, mux.Vars(r)["username"])
	if err != nil {
		utils.SendError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT and PATCH /users/{username}. The body is passed
// through raw so field validation can report unknown keys.
func (u *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	currentUsername, err := utils.GetUsernameFromContext(r)
	if err != nil {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error().Err(err).Msg("Could not read update payload")
		utils.SendJSONError(w, "Could not read request body", http.StatusBadRequest)
		return
	}

	updated, err := u.userService.UpdateProfile(r.Context(), currentUsername, mux.Vars(r)["username"], payload)
	if err != nil {
		utils.SendError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DeleteAccount handles DELETE /users/{username}.
func (u *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	currentUsername, err := utils.GetUsernameFromContext(r)
	if err != nil {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := u.userService.DeleteAccount(r.Context(), currentUsername, mux.Vars(r)["username"]); err != nil {
		utils.SendError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// AddFavourite handles POST /users/{username}/favourites/{movieID}.
func (u *UserHandler) AddFavourite(w http.ResponseWriter, r *http.Request) {
	currentUsername, err := utils.GetUsernameFromContext(r)
	if err != nil {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	favourites, err := u.userService.AddFavourite(r.Context(), currentUsername, vars["username"], vars["movieID"])
	if err != nil {
		utils.SendError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"favourites": favourites})
}

// RemoveFavourite handles DELETE /users/{username}/favourites/{movieID}.
func (u *UserHandler) RemoveFavourite(w http.ResponseWriter, r *http.Request) {
	currentUsername, err := utils.GetUsernameFromContext(r)
	if err != nil {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	favourites, err := u.userService.RemoveFavourite(r.Context(), currentUsername, vars["username"], vars["movieID"])
	if err != nil {
		utils.SendError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"favourites": favourites})
}
