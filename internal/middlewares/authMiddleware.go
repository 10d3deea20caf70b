package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"myflix/internal/utils"
)

// AuthMiddleware authenticates the request from a Bearer token, falling back
// to the jwt cookie set by the social sign-in callback. On success the user
// id and username are stored in the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			utils.SendJSONError(w, "Missing token", http.StatusUnauthorized)
			return
		}

		claims, err := utils.ParseJWT(tokenString)
		if err != nil {
			log.Warn().Err(err).Msg("Rejected request with invalid token")
			utils.SendJSONError(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), utils.UserIDKey, claims.ID)
		ctx = context.WithValue(ctx, utils.UsernameKey, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return header[len("Bearer "):]
	}
	if cookie, err := r.Cookie("jwt"); err == nil {
		return cookie.Value
	}
	return ""
}
