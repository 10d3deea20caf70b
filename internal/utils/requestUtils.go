package utils

import (
	"errors"
	"net/http"
)

type contextKey string

const (
	UserIDKey    contextKey = "userID"
	UsernameKey  contextKey = "username"
	RequestIDKey contextKey = "requestID"
)

// GetUsernameFromContext extracts the authenticated username from the request
// context.
func GetUsernameFromContext(r *http.Request) (string, error) {
	username, ok := r.Context().Value(UsernameKey).(string)
	if !ok || username == "" {
		return "", errors.New("no username in context")
	}
	return username, nil
}
