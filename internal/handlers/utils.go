package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chesshub/apiserver/types"
)

type contextKey string

const contextUserKey contextKey = "user"

// ErrorResponse is the envelope for every non-2xx reply.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Status string   `json:"status"`
	Token  string   `json:"token"`
	Data   UserData `json:"data"`
}

// UserResponse is returned by endpoints that resolve a user without
// issuing a token.
type UserResponse struct {
	Status string   `json:"status"`
	Data   UserData `json:"data"`
}

type UserData struct {
	User types.User `json:"user"`
}

func userFromContext(ctx context.Context) (types.User, error) {
	user, ok := ctx.Value(contextUserKey).(types.User)
	if !ok {
		return types.User{}, errors.New("no user in context")
	}
	return user, nil
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Status: "error", Message: message})
}
