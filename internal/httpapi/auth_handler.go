// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/classtrack/classtrack/internal/auth"
	"github.com/classtrack/classtrack/internal/tracker"
)

// AuthService is the subset of the auth service the transport needs.
type AuthService interface {
	Register(ctx context.Context, name, email, password string, role tracker.Role) (*auth.User, string, error)
	Login(ctx context.Context, email, password string) (*auth.User, string, error)
	GetUser(ctx context.Context, id ulid.ULID) (*auth.User, error)
}

type authHandler struct {
	svc AuthService
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func newUserResponse(u *auth.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func (h *authHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "auth", err)
		return
	}

	user, token, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password, tracker.Role(req.Role))
	if err != nil {
		writeError(w, r, "auth", err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{Token: token, User: newUserResponse(user)})
}

func (h *authHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "auth", err)
		return
	}

	user, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, "auth", err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Token: token, User: newUserResponse(user)})
}

func (h *authHandler) me(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeError(w, r, "auth", auth.ErrUnauthenticated)
		return
	}

	user, err := h.svc.GetUser(r.Context(), p.ID)
	if err != nil {
		writeError(w, r, "auth", err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}
