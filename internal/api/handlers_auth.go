package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/starford/habits/internal/apperr"
	"github.com/starford/habits/internal/auth"
	"github.com/starford/habits/internal/store"
)

// AuthHandler holds the registration and login routes.
type AuthHandler struct {
	db    store.Store
	codec *auth.TokenCodec
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db store.Store, codec *auth.TokenCodec) *AuthHandler {
	return &AuthHandler{db: db, codec: codec}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, "hash password", err)
		return
	}
	user, err := h.db.CreateUser(r.Context(), req.Username, hashed)
	if err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			writeJSON(w, http.StatusConflict, errorBody("username already registered"))
			return
		}
		writeError(w, "register", err)
		return
	}
	writeJSON(w, http.StatusCreated, UserResponse{ID: user.ID, Username: user.Username})
}

// Login handles POST /auth/login. Unknown usernames and wrong passwords get
// the same response so the two cases cannot be told apart.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	user, err := h.db.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusUnauthorized, errorBody("incorrect username or password"))
			return
		}
		writeError(w, "login", err)
		return
	}
	if !auth.CheckPassword(user.HashedPassword, req.Password) {
		writeJSON(w, http.StatusUnauthorized, errorBody("incorrect username or password"))
		return
	}

	token, err := h.codec.Issue(user.ID)
	if err != nil {
		writeError(w, "issue token", err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}
