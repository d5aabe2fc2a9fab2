package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/parisbet/backend/internal/apperr"
	"github.com/parisbet/backend/internal/models"
)

// UserStore defines the identity persistence the auth handlers need.
type UserStore interface {
	CreateUser(ctx context.Context, login, hashedPassword string) error
	GetUser(ctx context.Context, login string) (*models.User, error)
	ListLogins(ctx context.Context) ([]string, error)
	GetStats(ctx context.Context, login string) (*models.UserStats, error)
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users    UserStore
	sessions SessionRegistry
}

func NewHandler(users UserStore, sessions SessionRegistry) *Handler {
	return &Handler{users: users, sessions: sessions}
}

// Register creates a new user account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Login == "" || req.Password == "" {
		http.Error(w, `{"error":"login and password are required"}`, http.StatusBadRequest)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	if err := h.users.CreateUser(r.Context(), req.Login, string(hashed)); err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			http.Error(w, `{"error":"login already taken"}`, http.StatusConflict)
			return
		}
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "user created"})
}

// Login authenticates a user and creates a session. Unknown logins
// and wrong passwords are indistinguishable to the client.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUser(r.Context(), req.Login)
	if err != nil || user == nil {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	token, err := h.sessions.Create(r.Context(), user.Login)
	if err != nil {
		http.Error(w, `{"error":"session creation failed"}`, http.StatusInternalServerError)
		return
	}

	// Cookie for browser clients; token in the body for API clients.
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.LoginResponse{Message: "login successful", Token: token})
}

// Logout destroys the current session. Idempotent: logging out with
// no or an unknown token still succeeds.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := TokenFromRequest(r); token != "" {
		h.sessions.Delete(r.Context(), token)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message":"logged out"}`))
}

// Me returns the login bound to the current session.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	login, _ := r.Context().Value("user_login").(string)
	if login == "" {
		http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"login": login})
}

// Profile returns the current user's aggregate betting stats.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	login, _ := r.Context().Value("user_login").(string)
	if login == "" {
		http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
		return
	}

	stats, err := h.users.GetStats(r.Context(), login)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// Users lists all registered logins. Debug endpoint.
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	logins, err := h.users.ListLogins(r.Context())
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if logins == nil {
		logins = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"users": logins})
}
