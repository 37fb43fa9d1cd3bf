package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/garnizeh/jobhunt/internal/apperr"
	"github.com/garnizeh/jobhunt/internal/auth"
)

type AuthHandler struct {
	svc          *auth.Service
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(svc *auth.Service, secureCookie bool) *AuthHandler {
	return &AuthHandler{svc: svc, secureCookie: secureCookie}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type meResponse struct {
	Email          string     `json:"email"`
	FullName       string     `json:"full_name"`
	CreatedAt      time.Time  `json:"created_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	JobPreferences []string   `json:"job_preferences,omitempty"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.Registration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request")
		return
	}

	_, err := h.svc.Register(r.Context(), req)
	if errors.Is(err, apperr.ErrConflict) {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "User created successfully"})
}

// Login takes an OAuth2 password form (username is the email) and returns a
// bearer token. The same token is set as the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request")
		return
	}
	email, password := r.PostForm.Get("username"), r.PostForm.Get("password")
	if email == "" || password == "" {
		verr := &apperr.ValidationError{}
		if email == "" {
			verr.Add("username", "value is required")
		}
		if password == "" {
			verr.Add("password", "value is required")
		}
		writeError(w, r, verr)
		return
	}

	token, _, err := h.svc.Login(r.Context(), email, password)
	if errors.Is(err, apperr.ErrUnauthorized) {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	ttl := h.svc.Tokens().TTL()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, r, apperr.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{
		Email:          u.Email,
		FullName:       u.FullName,
		CreatedAt:      u.CreatedAt,
		LastLogin:      u.LastLogin,
		JobPreferences: u.JobPreferences,
	})
}

// Logout deletes the session cookie. Issued tokens stay valid until they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, messageResponse{Message: "Successfully logged out"})
}

// Check reports whether the session cookie holds a valid token.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if _, err := h.svc.Authenticate(r.Context(), c.Value); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "authenticated"})
}
