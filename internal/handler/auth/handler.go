package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/geoadvisor/backend/internal/middleware"
	chatmodel "github.com/geoadvisor/backend/internal/model/chat"
	accountservice "github.com/geoadvisor/backend/internal/service/account"
	chatservice "github.com/geoadvisor/backend/internal/service/chat"
	"github.com/geoadvisor/backend/pkg/utils"
)

// Handler serves signup, login, logout and session lookup.
type Handler struct {
	accounts accountservice.Store
	chatSvc  *chatservice.Service
}

// New creates the auth handler.
func New(accounts accountservice.Store, chatSvc *chatservice.Service) *Handler {
	return &Handler{accounts: accounts, chatSvc: chatSvc}
}

// RegisterRoutes registers the auth endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/signup", h.handleSignup)
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/logout", h.handleLogout)
	r.Get("/auth/me", h.handleMe)
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username        string `json:"username"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
		Email           string `json:"email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.accounts.Signup(r.Context(), accountservice.SignupParams{
		Username:        payload.Username,
		Password:        payload.Password,
		ConfirmPassword: payload.ConfirmPassword,
		Email:           payload.Email,
	})
	if err != nil {
		switch {
		case accountservice.IsValidation(err):
			utils.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, accountservice.ErrUsernameTaken):
			utils.RespondError(w, http.StatusConflict, "username already exists, please choose another one")
		default:
			utils.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	// Signup never logs the new user in; the UI prompts for login next.
	utils.RespondJSON(w, http.StatusCreated, map[string]string{
		"message": "account created successfully, please login",
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.chatSvc.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		switch {
		case accountservice.IsValidation(err):
			utils.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, accountservice.ErrNotFound):
			utils.RespondError(w, http.StatusNotFound, "username not found, please sign up first")
		case errors.Is(err, accountservice.ErrInvalidCredentials):
			utils.RespondError(w, http.StatusUnauthorized, "incorrect password, please try again")
		default:
			utils.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	middleware.SetSessionCookie(w, session.Token)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"token":      session.Token,
		"username":   session.Username,
		"activePage": session.ActivePage,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.chatSvc.Logout(r.Context(), middleware.SessionToken(r))
	middleware.ClearSessionCookie(w)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// handleMe reports the current session state so the UI can pick the page to
// render. An unknown or absent token maps to the logged-out auth page.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.CurrentSession(r.Context(), middleware.SessionToken(r))
	if err != nil {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"username":   "",
			"activePage": chatmodel.PageAuth,
		})
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"username":   session.Username,
		"activePage": session.ActivePage,
	})
}
