package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/acmeshop/storefront/internal/admin/domain"
	"github.com/acmeshop/storefront/internal/admin/usecase/command"
	"github.com/acmeshop/storefront/pkg/logger"
)

// AdminHandler handles admin authentication requests
type AdminHandler struct {
	loginHandler *command.LoginHandler
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(loginHandler *command.LoginHandler) *AdminHandler {
	return &AdminHandler{loginHandler: loginHandler}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RegisterRoutes registers the admin auth routes
func (h *AdminHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/admin/login", h.Login).Methods("POST")
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	token, err := h.loginHandler.Handle(command.LoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			respondJSON(w, http.StatusUnauthorized, Response{
				Success: false,
				Error:   "Invalid username or password",
			})
			return
		}
		logger.Logger.Error().Err(err).Msg("Admin login failed")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Login failed",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]string{
			"access_token": token,
			"token_type":   "bearer",
		},
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
