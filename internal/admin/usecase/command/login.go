package command

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/acmeshop/storefront/internal/admin/domain"
	"github.com/acmeshop/storefront/pkg/auth"
)

// LoginCommand represents an admin login attempt
type LoginCommand struct {
	Username string
	Password string
}

// LoginHandler authenticates an admin and issues a session token
type LoginHandler struct {
	repo   domain.Repository
	tokens *auth.TokenManager
	now    func() time.Time
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(repo domain.Repository, tokens *auth.TokenManager) *LoginHandler {
	return &LoginHandler{repo: repo, tokens: tokens, now: time.Now}
}

// Handle executes the login. Unknown usernames and wrong passwords produce
// the same error so the endpoint does not leak which accounts exist.
func (h *LoginHandler) Handle(cmd LoginCommand) (string, error) {
	if cmd.Username == "" || cmd.Password == "" {
		return "", domain.ErrInvalidCredentials
	}

	admin, err := h.repo.FindByUsername(cmd.Username)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if !admin.IsActive {
		return "", domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.HashedPassword), []byte(cmd.Password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	if err := h.repo.UpdateLastLogin(admin.ID, h.now()); err != nil {
		return "", fmt.Errorf("failed to update last login: %w", err)
	}

	token, err := h.tokens.Generate(admin.ID, admin.Username)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}
