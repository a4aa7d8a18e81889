//go:build wireinject
// +build wireinject

package admin

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/acmeshop/storefront/internal/admin/delivery/http"
	"github.com/acmeshop/storefront/internal/admin/usecase/command"
	"github.com/acmeshop/storefront/pkg/auth"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, tokens *auth.TokenManager) (*http.AdminHandler, error) {
	wire.Build(
		ProvideAdminRepository,
		command.NewLoginHandler,
		http.NewAdminHandler,
	)
	return nil, nil
}
