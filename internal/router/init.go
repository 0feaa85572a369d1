package router

import (
	"github.com/placasapp/placas-server/internal/application"
	"github.com/placasapp/placas-server/internal/container"
	pginfra "github.com/placasapp/placas-server/internal/infrastructure/postgres"
	handlers "github.com/placasapp/placas-server/internal/interface/http"
	"github.com/placasapp/placas-server/internal/router/modules"
)

// InitModules builds every feature module from the container singletons and
// registers it. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	userSvc := application.NewUserService(userRepo, jwt, container.GetRedis(), logger)

	plateRepo := pginfra.NewPlateRepository(container.GetPGPool())
	plateSvc := application.NewPlateService(plateRepo, logger)

	authHandler := handlers.NewAuthHandler(userSvc, logger, cfg.CookieDomain, cfg.CookieSecure)
	plateHandler := handlers.NewPlateHandler(plateSvc, logger)
	adminHandler := handlers.NewAdminHandler(userSvc, logger)

	r.Add(modules.NewAuthModule(authHandler, jwt))
	r.Add(modules.NewPlateModule(plateHandler, jwt))
	r.Add(modules.NewAdminModule(adminHandler, jwt))
}
