// SPDX-License-Identifier: GPL-3.0-only

package routes

import (
	"faithconnect-server/commons"
	"faithconnect-server/handlers"
	"faithconnect-server/middlewares"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	commons.Logger.Debug("Registering v1 routes")
	api_v1 := e.Group("/v1")
	api_v1.POST("/auth/signup", handlers.SignupHandler)
	api_v1.POST("/auth/verify", handlers.VerifyHandler)
	api_v1.POST("/auth/resend-code", handlers.ResendCodeHandler)
	api_v1.POST("/auth/login", handlers.LoginHandler)
	api_v1.POST("/auth/logout", handlers.LogoutHandler, middlewares.VerifyAuthMiddleware())
	api_v1.POST("/auth/password-reset", handlers.RequestPasswordResetHandler)
	api_v1.POST("/auth/password-reset/confirm", handlers.ConfirmPasswordResetHandler)
	api_v1.GET("/accounts/", handlers.GetAccountHandler, middlewares.VerifyAuthMiddleware())
	api_v1.PUT("/accounts/password", handlers.ChangePasswordHandler, middlewares.VerifyAuthMiddleware())
	api_v1.GET("/event-logs", handlers.GetEventLogsHandler, middlewares.VerifyAuthMiddleware())
	api_v1.GET("/static/*", handlers.ServeStaticFile)
	commons.Logger.Info("v1 routes registered successfully")
}
