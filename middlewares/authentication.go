// SPDX-License-Identifier: GPL-3.0-only

package middlewares

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"faithconnect-server/commons"
	"faithconnect-server/db"
	"faithconnect-server/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func VerifyAuthMiddleware() func(echo.HandlerFunc) echo.HandlerFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			logger := c.Logger()

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				logger.Error("Authorization header missing or invalid.")
				return &echo.HTTPError{
					Code:    http.StatusUnauthorized,
					Message: "Bearer token is required",
				}
			}

			if after, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
				sessionToken := after

				token, err := jwt.Parse(sessionToken, func(t *jwt.Token) (any, error) {
					if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, errors.New("unexpected signing method")
					}
					return []byte(commons.GetEnv("JWT_SECRET", "default_very_secret_key")), nil
				})

				if err == nil && token.Valid {
					claims, ok := token.Claims.(jwt.MapClaims)
					if ok {
						sessionID := claims["sid"]
						accountID := claims["uid"]
						tokenID := claims["jti"]

						session := models.Session{}
						err = db.Conn.Where("id = ? AND account_id = ? AND token = ?", sessionID, accountID, tokenID).First(&session).Error
						if err == nil && !session.ExpiresAt.Before(time.Now()) {
							now := time.Now()
							session.LastUsedAt = &now

							if err := db.Conn.Save(&session).Error; err != nil {
								logger.Error("Failed to update session LastUsedAt: ", err)
							}

							c.Set("session", session)
							return next(c)
						}
					}
				}
			}

			logger.Error("Authentication failed.")
			return &echo.HTTPError{
				Code:    http.StatusUnauthorized,
				Message: "Invalid or expired authentication token",
			}
		}
	}
}

func GetAuthenticatedAccount(c echo.Context) (*models.Account, error) {
	if session, ok := c.Get("session").(models.Session); ok {
		var account models.Account
		err := db.Conn.Where("id = ?", session.AccountID).First(&account).Error
		if err != nil {
			return nil, err
		}
		return &account, nil
	}

	return nil, errors.New("no authenticated account found")
}
