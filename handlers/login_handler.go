// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"net/http"
	"time"

	"faithconnect-server/commons"
	"faithconnect-server/crypto"
	"faithconnect-server/db"
	"faithconnect-server/models"
	"faithconnect-server/verification"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// LoginHandler godoc
// @Summary      Login an account
// @Description  Authenticates an account by email or phone and returns a session token. Unverified accounts are rejected.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        loginRequest  body  LoginRequest  true  "Login request payload"
// @Success      200 {object} AuthResponse 	 "Login successful"
// @Failure      400 {object} echo.HTTPError     "Bad request, missing required fields"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      403 {object} echo.HTTPError     "Account not verified"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/auth/login [post]
func LoginHandler(c echo.Context) error {
	logger := c.Logger()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid login request payload:", err)
		return echo.ErrBadRequest
	}

	if req.Identifier == "" {
		logger.Error("Identifier is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "identifier field is required",
		}
	}

	if req.Password == "" {
		logger.Error("Password is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "password field is required",
		}
	}

	account, err := verification.FindAccount(db.Conn, req.Identifier)
	if err != nil {
		if errors.Is(err, verification.ErrNotFound) || errors.Is(err, commons.ErrInvalidPhone) {
			logger.Error("Account not found.")
			return &echo.HTTPError{
				Code:    http.StatusUnauthorized,
				Message: "Credentials are incorrect, please check your identifier and password",
			}
		}
		logger.Errorf("Failed to find account: %v", err)
		return echo.ErrInternalServerError
	}

	newCrypto := crypto.NewCrypto()
	if err := newCrypto.VerifyPassword(req.Password, account.Password); err != nil {
		logger.Error("Password verification failed.")
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Credentials are incorrect, please check your identifier and password",
		}
	}

	if !account.IsActive {
		logger.Error("Account is not verified.")
		return &echo.HTTPError{
			Code:    http.StatusForbidden,
			Message: "Account is not verified yet. Please verify your account first.",
		}
	}

	sessionToken, err := crypto.GenerateRandomString("st_long_", 32, "hex")
	if err != nil {
		logger.Errorf("Failed to generate session token: %v", err)
		return echo.ErrInternalServerError
	}

	sessionExp := time.Now().Add(30 * 24 * time.Hour)
	sessionLastUsed := time.Now()
	userAgent := c.Request().Header.Get("User-Agent")
	ipAddress := c.RealIP()
	session := models.Session{}

	if err := db.Conn.Where("account_id = ? AND ip_address = ? AND user_agent = ?", account.ID, ipAddress, userAgent).
		Assign(models.Session{
			AccountID:  account.ID,
			Token:      sessionToken,
			LastUsedAt: &sessionLastUsed,
			ExpiresAt:  &sessionExp,
			IPAddress:  &ipAddress,
			UserAgent:  &userAgent,
		}).FirstOrCreate(&session).Error; err != nil {
		logger.Errorf("Failed to create session: %v", err)
		return echo.ErrInternalServerError
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "https://faithconnect.biz",
		"iat": time.Now().Unix(),
		"sub": account.AccountID,
		"aud": "https://api.faithconnect.biz",
		"jti": sessionToken,
		"sid": session.ID,
		"uid": account.ID,
		"exp": session.ExpiresAt.Unix(),
	})
	tokenString, err := token.SignedString([]byte(commons.GetEnv("JWT_SECRET", "default_very_secret_key")))
	if err != nil {
		logger.Errorf("Failed to sign token: %v", err)
		return echo.ErrInternalServerError
	}

	return c.JSON(http.StatusOK, AuthResponse{SessionToken: tokenString, Message: "Login successful"})
}

// LogoutHandler godoc
// @Summary      Logout an account
// @Description  Invalidates the current session.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Success      200 {object} GenericResponse "Logout successful"
// @Failure      401 {object} echo.HTTPError  "Unauthorized"
// @Failure      500 {object} echo.HTTPError  "Internal server error"
// @Router       /v1/auth/logout [post]
func LogoutHandler(c echo.Context) error {
	logger := c.Logger()

	session, ok := c.Get("session").(models.Session)
	if !ok {
		logger.Error("Session not found in context.")
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired session token, please login again",
		}
	}

	if err := db.Conn.Delete(&session).Error; err != nil {
		logger.Errorf("Failed to delete session: %v", err)
		return echo.ErrInternalServerError
	}

	return c.JSON(http.StatusOK, GenericResponse{Message: "Logout successful"})
}
