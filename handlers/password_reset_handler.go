// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"faithconnect-server/commons"
	"faithconnect-server/crypto"
	"faithconnect-server/db"
	"faithconnect-server/models"
	"faithconnect-server/notifications"
	"faithconnect-server/passwordcheck"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// RequestPasswordResetHandler godoc
// @Summary      Request a password reset
// @Description  Sends a password reset token to the account's email address. Always returns 200 to avoid account enumeration.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        passwordResetRequest  body  PasswordResetRequest  true  "Password reset request payload"
// @Success      200 {object} GenericResponse "Reset email sent if the account exists"
// @Failure      400 {object} echo.HTTPError  "Bad request"
// @Failure      500 {object} echo.HTTPError  "Internal server error"
// @Router       /v1/auth/password-reset [post]
func RequestPasswordResetHandler(c echo.Context) error {
	logger := c.Logger()

	var req PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid password reset request payload:", err)
		return echo.ErrBadRequest
	}

	if req.Email == "" {
		logger.Error("Email is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "email field is required",
		}
	}

	genericResponse := GenericResponse{
		Message: "If an account with this email exists, a password reset link has been sent.",
	}

	account := models.Account{}
	if err := db.Conn.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Info("Password reset requested for unknown email")
			return c.JSON(http.StatusOK, genericResponse)
		}
		logger.Errorf("Failed to find account: %v", err)
		return echo.ErrInternalServerError
	}

	token, err := crypto.GenerateRandomString("prt_", 32, "hex")
	if err != nil {
		logger.Errorf("Failed to generate reset token: %v", err)
		return echo.ErrInternalServerError
	}

	expiresAt := time.Now().Add(1 * time.Hour)

	passwordReset := models.PasswordReset{}
	if err := db.Conn.Where("account_id = ? AND is_used = ?", account.ID, false).
		Assign(models.PasswordReset{
			AccountID: account.ID,
			Token:     token,
			ExpiresAt: expiresAt,
		}).FirstOrCreate(&passwordReset).Error; err != nil {
		logger.Errorf("Failed to create password reset token: %v", err)
		return echo.ErrInternalServerError
	}

	resetLink := commons.GetEnv("PASSWORD_RESET_URL", "https://faithconnect.biz") + "/reset-password?token=" + token

	go notifications.DispatchNotification(notifications.Email, notifications.EmailProvider(), notifications.NotificationData{
		To:       *account.Email,
		Subject:  "FaithConnect Password Reset",
		Template: "password_reset",
		Variables: map[string]any{
			"product_name":     "FaithConnect",
			"reset_link":       resetLink,
			"expiration_hours": "1",
			"base_url":         commons.GetEnv("BASE_URL", "https://api.faithconnect.biz"),
		},
	})

	logger.Info("Password reset email dispatched")
	return c.JSON(http.StatusOK, genericResponse)
}

// ConfirmPasswordResetHandler godoc
// @Summary      Confirm a password reset
// @Description  Sets a new password using the token sent via email and invalidates all sessions.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        passwordResetConfirmRequest  body  PasswordResetConfirmRequest  true  "Password reset confirmation payload"
// @Success      200 {object} GenericResponse "Password reset successfully"
// @Failure      400 {object} echo.HTTPError  "Bad request or invalid token"
// @Failure      410 {object} echo.HTTPError  "Token expired"
// @Failure      500 {object} echo.HTTPError  "Internal server error"
// @Router       /v1/auth/password-reset/confirm [post]
func ConfirmPasswordResetHandler(c echo.Context) error {
	logger := c.Logger()

	var req PasswordResetConfirmRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid password reset confirmation payload:", err)
		return echo.ErrBadRequest
	}

	if req.Token == "" {
		logger.Error("Reset token is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "token field is required",
		}
	}

	if req.NewPassword == "" {
		logger.Error("New password is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "new_password field is required",
		}
	}

	if err := passwordcheck.ValidatePassword(c.Request().Context(), req.NewPassword); err != nil {
		logger.Error("Password validation failed: ", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: fmt.Sprintf("Invalid password: %v", err.Error()),
		}
	}

	passwordReset := models.PasswordReset{}
	if err := db.Conn.Where("token = ? AND is_used = ?", req.Token, false).
		First(&passwordReset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Invalid or already used reset token")
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: "Invalid or already used reset token",
			}
		}
		logger.Errorf("Failed to find reset token: %v", err)
		return echo.ErrInternalServerError
	}

	if time.Now().After(passwordReset.ExpiresAt) {
		logger.Error("Reset token has expired")
		return &echo.HTTPError{
			Code:    http.StatusGone,
			Message: "Reset token has expired. Please request a new one.",
		}
	}

	newCrypto := crypto.NewCrypto()
	hash, err := newCrypto.HashPassword(req.NewPassword)
	if err != nil {
		logger.Errorf("Failed to hash password: %v", err)
		return echo.ErrInternalServerError
	}

	tx := db.Conn.Begin()
	if tx.Error != nil {
		logger.Errorf("Transaction begin failed: %v", tx.Error)
		return echo.ErrInternalServerError
	}

	passwordReset.IsUsed = true
	if err := tx.Save(&passwordReset).Error; err != nil {
		tx.Rollback()
		logger.Errorf("Failed to mark token as used: %v", err)
		return echo.ErrInternalServerError
	}

	if err := tx.Model(&models.Account{}).Where("id = ?", passwordReset.AccountID).
		Update("password", hash).Error; err != nil {
		tx.Rollback()
		logger.Errorf("Failed to update password: %v", err)
		return echo.ErrInternalServerError
	}

	if err := tx.Where("account_id = ?", passwordReset.AccountID).
		Delete(&models.Session{}).Error; err != nil {
		tx.Rollback()
		logger.Errorf("Failed to invalidate sessions: %v", err)
		return echo.ErrInternalServerError
	}

	if err := tx.Commit().Error; err != nil {
		logger.Errorf("Transaction commit failed: %v", err)
		return echo.ErrInternalServerError
	}

	logger.Infof("Password reset successfully for account %d", passwordReset.AccountID)
	return c.JSON(http.StatusOK, GenericResponse{
		Message: "Password reset successfully",
	})
}
