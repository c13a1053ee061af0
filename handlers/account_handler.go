// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"fmt"
	"net/http"

	"faithconnect-server/crypto"
	"faithconnect-server/db"
	"faithconnect-server/middlewares"
	"faithconnect-server/passwordcheck"

	"github.com/labstack/echo/v4"
)

// GetAccountHandler godoc
// @Summary      Get account details
// @Description  Retrieves the details of the authenticated account.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Success      200 {object}  GetAccountResponse "Account retrieved successfully"
// @Failure      401 {object} echo.HTTPError      "Unauthorized, invalid or expired session token"
// @Failure      500 {object} echo.HTTPError      "Internal server error"
// @Router       /v1/accounts/ [get]
func GetAccountHandler(c echo.Context) error {
	logger := c.Logger()

	account, err := middlewares.GetAuthenticatedAccount(c)
	if err != nil {
		logger.Error("Failed to get authenticated account:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	return c.JSON(http.StatusOK, GetAccountResponse{
		AccountID:         account.AccountID,
		PartnershipNumber: account.PartnershipNumber,
		FullName:          account.FullName,
		Email:             account.Email,
		PhoneNumber:       account.PhoneNumber,
		AccountKind:       string(account.AccountKind),
		IsActive:          account.IsActive,
		IsVerified:        account.IsVerified,
		EmailVerified:     account.EmailVerified,
		PhoneVerified:     account.PhoneVerified,
		Message:           "Account retrieved successfully",
	})
}

// ChangePasswordHandler godoc
// @Summary      Change account password
// @Description  Changes the password of the authenticated account after verifying the current one.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        changePasswordRequest  body  ChangePasswordRequest  true  "Change password request payload"
// @Success      200 {object} GenericResponse "Password changed successfully"
// @Failure      400 {object} echo.HTTPError  "Bad request"
// @Failure      401 {object} echo.HTTPError  "Unauthorized"
// @Failure      500 {object} echo.HTTPError  "Internal server error"
// @Router       /v1/accounts/password [put]
func ChangePasswordHandler(c echo.Context) error {
	logger := c.Logger()

	account, err := middlewares.GetAuthenticatedAccount(c)
	if err != nil {
		logger.Error("Failed to get authenticated account:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid change password request payload:", err)
		return echo.ErrBadRequest
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		logger.Error("Both current and new passwords are required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "current_password and new_password fields are required",
		}
	}

	newCrypto := crypto.NewCrypto()
	if err := newCrypto.VerifyPassword(req.CurrentPassword, account.Password); err != nil {
		logger.Error("Current password verification failed.")
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Current password is incorrect",
		}
	}

	if err := passwordcheck.ValidatePassword(c.Request().Context(), req.NewPassword); err != nil {
		logger.Error("New password validation failed: ", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: fmt.Sprintf("Invalid password: %v", err.Error()),
		}
	}

	hash, err := newCrypto.HashPassword(req.NewPassword)
	if err != nil {
		logger.Errorf("Failed to hash password: %v", err)
		return echo.ErrInternalServerError
	}

	if err := db.Conn.Model(account).Update("password", hash).Error; err != nil {
		logger.Errorf("Failed to update password: %v", err)
		return echo.ErrInternalServerError
	}

	logger.Info("Password changed successfully")
	return c.JSON(http.StatusOK, GenericResponse{Message: "Password changed successfully"})
}
