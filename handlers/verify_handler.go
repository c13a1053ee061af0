// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"net/http"

	"faithconnect-server/commons"
	"faithconnect-server/db"
	"faithconnect-server/verification"

	"github.com/labstack/echo/v4"
)

// VerifyHandler godoc
// @Summary      Verify an account
// @Description  Verifies the submitted one-time code and activates the account.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        verifyRequest  body  VerifyRequest  true  "Verification request payload"
// @Success      200 {object} GenericResponse "Account verified successfully"
// @Failure      400 {object} echo.HTTPError  "Bad request or invalid code"
// @Failure      404 {object} echo.HTTPError  "No matching account"
// @Failure      409 {object} echo.HTTPError  "Account already active"
// @Failure      500 {object} echo.HTTPError  "Internal server error"
// @Router       /v1/auth/verify [post]
func VerifyHandler(c echo.Context) error {
	logger := c.Logger()

	var req VerifyRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid verification request payload:", err)
		return echo.ErrBadRequest
	}

	if req.Identifier == "" {
		logger.Error("Identifier is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "identifier field is required",
		}
	}

	if req.Code == "" {
		logger.Error("Verification code is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "code field is required",
		}
	}

	account, err := verification.VerifyCode(c.Request().Context(), db.Conn, req.Identifier, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, commons.ErrInvalidPhone):
			logger.Error("Invalid phone identifier:", err)
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: "identifier is not a valid phone number or email address",
			}
		case errors.Is(err, verification.ErrNotFound):
			logger.Error("No account matches the identifier.")
			return &echo.HTTPError{
				Code:    http.StatusNotFound,
				Message: "No account matches this identifier.",
			}
		case errors.Is(err, verification.ErrAlreadyActive):
			logger.Info("Account is already active.")
			return &echo.HTTPError{
				Code:    http.StatusConflict,
				Message: "Account is already verified.",
			}
		case errors.Is(err, verification.ErrInvalidCode):
			logger.Error("Invalid verification code submitted.")
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: "Invalid or expired verification code.",
			}
		}
		logger.Errorf("Verification failed: %v", err)
		return echo.ErrInternalServerError
	}

	logger.Infof("Account %s verified successfully", account.AccountID)
	return c.JSON(http.StatusOK, GenericResponse{
		Message: "Account verified successfully",
	})
}

// ResendCodeHandler godoc
// @Summary      Resend verification code
// @Description  Issues a fresh one-time code, replacing the outstanding one (rate limited).
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        resendCodeRequest  body  ResendCodeRequest  true  "Resend request payload"
// @Success      200 {object} GenericResponse "Verification code resent successfully"
// @Failure      400 {object} echo.HTTPError  "Bad request"
// @Failure      404 {object} echo.HTTPError  "No matching account"
// @Failure      409 {object} echo.HTTPError  "Account already active"
// @Failure      429 {object} echo.HTTPError  "Too many requests"
// @Failure      502 {object} echo.HTTPError  "Code could not be delivered"
// @Failure      500 {object} echo.HTTPError  "Internal server error"
// @Router       /v1/auth/resend-code [post]
func ResendCodeHandler(c echo.Context) error {
	logger := c.Logger()

	var req ResendCodeRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid resend request payload:", err)
		return echo.ErrBadRequest
	}

	if req.Identifier == "" {
		logger.Error("Identifier is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "identifier field is required",
		}
	}

	account, err := verification.FindAccount(db.Conn, req.Identifier)
	if err != nil {
		switch {
		case errors.Is(err, commons.ErrInvalidPhone):
			logger.Error("Invalid phone identifier:", err)
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: "identifier is not a valid phone number or email address",
			}
		case errors.Is(err, verification.ErrNotFound):
			logger.Error("No account matches the identifier.")
			return &echo.HTTPError{
				Code:    http.StatusNotFound,
				Message: "No account matches this identifier.",
			}
		}
		logger.Errorf("Failed to find account: %v", err)
		return echo.ErrInternalServerError
	}

	if account.IsActive {
		logger.Info("Account is already active.")
		return &echo.HTTPError{
			Code:    http.StatusConflict,
			Message: "Account is already verified.",
		}
	}

	if verification.InCooldown(c.Request().Context(), db.Conn, account) {
		logger.Info("Resend requested within cooldown window.")
		return &echo.HTTPError{
			Code:    http.StatusTooManyRequests,
			Message: "Please wait a couple of minutes before requesting another code.",
		}
	}

	if _, err := verification.IssueCode(c.Request().Context(), db.Conn, account); err != nil {
		if errors.Is(err, verification.ErrChannelSendFailure) {
			logger.Errorf("Failed to deliver verification code: %v", err)
			return &echo.HTTPError{
				Code:    http.StatusBadGateway,
				Message: "Failed to deliver the verification code, please try again.",
			}
		}
		logger.Errorf("Failed to issue verification code: %v", err)
		return echo.ErrInternalServerError
	}

	logger.Infof("Verification code resent for account %s", account.AccountID)
	return c.JSON(http.StatusOK, GenericResponse{
		Message: "Verification code resent successfully",
	})
}
