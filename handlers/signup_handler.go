// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"faithconnect-server/commons"
	"faithconnect-server/crypto"
	"faithconnect-server/db"
	"faithconnect-server/models"
	"faithconnect-server/passwordcheck"
	"faithconnect-server/verification"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Clients send both snake_case and camelCase payloads. The aliases are
// resolved once here, at the boundary; nothing past binding ever sees the
// external names.
var signupFieldAliases = map[string]string{
	"partnershipNumber": "partnership_number",
	"phoneNumber":       "phone_number",
	"phone":             "phone_number",
	"accountKind":       "account_kind",
	"fullName":          "full_name",
}

func bindSignupRequest(c echo.Context) (*SignupRequest, error) {
	payload := map[string]json.RawMessage{}
	if err := json.NewDecoder(c.Request().Body).Decode(&payload); err != nil {
		return nil, err
	}

	for alias, canonical := range signupFieldAliases {
		if v, ok := payload[alias]; ok {
			if _, exists := payload[canonical]; !exists {
				payload[canonical] = v
			}
			delete(payload, alias)
		}
	}

	normalized, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var req SignupRequest
	if err := json.Unmarshal(normalized, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// SignupHandler godoc
// @Summary      Register a new account
// @Description  Creates a new account in pending state and sends a one-time verification code through email or SMS.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        signupRequest  body  SignupRequest  true  "Signup request payload"
// @Success      201 {object} GenericResponse   "Signup successful, code sent"
// @Failure      400 {object} echo.HTTPError    "Bad request, missing or malformed fields"
// @Failure      409 {object} echo.HTTPError    "Duplicate identifier"
// @Failure      502 {object} echo.HTTPError    "Verification code could not be delivered"
// @Failure      500 {object} echo.HTTPError    "Internal server error"
// @Router       /v1/auth/signup [post]
func SignupHandler(c echo.Context) error {
	logger := c.Logger()

	req, err := bindSignupRequest(c)
	if err != nil {
		logger.Error("Invalid signup request payload:", err)
		return echo.ErrBadRequest
	}

	if req.PartnershipNumber == "" {
		logger.Error("Partnership number is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "partnership_number field is required",
		}
	}

	if req.Password == "" {
		logger.Error("Password is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "password field is required",
		}
	}

	if req.Email == "" && req.PhoneNumber == "" {
		logger.Error("Neither email nor phone number supplied.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "at least one of email or phone_number is required",
		}
	}

	kind := models.AccountKind(strings.ToUpper(req.AccountKind))
	if req.AccountKind == "" {
		kind = models.CommunityAccount
	}
	if !kind.Valid() {
		logger.Error("Unknown account kind.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "account_kind must be COMMUNITY or BUSINESS",
		}
	}

	if err := passwordcheck.ValidatePassword(c.Request().Context(), req.Password); err != nil {
		logger.Error("Password validation failed: ", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: fmt.Sprintf("Invalid password: %v", err.Error()),
		}
	}

	var email *string
	if req.Email != "" {
		lowered := strings.ToLower(strings.TrimSpace(req.Email))
		email = &lowered
	}

	var fullName *string
	if req.FullName != nil && strings.TrimSpace(*req.FullName) != "" {
		trimmed := strings.TrimSpace(*req.FullName)
		fullName = &trimmed
	}

	var phone *string
	if req.PhoneNumber != "" {
		canonical, err := commons.NormalizePhone(req.PhoneNumber)
		if err != nil {
			logger.Error("Invalid phone number:", err)
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: "phone_number is not a valid phone number",
			}
		}
		phone = &canonical
	}

	if email != nil {
		count := db.Conn.Where("email = ?", *email).First(&models.Account{}).RowsAffected
		if count > 0 {
			logger.Error("This email is already registered.")
			return &echo.HTTPError{
				Code:    http.StatusConflict,
				Message: "This email is already registered, please try another one.",
			}
		}
	}

	if phone != nil {
		count := db.Conn.Where("phone_number = ?", *phone).First(&models.Account{}).RowsAffected
		if count > 0 {
			logger.Error("This phone number is already registered.")
			return &echo.HTTPError{
				Code:    http.StatusConflict,
				Message: "This phone number is already registered, please try another one.",
			}
		}
	}

	count := db.Conn.Where("partnership_number = ?", req.PartnershipNumber).First(&models.Account{}).RowsAffected
	if count > 0 {
		logger.Error("This partnership number is already registered.")
		return &echo.HTTPError{
			Code:    http.StatusConflict,
			Message: "This partnership number is already registered.",
		}
	}

	newCrypto := crypto.NewCrypto()
	hash, err := newCrypto.HashPassword(req.Password)
	if err != nil {
		logger.Errorf("Failed to hash password: %v", err)
		return echo.ErrInternalServerError
	}

	aid, err := crypto.GenerateRandomString("acct_", 16, "hex")
	if err != nil {
		logger.Errorf("Failed to generate account ID: %v", err)
		return echo.ErrInternalServerError
	}

	account := models.Account{
		AccountID:         aid,
		PartnershipNumber: req.PartnershipNumber,
		FullName:          fullName,
		Email:             email,
		PhoneNumber:       phone,
		Password:          hash,
		AccountKind:       kind,
	}

	tx := db.Conn.Begin()
	if tx.Error != nil {
		logger.Errorf("Transaction begin failed: %v", tx.Error)
		return echo.ErrInternalServerError
	}

	if err := tx.Create(&account).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Error("Duplicate identifier on create:", err)
			return &echo.HTTPError{
				Code:    http.StatusConflict,
				Message: "An account with this identifier already exists.",
			}
		}
		logger.Errorf("Failed to create account: %v", err)
		return echo.ErrInternalServerError
	}

	// Code persist and channel send happen inside the same transaction: a
	// send failure rolls the whole registration back so no pending account
	// survives whose owner never received a code.
	if _, err := verification.IssueCode(c.Request().Context(), tx, &account); err != nil {
		tx.Rollback()
		if errors.Is(err, verification.ErrChannelSendFailure) {
			logger.Errorf("Failed to deliver verification code: %v", err)
			return &echo.HTTPError{
				Code:    http.StatusBadGateway,
				Message: "Failed to deliver the verification code, please try signing up again.",
			}
		}
		logger.Errorf("Failed to issue verification code: %v", err)
		return echo.ErrInternalServerError
	}

	if err := tx.Commit().Error; err != nil {
		logger.Errorf("Transaction commit failed: %v", err)
		return echo.ErrInternalServerError
	}

	logger.Infof("Account signed up successfully")
	return c.JSON(http.StatusCreated, GenericResponse{
		Message: "Signup successful. A verification code has been sent.",
	})
}
