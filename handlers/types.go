// SPDX-License-Identifier: GPL-3.0-only

package handlers

// swagger:model SignupRequest
type SignupRequest struct {
	// Externally assigned partnership number, unique per account
	// required: true
	PartnershipNumber string `json:"partnership_number" example:"FC-2024-00123"`
	// User's email address; at least one of email/phone_number is required
	Email string `json:"email" example:"user@example.com"`
	// User's phone number in any accepted local or canonical format
	PhoneNumber string `json:"phone_number" example:"0712345678"`
	// Account kind, COMMUNITY or BUSINESS
	AccountKind string `json:"account_kind" example:"COMMUNITY"`
	// User's password
	// required: true
	Password string `json:"password" example:"MySecretPassword@123"`
	// Optional full name
	FullName *string `json:"full_name" example:"John Doe"`
}

// swagger:model VerifyRequest
type VerifyRequest struct {
	// Email or phone number the account registered with
	// required: true
	Identifier string `json:"identifier" example:"user@example.com"`
	// The 6-digit one-time code
	// required: true
	Code string `json:"code" example:"042137"`
}

// swagger:model ResendCodeRequest
type ResendCodeRequest struct {
	// Email or phone number the account registered with
	// required: true
	Identifier string `json:"identifier" example:"0712345678"`
}

// swagger:model LoginRequest
type LoginRequest struct {
	// Email or phone number the account registered with
	Identifier string `json:"identifier" example:"user@example.com"`
	// User's password
	Password string `json:"password" example:"MySecretPassword@123"`
}

// swagger:model AuthResponse
type AuthResponse struct {
	// Authentication session token
	// Should be used in the Authorization header as a Bearer token.
	SessionToken string `json:"session_token" example:"sample_session_token"`
	// Message indicating successful operation
	Message string `json:"message" example:"Operation successful"`
}

// swagger:model GenericResponse
type GenericResponse struct {
	// Message indicating the result of the operation
	Message string `json:"message"`
}

// swagger:model GetAccountResponse
type GetAccountResponse struct {
	// Unique identifier for the account
	AccountID string `json:"account_id" example:"acct_1234567890"`
	// Partnership number
	PartnershipNumber string `json:"partnership_number" example:"FC-2024-00123"`
	// Full name on file
	FullName *string `json:"full_name" example:"John Doe"`
	// Email address on file
	Email *string `json:"email" example:"user@example.com"`
	// Canonical phone number on file
	PhoneNumber *string `json:"phone_number" example:"254712345678"`
	// Account kind
	AccountKind string `json:"account_kind" example:"COMMUNITY"`
	// Whether the account has been activated
	IsActive bool `json:"is_active" example:"true"`
	// Whether the account has been verified
	IsVerified bool `json:"is_verified" example:"true"`
	// Whether the email channel was verified
	EmailVerified bool `json:"email_verified" example:"true"`
	// Whether the phone channel was verified
	PhoneVerified bool `json:"phone_verified" example:"false"`
	// Message indicating successful retrieval
	Message string `json:"message" example:"Account retrieved successfully"`
}

// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	// Current password
	// required: true
	CurrentPassword string `json:"current_password" example:"MySecretPassword@123"`
	// New password
	// required: true
	NewPassword string `json:"new_password" example:"MyNewPassword@456"`
}

// swagger:model PasswordResetRequest
type PasswordResetRequest struct {
	// Email address the account registered with
	// required: true
	Email string `json:"email" example:"user@example.com"`
}

// swagger:model PasswordResetConfirmRequest
type PasswordResetConfirmRequest struct {
	// Password reset token from the email
	// required: true
	Token string `json:"token" example:"prt_a1b2c3d4e5f6789"`
	// New password
	// required: true
	NewPassword string `json:"new_password" example:"MyNewPassword@456"`
}

// swagger:model PaginationDetails
type PaginationDetails struct {
	// Current page number
	Page int `json:"page"`
	// Page size
	PageSize int `json:"page_size"`
	// Total number of items
	Total int64 `json:"total"`
	// Total number of pages
	TotalPages int `json:"total_pages"`
}

// swagger:model EventLogDetails
type EventLogDetails struct {
	// Event ID
	EID string `json:"eid" example:"550e8400-e29b-41d4-a716-446655440000"`
	// Event category
	Category *string `json:"category" example:"AUTH"`
	// Event status
	Status *string `json:"status" example:"SENT"`
	// Event name
	Event *string `json:"event" example:"OTP_ISSUED"`
	// Channel the event went through
	Channel *string `json:"channel" example:"EMAIL"`
	// Event description
	Description *string `json:"description" example:"verification code sent"`
	// Recipient email or canonical phone number
	To *string `json:"to" example:"254712345678"`
	// Timestamp of when the event was created
	CreatedAt string `json:"created_at" example:"2023-10-01T12:00:00Z"`
}

// swagger:model EventLogListResponse
type EventLogListResponse struct {
	// List of event logs
	Data []EventLogDetails `json:"data"`
	// Pagination details
	Pagination PaginationDetails `json:"pagination"`
	// Message indicating successful retrieval
	Message string `json:"message" example:"Event logs retrieved successfully"`
}
