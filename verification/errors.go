// SPDX-License-Identifier: GPL-3.0-only

package verification

import "errors"

var (
	// ErrNotFound means no account matches the submitted identifier.
	ErrNotFound = errors.New("no account matches this identifier")

	// ErrInvalidCode covers both a mismatched code and a missing pending code.
	ErrInvalidCode = errors.New("invalid verification code")

	// ErrAlreadyActive is the idempotent outcome for verifying an account
	// that has already been activated.
	ErrAlreadyActive = errors.New("account is already active")

	// ErrChannelSendFailure means the email/SMS provider call failed or
	// timed out. During registration the caller must roll the account back.
	ErrChannelSendFailure = errors.New("failed to deliver verification code")
)
