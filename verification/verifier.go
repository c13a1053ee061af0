// SPDX-License-Identifier: GPL-3.0-only

package verification

import (
	"context"
	"errors"
	"strings"
	"time"

	"faithconnect-server/cache"
	"faithconnect-server/commons"
	"faithconnect-server/models"
	"faithconnect-server/notifications"

	"gorm.io/gorm"
)

// FindAccount looks up an account by email or by any accepted phone form.
// Phone identifiers are canonicalized with the same normalizer used at
// registration, so "0712345678" and "254712345678" address the same row.
func FindAccount(conn *gorm.DB, identifier string) (*models.Account, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrNotFound
	}

	var account models.Account
	var err error
	if commons.LooksLikePhone(identifier) {
		canonical, nerr := commons.NormalizePhone(identifier)
		if nerr != nil {
			return nil, nerr
		}
		err = conn.Where("phone_number = ?", canonical).First(&account).Error
	} else {
		err = conn.Where("email = ?", strings.ToLower(identifier)).First(&account).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// VerifyCode checks a submitted code against the account's pending code and,
// on an exact match, activates the account exactly once. The Pending ->
// Active flip is a single guarded UPDATE so concurrent submissions of the
// same code cannot both win; the loser observes ErrInvalidCode or
// ErrAlreadyActive. The welcome notification fires after the flip and never
// affects the result.
func VerifyCode(ctx context.Context, conn *gorm.DB, identifier, submitted string) (*models.Account, error) {
	account, err := FindAccount(conn, identifier)
	if err != nil {
		return nil, err
	}

	if account.IsActive {
		return nil, ErrAlreadyActive
	}

	submitted = strings.TrimSpace(submitted)
	if submitted == "" {
		return nil, ErrInvalidCode
	}

	updates := map[string]any{
		"pending_code":            nil,
		"pending_code_expires_at": nil,
		"is_active":               true,
		"is_verified":             true,
	}
	switch Channel(account) {
	case notifications.Email:
		updates["email_verified"] = true
	default:
		updates["phone_verified"] = true
	}

	if cacheStoreEnabled() {
		stored, err := cache.Get(ctx, codeKey(account))
		if err != nil {
			if err == cache.Nil {
				return nil, ErrInvalidCode
			}
			return nil, err
		}
		if stored != submitted {
			return nil, ErrInvalidCode
		}

		res := conn.Model(&models.Account{}).
			Where("id = ? AND is_active = ?", account.ID, false).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrAlreadyActive
		}

		if err := cache.Del(ctx, codeKey(account)); err != nil {
			commons.Logger.Errorf("Failed to clear verification code key: %v", err)
		}
	} else {
		res := conn.Model(&models.Account{}).
			Where("id = ? AND is_active = ? AND pending_code = ? AND pending_code_expires_at > ?",
				account.ID, false, submitted, time.Now()).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrInvalidCode
		}
	}

	if err := conn.First(account, account.ID).Error; err != nil {
		return nil, err
	}

	recordEvent(conn, account, models.Auth, models.Sent, models.EventCodeVerified, "account activated")
	NotifyWelcome(conn, account)

	return account, nil
}
