// SPDX-License-Identifier: GPL-3.0-only

package verification

import (
	"context"
	"fmt"
	"time"

	"faithconnect-server/cache"
	"faithconnect-server/commons"
	"faithconnect-server/crypto"
	"faithconnect-server/models"
	"faithconnect-server/notifications"

	"gorm.io/gorm"
)

const (
	CodeDigits     = 6
	CodeTTL        = 10 * time.Minute
	ResendCooldown = 2 * time.Minute
)

func codeKey(account *models.Account) string {
	return fmt.Sprintf("verify:code:%s", account.AccountID)
}

func cooldownKey(account *models.Account) string {
	return fmt.Sprintf("verify:cooldown:%s", account.AccountID)
}

// cacheStoreEnabled selects the transient code store instead of the
// pending_code column. Requires a connected redis.
func cacheStoreEnabled() bool {
	return cache.Enabled() && commons.GetEnv("OTP_STORE") == "cache"
}

// Channel picks the outbound channel an account registered with. Email wins
// when both identifiers are on file; the single pending code follows the
// same preference.
func Channel(account *models.Account) notifications.NotificationTypes {
	if account.Email != nil && *account.Email != "" {
		return notifications.Email
	}
	return notifications.SMS
}

// IssueCode generates a fresh one-time code, persists it on the account
// (replacing any outstanding code), and sends it through the account's
// registered channel. A provider failure fails the whole operation with
// ErrChannelSendFailure; registration runs IssueCode inside the signup
// transaction so a failed send rolls the new account back entirely.
func IssueCode(ctx context.Context, conn *gorm.DB, account *models.Account) (string, error) {
	code, err := crypto.GenerateOTP(CodeDigits)
	if err != nil {
		return "", err
	}

	if cacheStoreEnabled() {
		if err := cache.Set(ctx, codeKey(account), code, CodeTTL); err != nil {
			return "", err
		}
	} else {
		expiresAt := time.Now().Add(CodeTTL)
		if err := conn.Model(account).Updates(map[string]any{
			"pending_code":            code,
			"pending_code_expires_at": expiresAt,
		}).Error; err != nil {
			return "", err
		}
		account.PendingCode = &code
		account.PendingCodeExpiresAt = &expiresAt
	}

	if err := sendCode(account, code); err != nil {
		recordEvent(conn, account, models.Auth, models.Failed, models.EventCodeIssued, err.Error())
		return "", fmt.Errorf("%w: %v", ErrChannelSendFailure, err)
	}

	if cache.Enabled() {
		if err := cache.Set(ctx, cooldownKey(account), "1", ResendCooldown); err != nil {
			commons.Logger.Errorf("Failed to set resend cooldown key: %v", err)
		}
	}

	recordEvent(conn, account, models.Auth, models.Sent, models.EventCodeIssued, "verification code sent")
	return code, nil
}

// InCooldown reports whether a code was issued for the account within the
// resend cooldown window. Redis-backed when the cache is configured, with a
// recent event-log lookup as the fallback.
func InCooldown(ctx context.Context, conn *gorm.DB, account *models.Account) bool {
	if cache.Enabled() {
		if _, err := cache.Get(ctx, cooldownKey(account)); err == nil {
			return true
		} else if err != cache.Nil {
			commons.Logger.Errorf("Failed to read resend cooldown key: %v", err)
		}
		return false
	}

	var recent models.EventLog
	err := conn.Where("account_id = ? AND event = ? AND status = ? AND created_at > ?",
		account.ID, models.EventCodeIssued, models.Sent, time.Now().Add(-ResendCooldown)).
		First(&recent).Error
	return err == nil
}

func sendCode(account *models.Account, code string) error {
	switch Channel(account) {
	case notifications.Email:
		return notifications.DispatchNotification(notifications.Email, notifications.EmailProvider(), notifications.NotificationData{
			To:       *account.Email,
			ToName:   account.FullName,
			Subject:  "FaithConnect Account Verification",
			Template: "verification",
			Variables: map[string]any{
				"otp":                code,
				"product_name":       "FaithConnect",
				"expiration_minutes": int(CodeTTL.Minutes()),
				"base_url":           commons.GetEnv("BASE_URL", "https://api.faithconnect.biz"),
			},
		})
	default:
		return notifications.DispatchNotification(notifications.SMS, notifications.SMSProvider(), notifications.NotificationData{
			To:      *account.PhoneNumber,
			Message: fmt.Sprintf("Your FaithConnect verification code is %s. It expires in %d minutes.", code, int(CodeTTL.Minutes())),
		})
	}
}

func recordEvent(conn *gorm.DB, account *models.Account, category models.EventCategory, status models.EventStatus, event, description string) {
	channel := string(Channel(account))
	to := account.Email
	if to == nil {
		to = account.PhoneNumber
	}
	entry := models.EventLog{
		Category:    &category,
		Status:      &status,
		Event:       &event,
		Channel:     &channel,
		Description: &description,
		To:          to,
		AccountID:   account.ID,
	}
	if err := conn.Create(&entry).Error; err != nil {
		commons.Logger.Errorf("Failed to record %s event: %v", event, err)
	}
}
