// SPDX-License-Identifier: GPL-3.0-only

package verification

import (
	"fmt"

	"faithconnect-server/commons"
	"faithconnect-server/models"
	"faithconnect-server/notifications"

	"gorm.io/gorm"
)

// NotifyWelcome sends a welcome message after activation. Fire-and-forget:
// failures are logged and recorded in the event log, never returned, and a
// dropped welcome message does not unwind activation.
func NotifyWelcome(conn *gorm.DB, account *models.Account) {
	var err error
	switch {
	case account.EmailVerified && account.Email != nil:
		err = notifications.DispatchNotification(notifications.Email, notifications.EmailProvider(), notifications.NotificationData{
			To:       *account.Email,
			ToName:   account.FullName,
			Subject:  "Welcome to FaithConnect",
			Template: "welcome",
			Variables: map[string]any{
				"product_name":       "FaithConnect",
				"partnership_number": account.PartnershipNumber,
				"base_url":           commons.GetEnv("BASE_URL", "https://api.faithconnect.biz"),
			},
		})
	case account.PhoneVerified && account.PhoneNumber != nil:
		err = notifications.DispatchNotification(notifications.SMS, notifications.SMSProvider(), notifications.NotificationData{
			To:      *account.PhoneNumber,
			Message: fmt.Sprintf("Welcome to FaithConnect! Your account %s is now active.", account.PartnershipNumber),
		})
	default:
		commons.Logger.Warnf("Account %s has no verified channel for the welcome message", account.AccountID)
		return
	}

	if err != nil {
		commons.Logger.Errorf("Failed to send welcome notification: %v", err)
		recordEvent(conn, account, models.Notification, models.Failed, models.EventWelcomeSent, err.Error())
		return
	}

	recordEvent(conn, account, models.Notification, models.Sent, models.EventWelcomeSent, "welcome message sent")
}
