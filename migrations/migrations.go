// SPDX-License-Identifier: GPL-3.0-only

package migrations

import (
	"fmt"
	"time"

	"faithconnect-server/commons"
	"faithconnect-server/models"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func List() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "001_normalize_phone_numbers",
			Migrate: func(tx *gorm.DB) error {
				var accounts []models.Account
				if err := tx.Select("id", "phone_number").
					Where("phone_number IS NOT NULL").
					Find(&accounts).Error; err != nil {
					return fmt.Errorf("failed to fetch accounts: %w", err)
				}

				for i := range accounts {
					canonical, err := commons.NormalizePhone(*accounts[i].PhoneNumber)
					if err != nil {
						commons.Logger.Warnf("Account %d has an unnormalizable phone number, leaving as-is", accounts[i].ID)
						continue
					}
					if canonical == *accounts[i].PhoneNumber {
						continue
					}
					if err := tx.Model(&accounts[i]).Update("phone_number", canonical).Error; err != nil {
						return fmt.Errorf("update account %d: %w", accounts[i].ID, err)
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error { return nil },
		},
		{
			ID: "002_clear_stale_pending_codes",
			Migrate: func(tx *gorm.DB) error {
				// Active accounts must never carry a pending code.
				if err := tx.Model(&models.Account{}).
					Where("is_active = ? AND pending_code IS NOT NULL", true).
					Updates(map[string]any{
						"pending_code":            nil,
						"pending_code_expires_at": nil,
					}).Error; err != nil {
					return fmt.Errorf("failed to clear stale pending codes: %w", err)
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error { return nil },
		},
		{
			ID: "003_expire_legacy_pending_codes",
			Migrate: func(tx *gorm.DB) error {
				// Codes issued before expiry tracking have no deadline on
				// record; give their holders one standard window from now.
				if err := tx.Model(&models.Account{}).
					Where("is_active = ? AND pending_code IS NOT NULL AND pending_code_expires_at IS NULL", false).
					Update("pending_code_expires_at", time.Now().Add(10*time.Minute)).Error; err != nil {
					return fmt.Errorf("failed to backfill code expiry: %w", err)
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error { return nil },
		},
	}
}
