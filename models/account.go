// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"gorm.io/gorm"
)

var AllModels []any

type AccountKind string

const (
	CommunityAccount AccountKind = "COMMUNITY"
	BusinessAccount  AccountKind = "BUSINESS"
)

func (k AccountKind) Valid() bool {
	return k == CommunityAccount || k == BusinessAccount
}

// Account is created inactive and flips to active exactly once, when the
// pending verification code is consumed. PendingCode and its expiry are nil
// whenever IsActive is true; a code past its expiry never verifies.
type Account struct {
	ID                   uint        `gorm:"primaryKey"`
	AccountID            string      `gorm:"size:255;not null;uniqueIndex"`
	PartnershipNumber    string      `gorm:"size:64;not null;uniqueIndex"`
	FullName             *string     `gorm:"size:255;default:null"`
	Email                *string     `gorm:"size:255;default:null;uniqueIndex"`
	PhoneNumber          *string     `gorm:"size:16;default:null;uniqueIndex"` // canonical form only
	Password             string      `gorm:"not null"`
	AccountKind          AccountKind `gorm:"size:16;not null;default:COMMUNITY"`
	PendingCode          *string     `gorm:"size:8;default:null"`
	PendingCodeExpiresAt *time.Time  `gorm:"default:null"`
	IsActive             bool        `gorm:"not null;default:false"`
	IsVerified           bool        `gorm:"not null;default:false"`
	EmailVerified        bool        `gorm:"not null;default:false"`
	PhoneVerified        bool        `gorm:"not null;default:false"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
	DeletedAt            gorm.DeletedAt `gorm:"index"`
}

func init() {
	AllModels = append(AllModels, &Account{})
}
