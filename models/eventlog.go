// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventStatus string
type EventCategory string

const (
	Pending EventStatus = "PENDING"
	Sent    EventStatus = "SENT"
	Failed  EventStatus = "FAILED"
)

const (
	Auth         EventCategory = "AUTH"
	Notification EventCategory = "NOTIFICATION"
)

const (
	EventCodeIssued   = "OTP_ISSUED"
	EventCodeVerified = "OTP_VERIFIED"
	EventWelcomeSent  = "WELCOME_SENT"
)

type EventLog struct {
	ID          uint           `gorm:"primaryKey"`
	EID         uuid.UUID      `gorm:"type:uuid;not null;"`
	Category    *EventCategory `gorm:"size:32;default:null"`
	Status      *EventStatus   `gorm:"size:32;default:null"`
	Event       *string        `gorm:"size:64;default:null;index"`
	Channel     *string        `gorm:"size:16;default:null"`
	Description *string        `gorm:"type:text;default:null;"`
	To          *string        `gorm:"size:255;default:null;"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
	AccountID   uint           `gorm:"index"`
	Account     Account        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (eventLog *EventLog) BeforeCreate(tx *gorm.DB) (err error) {
	eventLog.EID = uuid.New()
	return
}

func init() {
	AllModels = append(AllModels, &EventLog{})
}
