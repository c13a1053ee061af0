// SPDX-License-Identifier: GPL-3.0-only

package notifications

import (
	"fmt"

	"faithconnect-server/commons"
)

// EmailProvider and SMSProvider resolve the configured provider for each
// channel, honoring the mock switches used in development and tests.
func EmailProvider() NotificationProviders {
	if commons.GetEnv("MOCK_EMAIL_NOTIFICATIONS") == "true" {
		return Mock
	}
	return NotificationProviders(commons.GetEnv("EMAIL_PROVIDER", string(SMTP)))
}

func SMSProvider() NotificationProviders {
	if commons.GetEnv("MOCK_SMS_NOTIFICATIONS") == "true" {
		return Mock
	}
	return NotificationProviders(commons.GetEnv("SMS_PROVIDER", string(AfricasTalking)))
}

func DispatchNotification(_type NotificationTypes, provider NotificationProviders, data NotificationData) error {
	commons.Logger.Debugf("Dispatching notification:\n- type=%s\n- provider=%s", _type, provider)

	var err error
	switch _type {
	case Email:
		if commons.GetEnv("MOCK_EMAIL_NOTIFICATIONS") == "true" {
			commons.Logger.Debug("Mock email notifications enabled, using mock provider")
			provider = Mock
		}
		err = dispatchEmail(provider, data)
	case SMS:
		if commons.GetEnv("MOCK_SMS_NOTIFICATIONS") == "true" {
			commons.Logger.Debug("Mock SMS notifications enabled, using mock provider")
			provider = Mock
		}
		err = dispatchSMS(provider, data)
	default:
		err = fmt.Errorf("unsupported notification type: %s", _type)
	}

	if err != nil {
		commons.Logger.Errorf("Failed to dispatch notification:\n%v", err)
		return err
	}

	commons.Logger.Infof("Notification dispatched successfully:\n- type=%s\n- provider=%s", _type, provider)
	return nil
}

func dispatchEmail(provider NotificationProviders, data NotificationData) error {
	switch provider {
	case SMTP:
		return SMTPClient(data)
	case Mock:
		return MockEmailClient(data)
	default:
		return fmt.Errorf("unsupported email provider: %s", provider)
	}
}

func dispatchSMS(provider NotificationProviders, data NotificationData) error {
	switch provider {
	case AfricasTalking:
		return AfricasTalkingClient(data)
	case Mock:
		return MockSMSClient(data)
	default:
		return fmt.Errorf("unsupported SMS provider: %s", provider)
	}
}
