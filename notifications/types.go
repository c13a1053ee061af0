// SPDX-License-Identifier: GPL-3.0-only

package notifications

type NotificationTypes string

const (
	Email NotificationTypes = "EMAIL"
	SMS   NotificationTypes = "SMS"
)

type NotificationData struct {
	To        string         `json:"to"`
	ToName    *string        `json:"to_name,omitempty"`
	Subject   string         `json:"subject,omitempty"`
	Template  string         `json:"template,omitempty"`
	Message   string         `json:"message,omitempty"`
	Variables map[string]any `json:"variables,omitempty"`
}

type NotificationProviders string

const (
	SMTP           NotificationProviders = "smtp"
	AfricasTalking NotificationProviders = "africas_talking"
	Mock           NotificationProviders = "mock"
)

type ATSMSResponse struct {
	SMSMessageData ATSMSMessageData `json:"SMSMessageData"`
}

type ATSMSMessageData struct {
	Message    string        `json:"Message"`
	Recipients []ATRecipient `json:"Recipients"`
}

type ATRecipient struct {
	Number     string `json:"number"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	MessageID  string `json:"messageId"`
	Cost       string `json:"cost"`
}
