// SPDX-License-Identifier: GPL-3.0-only

package notifications

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"faithconnect-server/commons"
)

// Provider calls are binary success/failure; a hung call counts as failure.
var smsHTTPClient = &http.Client{Timeout: 30 * time.Second}

func MockSMSClient(data NotificationData) error {
	commons.Logger.Info("=== MOCK SMS NOTIFICATION ===")
	commons.Logger.Infof("To: %s", data.To)
	commons.Logger.Infof("Message: %s", data.Message)
	commons.Logger.Info("=== SMS MOCK COMPLETE ===")
	return nil
}

// AfricasTalkingClient sends a single SMS through the Africa's Talking
// messaging API. The recipient must already be in canonical form.
func AfricasTalkingClient(data NotificationData) error {
	commons.Logger.Debug("Sending SMS via Africa's Talking")

	username := commons.GetEnv("AT_USERNAME")
	if username == "" {
		return fmt.Errorf("AT_USERNAME environment variable is not set")
	}

	apiKey := commons.GetEnv("AT_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("AT_API_KEY environment variable is not set")
	}

	if data.To == "" {
		return fmt.Errorf("'to' field is required")
	}

	if data.Message == "" {
		return fmt.Errorf("'message' field is required")
	}

	apiURL := commons.GetEnv("AT_API_URL", "https://api.africastalking.com/version1/messaging")

	form := url.Values{}
	form.Set("username", username)
	form.Set("to", "+"+strings.TrimPrefix(data.To, "+"))
	form.Set("message", data.Message)
	if senderID := commons.GetEnv("AT_SENDER_ID"); senderID != "" {
		form.Set("from", senderID)
	}

	req, err := http.NewRequest(http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create SMS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apiKey", apiKey)

	resp, err := smsHTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("SMS provider request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read SMS provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("SMS provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var atResp ATSMSResponse
	if err := json.Unmarshal(body, &atResp); err != nil {
		return fmt.Errorf("failed to parse SMS provider response: %w", err)
	}

	if len(atResp.SMSMessageData.Recipients) == 0 {
		return fmt.Errorf("SMS provider accepted no recipients: %s", atResp.SMSMessageData.Message)
	}

	recipient := atResp.SMSMessageData.Recipients[0]
	if recipient.Status != "Success" {
		return fmt.Errorf("SMS delivery failed for %s: %s (code %d)", recipient.Number, recipient.Status, recipient.StatusCode)
	}

	commons.Logger.Info("SMS sent successfully via Africa's Talking")
	return nil
}
