// SPDX-License-Identifier: GPL-3.0-only

package verification

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"faithconnect-server/crypto"
	"faithconnect-server/models"
	"faithconnect-server/notifications"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := conn.AutoMigrate(models.AllModels...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	// SQLite rejects concurrent writers; a single connection keeps the
	// concurrency tests deterministic.
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return conn
}

var accountSeq int

func createAccount(t *testing.T, conn *gorm.DB, email, phone *string) *models.Account {
	t.Helper()
	accountSeq++
	account := models.Account{
		AccountID:         fmt.Sprintf("acct_test%04d", accountSeq),
		PartnershipNumber: fmt.Sprintf("FC-2024-%04d", accountSeq),
		Email:             email,
		PhoneNumber:       phone,
		Password:          "not-a-real-hash",
		AccountKind:       models.CommunityAccount,
	}
	if err := conn.Create(&account).Error; err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}
	return &account
}

func mockProviders(t *testing.T) {
	t.Helper()
	t.Setenv("MOCK_EMAIL_NOTIFICATIONS", "true")
	t.Setenv("MOCK_SMS_NOTIFICATIONS", "true")
}

func strptr(s string) *string { return &s }

// sequentialReader yields 1, 2, 3, ... as big-endian draws, so successive
// codes are "000001", "000002", and so on.
type sequentialReader struct{ next byte }

func (r *sequentialReader) Read(p []byte) (int, error) {
	r.next++
	for i := range p {
		p[i] = 0
	}
	p[len(p)-1] = r.next
	return len(p), nil
}

func useSequentialCodes(t *testing.T) {
	t.Helper()
	orig := crypto.RandSource
	crypto.RandSource = &sequentialReader{}
	t.Cleanup(func() { crypto.RandSource = orig })
}

func TestIssueCodeReplacesOutstandingCode(t *testing.T) {
	mockProviders(t)
	useSequentialCodes(t)
	conn := newTestDB(t)
	account := createAccount(t, conn, strptr("jane@example.com"), nil)

	first, err := IssueCode(context.Background(), conn, account)
	if err != nil {
		t.Fatalf("First IssueCode failed: %v", err)
	}
	second, err := IssueCode(context.Background(), conn, account)
	if err != nil {
		t.Fatalf("Second IssueCode failed: %v", err)
	}
	if first == second {
		t.Fatalf("Expected distinct codes from successive draws, got %s twice", first)
	}

	var stored models.Account
	if err := conn.First(&stored, account.ID).Error; err != nil {
		t.Fatalf("Failed to reload account: %v", err)
	}
	if stored.PendingCode == nil {
		t.Fatal("Expected a pending code after issue")
	}
	if *stored.PendingCode != second {
		t.Errorf("Expected pending code %s, got %s", second, *stored.PendingCode)
	}
	if stored.PendingCodeExpiresAt == nil {
		t.Fatal("Expected an expiry on the pending code")
	}

	// The replaced code must not verify.
	if _, err := VerifyCode(context.Background(), conn, "jane@example.com", first); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("Expected ErrInvalidCode for the replaced code, got %v", err)
	}
}

func TestVerifyCodeActivatesAccountOnce(t *testing.T) {
	mockProviders(t)
	conn := newTestDB(t)
	account := createAccount(t, conn, strptr("jane@example.com"), nil)

	code, err := IssueCode(context.Background(), conn, account)
	if err != nil {
		t.Fatalf("IssueCode failed: %v", err)
	}

	verified, err := VerifyCode(context.Background(), conn, "jane@example.com", code)
	if err != nil {
		t.Fatalf("VerifyCode failed: %v", err)
	}
	if !verified.IsActive {
		t.Error("Expected account to be active after verification")
	}
	if !verified.IsVerified {
		t.Error("Expected account to be verified after verification")
	}
	if !verified.EmailVerified {
		t.Error("Expected email channel to be marked verified")
	}
	if verified.PhoneVerified {
		t.Error("Expected phone channel to remain unverified")
	}
	if verified.PendingCode != nil {
		t.Errorf("Expected pending code to be cleared, got %s", *verified.PendingCode)
	}

	// The same code must not work a second time.
	if _, err := VerifyCode(context.Background(), conn, "jane@example.com", code); !errors.Is(err, ErrAlreadyActive) {
		t.Errorf("Expected ErrAlreadyActive on second verification, got %v", err)
	}
}

func TestVerifyCodeRejectsWrongCode(t *testing.T) {
	mockProviders(t)
	conn := newTestDB(t)
	account := createAccount(t, conn, strptr("jane@example.com"), nil)

	code, err := IssueCode(context.Background(), conn, account)
	if err != nil {
		t.Fatalf("IssueCode failed: %v", err)
	}

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	if _, err := VerifyCode(context.Background(), conn, "jane@example.com", wrong); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("Expected ErrInvalidCode, got %v", err)
	}

	var stored models.Account
	if err := conn.First(&stored, account.ID).Error; err != nil {
		t.Fatalf("Failed to reload account: %v", err)
	}
	if stored.IsActive {
		t.Error("Expected account to remain inactive after a wrong code")
	}
	if stored.PendingCode == nil || *stored.PendingCode != code {
		t.Error("Expected pending code to survive a wrong submission")
	}
}

func TestVerifyCodeRejectsExpiredCode(t *testing.T) {
	mockProviders(t)
	conn := newTestDB(t)
	account := createAccount(t, conn, strptr("jane@example.com"), nil)

	code, err := IssueCode(context.Background(), conn, account)
	if err != nil {
		t.Fatalf("IssueCode failed: %v", err)
	}

	expired := time.Now().Add(-time.Minute)
	if err := conn.Model(account).Update("pending_code_expires_at", expired).Error; err != nil {
		t.Fatalf("Failed to age the code expiry: %v", err)
	}

	if _, err := VerifyCode(context.Background(), conn, "jane@example.com", code); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("Expected ErrInvalidCode for an expired code, got %v", err)
	}

	var stored models.Account
	if err := conn.First(&stored, account.ID).Error; err != nil {
		t.Fatalf("Failed to reload account: %v", err)
	}
	if stored.IsActive {
		t.Error("Expected account to remain inactive after an expired code")
	}
}

func TestVerifyCodeRejectsEmptyCode(t *testing.T) {
	mockProviders(t)
	conn := newTestDB(t)
	account := createAccount(t, conn, strptr("jane@example.com"), nil)

	if _, err := IssueCode(context.Background(), conn, account); err != nil {
		t.Fatalf("IssueCode failed: %v", err)
	}

	if _, err := VerifyCode(context.Background(), conn, "jane@example.com", "   "); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("Expected ErrInvalidCode for blank submission, got %v", err)
	}
}

func TestVerifyCodeUnknownIdentifier(t *testing.T) {
	mockProviders(t)
	conn := newTestDB(t)

	if _, err := VerifyCode(context.Background(), conn, "nobody@example.com", "123456"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestVerifyCodePhoneChannel(t *testing.T) {
	mockProviders(t)
	conn := newTestDB(t)
	account := createAccount(t, conn, nil, strptr("254712345678"))

	code, err := IssueCode(context.Background(), conn, account)
	if err != nil {
		t.Fatalf("IssueCode failed: %v", err)
	}

	// Non-canonical identifier forms address the same account.
	verified, err := VerifyCode(context.Background(), conn, "0712 345-678", code)
	if err != nil {
		t.Fatalf("VerifyCode failed: %v", err)
	}
	if !verified.PhoneVerified {
		t.Error("Expected phone channel to be marked verified")
	}
	if verified.EmailVerified {
		t.Error("Expected email channel to remain unverified")
	}
}

func TestVerifyCodeConcurrentSubmissions(t *testing.T) {
	mockProviders(t)
	conn := newTestDB(t)
	account := createAccount(t, conn, strptr("jane@example.com"), nil)

	code, err := IssueCode(context.Background(), conn, account)
	if err != nil {
		t.Fatalf("IssueCode failed: %v", err)
	}

	const workers = 8
	results := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = VerifyCode(context.Background(), conn, "jane@example.com", code)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		}
	}
	if winners != 1 {
		t.Errorf("Expected exactly one successful verification, got %d", winners)
	}

	var stored models.Account
	if err := conn.First(&stored, account.ID).Error; err != nil {
		t.Fatalf("Failed to reload account: %v", err)
	}
	if !stored.IsActive {
		t.Error("Expected account to be active after the race")
	}
}

func TestFindAccountByCanonicalAndRawPhone(t *testing.T) {
	conn := newTestDB(t)
	created := createAccount(t, conn, nil, strptr("254712345678"))

	for _, identifier := range []string{"254712345678", "+254712345678", "0712345678"} {
		found, err := FindAccount(conn, identifier)
		if err != nil {
			t.Fatalf("FindAccount(%q) failed: %v", identifier, err)
		}
		if found.ID != created.ID {
			t.Errorf("FindAccount(%q) returned account %d, want %d", identifier, found.ID, created.ID)
		}
	}
}

func TestInCooldownAfterIssue(t *testing.T) {
	mockProviders(t)
	conn := newTestDB(t)
	account := createAccount(t, conn, strptr("jane@example.com"), nil)

	if InCooldown(context.Background(), conn, account) {
		t.Error("Expected no cooldown before any code was issued")
	}

	if _, err := IssueCode(context.Background(), conn, account); err != nil {
		t.Fatalf("IssueCode failed: %v", err)
	}

	if !InCooldown(context.Background(), conn, account) {
		t.Error("Expected cooldown right after a code was issued")
	}
}

func TestIssueCodeChannelSendFailure(t *testing.T) {
	t.Setenv("MOCK_EMAIL_NOTIFICATIONS", "false")
	t.Setenv("EMAIL_PROVIDER", "nonexistent")
	conn := newTestDB(t)
	account := createAccount(t, conn, strptr("jane@example.com"), nil)

	if _, err := IssueCode(context.Background(), conn, account); !errors.Is(err, ErrChannelSendFailure) {
		t.Errorf("Expected ErrChannelSendFailure, got %v", err)
	}

	var failure models.EventLog
	if err := conn.Where("account_id = ? AND status = ?", account.ID, models.Failed).
		First(&failure).Error; err != nil {
		t.Errorf("Expected a failed event log entry: %v", err)
	}
}

func TestChannelPrefersEmail(t *testing.T) {
	both := &models.Account{Email: strptr("jane@example.com"), PhoneNumber: strptr("254712345678")}
	if got := Channel(both); got != notifications.Email {
		t.Errorf("Expected email channel when both identifiers are set, got %s", got)
	}
	phoneOnly := &models.Account{PhoneNumber: strptr("254712345678")}
	if got := Channel(phoneOnly); got != notifications.SMS {
		t.Errorf("Expected SMS channel for phone-only account, got %s", got)
	}
}
