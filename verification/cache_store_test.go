// SPDX-License-Identifier: GPL-3.0-only

package verification

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"faithconnect-server/cache"
	"faithconnect-server/models"

	"github.com/alicebob/miniredis/v2"
)

func setupCacheStore(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	t.Setenv("REDIS_URL", "redis://"+mr.Addr())
	t.Setenv("OTP_STORE", "cache")
	cache.InitCache()
	t.Cleanup(func() {
		os.Unsetenv("REDIS_URL")
		cache.InitCache()
	})
	return mr
}

func TestIssueAndVerifyWithCacheStore(t *testing.T) {
	mockProviders(t)
	mr := setupCacheStore(t)
	conn := newTestDB(t)
	account := createAccount(t, conn, strptr("jane@example.com"), nil)

	code, err := IssueCode(context.Background(), conn, account)
	if err != nil {
		t.Fatalf("IssueCode failed: %v", err)
	}

	// The code lives in redis with a TTL, not in the pending_code column.
	var stored models.Account
	if err := conn.First(&stored, account.ID).Error; err != nil {
		t.Fatalf("Failed to reload account: %v", err)
	}
	if stored.PendingCode != nil {
		t.Error("Expected pending_code column to stay empty with the cache store")
	}
	cached, err := cache.Get(context.Background(), codeKey(account))
	if err != nil {
		t.Fatalf("Failed to read code from cache: %v", err)
	}
	if cached != code {
		t.Errorf("Expected cached code %s, got %s", code, cached)
	}
	if ttl := mr.TTL(codeKey(account)); ttl != CodeTTL {
		t.Errorf("Expected code TTL %v, got %v", CodeTTL, ttl)
	}

	verified, err := VerifyCode(context.Background(), conn, "jane@example.com", code)
	if err != nil {
		t.Fatalf("VerifyCode failed: %v", err)
	}
	if !verified.IsActive || !verified.EmailVerified {
		t.Error("Expected account to be active with the email channel verified")
	}

	// The key must be cleared once the code is consumed.
	if _, err := cache.Get(context.Background(), codeKey(account)); !errors.Is(err, cache.Nil) {
		t.Errorf("Expected code key to be gone after verification, got %v", err)
	}
}

func TestVerifyWrongCodeWithCacheStore(t *testing.T) {
	mockProviders(t)
	setupCacheStore(t)
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

	// A wrong submission does not consume the outstanding code.
	if cached, err := cache.Get(context.Background(), codeKey(account)); err != nil || cached != code {
		t.Errorf("Expected code to survive a wrong submission, got %q, %v", cached, err)
	}

	var stored models.Account
	if err := conn.First(&stored, account.ID).Error; err != nil {
		t.Fatalf("Failed to reload account: %v", err)
	}
	if stored.IsActive {
		t.Error("Expected account to remain inactive after a wrong code")
	}
}

func TestVerifyExpiredCodeWithCacheStore(t *testing.T) {
	mockProviders(t)
	mr := setupCacheStore(t)
	conn := newTestDB(t)
	account := createAccount(t, conn, strptr("jane@example.com"), nil)

	code, err := IssueCode(context.Background(), conn, account)
	if err != nil {
		t.Fatalf("IssueCode failed: %v", err)
	}

	mr.FastForward(CodeTTL + time.Second)

	if _, err := VerifyCode(context.Background(), conn, "jane@example.com", code); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("Expected ErrInvalidCode for an expired code, got %v", err)
	}
}

func TestCooldownWithCacheStore(t *testing.T) {
	mockProviders(t)
	mr := setupCacheStore(t)
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

	mr.FastForward(ResendCooldown + time.Second)

	if InCooldown(context.Background(), conn, account) {
		t.Error("Expected cooldown to lapse after the window passed")
	}
}
