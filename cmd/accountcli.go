// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"faithconnect-server/commons"
	"faithconnect-server/db"
	"faithconnect-server/models"
	"faithconnect-server/verification"
)

// accountcli is a small ops tool for support workflows: listing accounts
// stuck in pending state and force-activating one when the code channel is
// unreachable (e.g. provider outage confirmed out-of-band).
func main() {
	listPending := flag.Bool("list-pending", false, "List accounts that have not completed verification")
	activate := flag.String("activate", "", "Force-activate the account matching this email or phone number")
	flag.Parse()

	commons.LoadEnvFile()
	db.InitDB()

	switch {
	case *listPending:
		runListPending()
	case *activate != "":
		runActivate(*activate)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runListPending() {
	var accounts []models.Account
	if err := db.Conn.Where("is_active = ?", false).
		Order("created_at ASC").
		Find(&accounts).Error; err != nil {
		log.Fatalf("Failed to fetch pending accounts: %v", err)
	}

	if len(accounts) == 0 {
		fmt.Println("No pending accounts.")
		return
	}

	fmt.Printf("%-24s %-16s %-28s %-16s %s\n", "ACCOUNT_ID", "PARTNERSHIP", "EMAIL", "PHONE", "CREATED_AT")
	for _, account := range accounts {
		email := "-"
		if account.Email != nil {
			email = *account.Email
		}
		phone := "-"
		if account.PhoneNumber != nil {
			phone = *account.PhoneNumber
		}
		fmt.Printf("%-24s %-16s %-28s %-16s %s\n",
			account.AccountID, account.PartnershipNumber, email, phone,
			account.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

func runActivate(identifier string) {
	account, err := verification.FindAccount(db.Conn, identifier)
	if err != nil {
		log.Fatalf("Failed to find account: %v", err)
	}

	if account.IsActive {
		fmt.Printf("Account %s is already active.\n", account.AccountID)
		return
	}

	updates := map[string]any{
		"pending_code":            nil,
		"pending_code_expires_at": nil,
		"is_active":               true,
		"is_verified":             true,
	}
	if account.Email != nil && *account.Email != "" {
		updates["email_verified"] = true
	} else {
		updates["phone_verified"] = true
	}

	if err := db.Conn.Model(account).Updates(updates).Error; err != nil {
		log.Fatalf("Failed to activate account: %v", err)
	}

	fmt.Printf("Account %s (partnership %s) activated.\n", account.AccountID, account.PartnershipNumber)
}
