package handler_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/robertoraimondo/budget/internal/models"

	"github.com/gin-gonic/gin"
)

func TestNetWorthCombinesCashAndInvestments(t *testing.T) {
	r, _ := testServer(t)
	token := registerAndLogin(t, r, "nina")

	createAccount(t, r, token, gin.H{"name": "Checking", "kind": models.AccountChecking, "balance": "1000.00"})
	createAccount(t, r, token, gin.H{"name": "Card", "kind": models.AccountCredit, "balance": "-250.00"})
	brokerage := createAccount(t, r, token, gin.H{"name": "Brokerage", "kind": models.AccountInvestment})

	status, env := doJSON(t, r, http.MethodPost, "/api/investments", token, gin.H{
		"symbol":         "VTI",
		"name":           "Total Market ETF",
		"shares":         "10",
		"purchase_price": "200.00",
		"current_price":  "220.00",
		"purchase_date":  "2026-01-15",
		"account_id":     brokerage,
	})
	mustSuccess(t, status, env, "create investment")

	status, env = doJSON(t, r, http.MethodGet, "/api/net-worth", token, nil)
	mustSuccess(t, status, env, "net worth")

	// cash 1000 - 250 liability + holdings 10 * 220
	if env.Data["cash_assets"] != "1000.00" {
		t.Fatalf("cash_assets = %v", env.Data["cash_assets"])
	}
	if env.Data["liabilities"] != "250.00" {
		t.Fatalf("liabilities = %v", env.Data["liabilities"])
	}
	if env.Data["investment_assets"] != "2200.00" {
		t.Fatalf("investment_assets = %v", env.Data["investment_assets"])
	}
	if env.Data["net_worth"] != "2950.00" {
		t.Fatalf("net_worth = %v", env.Data["net_worth"])
	}
}

func TestMonthlySpendingZeroFillsQuietMonths(t *testing.T) {
	r, _ := testServer(t)
	token := registerAndLogin(t, r, "oscar")
	accountID := createAccount(t, r, token, gin.H{"name": "Checking", "kind": models.AccountChecking})

	now := time.Now()
	status, env := doJSON(t, r, http.MethodPost, "/api/transactions", token, gin.H{
		"date":        now.Format("2006-01") + "-01",
		"description": "Utilities",
		"amount":      "80.00",
		"kind":        models.TransactionExpense,
		"account_id":  accountID,
	})
	mustSuccess(t, status, env, "create transaction")

	status, env = doJSON(t, r, http.MethodGet, "/api/monthly-spending", token, nil)
	mustSuccess(t, status, env, "monthly spending")

	months := env.Data["months"].([]interface{})
	if len(months) != 12 {
		t.Fatalf("expected 12 months, got %d", len(months))
	}
	for _, m := range months {
		entry := m.(map[string]interface{})
		cents := int64(entry["spending_cents"].(float64))
		if int(entry["month"].(float64)) == int(now.Month()) {
			if cents != 8000 {
				t.Fatalf("current month spending=%d want 8000", cents)
			}
		} else if cents != 0 {
			t.Fatalf("month %v spending=%d want 0", entry["month"], cents)
		}
	}
}

func TestExportCSVListsTransactions(t *testing.T) {
	r, _ := testServer(t)
	token := registerAndLogin(t, r, "peggy")
	accountID := createAccount(t, r, token, gin.H{"name": "Checking", "kind": models.AccountChecking})

	status, env := doJSON(t, r, http.MethodPost, "/api/transactions", token, gin.H{
		"date":        "2026-08-21",
		"description": "Books",
		"amount":      "35.00",
		"kind":        models.TransactionExpense,
		"account_id":  accountID,
	})
	mustSuccess(t, status, env, "create transaction")

	body, header := rawGet(t, r, "/api/export/csv", token)
	if !strings.Contains(header.Get("Content-Disposition"), "attachment") {
		t.Fatalf("missing attachment disposition: %q", header.Get("Content-Disposition"))
	}
	if !strings.Contains(body, "Date,Description,Kind,Category,Account,Amount") {
		t.Fatalf("missing csv header in %q", body)
	}
	if !strings.Contains(body, "2026-08-21,Books,expense,,Checking,35.00") {
		t.Fatalf("missing transaction row in %q", body)
	}
}

func TestReportSummaryTotals(t *testing.T) {
	r, _ := testServer(t)
	token := registerAndLogin(t, r, "quinn")
	accountID := createAccount(t, r, token, gin.H{"name": "Checking", "kind": models.AccountChecking, "balance": "500.00"})

	today := time.Now().Format("2006-01-02")
	for _, tx := range []gin.H{
		{"date": today, "description": "Paycheck", "amount": "300.00", "kind": models.TransactionIncome, "account_id": accountID},
		{"date": today, "description": "Groceries", "amount": "100.00", "kind": models.TransactionExpense, "account_id": accountID},
	} {
		status, env := doJSON(t, r, http.MethodPost, "/api/transactions", token, tx)
		mustSuccess(t, status, env, fmt.Sprintf("create transaction %v", tx["description"]))
	}

	status, env := doJSON(t, r, http.MethodGet, "/api/reports/summary", token, nil)
	mustSuccess(t, status, env, "summary")

	if env.Data["month_income"] != "300.00" {
		t.Fatalf("month_income = %v", env.Data["month_income"])
	}
	if env.Data["month_expenses"] != "100.00" {
		t.Fatalf("month_expenses = %v", env.Data["month_expenses"])
	}
	// balance moved to 700 with the two postings applied
	if env.Data["total_assets"] != "700.00" {
		t.Fatalf("total_assets = %v", env.Data["total_assets"])
	}
	txs := env.Data["transactions"].([]interface{})
	if len(txs) != 2 {
		t.Fatalf("expected 2 current-month transactions, got %d", len(txs))
	}
}
