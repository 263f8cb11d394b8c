package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/robertoraimondo/budget/internal/config"
	"github.com/robertoraimondo/budget/internal/database"
	"github.com/robertoraimondo/budget/internal/models"
	"github.com/robertoraimondo/budget/internal/router"
	"github.com/robertoraimondo/budget/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	// a pooled second connection would see its own empty memory db
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireHours = 1
	cfg.Security.BcryptCost = bcrypt.MinCost
	cfg.Security.EncryptionKey = "test-encryption-key"
	cfg.App.PageSize = 20

	return router.SetupRouter(cfg, db), db
}

type envelope struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode response %q: %v", method, path, w.Body.String(), err)
	}
	return w.Code, env
}

// rawGet fetches a non-JSON endpoint such as the downloads.
func rawGet(t *testing.T, r *gin.Engine, path, token string) (string, http.Header) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s: status=%d body=%q", path, w.Code, w.Body.String())
	}
	return w.Body.String(), w.Result().Header
}

func mustSuccess(t *testing.T, status int, env envelope, what string) {
	t.Helper()
	if status != http.StatusOK || env.Code != util.CodeOK {
		t.Fatalf("%s: status=%d code=%d message=%q", what, status, env.Code, env.Message)
	}
}

func registerAndLogin(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	status, env := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "Sup3rSecret",
		"confirm_password": "Sup3rSecret",
	})
	mustSuccess(t, status, env, "register")

	status, env = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": username,
		"password": "Sup3rSecret",
	})
	mustSuccess(t, status, env, "login")

	token, _ := env.Data["token"].(string)
	if token == "" {
		t.Fatalf("login returned no token: %v", env.Data)
	}
	return token
}

func createAccount(t *testing.T, r *gin.Engine, token string, body gin.H) uint {
	t.Helper()
	status, env := doJSON(t, r, http.MethodPost, "/api/accounts", token, body)
	mustSuccess(t, status, env, "create account")
	account := env.Data["account"].(map[string]interface{})
	return uint(account["id"].(float64))
}

func accountBalanceCents(t *testing.T, r *gin.Engine, token string, id uint) int64 {
	t.Helper()
	status, env := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/accounts/%d", id), token, nil)
	mustSuccess(t, status, env, "account detail")
	account := env.Data["account"].(map[string]interface{})
	return int64(account["balance_cents"].(float64))
}

func TestRegisterLoginAndMe(t *testing.T) {
	r, _ := testServer(t)
	token := registerAndLogin(t, r, "alice")

	status, env := doJSON(t, r, http.MethodGet, "/api/me", token, nil)
	mustSuccess(t, status, env, "me")
	user := env.Data["user"].(map[string]interface{})
	if user["username"] != "alice" {
		t.Fatalf("me returned username %v", user["username"])
	}

	// a fresh user starts with the seeded category set
	status, env = doJSON(t, r, http.MethodGet, "/api/categories", token, nil)
	mustSuccess(t, status, env, "list categories")
	cats := env.Data["categories"].([]interface{})
	if len(cats) != 10 {
		t.Fatalf("expected 10 seeded categories, got %d", len(cats))
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	r, _ := testServer(t)
	status, env := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username":         "bob",
		"email":            "bob@example.com",
		"password":         "short",
		"confirm_password": "short",
	})
	if status != http.StatusBadRequest || env.Code != util.CodeInvalidParam {
		t.Fatalf("weak password accepted: status=%d code=%d", status, env.Code)
	}
}

func TestAuthRequiredOnProtectedRoutes(t *testing.T) {
	r, _ := testServer(t)
	status, _ := doJSON(t, r, http.MethodGet, "/api/accounts", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	r, _ := testServer(t)
	token := registerAndLogin(t, r, "carol")

	status, env := doJSON(t, r, http.MethodPost, "/api/auth/logout", token, nil)
	mustSuccess(t, status, env, "logout")

	status, _ = doJSON(t, r, http.MethodGet, "/api/me", token, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("token still valid after logout, status=%d", status)
	}
}

func TestAccountCreateResolvesBankFromRouting(t *testing.T) {
	r, _ := testServer(t)
	token := registerAndLogin(t, r, "dave")

	status, env := doJSON(t, r, http.MethodPost, "/api/accounts", token, gin.H{
		"name":           "Everyday Checking",
		"kind":           models.AccountChecking,
		"balance":        "1200.00",
		"routing_number": "021000021",
		"account_number": "000123456789",
	})
	mustSuccess(t, status, env, "create account")
	account := env.Data["account"].(map[string]interface{})
	if account["bank_name"] != "Chase Bank" {
		t.Fatalf("bank name not resolved from routing number: %v", account["bank_name"])
	}
	if account["account_number_last4"] != "6789" {
		t.Fatalf("last4 = %v", account["account_number_last4"])
	}
	if int64(account["balance_cents"].(float64)) != 120000 {
		t.Fatalf("opening balance = %v", account["balance_cents"])
	}
}

func TestAccountCreateRejectsBadRouting(t *testing.T) {
	r, _ := testServer(t)
	token := registerAndLogin(t, r, "erin")

	status, env := doJSON(t, r, http.MethodPost, "/api/accounts", token, gin.H{
		"name":           "Broken",
		"kind":           models.AccountChecking,
		"routing_number": "021000022",
	})
	if status != http.StatusBadRequest || env.Code != util.CodeInvalidParam {
		t.Fatalf("bad routing number accepted: status=%d code=%d", status, env.Code)
	}
}

func TestTransactionLifecycleKeepsBalance(t *testing.T) {
	r, _ := testServer(t)
	token := registerAndLogin(t, r, "frank")
	accountID := createAccount(t, r, token, gin.H{
		"name":    "Checking",
		"kind":    models.AccountChecking,
		"balance": "100.00",
	})

	status, env := doJSON(t, r, http.MethodPost, "/api/transactions", token, gin.H{
		"date":        "2026-08-01",
		"description": "Paycheck",
		"amount":      "50.00",
		"kind":        models.TransactionIncome,
		"account_id":  accountID,
	})
	mustSuccess(t, status, env, "create transaction")
	tx := env.Data["transaction"].(map[string]interface{})
	txID := uint(tx["id"].(float64))

	if got := accountBalanceCents(t, r, token, accountID); got != 15000 {
		t.Fatalf("after income 50: balance=%d want 15000", got)
	}

	// flip the same row to an expense; the income must be reverted first
	status, env = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/transactions/%d", txID), token, gin.H{
		"date":        "2026-08-02",
		"description": "Groceries",
		"amount":      "25.00",
		"kind":        models.TransactionExpense,
		"account_id":  accountID,
	})
	mustSuccess(t, status, env, "update transaction")

	if got := accountBalanceCents(t, r, token, accountID); got != 7500 {
		t.Fatalf("after update to expense 25: balance=%d want 7500", got)
	}

	status, env = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/transactions/%d", txID), token, nil)
	mustSuccess(t, status, env, "delete transaction")

	if got := accountBalanceCents(t, r, token, accountID); got != 10000 {
		t.Fatalf("after delete: balance=%d want opening 10000", got)
	}
}

func TestTransactionMoveBetweenAccounts(t *testing.T) {
	r, _ := testServer(t)
	token := registerAndLogin(t, r, "grace")
	first := createAccount(t, r, token, gin.H{"name": "First", "kind": models.AccountChecking, "balance": "100.00"})
	second := createAccount(t, r, token, gin.H{"name": "Second", "kind": models.AccountSavings, "balance": "100.00"})

	status, env := doJSON(t, r, http.MethodPost, "/api/transactions", token, gin.H{
		"date":        "2026-08-10",
		"description": "Dinner",
		"amount":      "40.00",
		"kind":        models.TransactionExpense,
		"account_id":  first,
	})
	mustSuccess(t, status, env, "create transaction")
	txID := uint(env.Data["transaction"].(map[string]interface{})["id"].(float64))

	status, env = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/transactions/%d", txID), token, gin.H{
		"date":        "2026-08-10",
		"description": "Dinner",
		"amount":      "40.00",
		"kind":        models.TransactionExpense,
		"account_id":  second,
	})
	mustSuccess(t, status, env, "move transaction")

	if got := accountBalanceCents(t, r, token, first); got != 10000 {
		t.Fatalf("source account balance=%d want 10000", got)
	}
	if got := accountBalanceCents(t, r, token, second); got != 6000 {
		t.Fatalf("target account balance=%d want 6000", got)
	}
}

func TestCategoryDeleteGuard(t *testing.T) {
	r, _ := testServer(t)
	token := registerAndLogin(t, r, "heidi")
	accountID := createAccount(t, r, token, gin.H{"name": "Checking", "kind": models.AccountChecking})

	status, env := doJSON(t, r, http.MethodPost, "/api/categories", token, gin.H{
		"name": "Coffee",
		"kind": models.CategoryExpense,
	})
	mustSuccess(t, status, env, "create category")
	catID := uint(env.Data["category"].(map[string]interface{})["id"].(float64))

	status, env = doJSON(t, r, http.MethodPost, "/api/transactions", token, gin.H{
		"date":        "2026-08-15",
		"description": "Latte",
		"amount":      "4.50",
		"kind":        models.TransactionExpense,
		"account_id":  accountID,
		"category_id": catID,
	})
	mustSuccess(t, status, env, "create transaction")
	txID := uint(env.Data["transaction"].(map[string]interface{})["id"].(float64))

	status, env = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/categories/%d", catID), token, nil)
	if status != http.StatusConflict || env.Code != util.CodeConflict {
		t.Fatalf("delete of in-use category: status=%d code=%d message=%q", status, env.Code, env.Message)
	}

	status, env = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/transactions/%d", txID), token, nil)
	mustSuccess(t, status, env, "delete transaction")

	status, env = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/categories/%d", catID), token, nil)
	mustSuccess(t, status, env, "delete now-unused category")
}

func TestDuplicateCategoryRejected(t *testing.T) {
	r, _ := testServer(t)
	token := registerAndLogin(t, r, "ivan")

	status, env := doJSON(t, r, http.MethodPost, "/api/categories", token, gin.H{
		"name": "groceries", // seeded as "Groceries"
		"kind": models.CategoryExpense,
	})
	if status == http.StatusOK && env.Code == util.CodeOK {
		t.Fatal("duplicate category name accepted")
	}
}

func TestBankEndpoints(t *testing.T) {
	r, _ := testServer(t)
	token := registerAndLogin(t, r, "judy")

	status, env := doJSON(t, r, http.MethodGet, "/api/lookup-bank/021000021", token, nil)
	mustSuccess(t, status, env, "lookup")
	result := env.Data["result"].(map[string]interface{})
	if result["bank_name"] != "Chase Bank" || result["source"] != "direct_match" {
		t.Fatalf("lookup result: %v", result)
	}

	status, env = doJSON(t, r, http.MethodGet, "/api/validate-routing/021000022", token, nil)
	mustSuccess(t, status, env, "validate")
	if env.Data["valid"] != false {
		t.Fatal("checksum-failing routing number reported valid")
	}

	status, env = doJSON(t, r, http.MethodGet, "/api/bank-suggestions/021", token, nil)
	mustSuccess(t, status, env, "suggestions")
	suggestions := env.Data["suggestions"].([]interface{})
	if len(suggestions) == 0 {
		t.Fatal("no suggestions for prefix 021")
	}
}

func TestBudgetStatus(t *testing.T) {
	r, _ := testServer(t)
	token := registerAndLogin(t, r, "kate")
	accountID := createAccount(t, r, token, gin.H{"name": "Checking", "kind": models.AccountChecking})

	status, env := doJSON(t, r, http.MethodPost, "/api/budget", token, gin.H{
		"month":             8,
		"year":              2026,
		"budgeted_income":   "3000.00",
		"budgeted_expenses": "2000.00",
	})
	mustSuccess(t, status, env, "upsert budget")

	status, env = doJSON(t, r, http.MethodPost, "/api/transactions", token, gin.H{
		"date":        "2026-08-05",
		"description": "Rent",
		"amount":      "1500.00",
		"kind":        models.TransactionExpense,
		"account_id":  accountID,
	})
	mustSuccess(t, status, env, "create transaction")

	status, env = doJSON(t, r, http.MethodGet, "/api/budget/status?month=2026-08", token, nil)
	mustSuccess(t, status, env, "budget status")
	if env.Data["actual_expenses"] != "1500.00" {
		t.Fatalf("actual expenses = %v", env.Data["actual_expenses"])
	}
}

func TestFullReset(t *testing.T) {
	r, db := testServer(t)
	token := registerAndLogin(t, r, "mallory")
	accountID := createAccount(t, r, token, gin.H{"name": "Checking", "kind": models.AccountChecking, "balance": "10.00"})

	status, env := doJSON(t, r, http.MethodPost, "/api/transactions", token, gin.H{
		"date":        "2026-08-20",
		"description": "Snack",
		"amount":      "2.00",
		"kind":        models.TransactionExpense,
		"account_id":  accountID,
	})
	mustSuccess(t, status, env, "create transaction")

	// wrong confirmation phrase leaves everything alone
	status, env = doJSON(t, r, http.MethodPost, "/api/admin/full-reset", token, gin.H{"confirm": "yes"})
	if status != http.StatusBadRequest {
		t.Fatalf("reset without confirmation phrase: status=%d", status)
	}

	status, env = doJSON(t, r, http.MethodPost, "/api/admin/full-reset", token, gin.H{"confirm": "RESET"})
	mustSuccess(t, status, env, "full reset")

	for _, check := range []struct {
		name  string
		model interface{}
	}{
		{"users", &models.User{}},
		{"accounts", &models.Account{}},
		{"transactions", &models.Transaction{}},
		{"categories", &models.Category{}},
		{"sessions", &models.Session{}},
	} {
		var n int64
		if err := db.Model(check.model).Count(&n).Error; err != nil {
			t.Fatalf("count %s: %v", check.name, err)
		}
		if n != 0 {
			t.Fatalf("%s not empty after reset: %d rows", check.name, n)
		}
	}

	// the caller's own session went with the rest
	status, _ = doJSON(t, r, http.MethodGet, "/api/me", token, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("token still valid after full reset, status=%d", status)
	}
}
