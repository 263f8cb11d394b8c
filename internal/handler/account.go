package handler

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"

	"github.com/robertoraimondo/budget/internal/bank"
	"github.com/robertoraimondo/budget/internal/models"
	"github.com/robertoraimondo/budget/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AccountHandler serves account CRUD. Full account numbers are stored
// AES-encrypted; only the derived last-4 is kept in the clear.
type AccountHandler struct {
	DB         *gorm.DB
	EncryptKey string
}

func NewAccountHandler(db *gorm.DB, encryptKey string) *AccountHandler {
	return &AccountHandler{
		DB:         db,
		EncryptKey: encryptKey,
	}
}

type accountReq struct {
	Name          string `json:"name" binding:"required,max=100"`
	Kind          string `json:"kind" binding:"required"`
	Balance       string `json:"balance"`
	RoutingNumber string `json:"routing_number"`
	BankName      string `json:"bank_name" binding:"max=100"`
	AccountNumber string `json:"account_number" binding:"max=64"`
}

type accountResp struct {
	ID                  uint   `json:"id"`
	Name                string `json:"name"`
	Kind                string `json:"kind"`
	BalanceCents        int64  `json:"balance_cents"`
	Balance             string `json:"balance"`
	BankName            string `json:"bank_name,omitempty"`
	RoutingNumber       string `json:"routing_number,omitempty"`
	AccountNumberLast4  string `json:"account_number_last4,omitempty"`
	MaskedAccountNumber string `json:"masked_account_number,omitempty"`
}

func (h *AccountHandler) toAccountResp(a *models.Account) accountResp {
	return accountResp{
		ID:                  a.ID,
		Name:                a.Name,
		Kind:                a.Kind,
		BalanceCents:        a.BalanceCents,
		Balance:             util.FormatCents(a.BalanceCents),
		BankName:            a.BankName,
		RoutingNumber:       a.RoutingNumber,
		AccountNumberLast4:  a.AccountNumberLast4,
		MaskedAccountNumber: h.maskedAccountNumber(a),
	}
}

// digitsOnly strips everything but decimal digits.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// setAccountNumber encrypts the full value and recomputes last-4 from
// its digits. Last-4 is never editable on its own.
func (h *AccountHandler) setAccountNumber(a *models.Account, accountNumber string) error {
	if accountNumber == "" {
		return nil
	}
	enc, err := util.EncryptAES(h.EncryptKey, []byte(accountNumber))
	if err != nil {
		return err
	}
	a.AccountNumberEnc = base64.StdEncoding.EncodeToString(enc)

	clean := digitsOnly(accountNumber)
	if len(clean) >= 4 {
		a.AccountNumberLast4 = clean[len(clean)-4:]
	} else {
		a.AccountNumberLast4 = clean
	}
	return nil
}

// maskedAccountNumber decrypts the stored number and masks all but the
// last four digits for display.
func (h *AccountHandler) maskedAccountNumber(a *models.Account) string {
	if a.AccountNumberEnc == "" {
		return ""
	}
	raw, err := base64.StdEncoding.DecodeString(a.AccountNumberEnc)
	if err != nil {
		return ""
	}
	plain, err := util.DecryptAES(h.EncryptKey, raw)
	if err != nil {
		return ""
	}
	clean := digitsOnly(string(plain))
	if len(clean) <= 4 {
		return strings.Repeat("*", len(clean))
	}
	return strings.Repeat("*", len(clean)-4) + clean[len(clean)-4:]
}

// resolveBankIdentity validates an optional routing number and fills
// in the bank name from the directory when the caller left it empty.
func resolveBankIdentity(routingNumber, bankName string) (string, string, bool) {
	routingNumber = bank.NormalizeRoutingNumber(strings.TrimSpace(routingNumber))
	bankName = strings.TrimSpace(bankName)

	if routingNumber == "" {
		return "", bankName, true
	}
	if !bank.ValidRoutingNumber(routingNumber) {
		return "", "", false
	}
	if bankName == "" {
		if info := bank.Lookup(routingNumber); info.Valid && info.BankName != "" {
			bankName = info.BankName
		}
	}
	return routingNumber, bankName, true
}

func (h *AccountHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var accounts []models.Account
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("name ASC").
		Find(&accounts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load accounts")
		return
	}

	items := make([]accountResp, 0, len(accounts))
	var totalCents int64
	for i := range accounts {
		items = append(items, h.toAccountResp(&accounts[i]))
		totalCents += accounts[i].BalanceCents
	}

	util.Success(c, util.Response{
		"accounts":            items,
		"total_balance_cents": totalCents,
		"total_balance":       util.FormatCents(totalCents),
	})
}

func (h *AccountHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req accountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	if !models.ValidAccountKind(req.Kind) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid account kind")
		return
	}

	balanceCents := int64(0)
	if strings.TrimSpace(req.Balance) != "" {
		var err error
		balanceCents, err = util.ParseCents(req.Balance)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid balance")
			return
		}
	}

	routingNumber, bankName, ok := resolveBankIdentity(req.RoutingNumber, req.BankName)
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid routing number. Please check and try again.")
		return
	}

	account := models.Account{
		UserID:        user.ID,
		Name:          strings.TrimSpace(req.Name),
		Kind:          req.Kind,
		BalanceCents:  balanceCents,
		BankName:      bankName,
		RoutingNumber: routingNumber,
	}

	if err := h.setAccountNumber(&account, strings.TrimSpace(req.AccountNumber)); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to protect account number")
		return
	}

	if err := h.DB.Create(&account).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create account")
		return
	}

	util.Success(c, util.Response{
		"account": h.toAccountResp(&account),
	})
}

// loadOwned fetches one of the user's accounts or writes a not-found
// response.
func (h *AccountHandler) loadOwned(c *gin.Context, user *models.User) (*models.Account, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid account id")
		return nil, false
	}

	var account models.Account
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).
		First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "account not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load account")
		}
		return nil, false
	}
	return &account, true
}

func (h *AccountHandler) Detail(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	account, ok := h.loadOwned(c, user)
	if !ok {
		return
	}

	var txCount, invCount int64
	h.DB.Model(&models.Transaction{}).Where("account_id = ?", account.ID).Count(&txCount)
	h.DB.Model(&models.Investment{}).Where("account_id = ?", account.ID).Count(&invCount)

	util.Success(c, util.Response{
		"account":           h.toAccountResp(account),
		"transaction_count": txCount,
		"investment_count":  invCount,
	})
}

func (h *AccountHandler) Update(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	account, ok := h.loadOwned(c, user)
	if !ok {
		return
	}

	var req accountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	if !models.ValidAccountKind(req.Kind) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid account kind")
		return
	}

	balanceCents := account.BalanceCents
	if strings.TrimSpace(req.Balance) != "" {
		var err error
		balanceCents, err = util.ParseCents(req.Balance)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid balance")
			return
		}
	}

	routingNumber, bankName, ok := resolveBankIdentity(req.RoutingNumber, req.BankName)
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid routing number. Please check and try again.")
		return
	}

	account.Name = strings.TrimSpace(req.Name)
	account.Kind = req.Kind
	account.BalanceCents = balanceCents
	account.RoutingNumber = routingNumber
	account.BankName = bankName

	if num := strings.TrimSpace(req.AccountNumber); num != "" {
		if err := h.setAccountNumber(account, num); err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to protect account number")
			return
		}
	}

	if err := h.DB.Save(account).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update account")
		return
	}

	util.Success(c, util.Response{
		"account": h.toAccountResp(account),
	})
}

// Delete removes the account with its transactions and investments.
// No balance reconciliation is needed: account and transactions go
// together.
func (h *AccountHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	account, ok := h.loadOwned(c, user)
	if !ok {
		return
	}

	var txCount, invCount int64
	h.DB.Model(&models.Transaction{}).Where("account_id = ?", account.ID).Count(&txCount)
	h.DB.Model(&models.Investment{}).Where("account_id = ?", account.ID).Count(&invCount)

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.Investment{}).Error; err != nil {
			return err
		}
		return tx.Delete(account).Error
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete account")
		return
	}

	util.Success(c, util.Response{
		"message":              "account deleted",
		"deleted_transactions": txCount,
		"deleted_investments":  invCount,
	})
}
