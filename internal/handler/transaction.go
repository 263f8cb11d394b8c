package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/robertoraimondo/budget/internal/ledger"
	"github.com/robertoraimondo/budget/internal/models"
	"github.com/robertoraimondo/budget/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TransactionHandler serves transaction CRUD. Every mutation runs
// through the ledger package inside one store transaction, so account
// balances never drift from the transaction set.
type TransactionHandler struct {
	DB       *gorm.DB
	PageSize int
}

func NewTransactionHandler(db *gorm.DB, pageSize int) *TransactionHandler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &TransactionHandler{DB: db, PageSize: pageSize}
}

type transactionReq struct {
	Date        string `json:"date" binding:"required"`
	Description string `json:"description" binding:"required,max=200"`
	Amount      string `json:"amount" binding:"required"`
	Kind        string `json:"kind" binding:"required"`
	CategoryID  *uint  `json:"category_id"`
	AccountID   uint   `json:"account_id" binding:"required"`
}

type transactionResp struct {
	ID           uint   `json:"id"`
	Date         string `json:"date"`
	Description  string `json:"description"`
	AmountCents  int64  `json:"amount_cents"`
	Amount       string `json:"amount"`
	Kind         string `json:"kind"`
	AccountID    uint   `json:"account_id"`
	AccountName  string `json:"account_name,omitempty"`
	CategoryID   *uint  `json:"category_id,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
}

func toTransactionResp(t *models.Transaction) transactionResp {
	resp := transactionResp{
		ID:          t.ID,
		Date:        t.Date.Format("2006-01-02"),
		Description: t.Description,
		AmountCents: t.AmountCents,
		Amount:      util.FormatCents(t.AmountCents),
		Kind:        t.Kind,
		AccountID:   t.AccountID,
		AccountName: t.Account.Name,
		CategoryID:  t.CategoryID,
	}
	if t.Category != nil {
		resp.CategoryName = t.Category.Name
	}
	return resp
}

// parseReq validates the request body into a transaction owned by the
// user. Account and category ownership are both checked here so a
// mutation can never reference another user's rows.
func (h *TransactionHandler) parseReq(c *gin.Context, user *models.User) (*models.Transaction, bool) {
	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return nil, false
	}

	if !models.ValidTransactionKind(req.Kind) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid transaction kind")
		return nil, false
	}

	date, err := util.ValidateDate(req.Date)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid date, want YYYY-MM-DD")
		return nil, false
	}

	amountCents, err := util.ParseCents(req.Amount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid amount")
		return nil, false
	}
	if err := util.ValidateAmountCents(amountCents); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "amount must be positive")
		return nil, false
	}

	var account models.Account
	if err := h.DB.Where("id = ? AND user_id = ?", req.AccountID, user.ID).
		First(&account).Error; err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "account not found")
		return nil, false
	}

	if req.CategoryID != nil {
		var category models.Category
		if err := h.DB.Where("id = ? AND user_id = ?", *req.CategoryID, user.ID).
			First(&category).Error; err != nil {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "category not found")
			return nil, false
		}
	}

	return &models.Transaction{
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Date:        date,
		Description: strings.TrimSpace(req.Description),
		AmountCents: amountCents,
		Kind:        req.Kind,
	}, true
}

// loadOwned fetches a transaction through the account-ownership join.
func (h *TransactionHandler) loadOwned(c *gin.Context, user *models.User) (*models.Transaction, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid transaction id")
		return nil, false
	}

	var tx models.Transaction
	if err := h.DB.
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("transactions.id = ? AND accounts.user_id = ?", id, user.ID).
		First(&tx).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "transaction not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transaction")
		}
		return nil, false
	}
	return &tx, true
}

func (h *TransactionHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(h.PageSize)))
	if size <= 0 || size > 100 {
		size = h.PageSize
	}
	offset := (page - 1) * size

	base := h.DB.Model(&models.Transaction{}).
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.user_id = ?", user.ID)

	if accountStr := c.Query("account_id"); accountStr != "" {
		accountID, err := strconv.Atoi(accountStr)
		if err != nil || accountID <= 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid account id")
			return
		}
		var account models.Account
		if err := h.DB.Where("id = ? AND user_id = ?", accountID, user.ID).
			First(&account).Error; err != nil {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "account not found")
			return
		}
		base = base.Where("transactions.account_id = ?", accountID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to count transactions")
		return
	}

	var txs []models.Transaction
	if err := base.Session(&gorm.Session{}).
		Preload("Account").
		Preload("Category").
		Order("transactions.date DESC, transactions.id DESC").
		Limit(size).
		Offset(offset).
		Find(&txs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	items := make([]transactionResp, 0, len(txs))
	for i := range txs {
		items = append(items, toTransactionResp(&txs[i]))
	}

	util.Success(c, util.Response{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

func (h *TransactionHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	tx, ok := h.parseReq(c, user)
	if !ok {
		return
	}

	if err := h.DB.Transaction(func(dbtx *gorm.DB) error {
		return ledger.ApplyCreate(dbtx, tx)
	}); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save transaction")
		return
	}

	util.Success(c, util.Response{
		"transaction": toTransactionResp(tx),
	})
}

func (h *TransactionHandler) Update(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	old, ok := h.loadOwned(c, user)
	if !ok {
		return
	}

	updated, ok := h.parseReq(c, user)
	if !ok {
		return
	}
	updated.ID = old.ID
	updated.CreatedAt = old.CreatedAt

	if err := h.DB.Transaction(func(dbtx *gorm.DB) error {
		return ledger.ApplyUpdate(dbtx, old, updated)
	}); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update transaction")
		return
	}

	util.Success(c, util.Response{
		"transaction": toTransactionResp(updated),
	})
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	tx, ok := h.loadOwned(c, user)
	if !ok {
		return
	}

	if err := h.DB.Transaction(func(dbtx *gorm.DB) error {
		return ledger.ApplyDelete(dbtx, tx)
	}); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete transaction")
		return
	}

	util.Success(c, util.Response{
		"message": "transaction deleted",
	})
}

// monthRange returns [start, end) for a calendar month.
func monthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
