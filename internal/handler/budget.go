package handler

import (
	"net/http"
	"time"

	"github.com/robertoraimondo/budget/internal/models"
	"github.com/robertoraimondo/budget/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BudgetHandler serves the monthly budget: one row per (user, month,
// year), compared against actual income and expense totals.
type BudgetHandler struct {
	DB *gorm.DB
}

func NewBudgetHandler(db *gorm.DB) *BudgetHandler {
	return &BudgetHandler{DB: db}
}

type budgetReq struct {
	Month            int    `json:"month" binding:"required"`
	Year             int    `json:"year" binding:"required"`
	BudgetedIncome   string `json:"budgeted_income"`
	BudgetedExpenses string `json:"budgeted_expenses"`
}

// sumByKind totals the user's transactions of one kind in a month.
func (h *BudgetHandler) sumByKind(userID uint, kind string, start, end time.Time) (int64, error) {
	var total *int64
	err := h.DB.Model(&models.Transaction{}).
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.user_id = ? AND transactions.kind = ? AND transactions.date >= ? AND transactions.date < ?",
			userID, kind, start, end).
		Select("SUM(transactions.amount_cents)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// Status returns the budget for ?month=YYYY-MM (default: current
// month) with actuals and, when a budget exists, variances.
func (h *BudgetHandler) Status(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	monthStr := c.Query("month")
	if monthStr == "" {
		monthStr = time.Now().Format("2006-01")
	}
	t, err := time.Parse("2006-01", monthStr)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid month, want YYYY-MM")
		return
	}
	start, end := monthRange(t.Year(), t.Month())

	actualIncome, err := h.sumByKind(user.ID, models.TransactionIncome, start, end)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to total income")
		return
	}
	actualExpenses, err := h.sumByKind(user.ID, models.TransactionExpense, start, end)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to total expenses")
		return
	}
	actualNet := actualIncome - actualExpenses

	data := util.Response{
		"month":                 int(t.Month()),
		"year":                  t.Year(),
		"actual_income_cents":   actualIncome,
		"actual_income":         util.FormatCents(actualIncome),
		"actual_expenses_cents": actualExpenses,
		"actual_expenses":       util.FormatCents(actualExpenses),
		"actual_net_cents":      actualNet,
		"actual_net":            util.FormatCents(actualNet),
	}

	var budget models.MonthlyBudget
	err = h.DB.Where("user_id = ? AND month = ? AND year = ?",
		user.ID, int(t.Month()), t.Year()).
		First(&budget).Error
	switch {
	case err == nil:
		data["budget"] = gin.H{
			"budgeted_income":   util.FormatCents(budget.BudgetedIncomeCents),
			"budgeted_expenses": util.FormatCents(budget.BudgetedExpenseCents),
			"budgeted_net":      util.FormatCents(budget.BudgetedNetCents()),
		}
		data["income_variance"] = util.FormatCents(actualIncome - budget.BudgetedIncomeCents)
		data["expense_variance"] = util.FormatCents(actualExpenses - budget.BudgetedExpenseCents)
		data["net_variance"] = util.FormatCents(actualNet - budget.BudgetedNetCents())
	case err == gorm.ErrRecordNotFound:
		// no budget set for this period; actuals only
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load budget")
		return
	}

	util.Success(c, data)
}

// Upsert creates or replaces the budget for one period.
func (h *BudgetHandler) Upsert(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req budgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if err := util.ValidateMonthYear(req.Month, req.Year); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid month or year")
		return
	}

	incomeCents := int64(0)
	if req.BudgetedIncome != "" {
		var err error
		incomeCents, err = util.ParseCents(req.BudgetedIncome)
		if err != nil || incomeCents < 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid budgeted income")
			return
		}
	}
	expenseCents := int64(0)
	if req.BudgetedExpenses != "" {
		var err error
		expenseCents, err = util.ParseCents(req.BudgetedExpenses)
		if err != nil || expenseCents < 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid budgeted expenses")
			return
		}
	}

	var budget models.MonthlyBudget
	err := h.DB.Where("user_id = ? AND month = ? AND year = ?",
		user.ID, req.Month, req.Year).
		First(&budget).Error
	switch {
	case err == nil:
		budget.BudgetedIncomeCents = incomeCents
		budget.BudgetedExpenseCents = expenseCents
		err = h.DB.Save(&budget).Error
	case err == gorm.ErrRecordNotFound:
		budget = models.MonthlyBudget{
			UserID:               user.ID,
			Month:                req.Month,
			Year:                 req.Year,
			BudgetedIncomeCents:  incomeCents,
			BudgetedExpenseCents: expenseCents,
		}
		err = h.DB.Create(&budget).Error
	}
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save budget")
		return
	}

	util.Success(c, util.Response{
		"budget": gin.H{
			"month":             budget.Month,
			"year":              budget.Year,
			"budgeted_income":   util.FormatCents(budget.BudgetedIncomeCents),
			"budgeted_expenses": util.FormatCents(budget.BudgetedExpenseCents),
			"budgeted_net":      util.FormatCents(budget.BudgetedNetCents()),
		},
	})
}
