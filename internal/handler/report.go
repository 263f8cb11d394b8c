package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/robertoraimondo/budget/internal/models"
	"github.com/robertoraimondo/budget/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportHandler serves the aggregate read endpoints and the report
// downloads.
type ReportHandler struct {
	DB *gorm.DB
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{DB: db}
}

// sumKindInRange totals one transaction kind for a user over [start, end).
func (h *ReportHandler) sumKindInRange(userID uint, kind string, start, end time.Time) (int64, error) {
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

// MonthlySpending returns expense totals for all twelve months of the
// current year, zero-filled for quiet months.
func (h *ReportHandler) MonthlySpending(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	year := time.Now().Year()
	months := make([]gin.H, 0, 12)
	for m := time.January; m <= time.December; m++ {
		start, end := monthRange(year, m)
		cents, err := h.sumKindInRange(user.ID, models.TransactionExpense, start, end)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to total spending")
			return
		}
		months = append(months, gin.H{
			"month":          int(m),
			"spending_cents": cents,
			"spending":       util.FormatCents(cents),
		})
	}

	util.Success(c, util.Response{
		"year":   year,
		"months": months,
	})
}

// NetWorth returns the snapshot computed from current account balances
// and investment values: positive balances are cash assets, negative
// ones liabilities, plus investment holdings at current-or-purchase
// price.
func (h *ReportHandler) NetWorth(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var accounts []models.Account
	if err := h.DB.Where("user_id = ?", user.ID).Find(&accounts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load accounts")
		return
	}

	var cashAssets, liabilities int64
	for _, a := range accounts {
		if a.BalanceCents > 0 {
			cashAssets += a.BalanceCents
		} else {
			liabilities += -a.BalanceCents
		}
	}

	var investments []models.Investment
	if err := h.DB.
		Joins("JOIN accounts ON accounts.id = investments.account_id").
		Where("accounts.user_id = ?", user.ID).
		Find(&investments).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load investments")
		return
	}

	investmentAssets := decimal.Zero
	for i := range investments {
		investmentAssets = investmentAssets.Add(investments[i].TotalValue())
	}

	cash := decimal.NewFromInt(cashAssets).Div(decimal.NewFromInt(100))
	liab := decimal.NewFromInt(liabilities).Div(decimal.NewFromInt(100))
	totalAssets := cash.Add(investmentAssets)
	netWorth := totalAssets.Sub(liab)

	util.Success(c, util.Response{
		"assets":            totalAssets.StringFixed(2),
		"liabilities":       liab.StringFixed(2),
		"net_worth":         netWorth.StringFixed(2),
		"cash_assets":       cash.StringFixed(2),
		"investment_assets": investmentAssets.StringFixed(2),
		"account_count":     len(accounts),
	})
}

// Summary returns the printable report payload: accounts, categories,
// the current month's transactions, the year's monthly income/expense
// summary, current-month category spending, investments and totals.
func (h *ReportHandler) Summary(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	now := time.Now()
	year := now.Year()
	monthStart, monthEnd := monthRange(year, now.Month())

	var accounts []models.Account
	if err := h.DB.Where("user_id = ?", user.ID).Order("name ASC").Find(&accounts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load accounts")
		return
	}

	var categories []models.Category
	if err := h.DB.Where("user_id = ?", user.ID).Order("name ASC").Find(&categories).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load categories")
		return
	}

	var monthTxs []models.Transaction
	if err := h.DB.
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.user_id = ? AND transactions.date >= ? AND transactions.date < ?",
			user.ID, monthStart, monthEnd).
		Preload("Account").
		Preload("Category").
		Order("transactions.date DESC, transactions.id DESC").
		Find(&monthTxs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	// monthly income/expense summary for the whole year
	monthly := make([]gin.H, 0, 12)
	for m := time.January; m <= time.December; m++ {
		start, end := monthRange(year, m)
		income, err := h.sumKindInRange(user.ID, models.TransactionIncome, start, end)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to total income")
			return
		}
		expenses, err := h.sumKindInRange(user.ID, models.TransactionExpense, start, end)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to total expenses")
			return
		}
		monthly = append(monthly, gin.H{
			"month":    int(m),
			"income":   util.FormatCents(income),
			"expenses": util.FormatCents(expenses),
			"net":      util.FormatCents(income - expenses),
		})
	}

	// current-month expense totals per category
	type categorySpend struct {
		Name       string
		TotalCents int64
	}
	var spending []categorySpend
	if err := h.DB.Model(&models.Transaction{}).
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("accounts.user_id = ? AND transactions.kind = ? AND transactions.date >= ? AND transactions.date < ?",
			user.ID, models.TransactionExpense, monthStart, monthEnd).
		Select("categories.name AS name, SUM(transactions.amount_cents) AS total_cents").
		Group("categories.id").
		Order("categories.name ASC").
		Scan(&spending).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to total category spending")
		return
	}
	categorySpending := make([]gin.H, 0, len(spending))
	for _, s := range spending {
		categorySpending = append(categorySpending, gin.H{
			"category": s.Name,
			"total":    util.FormatCents(s.TotalCents),
		})
	}

	var investments []models.Investment
	if err := h.DB.
		Joins("JOIN accounts ON accounts.id = investments.account_id").
		Where("accounts.user_id = ?", user.ID).
		Preload("Account").
		Find(&investments).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load investments")
		return
	}

	var totalAssets, totalLiabilities int64
	for _, a := range accounts {
		if a.BalanceCents > 0 {
			totalAssets += a.BalanceCents
		} else {
			totalLiabilities += -a.BalanceCents
		}
	}

	var monthIncome, monthExpenses int64
	for _, t := range monthTxs {
		switch t.Kind {
		case models.TransactionIncome:
			monthIncome += t.AmountCents
		case models.TransactionExpense:
			monthExpenses += t.AmountCents
		}
	}

	accountItems := make([]gin.H, 0, len(accounts))
	for _, a := range accounts {
		accountItems = append(accountItems, gin.H{
			"id":      a.ID,
			"name":    a.Name,
			"kind":    a.Kind,
			"balance": util.FormatCents(a.BalanceCents),
		})
	}
	categoryItems := make([]gin.H, 0, len(categories))
	for _, cat := range categories {
		categoryItems = append(categoryItems, gin.H{"id": cat.ID, "name": cat.Name, "kind": cat.Kind})
	}
	txItems := make([]transactionResp, 0, len(monthTxs))
	for i := range monthTxs {
		txItems = append(txItems, toTransactionResp(&monthTxs[i]))
	}
	invItems := make([]investmentResp, 0, len(investments))
	for i := range investments {
		invItems = append(invItems, toInvestmentResp(&investments[i]))
	}

	util.Success(c, util.Response{
		"report_date":        now.Format("2006-01-02"),
		"year":               year,
		"month":              int(now.Month()),
		"accounts":           accountItems,
		"categories":         categoryItems,
		"transactions":       txItems,
		"monthly_summary":    monthly,
		"category_spending":  categorySpending,
		"investments":        invItems,
		"total_assets":       util.FormatCents(totalAssets),
		"total_liabilities":  util.FormatCents(totalLiabilities),
		"net_worth":          util.FormatCents(totalAssets - totalLiabilities),
		"month_income":       util.FormatCents(monthIncome),
		"month_expenses":     util.FormatCents(monthExpenses),
		"month_net":          util.FormatCents(monthIncome - monthExpenses),
	})
}

// exportRows loads the user's transactions newest-first for downloads.
func (h *ReportHandler) exportRows(userID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := h.DB.
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.user_id = ?", userID).
		Preload("Account").
		Preload("Category").
		Order("transactions.date DESC, transactions.id DESC").
		Find(&txs).Error
	return txs, err
}

var exportHeader = []string{"Date", "Description", "Kind", "Category", "Account", "Amount"}

func exportRecord(t *models.Transaction) []string {
	category := ""
	if t.Category != nil {
		category = t.Category.Name
	}
	return []string{
		t.Date.Format("2006-01-02"),
		t.Description,
		t.Kind,
		category,
		t.Account.Name,
		util.FormatCents(t.AmountCents),
	}
}

// ExportCSV streams all transactions as CSV.
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	txs, err := h.exportRows(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeader)
	for i := range txs {
		writer.Write(exportRecord(&txs[i]))
	}
}

// ExportXLSX writes all transactions as a spreadsheet.
func (h *ReportHandler) ExportXLSX(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	txs, err := h.exportRows(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	f := excelize.NewFile()
	sheetName := "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, title := range exportHeader {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, title)
	}

	for idx := range txs {
		row := idx + 2
		for col, value := range exportRecord(&txs[idx]) {
			cell := fmt.Sprintf("%c%d", 'A'+col, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "C", "D", 14)
	f.SetColWidth(sheetName, "E", "E", 20)
	f.SetColWidth(sheetName, "F", "F", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to export")
	}
}
