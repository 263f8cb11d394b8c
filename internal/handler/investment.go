package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/robertoraimondo/budget/internal/models"
	"github.com/robertoraimondo/budget/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvestmentHandler serves investment holdings. Share counts and
// prices are decimals end to end; derived values come from the model.
type InvestmentHandler struct {
	DB *gorm.DB
}

func NewInvestmentHandler(db *gorm.DB) *InvestmentHandler {
	return &InvestmentHandler{DB: db}
}

type investmentReq struct {
	Symbol        string `json:"symbol" binding:"required,max=10"`
	Name          string `json:"name" binding:"required,max=200"`
	Shares        string `json:"shares" binding:"required"`
	PurchasePrice string `json:"purchase_price" binding:"required"`
	CurrentPrice  string `json:"current_price"`
	PurchaseDate  string `json:"purchase_date" binding:"required"`
	AccountID     uint   `json:"account_id" binding:"required"`
}

type investmentResp struct {
	ID            uint   `json:"id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Shares        string `json:"shares"`
	PurchasePrice string `json:"purchase_price"`
	CurrentPrice  string `json:"current_price,omitempty"`
	PurchaseDate  string `json:"purchase_date"`
	AccountID     uint   `json:"account_id"`
	AccountName   string `json:"account_name,omitempty"`
	TotalValue    string `json:"total_value"`
	GainLoss      string `json:"gain_loss"`
}

func toInvestmentResp(inv *models.Investment) investmentResp {
	resp := investmentResp{
		ID:            inv.ID,
		Symbol:        inv.Symbol,
		Name:          inv.Name,
		Shares:        inv.Shares.String(),
		PurchasePrice: inv.PurchasePrice.StringFixed(2),
		PurchaseDate:  inv.PurchaseDate.Format("2006-01-02"),
		AccountID:     inv.AccountID,
		AccountName:   inv.Account.Name,
		TotalValue:    inv.TotalValue().StringFixed(2),
		GainLoss:      inv.GainLoss().StringFixed(2),
	}
	if inv.CurrentPrice.Valid {
		resp.CurrentPrice = inv.CurrentPrice.Decimal.StringFixed(2)
	}
	return resp
}

func parsePositiveDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.Sign() <= 0 {
		return decimal.Decimal{}, gorm.ErrInvalidValue
	}
	return d, nil
}

func (h *InvestmentHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var investments []models.Investment
	if err := h.DB.
		Joins("JOIN accounts ON accounts.id = investments.account_id").
		Where("accounts.user_id = ?", user.ID).
		Preload("Account").
		Order("investments.symbol ASC").
		Find(&investments).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load investments")
		return
	}

	items := make([]investmentResp, 0, len(investments))
	totalValue := decimal.Zero
	totalGainLoss := decimal.Zero
	for i := range investments {
		items = append(items, toInvestmentResp(&investments[i]))
		totalValue = totalValue.Add(investments[i].TotalValue())
		totalGainLoss = totalGainLoss.Add(investments[i].GainLoss())
	}

	util.Success(c, util.Response{
		"investments":     items,
		"total_value":     totalValue.StringFixed(2),
		"total_gain_loss": totalGainLoss.StringFixed(2),
	})
}

func (h *InvestmentHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req investmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	shares, err := parsePositiveDecimal(req.Shares)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid share count")
		return
	}
	purchasePrice, err := parsePositiveDecimal(req.PurchasePrice)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid purchase price")
		return
	}

	var currentPrice decimal.NullDecimal
	if strings.TrimSpace(req.CurrentPrice) != "" {
		price, err := parsePositiveDecimal(req.CurrentPrice)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid current price")
			return
		}
		currentPrice = decimal.NewNullDecimal(price)
	}

	purchaseDate, err := util.ValidateDate(req.PurchaseDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid purchase date, want YYYY-MM-DD")
		return
	}

	// holdings can only live on investment accounts
	var account models.Account
	if err := h.DB.Where("id = ? AND user_id = ? AND kind = ?",
		req.AccountID, user.ID, models.AccountInvestment).
		First(&account).Error; err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "investment account not found")
		return
	}

	investment := models.Investment{
		AccountID:     account.ID,
		Symbol:        strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Name:          strings.TrimSpace(req.Name),
		Shares:        shares,
		PurchasePrice: purchasePrice,
		CurrentPrice:  currentPrice,
		PurchaseDate:  purchaseDate,
	}

	if err := h.DB.Create(&investment).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create investment")
		return
	}
	investment.Account = account

	util.Success(c, util.Response{
		"investment": toInvestmentResp(&investment),
	})
}

// loadOwned fetches an investment through the account-ownership join.
func (h *InvestmentHandler) loadOwned(c *gin.Context, user *models.User) (*models.Investment, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid investment id")
		return nil, false
	}

	var investment models.Investment
	if err := h.DB.
		Joins("JOIN accounts ON accounts.id = investments.account_id").
		Where("investments.id = ? AND accounts.user_id = ?", id, user.ID).
		Preload("Account").
		First(&investment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "investment not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load investment")
		}
		return nil, false
	}
	return &investment, true
}

type updatePriceReq struct {
	CurrentPrice string `json:"current_price" binding:"required"`
}

// UpdatePrice records a user-supplied current price; there is no feed.
func (h *InvestmentHandler) UpdatePrice(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	investment, ok := h.loadOwned(c, user)
	if !ok {
		return
	}

	var req updatePriceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	price, err := parsePositiveDecimal(req.CurrentPrice)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid current price")
		return
	}

	investment.CurrentPrice = decimal.NewNullDecimal(price)
	if err := h.DB.Save(investment).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update price")
		return
	}

	util.Success(c, util.Response{
		"investment": toInvestmentResp(investment),
	})
}

func (h *InvestmentHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	investment, ok := h.loadOwned(c, user)
	if !ok {
		return
	}

	if err := h.DB.Delete(&models.Investment{}, investment.ID).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete investment")
		return
	}

	util.Success(c, util.Response{
		"message": "investment deleted",
	})
}
