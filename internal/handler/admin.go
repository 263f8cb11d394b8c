package handler

import (
	"net/http"

	"github.com/robertoraimondo/budget/internal/models"
	"github.com/robertoraimondo/budget/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler holds the destructive maintenance operations.
type AdminHandler struct {
	DB *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{DB: db}
}

type resetReq struct {
	Confirm string `json:"confirm" binding:"required"`
}

// FullReset wipes every table. Children go before parents so the
// foreign keys never complain, and revoking sessions logs out every
// active client including the caller.
func (h *AdminHandler) FullReset(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req resetReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Confirm != "RESET" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "confirmation phrase RESET is required")
		return
	}

	deleted := map[string]int64{}
	count := func(tx *gorm.DB, name string, model interface{}) error {
		var n int64
		if err := tx.Model(model).Count(&n).Error; err != nil {
			return err
		}
		deleted[name] = n
		return nil
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		tables := []struct {
			name  string
			model interface{}
		}{
			{"transactions", &models.Transaction{}},
			{"investments", &models.Investment{}},
			{"budgets", &models.MonthlyBudget{}},
			{"audit_logs", &models.AuditLog{}},
			{"sessions", &models.Session{}},
			{"accounts", &models.Account{}},
			{"categories", &models.Category{}},
			{"users", &models.User{}},
		}
		for _, t := range tables {
			if err := count(tx, t.name, t.model); err != nil {
				return err
			}
			if err := tx.Where("1 = 1").Delete(t.model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "reset failed, nothing was deleted")
		return
	}

	util.Success(c, util.Response{
		"message": "all data deleted",
		"deleted": deleted,
	})
}
