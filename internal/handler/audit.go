package handler

import (
	"net/http"
	"strconv"

	"github.com/robertoraimondo/budget/internal/models"
	"github.com/robertoraimondo/budget/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuditHandler struct {
	DB       *gorm.DB
	PageSize int
}

func NewAuditHandler(db *gorm.DB, pageSize int) *AuditHandler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &AuditHandler{DB: db, PageSize: pageSize}
}

// List returns the caller's own audit trail, newest first.
func (h *AuditHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	query := h.DB.Model(&models.AuditLog{}).Where("user_id = ?", user.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to count audit entries")
		return
	}

	var entries []models.AuditLog
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(h.PageSize).
		Offset((page - 1) * h.PageSize).
		Find(&entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load audit entries")
		return
	}

	util.Success(c, util.Response{
		"entries":   entries,
		"total":     total,
		"page":      page,
		"page_size": h.PageSize,
	})
}
