package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/robertoraimondo/budget/internal/models"
	"github.com/robertoraimondo/budget/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryHandler serves category list/create/delete.
type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

type categoryReq struct {
	Name string `json:"name" binding:"required,max=100"`
	Kind string `json:"kind" binding:"required"`
}

type categoryResp struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func (h *CategoryHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var categories []models.Category
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load categories")
		return
	}

	items := make([]categoryResp, 0, len(categories))
	for _, cat := range categories {
		items = append(items, categoryResp{ID: cat.ID, Name: cat.Name, Kind: cat.Kind})
	}

	util.Success(c, util.Response{
		"categories": items,
	})
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "category name is required")
		return
	}
	if !models.ValidCategoryKind(req.Kind) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid category kind")
		return
	}

	// unique per user, case-insensitive
	var count int64
	if err := h.DB.Model(&models.Category{}).
		Where("user_id = ? AND LOWER(name) = LOWER(?)", user.ID, req.Name).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to check category")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "category already exists")
		return
	}

	category := models.Category{
		UserID: user.ID,
		Name:   req.Name,
		Kind:   req.Kind,
	}
	if err := h.DB.Create(&category).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create category")
		return
	}

	util.Success(c, util.Response{
		"category": categoryResp{ID: category.ID, Name: category.Name, Kind: category.Kind},
	})
}

// Delete refuses to remove a category that still has transactions:
// referential guard, not a cascade.
func (h *CategoryHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid category id")
		return
	}

	var category models.Category
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).
		First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "category not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load category")
		}
		return
	}

	var refCount int64
	if err := h.DB.Model(&models.Transaction{}).
		Where("category_id = ?", category.ID).
		Count(&refCount).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to check references")
		return
	}
	if refCount > 0 {
		util.Error(c, http.StatusConflict, util.CodeConflict,
			fmt.Sprintf("cannot delete category %q: it has %d associated transactions; reassign or delete those first", category.Name, refCount))
		return
	}

	if err := h.DB.Delete(&category).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete category")
		return
	}

	util.Success(c, util.Response{
		"message": fmt.Sprintf("category %q deleted", category.Name),
	})
}
