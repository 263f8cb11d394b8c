package handler

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/robertoraimondo/budget/internal/models"
	"github.com/robertoraimondo/budget/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	DB         *gorm.DB
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

func NewAuthHandler(db *gorm.DB, jwtSecret string, ttlHours, bcryptCost int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 12
	}
	return &AuthHandler{
		DB:         db,
		JWTSecret:  jwtSecret,
		TokenTTL:   time.Duration(ttlHours) * time.Hour,
		BcryptCost: bcryptCost,
	}
}

// defaultCategories are seeded for every new user.
var defaultCategories = []struct {
	Name string
	Kind string
}{
	{"Salary", models.CategoryIncome},
	{"Freelance", models.CategoryIncome},
	{"Groceries", models.CategoryExpense},
	{"Rent", models.CategoryExpense},
	{"Utilities", models.CategoryExpense},
	{"Transportation", models.CategoryExpense},
	{"Entertainment", models.CategoryExpense},
	{"Healthcare", models.CategoryExpense},
	{"Stocks", models.CategoryInvestment},
	{"Bonds", models.CategoryInvestment},
}

// ---------- register ----------

type registerReq struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if !usernameRe.MatchString(req.Username) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "username must be 3-20 letters, digits or underscores")
		return
	}
	if !emailRe.MatchString(req.Email) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid email address")
		return
	}
	if !isStrongPassword(req.Password) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "password must be 8-32 characters with upper, lower and digit")
		return
	}
	if req.Password != req.ConfirmPassword {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "passwords do not match")
		return
	}

	// case-insensitive uniqueness on username and email
	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("LOWER(username) = LOWER(?)", req.Username).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to check username")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "username already exists")
		return
	}
	if err := h.DB.Model(&models.User{}).
		Where("LOWER(email) = ?", req.Email).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to check email")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to hash password")
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	// user and default category seed commit together
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		for _, dc := range defaultCategories {
			cat := models.Category{UserID: user.ID, Name: dc.Name, Kind: dc.Kind}
			if err := tx.Create(&cat).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create user")
		return
	}

	util.Success(c, util.Response{
		"message": "registration successful, please log in",
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// password strength: 8-32 chars with upper, lower and digit
func isStrongPassword(pwd string) bool {
	if len(pwd) < 8 || len(pwd) > 32 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, ch := range pwd {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

// ---------- login ----------

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	var user models.User
	if err := h.DB.Where("LOWER(username) = LOWER(?)", req.Username).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid username or password")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load user")
		}
		return
	}

	now := time.Now()

	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "account locked, try again later")
		return
	}

	if !h.checkPassword(&user, req.Password) {
		// failed attempt: lock for 10 minutes after 5 in a row
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= 5 {
			lockUntil := now.Add(10 * time.Minute)
			user.LockedUntil = &lockUntil
			user.FailedLoginAttempts = 0
		}
		_ = h.DB.Save(&user).Error
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid username or password")
		return
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginIP = c.ClientIP()
	user.LastLoginAt = &now
	_ = h.DB.Save(&user).Error

	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(h.TokenTTL),
	}
	if err := h.DB.Create(&session).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create session")
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, user.ID, session.ID, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to generate token")
		return
	}

	util.Success(c, util.Response{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// checkPassword verifies bcrypt hashes, falling back to the legacy
// PBKDF2 format for imported users and upgrading them in place.
func (h *AuthHandler) checkPassword(user *models.User, password string) bool {
	if strings.HasPrefix(user.PasswordHash, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
	}
	if !util.CheckPasswordLegacy(password, user.PasswordHash) {
		return false
	}
	if hash, err := bcrypt.GenerateFromPassword([]byte(password), h.BcryptCost); err == nil {
		user.PasswordHash = string(hash)
	}
	return true
}

// ---------- logout / me ----------

// Logout revokes the current session; the JWT stops working immediately.
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := currentSessionID(c)
	if sessionID == "" {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}
	if err := h.DB.Model(&models.Session{}).
		Where("id = ?", sessionID).
		Update("revoked", true).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to log out")
		return
	}
	util.Success(c, util.Response{
		"message": "logged out",
	})
}

// GetMe returns the current authenticated user.
func GetMe(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}
	util.Success(c, util.Response{
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"created_at": user.CreatedAt,
		},
	})
}
