package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken       = errors.New("User with this email already exists")
	ErrUserNotFound     = errors.New("User not found")
	ErrSelfDelete       = errors.New("Cannot delete your own account")
	ErrNoPermission     = errors.New("You do not have permission")
	ErrInactiveAccount  = errors.New("Account is inactive. Please contact administrator.")
	ErrBadCredentials   = errors.New("invalid email or password")
	ErrNoUpdatableField = errors.New("No valid fields to update")
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Register -> create an account and return a token
func (uc *UserController) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,min=3"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationErrors(c, utils.FieldErrors(err))
		return
	}

	if !utils.ValidPassword(req.Password) {
		utils.RespondValidationErrors(c, []utils.FieldError{{
			Field:   "password",
			Message: "Password must be at least 8 characters long with one uppercase letter, one lowercase letter, and one number",
		}})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleStaff
	}
	if !models.ValidUserRole(role) {
		utils.RespondValidationErrors(c, []utils.FieldError{{Field: "role", Message: "Invalid role"}})
		return
	}

	var count int64
	uc.DB.Model(&models.User{}).Where("email = ?", strings.ToLower(req.Email)).Count(&count)
	if count > 0 {
		utils.RespondError(c, http.StatusConflict, ErrEmailTaken)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    strings.ToLower(req.Email),
		Password: string(hashed),
		Role:     role,
		Status:   models.UserActive,
	}

	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusCreated, "User registered successfully", gin.H{
		"user":             user,
		"token":            token,
		"passwordStrength": utils.CheckPasswordStrength(req.Password),
	})
}

// Login -> check credentials, return JWT
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondValidationErrors(c, utils.FieldErrors(err))
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, ErrBadCredentials)
		return
	}

	if user.Status != models.UserActive {
		utils.RespondError(c, http.StatusForbidden, ErrInactiveAccount)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, ErrBadCredentials)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for user: %s (role=%s)", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"user":  user,
		"token": token,
	})
}

// Logout -> revoke the current token
func (uc *UserController) Logout(c *gin.Context) {
	token := c.GetString("token")
	if token != "" {
		utils.BlacklistToken(token)
	}
	utils.RespondJSON(c, http.StatusOK, "Logged out successfully", nil)
}

// GetProfile -> the authenticated user's own record
func (uc *UserController) GetProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrUserNotFound)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", gin.H{
		"user": user,
	})
}

// GetAllUsers -> admin list with role/status/search filters
func (uc *UserController) GetAllUsers(c *gin.Context) {
	query := uc.DB.Model(&models.User{})

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		term := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", term, term)
	}

	var users []models.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of users", users)
}

// GetUserByID -> one live user
func (uc *UserController) GetUserByID(c *gin.Context) {
	var user models.User
	if err := uc.DB.First(&user, c.Param("user_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrUserNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User detail", user)
}

// CreateUser -> admin creates an account directly
func (uc *UserController) CreateUser(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,min=3"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required"`
		Status   string `json:"status"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationErrors(c, utils.FieldErrors(err))
		return
	}

	var errs []utils.FieldError
	if !models.ValidUserRole(req.Role) {
		errs = append(errs, utils.FieldError{Field: "role", Message: "Invalid role"})
	}
	if req.Status != "" && !models.ValidUserStatus(req.Status) {
		errs = append(errs, utils.FieldError{Field: "status", Message: "Invalid status"})
	}
	if !utils.ValidPassword(req.Password) {
		errs = append(errs, utils.FieldError{Field: "password", Message: "Password must be at least 8 characters long with one uppercase letter, one lowercase letter, and one number"})
	}
	if len(errs) > 0 {
		utils.RespondValidationErrors(c, errs)
		return
	}

	var count int64
	uc.DB.Model(&models.User{}).Where("email = ?", strings.ToLower(req.Email)).Count(&count)
	if count > 0 {
		utils.RespondError(c, http.StatusConflict, ErrEmailTaken)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    strings.ToLower(req.Email),
		Password: string(hashed),
		Role:     req.Role,
		Status:   models.UserActive,
	}
	if req.Status != "" {
		user.Status = req.Status
	}

	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "User created successfully", user)
}

// UpdateUser -> allow-listed partial update; passwords get re-hashed
func (uc *UserController) UpdateUser(c *gin.Context) {
	var user models.User
	if err := uc.DB.First(&user, c.Param("user_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrUserNotFound)
		return
	}

	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	fields := make(map[string]interface{})
	var errs []utils.FieldError

	if value, ok := raw["name"]; ok {
		s, isStr := value.(string)
		if !isStr || len(strings.TrimSpace(s)) < 3 {
			errs = append(errs, utils.FieldError{Field: "name", Message: "Name must be at least 3 characters long"})
		} else {
			fields["name"] = strings.TrimSpace(s)
		}
	}
	if value, ok := raw["email"]; ok {
		s, isStr := value.(string)
		if !isStr || !utils.ValidEmail(s) {
			errs = append(errs, utils.FieldError{Field: "email", Message: "Please provide a valid email"})
		} else {
			fields["email"] = strings.ToLower(s)
		}
	}
	if value, ok := raw["password"]; ok {
		s, isStr := value.(string)
		if !isStr || !utils.ValidPassword(s) {
			errs = append(errs, utils.FieldError{Field: "password", Message: "Password must be at least 8 characters long with one uppercase letter, one lowercase letter, and one number"})
		} else {
			hashed, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
			if err != nil {
				utils.RespondError(c, http.StatusInternalServerError, err)
				return
			}
			fields["password"] = string(hashed)
		}
	}
	if value, ok := raw["role"]; ok {
		s, isStr := value.(string)
		if !isStr || !models.ValidUserRole(s) {
			errs = append(errs, utils.FieldError{Field: "role", Message: "Invalid role"})
		} else {
			fields["role"] = s
		}
	}
	if value, ok := raw["status"]; ok {
		s, isStr := value.(string)
		if !isStr || !models.ValidUserStatus(s) {
			errs = append(errs, utils.FieldError{Field: "status", Message: "Invalid status"})
		} else {
			fields["status"] = s
		}
	}

	if len(errs) > 0 {
		utils.RespondValidationErrors(c, errs)
		return
	}
	if len(fields) == 0 {
		utils.RespondError(c, http.StatusBadRequest, ErrNoUpdatableField)
		return
	}

	if email, ok := fields["email"].(string); ok && email != user.Email {
		var count int64
		uc.DB.Model(&models.User{}).Where("email = ? AND id != ?", email, user.ID).Count(&count)
		if count > 0 {
			utils.RespondError(c, http.StatusConflict, errors.New("Email already in use"))
			return
		}
	}

	if err := uc.DB.Model(&user).Updates(fields).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := uc.DB.First(&user, user.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("User %d updated", user.ID)
	utils.RespondJSON(c, http.StatusOK, "User updated successfully", user)
}

// DeleteUser -> soft delete; an admin cannot remove their own account
func (uc *UserController) DeleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid user id"))
		return
	}

	if uint(id) == c.GetUint("user_id") {
		utils.RespondError(c, http.StatusBadRequest, ErrSelfDelete)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrUserNotFound)
		return
	}

	if err := uc.DB.Delete(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("User %d deleted", user.ID)
	utils.RespondJSON(c, http.StatusOK, "User deleted successfully", gin.H{
		"id": user.ID,
	})
}
