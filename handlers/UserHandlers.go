package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"maintenance/models"
	"maintenance/storage"
	"maintenance/utils"

	"github.com/gin-gonic/gin"
)

// CreateUserHandler provisions a new account
// @Summary Create user
// @Description Create a HOD or admin account (admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body object true "New user"
// @Success 201 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/create_user [post]
func CreateUserHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := RequireApprover(db, c); !ok {
			return
		}

		var input struct {
			EmployeeId string `json:"employee_id"`
			Email      string `json:"email" binding:"required"`
			Password   string `json:"password" binding:"required"`
			FirstName  string `json:"first_name" binding:"required"`
			LastName   string `json:"last_name"`
			Role       string `json:"role" binding:"required"`
			Branch     string `json:"branch"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		role := models.Role(strings.ToUpper(input.Role))
		switch role {
		case models.RoleHOD, models.RoleAdmin, models.RolePrincipal:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
			return
		}

		hashed, err := utils.HashPassword(input.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		user := &models.User{
			EmployeeId: input.EmployeeId,
			Email:      input.Email,
			Password:   hashed,
			FirstName:  input.FirstName,
			LastName:   input.LastName,
			Role:       role,
			Branch:     input.Branch,
		}
		if err := storage.CreateUser(db, user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user", "details": err.Error()})
			return
		}

		user.Password = ""
		c.JSON(http.StatusCreated, gin.H{"message": "User created", "user": user})
	}
}

// CatalogHandler returns the equipment price list
// @Summary Equipment catalog
// @Description Fixed equipment catalog shown on the request form
// @Tags Catalog
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {array} models.CatalogItem
// @Failure 401 {object} models.ErrorResponse
// @Router /api/catalog [get]
func CatalogHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(db, c); !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"catalog": models.EquipmentCatalog()})
	}
}
