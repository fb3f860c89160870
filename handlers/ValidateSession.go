package handlers

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"maintenance/models"
	"maintenance/storage"
	"maintenance/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// bearerToken extracts the session token from the Authorization header.
func bearerToken(c *gin.Context) string {
	token := strings.TrimSpace(c.GetHeader("Authorization"))
	const bearerPrefix = "Bearer "
	if strings.HasPrefix(token, bearerPrefix) {
		token = strings.TrimSpace(strings.TrimPrefix(token, bearerPrefix))
	}
	return token
}

// CurrentUser resolves the request's session to its user, including the typed
// role every authorization decision branches on. The role is resolved here
// once; handlers never re-derive it from raw attributes. On failure the 401
// has already been written and ok is false.
func CurrentUser(db *sql.DB, c *gin.Context) (*models.User, bool) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing Authorization header"})
		return nil, false
	}

	user, err := storage.GetUserBySessionID(db, token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
		return nil, false
	}
	return user, true
}

// RequireApprover resolves the session and rejects with 403 unless the user's
// role can approve requests (admin or principal).
func RequireApprover(db *sql.DB, c *gin.Context) (*models.User, bool) {
	user, ok := CurrentUser(db, c)
	if !ok {
		return nil, false
	}
	if !user.Role.IsApprover() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return nil, false
	}
	return user, true
}

// ValidateSession validates user session
// @Summary Validate session
// @Description Validate user session token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} object
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/validate-session [post]
func ValidateSession(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionToken := bearerToken(c)
		if sessionToken == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing Authorization header"})
			return
		}

		// Validate JWT (checks signature and expiration)
		parsedToken, err := utils.ValidateJWT(sessionToken)
		if err != nil || !parsedToken.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		claims, ok := parsedToken.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		exp, ok := claims["exp"].(float64)
		if !ok || time.Now().Unix() > int64(exp) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			return
		}

		user, err := storage.GetUserBySessionID(db, sessionToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":    "Session validated",
			"session_id": sessionToken,
			"role":       user.Role,
		})
	}
}
