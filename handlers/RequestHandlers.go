package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"maintenance/models"
	"maintenance/repository"
	"maintenance/services"
	"maintenance/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RequestCreateHandler submits a new maintenance request
// @Summary Create maintenance request
// @Description Submit a new equipment maintenance request (HOD)
// @Tags Requests
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body object true "New request"
// @Success 201 {object} models.MaintenanceRequest
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/request_create [post]
func RequestCreateHandler(db *sql.DB, gdb *gorm.DB, notifier services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(db, c)
		if !ok {
			return
		}

		var input struct {
			Title         string `json:"title" binding:"required"`
			Branch        string `json:"branch"`
			LabName       string `json:"lab_name"`
			Description   string `json:"description"`
			SelectedItems string `json:"selected_items"`
			TotalAmount   string `json:"total_amount"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		branch := input.Branch
		if branch == "" {
			branch = user.Branch
		}

		req := &models.MaintenanceRequest{
			HODID:         user.ID,
			HODName:       strings.TrimSpace(user.FirstName + " " + user.LastName),
			HODEmail:      user.Email,
			Branch:        branch,
			Title:         input.Title,
			LabName:       input.LabName,
			Description:   input.Description,
			SelectedItems: input.SelectedItems,
		}

		if err := repository.CreateRequest(gdb, req, input.TotalAmount); err != nil {
			if errors.Is(err, repository.ErrValidation) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Selected items payload is not valid JSON"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request", "details": err.Error()})
			return
		}

		// The request is durable; notifying approvers is best effort.
		if recipients, err := storage.GetNotifiableApprovers(db); err != nil {
			log.Printf("request %d: failed to look up approver emails: %v", req.ID, err)
		} else if err := notifier.Send(recipients, "New Maintenance Request: "+req.Title,
			services.RenderRequestSummary(req), nil); err != nil {
			log.Printf("request %d: failed to notify approvers: %v", req.ID, err)
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Request submitted", "request": req})
	}
}

// RequestFetchHandler returns one request with parsed items
// @Summary Fetch request detail
// @Description Request detail with per-line subtotals
// @Tags Requests
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Request ID"
// @Success 200 {object} models.RequestDetailResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/request_fetch/{id} [get]
func RequestFetchHandler(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(db, c)
		if !ok {
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
			return
		}

		req, err := repository.GetRequest(gdb, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// HODs can only read their own requests
		if !user.Role.IsApprover() && req.HODID != user.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not your request"})
			return
		}

		items := models.ItemsOrEmpty(req.SelectedItems)
		views := make([]models.RequestItemView, 0, len(items))
		for _, item := range items {
			views = append(views, models.RequestItemView{
				Device:   item.Device,
				Brand:    item.Brand,
				Size:     item.Size,
				Quantity: item.Quantity,
				Price:    item.Price,
				Subtotal: item.Subtotal(),
			})
		}

		c.JSON(http.StatusOK, models.RequestDetailResponse{Request: *req, Items: views})
	}
}

// MyRequestsHandler is the HOD dashboard
// @Summary List own requests
// @Description HOD dashboard: own requests with optional status filter and unfiltered counts
// @Tags Requests
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param status query string false "Status filter"
// @Success 200 {object} models.DashboardResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/my_requests [get]
func MyRequestsHandler(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(db, c)
		if !ok {
			return
		}

		status := c.Query("status")
		requests, err := repository.ListRequests(gdb, repository.RequestFilters{
			HODID:  user.ID,
			Status: status,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		total, pending, approved, rejected, err := repository.StatusCounts(gdb, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.DashboardResponse{
			Requests:     requests,
			Total:        total,
			Pending:      pending,
			Approved:     approved,
			Rejected:     rejected,
			StatusFilter: status,
		})
	}
}

// RequestsHandler is the admin dashboard
// @Summary List all requests
// @Description Admin dashboard: all requests with status/branch filters, counts and branch list
// @Tags Requests
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param status query string false "Status filter"
// @Param branch query string false "Branch filter"
// @Success 200 {object} models.DashboardResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/requests [get]
func RequestsHandler(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := RequireApprover(db, c); !ok {
			return
		}

		status := c.Query("status")
		branch := c.Query("branch")
		requests, err := repository.ListRequests(gdb, repository.RequestFilters{
			Status: status,
			Branch: branch,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		total, pending, approved, rejected, err := repository.StatusCounts(gdb, 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		branches, err := repository.DistinctBranches(gdb)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.DashboardResponse{
			Requests:     requests,
			Total:        total,
			Pending:      pending,
			Approved:     approved,
			Rejected:     rejected,
			Departments:  branches,
			StatusFilter: status,
			BranchFilter: branch,
		})
	}
}

// RequestUpdateHandler applies an admin edit
// @Summary Update request
// @Description Edit a request; a malformed selected-items payload rejects the whole edit
// @Tags Requests
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Request ID"
// @Param request body repository.RequestEdit true "Fields to update"
// @Success 200 {object} models.MaintenanceRequest
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/request_update/{id} [put]
func RequestUpdateHandler(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := RequireApprover(db, c); !ok {
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
			return
		}

		var edit repository.RequestEdit
		if err := c.ShouldBindJSON(&edit); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		req, err := repository.UpdateRequest(gdb, id, edit)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
			case errors.Is(err, repository.ErrValidation):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Selected items payload is not valid JSON"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Request updated", "request": req})
	}
}
