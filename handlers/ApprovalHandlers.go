package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"maintenance/models"
	"maintenance/repository"
	"maintenance/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// decideRequest persists an approve/reject transition and then attempts the
// HOD notification. Persistence always happens before the send; a delivery
// failure is logged and never rolls back or fails the transition.
func decideRequest(db *sql.DB, gdb *gorm.DB, notifier services.Notifier, status, defaultRemark string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := RequireApprover(db, c); !ok {
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
			return
		}

		var input struct {
			Remark string `json:"remark"`
		}
		// Body is optional; an empty or absent remark takes the default.
		_ = c.ShouldBindJSON(&input)
		remark := input.Remark
		if remark == "" {
			remark = defaultRemark
		}

		req, err := repository.SetStatus(gdb, id, status, remark)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if sideErr := notifyDecision(req, notifier); sideErr != nil {
			log.Printf("request %d: status %s persisted but notification failed: %v", req.ID, status, sideErr)
		}

		c.JSON(http.StatusOK, models.StatusChangeResponse{Success: true, NewStatus: req.Status})
	}
}

// notifyDecision emails the decision to the HOD. Approvals carry the rendered
// letter PDF as an attachment; if the letter fails to render the email still
// goes out without it.
func notifyDecision(req *models.MaintenanceRequest, notifier services.Notifier) error {
	if req.HODEmail == "" {
		return nil
	}

	var attachment *services.Attachment
	if req.Status == models.StatusApproved {
		if pdf, err := services.RenderRequestLetter(req); err != nil {
			log.Printf("request %d: failed to render approval letter: %v", req.ID, err)
		} else {
			attachment = &services.Attachment{
				Filename: fmt.Sprintf("request_%d_letter.pdf", req.ID),
				MIMEType: "application/pdf",
				Data:     pdf,
			}
		}
	}

	subject := fmt.Sprintf("Maintenance Request #%d %s", req.ID, req.Status)
	return notifier.Send([]string{req.HODEmail}, subject, services.RenderRequestSummary(req), attachment)
}

// RequestApproveHandler approves a request
// @Summary Approve request
// @Description Mark a request Approved; emails the HOD with the letter PDF attached
// @Tags Approvals
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Request ID"
// @Success 200 {object} models.StatusChangeResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/request_approve/{id} [post]
func RequestApproveHandler(db *sql.DB, gdb *gorm.DB, notifier services.Notifier) gin.HandlerFunc {
	return decideRequest(db, gdb, notifier, models.StatusApproved, "Approved by admin")
}

// RequestRejectHandler rejects a request
// @Summary Reject request
// @Description Mark a request Rejected; emails the HOD without attachment
// @Tags Approvals
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Request ID"
// @Success 200 {object} models.StatusChangeResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/request_reject/{id} [post]
func RequestRejectHandler(db *sql.DB, gdb *gorm.DB, notifier services.Notifier) gin.HandlerFunc {
	return decideRequest(db, gdb, notifier, models.StatusRejected, "Rejected by admin")
}

// RequestPDFHandler serves the letter PDF for a request
// @Summary Download request letter PDF
// @Tags Approvals
// @Produce application/pdf
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Request ID"
// @Success 200 "PDF file"
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/request_pdf/{id} [get]
func RequestPDFHandler(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := RequireApprover(db, c); !ok {
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

		pdf, err := services.RenderRequestLetter(req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF", "details": err.Error()})
			return
		}

		filename := fmt.Sprintf("request_%d_letter.pdf", req.ID)
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}
