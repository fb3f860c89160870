package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"os"
	"strconv"

	"maintenance/models"
	"maintenance/repository"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

// quotationBaseURL resolves the public base URL vendor links are built
// against: BASE_URL when configured, otherwise the incoming request's
// scheme and host.
func quotationBaseURL(c *gin.Context) string {
	if base := os.Getenv("BASE_URL"); base != "" {
		return base
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

// QuotationLinkHandler creates a batch and returns the vendor link
// @Summary Create quotation batch
// @Description Group approved requests behind a fresh token and return the vendor link
// @Tags Quotations
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body object true "Request IDs to batch"
// @Success 200 {object} models.BatchLinkResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/quotation_link [post]
func QuotationLinkHandler(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := RequireApprover(db, c); !ok {
			return
		}

		var input struct {
			RequestIDs []int `json:"request_ids"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		batch, err := repository.CreateBatch(gdb, input.RequestIDs)
		if err != nil {
			if errors.Is(err, repository.ErrValidation) {
				c.JSON(http.StatusOK, models.BatchLinkResponse{
					Success: false,
					Message: "No requests selected",
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create batch", "details": err.Error()})
			return
		}

		link := repository.BuildQuotationLink(quotationBaseURL(c), batch.Token)
		c.JSON(http.StatusOK, models.BatchLinkResponse{Success: true, Link: link})
	}
}

// QuotationFillFetchHandler returns the vendor fill form
// @Summary Fetch quotation form
// @Description Line items a vendor prices, unlocked by the batch token alone
// @Tags Quotations
// @Produce json
// @Param token path string true "Batch token"
// @Success 200 {object} models.VendorFillResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/quotation/fill/{token} [get]
func QuotationFillFetchHandler(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		batch, err := repository.GetBatchByToken(gdb, c.Param("token"))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Unknown quotation link"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		lines, err := repository.BatchLineItems(gdb, batch)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.VendorFillResponse{BatchID: batch.ID, Items: lines})
	}
}

// QuotationFillSubmitHandler records a vendor's quotation
// @Summary Submit quotation
// @Description Persist a vendor's priced quotation against a batch
// @Tags Quotations
// @Accept json
// @Produce json
// @Param token path string true "Batch token"
// @Param request body models.VendorSubmission true "Vendor submission"
// @Success 201 {object} models.QuotationResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/quotation/fill/{token} [post]
func QuotationFillSubmitHandler(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		batch, err := repository.GetBatchByToken(gdb, c.Param("token"))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Unknown quotation link"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var submission models.VendorSubmission
		if err := c.ShouldBindJSON(&submission); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		response, err := repository.SubmitResponse(gdb, batch, submission)
		if err != nil {
			if errors.Is(err, repository.ErrValidation) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Company name and email are required"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save quotation", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Quotation submitted", "quotation": response})
	}
}

// QuotationBatchesHandler lists batches
// @Summary List quotation batches
// @Description All batches newest-first with response counts
// @Tags Quotations
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {array} models.BatchSummary
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/quotation_batches [get]
func QuotationBatchesHandler(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := RequireApprover(db, c); !ok {
			return
		}

		batches, err := repository.ListBatches(gdb)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"batches": batches})
	}
}

// QuotationBatchHandler returns one batch with its requests and quotations
// @Summary Quotation batch detail
// @Tags Quotations
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Batch ID"
// @Success 200 {object} models.BatchDetailResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/quotation_batch/{id} [get]
func QuotationBatchHandler(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := RequireApprover(db, c); !ok {
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid batch ID"})
			return
		}

		batch, err := repository.GetBatch(gdb, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Batch not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Requests that were deleted since batching are skipped
		requests := []models.MaintenanceRequest{}
		for _, reqID := range batch.RequestList() {
			req, err := repository.GetRequest(gdb, reqID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					continue
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			requests = append(requests, *req)
		}

		c.JSON(http.StatusOK, models.BatchDetailResponse{
			Batch:      *batch,
			Requests:   requests,
			Quotations: batch.Responses,
		})
	}
}

// QuotationSelectHandler marks a quotation as the batch winner
// @Summary Select winning quotation
// @Description Clear the batch's previous selection and mark this quotation selected
// @Tags Quotations
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param response_id path int true "Quotation response ID"
// @Success 200 {object} object
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/quotation_select/{response_id} [post]
func QuotationSelectHandler(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := RequireApprover(db, c); !ok {
			return
		}

		responseID, err := strconv.Atoi(c.Param("response_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid response ID"})
			return
		}

		response, err := repository.SelectResponse(gdb, responseID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quotation not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "selected_id": response.ID})
	}
}

// QuotationQRHandler renders the vendor link as a QR code
// @Summary Quotation link QR code
// @Tags Quotations
// @Produce png
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Batch ID"
// @Success 200 "PNG image"
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/quotation_batch/{id}/qr [get]
func QuotationQRHandler(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := RequireApprover(db, c); !ok {
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid batch ID"})
			return
		}

		batch, err := repository.GetBatch(gdb, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Batch not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		link := repository.BuildQuotationLink(quotationBaseURL(c), batch.Token)
		png, err := qrcode.Encode(link, qrcode.Medium, 256)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code", "details": err.Error()})
			return
		}

		c.Data(http.StatusOK, "image/png", png)
	}
}
