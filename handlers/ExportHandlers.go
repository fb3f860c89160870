package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"maintenance/models"
	"maintenance/repository"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// RequestsExportHandler exports requests to Excel
// @Summary Export requests to xlsx
// @Description Download all maintenance requests as an Excel workbook, honoring the dashboard filters
// @Tags Requests
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param Authorization header string true "Bearer token"
// @Param status query string false "Status filter"
// @Param branch query string false "Branch filter"
// @Success 200 "Excel file"
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/requests/export [get]
func RequestsExportHandler(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := RequireApprover(db, c); !ok {
			return
		}

		requests, err := repository.ListRequests(gdb, repository.RequestFilters{
			Status: c.Query("status"),
			Branch: c.Query("branch"),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		f := excelize.NewFile()
		defer func() {
			if err := f.Close(); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error closing Excel file"})
			}
		}()

		sheet := "Requests"
		index, err := f.NewSheet(sheet)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating sheet"})
			return
		}
		f.SetActiveSheet(index)
		f.DeleteSheet("Sheet1")

		headers := []string{"ID", "Title", "HOD", "Branch", "Lab", "Status", "Remark", "Items", "Total Amount", "Submitted"}
		for i, header := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, header)
		}

		headerStyle, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		})
		if err == nil {
			endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
			f.SetCellStyle(sheet, "A1", endCell, headerStyle)
		}

		for row, req := range requests {
			values := []interface{}{
				req.ID,
				req.Title,
				req.HODName,
				req.Branch,
				req.LabName,
				req.Status,
				req.AdminRemark,
				len(models.ItemsOrEmpty(req.SelectedItems)),
				req.TotalAmount,
				req.CreatedAt.Format("2006-01-02 15:04:05"),
			}
			for col, value := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue(sheet, cell, value)
			}
		}

		filename := fmt.Sprintf("maintenance_requests_%s.xlsx", time.Now().Format("20060102_150405"))
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

		if err := f.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing Excel file"})
		}
	}
}
