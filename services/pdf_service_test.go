package services

import (
	"testing"
	"time"

	"maintenance/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRequest() *models.MaintenanceRequest {
	return &models.MaintenanceRequest{
		ID:            7,
		HODName:       "Jane Doe",
		HODEmail:      "hod@college.edu",
		Branch:        "CSE",
		Title:         "Lab PCs down",
		LabName:       "Lab 3",
		Status:        models.StatusApproved,
		AdminRemark:   "Approved by admin",
		SelectedItems: `[{"device":"SSD","brand":"Any","quantity":2,"price":1750}]`,
		TotalAmount:   3500,
		CreatedAt:     time.Now(),
	}
}

func TestRenderRequestSummary(t *testing.T) {
	html := RenderRequestSummary(sampleRequest())
	assert.Contains(t, html, "Maintenance Request #7")
	assert.Contains(t, html, "Jane Doe")
	assert.Contains(t, html, "SSD")
	assert.Contains(t, html, "Approved by admin")
	assert.Contains(t, html, "3500.00")
}

func TestRenderRequestSummaryBadItems(t *testing.T) {
	req := sampleRequest()
	req.SelectedItems = "{broken"
	html := RenderRequestSummary(req)
	// Bad items degrade to no table, not a failure
	assert.Contains(t, html, "Maintenance Request #7")
	assert.NotContains(t, html, "<table>")
}

func TestRenderRequestLetter(t *testing.T) {
	pdf, err := RenderRequestLetter(sampleRequest())
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
