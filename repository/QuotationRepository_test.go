package repository

import (
	"strconv"
	"strings"
	"testing"

	"maintenance/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedRequests(t *testing.T, db *gorm.DB) (int, int) {
	t.Helper()

	first := newRequest("Lab A", "CSE", `[{"device":"SSD","brand":"Any","quantity":2,"price":1750},{"device":"RAM","quantity":1,"price":1600}]`)
	require.NoError(t, CreateRequest(db, first, "5100"))

	second := newRequest("Lab B", "ECE", `[{"device":"Mouse","quantity":3,"price":400}]`)
	require.NoError(t, CreateRequest(db, second, "1200"))

	return first.ID, second.ID
}

func TestCreateBatchEmptySelection(t *testing.T) {
	db := setupTestDB(t)
	_, err := CreateBatch(db, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateBatchTokenAndOrder(t *testing.T) {
	db := setupTestDB(t)
	firstID, secondID := seedRequests(t, db)

	batch, err := CreateBatch(db, []int{secondID, firstID})
	require.NoError(t, err)
	assert.Len(t, batch.Token, 32)
	assert.NotContains(t, batch.Token, "-")
	assert.Equal(t, []int{secondID, firstID}, batch.RequestList())

	other, err := CreateBatch(db, []int{firstID})
	require.NoError(t, err)
	assert.NotEqual(t, batch.Token, other.Token)
}

func TestGetBatchByToken(t *testing.T) {
	db := setupTestDB(t)
	firstID, _ := seedRequests(t, db)

	batch, err := CreateBatch(db, []int{firstID})
	require.NoError(t, err)

	found, err := GetBatchByToken(db, batch.Token)
	require.NoError(t, err)
	assert.Equal(t, batch.ID, found.ID)

	_, err = GetBatchByToken(db, strings.Repeat("f", 32))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBatchLineItemsCrossProduct(t *testing.T) {
	db := setupTestDB(t)
	firstID, secondID := seedRequests(t, db)

	batch, err := CreateBatch(db, []int{firstID, secondID})
	require.NoError(t, err)

	lines, err := BatchLineItems(db, batch)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "SSD", lines[0].Device)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "RAM", lines[1].Device)
	assert.Equal(t, "Mouse", lines[2].Device)
	assert.Equal(t, secondID, lines[2].RequestID)
}

func TestBatchLineItemsSkipsUnparseableRequest(t *testing.T) {
	db := setupTestDB(t)
	firstID, _ := seedRequests(t, db)

	// Corrupt one request's stored items directly, bypassing validation
	require.NoError(t, db.Model(&models.MaintenanceRequest{}).
		Where("id = ?", firstID).
		Update("selected_items", "{broken").Error)

	batch, err := CreateBatch(db, []int{firstID})
	require.NoError(t, err)

	lines, err := BatchLineItems(db, batch)
	require.NoError(t, err)
	assert.Empty(t, lines, "unparseable request contributes zero lines")
}

func TestSubmitResponseRequiresIdentity(t *testing.T) {
	db := setupTestDB(t)
	firstID, _ := seedRequests(t, db)
	batch, err := CreateBatch(db, []int{firstID})
	require.NoError(t, err)

	_, err = SubmitResponse(db, batch, models.VendorSubmission{Email: "v@vendor.com"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = SubmitResponse(db, batch, models.VendorSubmission{CompanyName: "Vendor"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitResponsePricesAndTotals(t *testing.T) {
	db := setupTestDB(t)
	firstID, secondID := seedRequests(t, db)
	batch, err := CreateBatch(db, []int{firstID, secondID})
	require.NoError(t, err)

	response, err := SubmitResponse(db, batch, models.VendorSubmission{
		CompanyName: "Acme Supplies",
		Email:       "sales@acme.test",
		Prices: map[string]string{
			"price_" + strconv.Itoa(firstID) + "_SSD":    "1700",
			"price_" + strconv.Itoa(firstID) + "_RAM":    "junk", // non-numeric prices at zero
			"price_" + strconv.Itoa(secondID) + "_Mouse": "350",
			// unrelated keys are ignored
			"price_999_Keyboard": "100",
		},
	})
	require.NoError(t, err)
	require.Len(t, response.Items, 3)

	// SSD: 1700 x 2, RAM: 0 x 1, Mouse: 350 x 3
	assert.Equal(t, 3400.0, response.Items[0].Subtotal)
	assert.Equal(t, 0.0, response.Items[1].Subtotal)
	assert.Equal(t, 1050.0, response.Items[2].Subtotal)
	assert.Equal(t, 4450.0, response.TotalAmount)

	var stored models.QuotationResponse
	require.NoError(t, db.First(&stored, response.ID).Error)
	assert.Equal(t, 4450.0, stored.TotalAmount)
	assert.False(t, stored.Selected)
}

func TestSubmitResponseAllowsRepeatSubmissions(t *testing.T) {
	db := setupTestDB(t)
	firstID, _ := seedRequests(t, db)
	batch, err := CreateBatch(db, []int{firstID})
	require.NoError(t, err)

	sub := models.VendorSubmission{CompanyName: "Vendor", Email: "v@vendor.test"}
	_, err = SubmitResponse(db, batch, sub)
	require.NoError(t, err)
	_, err = SubmitResponse(db, batch, sub)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.QuotationResponse{}).
		Where("batch_id = ?", batch.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestSelectResponseSingleWinner(t *testing.T) {
	db := setupTestDB(t)
	firstID, _ := seedRequests(t, db)
	batch, err := CreateBatch(db, []int{firstID})
	require.NoError(t, err)

	sub := models.VendorSubmission{CompanyName: "Vendor", Email: "v@vendor.test"}
	first, err := SubmitResponse(db, batch, sub)
	require.NoError(t, err)
	second, err := SubmitResponse(db, batch, sub)
	require.NoError(t, err)

	_, err = SelectResponse(db, first.ID)
	require.NoError(t, err)

	// Re-selecting moves the flag, it never duplicates it
	_, err = SelectResponse(db, second.ID)
	require.NoError(t, err)

	var selected []models.QuotationResponse
	require.NoError(t, db.Where("batch_id = ? AND selected = ?", batch.ID, true).
		Find(&selected).Error)
	require.Len(t, selected, 1)
	assert.Equal(t, second.ID, selected[0].ID)
}

func TestSelectResponseNotFound(t *testing.T) {
	db := setupTestDB(t)
	_, err := SelectResponse(db, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListBatchesNewestFirstWithCounts(t *testing.T) {
	db := setupTestDB(t)
	firstID, secondID := seedRequests(t, db)

	older, err := CreateBatch(db, []int{firstID})
	require.NoError(t, err)
	newer, err := CreateBatch(db, []int{secondID})
	require.NoError(t, err)

	_, err = SubmitResponse(db, older, models.VendorSubmission{CompanyName: "V", Email: "v@v.test"})
	require.NoError(t, err)

	summaries, err := ListBatches(db)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	// sqlite timestamps can tie within a test, so match by ID instead of order
	byID := map[int]models.BatchSummary{}
	for _, s := range summaries {
		byID[s.ID] = s
	}
	assert.Equal(t, int64(1), byID[older.ID].ResponseCount)
	assert.Equal(t, int64(0), byID[newer.ID].ResponseCount)
}
