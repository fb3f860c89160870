package repository

import (
	"testing"

	"maintenance/models"
	"maintenance/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, storage.AutoMigrate(db))
	return db
}

func newRequest(title, branch, items string) *models.MaintenanceRequest {
	return &models.MaintenanceRequest{
		HODID:         1,
		HODName:       "Jane Doe",
		HODEmail:      "hod@college.edu",
		Branch:        branch,
		Title:         title,
		SelectedItems: items,
	}
}

func TestCreateRequestDefaultsToPending(t *testing.T) {
	db := setupTestDB(t)

	req := newRequest("Lab PCs down", "CSE", `[{"device":"SSD","quantity":1,"price":1750}]`)
	require.NoError(t, CreateRequest(db, req, "1750"))

	stored, err := GetRequest(db, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Equal(t, 1750.0, stored.TotalAmount)
}

func TestCreateRequestRejectsMalformedItems(t *testing.T) {
	db := setupTestDB(t)

	req := newRequest("Bad payload", "CSE", "{broken json")
	err := CreateRequest(db, req, "100")
	assert.ErrorIs(t, err, ErrValidation)

	var count int64
	require.NoError(t, db.Model(&models.MaintenanceRequest{}).Count(&count).Error)
	assert.Zero(t, count, "nothing persisted on validation failure")
}

func TestCreateRequestBadTotalCoercesToZero(t *testing.T) {
	db := setupTestDB(t)

	req := newRequest("No total", "CSE", "")
	require.NoError(t, CreateRequest(db, req, "abc"))
	assert.Equal(t, 0.0, req.TotalAmount)
}

func TestListRequestsFiltersAndOrder(t *testing.T) {
	db := setupTestDB(t)

	first := newRequest("First", "CSE", "")
	second := newRequest("Second", "ECE", "")
	require.NoError(t, CreateRequest(db, first, "0"))
	require.NoError(t, CreateRequest(db, second, "0"))
	_, err := SetStatus(db, second.ID, models.StatusApproved, "Approved by admin")
	require.NoError(t, err)

	all, err := ListRequests(db, RequestFilters{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	approved, err := ListRequests(db, RequestFilters{Status: models.StatusApproved})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "Second", approved[0].Title)

	cse, err := ListRequests(db, RequestFilters{Branch: "CSE"})
	require.NoError(t, err)
	require.Len(t, cse, 1)
	assert.Equal(t, "First", cse[0].Title)
}

func TestStatusCountsIgnoreFilters(t *testing.T) {
	db := setupTestDB(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, CreateRequest(db, newRequest("Req", "CSE", ""), "0"))
	}
	req := newRequest("Other", "ECE", "")
	require.NoError(t, CreateRequest(db, req, "0"))
	_, err := SetStatus(db, req.ID, models.StatusRejected, "Rejected by admin")
	require.NoError(t, err)

	total, pending, approved, rejected, err := StatusCounts(db, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, int64(3), pending)
	assert.Equal(t, int64(0), approved)
	assert.Equal(t, int64(1), rejected)
}

func TestDistinctBranches(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, CreateRequest(db, newRequest("A", "Mechanical", ""), "0"))
	require.NoError(t, CreateRequest(db, newRequest("B", "Civil", ""), "0"))
	require.NoError(t, CreateRequest(db, newRequest("C", "Civil", ""), "0"))

	branches, err := DistinctBranches(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"Civil", "Mechanical"}, branches)
}

func TestUpdateRequestWholeEditAtomicity(t *testing.T) {
	db := setupTestDB(t)

	req := newRequest("Original", "CSE", `[{"device":"SSD","quantity":1,"price":1750}]`)
	require.NoError(t, CreateRequest(db, req, "1750"))

	badItems := "{broken"
	newTitle := "Edited"
	_, err := UpdateRequest(db, req.ID, RequestEdit{
		Title:         &newTitle,
		SelectedItems: &badItems,
	})
	assert.ErrorIs(t, err, ErrValidation)

	// The title edit in the same call must not have landed either
	stored, err := GetRequest(db, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", stored.Title)
	assert.Equal(t, `[{"device":"SSD","quantity":1,"price":1750}]`, stored.SelectedItems)
}

func TestUpdateRequestAppliesFields(t *testing.T) {
	db := setupTestDB(t)

	req := newRequest("Original", "CSE", "")
	require.NoError(t, CreateRequest(db, req, "100"))

	newTitle := "Edited"
	badTotal := "not-a-number"
	updated, err := UpdateRequest(db, req.ID, RequestEdit{
		Title:       &newTitle,
		TotalAmount: &badTotal,
	})
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Title)
	assert.Equal(t, 0.0, updated.TotalAmount, "unparseable total coerces to zero")
	assert.Equal(t, "CSE", updated.Branch, "untouched fields keep their values")
}

func TestUpdateRequestNotFound(t *testing.T) {
	db := setupTestDB(t)
	_, err := UpdateRequest(db, 42, RequestEdit{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetStatusOverwritesRemark(t *testing.T) {
	db := setupTestDB(t)

	req := newRequest("Req", "CSE", "")
	require.NoError(t, CreateRequest(db, req, "0"))

	approved, err := SetStatus(db, req.ID, models.StatusApproved, "Approved by admin")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)

	// Re-deciding an already decided request is allowed
	rejected, err := SetStatus(db, req.ID, models.StatusRejected, "Rejected by admin")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Equal(t, "Rejected by admin", rejected.AdminRemark)
}
