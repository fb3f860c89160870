package repository

import (
	"errors"
	"strconv"

	"maintenance/models"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when an id/token does not resolve to a record.
	ErrNotFound = errors.New("record not found")
	// ErrValidation is returned when input is rejected before any mutation.
	ErrValidation = errors.New("validation failed")
)

// RequestFilters narrows dashboard listings. Zero values mean "no filter".
type RequestFilters struct {
	HODID  int
	Status string
	Branch string
}

// CreateRequest persists a new maintenance request. The selected-items
// payload is validated up front and the create is rejected outright on
// malformed input. A non-parseable total amount coerces to zero.
func CreateRequest(db *gorm.DB, req *models.MaintenanceRequest, totalAmount string) error {
	if _, err := models.ParseItems(req.SelectedItems); err != nil {
		return ErrValidation
	}

	req.Status = models.StatusPending
	req.TotalAmount = parseAmount(totalAmount)
	return db.Create(req).Error
}

func GetRequest(db *gorm.DB, id int) (*models.MaintenanceRequest, error) {
	var req models.MaintenanceRequest
	err := db.First(&req, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// ListRequests returns requests newest-first, optionally filtered by owner,
// status and branch.
func ListRequests(db *gorm.DB, filters RequestFilters) ([]models.MaintenanceRequest, error) {
	query := db.Model(&models.MaintenanceRequest{})
	if filters.HODID != 0 {
		query = query.Where("hod_id = ?", filters.HODID)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Branch != "" {
		query = query.Where("branch = ?", filters.Branch)
	}

	var requests []models.MaintenanceRequest
	err := query.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

// StatusCounts returns the unfiltered summary-card counts, scoped to one HOD
// when hodID is non-zero.
func StatusCounts(db *gorm.DB, hodID int) (total, pending, approved, rejected int64, err error) {
	base := func() *gorm.DB {
		q := db.Model(&models.MaintenanceRequest{})
		if hodID != 0 {
			q = q.Where("hod_id = ?", hodID)
		}
		return q
	}

	if err = base().Count(&total).Error; err != nil {
		return
	}
	if err = base().Where("status = ?", models.StatusPending).Count(&pending).Error; err != nil {
		return
	}
	if err = base().Where("status = ?", models.StatusApproved).Count(&approved).Error; err != nil {
		return
	}
	err = base().Where("status = ?", models.StatusRejected).Count(&rejected).Error
	return
}

// DistinctBranches returns the sorted branch names present across requests,
// for the admin dashboard filter dropdown.
func DistinctBranches(db *gorm.DB) ([]string, error) {
	var branches []string
	err := db.Model(&models.MaintenanceRequest{}).
		Distinct("branch").
		Order("branch").
		Pluck("branch", &branches).Error
	return branches, err
}

// RequestEdit carries the admin edit form. Nil pointers leave the stored
// value untouched; SelectedItems and TotalAmount replace wholesale when set.
type RequestEdit struct {
	Branch        *string `json:"branch"`
	Title         *string `json:"title"`
	LabName       *string `json:"lab_name"`
	Description   *string `json:"description"`
	SelectedItems *string `json:"selected_items"`
	TotalAmount   *string `json:"total_amount"`
}

// UpdateRequest applies an admin edit. If the selected-items payload is
// present but malformed the whole edit is rejected and nothing is persisted,
// including the other fields in the same call. A bad total amount is
// non-fatal and coerces to zero.
func UpdateRequest(db *gorm.DB, id int, edit RequestEdit) (*models.MaintenanceRequest, error) {
	req, err := GetRequest(db, id)
	if err != nil {
		return nil, err
	}

	// Validate before touching the record
	if edit.SelectedItems != nil && *edit.SelectedItems != "" {
		if _, err := models.ParseItems(*edit.SelectedItems); err != nil {
			return nil, ErrValidation
		}
	}

	if edit.Branch != nil {
		req.Branch = *edit.Branch
	}
	if edit.Title != nil {
		req.Title = *edit.Title
	}
	if edit.LabName != nil {
		req.LabName = *edit.LabName
	}
	if edit.Description != nil {
		req.Description = *edit.Description
	}
	if edit.SelectedItems != nil {
		req.SelectedItems = *edit.SelectedItems
	}
	if edit.TotalAmount != nil {
		req.TotalAmount = parseAmount(*edit.TotalAmount)
	}

	if err := db.Save(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// SetStatus persists an approve/reject transition. The status change is
// durable before any notification side effect runs; callers attempt those
// afterwards. Re-invoking on a finished request overwrites the remark and
// status again (idempotent re-approval is allowed).
func SetStatus(db *gorm.DB, id int, status, remark string) (*models.MaintenanceRequest, error) {
	req, err := GetRequest(db, id)
	if err != nil {
		return nil, err
	}

	req.Status = status
	req.AdminRemark = remark
	if err := db.Save(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

func parseAmount(raw string) float64 {
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return amount
}
