package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Maintenance request lifecycle. Pending requests can be approved or rejected
// by an admin/principal; Approved moves to Completed outside this backend.
const (
	StatusPending   = "Pending"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
	StatusCompleted = "Completed"
)

// MaintenanceRequest is an equipment maintenance request raised by a HOD.
// HOD name/email are denormalized from the users table at submit time so
// approval notifications don't need a cross-store join.
type MaintenanceRequest struct {
	ID            int       `json:"id" gorm:"primaryKey"`
	HODID         int       `json:"hod_id" gorm:"index;not null"`
	HODName       string    `json:"hod_name" gorm:"size:150"`
	HODEmail      string    `json:"hod_email" gorm:"size:255"`
	Branch        string    `json:"branch" gorm:"size:100"`
	Title         string    `json:"title" gorm:"size:150;not null"`
	LabName       string    `json:"lab_name" gorm:"size:100"`
	Description   string    `json:"description" gorm:"type:text"`
	Status        string    `json:"status" gorm:"size:20;default:Pending"`
	AdminRemark   string    `json:"admin_remark" gorm:"type:text"`
	SelectedItems string    `json:"selected_items" gorm:"type:text"`
	TotalAmount   float64   `json:"total_amount" gorm:"type:decimal(12,2);default:0"`
	CreatedAt     time.Time `json:"date_submitted"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (MaintenanceRequest) TableName() string {
	return "maintenance_requests"
}

// RequestItem is one equipment line a HOD attached to a request.
type RequestItem struct {
	Device   string  `json:"device"`
	Brand    string  `json:"brand,omitempty"`
	Size     string  `json:"size,omitempty"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Subtotal is the informational per-line total shown in detail views. The
// request's TotalAmount is client-supplied and is not recomputed from this.
func (i RequestItem) Subtotal() float64 {
	qty := i.Quantity
	if qty < 1 {
		qty = 1
	}
	return i.Price * float64(qty)
}

var ErrMalformedItems = errors.New("selected items payload is not valid JSON")

// ParseItems decodes a selected-items payload. It is the single place the
// blob is parsed; repositories call it before persisting and fail closed on
// malformed input. Legacy rows may be double-encoded (a JSON string holding a
// JSON array), so one level of unwrapping is tolerated.
func ParseItems(payload string) ([]RequestItem, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return []RequestItem{}, nil
	}

	var items []RequestItem
	if err := json.Unmarshal([]byte(payload), &items); err == nil {
		return items, nil
	}

	var inner string
	if err := json.Unmarshal([]byte(payload), &inner); err == nil {
		if err := json.Unmarshal([]byte(inner), &items); err == nil {
			return items, nil
		}
	}

	return nil, ErrMalformedItems
}

// ItemsOrEmpty is the tolerant variant used where a bad payload must degrade
// to an empty list instead of failing (approval letters, vendor line items).
func ItemsOrEmpty(payload string) []RequestItem {
	items, err := ParseItems(payload)
	if err != nil {
		return []RequestItem{}
	}
	return items
}
