package models

import (
	"time"
)

// StatusChangeResponse is returned by the approve/reject endpoints for
// programmatic callers.
type StatusChangeResponse struct {
	Success   bool   `json:"success" example:"true"`
	NewStatus string `json:"new_status" example:"Approved"`
}

// BatchLinkResponse is returned by the quotation-link endpoint. On success
// Link carries the vendor-facing URL; on failure Message says why.
type BatchLinkResponse struct {
	Success bool   `json:"success"`
	Link    string `json:"link,omitempty"`
	Message string `json:"message,omitempty"`
}

// RequestItemView is a selected-items line enriched with its computed
// subtotal for detail pages.
type RequestItemView struct {
	Device   string  `json:"device"`
	Brand    string  `json:"brand,omitempty"`
	Size     string  `json:"size,omitempty"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Subtotal float64 `json:"subtotal"`
}

type RequestDetailResponse struct {
	Request MaintenanceRequest `json:"request"`
	Items   []RequestItemView  `json:"items"`
}

// DashboardResponse backs both the HOD and admin dashboards: the filtered
// request list plus unfiltered status counts for the summary cards.
type DashboardResponse struct {
	Requests     []MaintenanceRequest `json:"requests"`
	Total        int64                `json:"total"`
	Pending      int64                `json:"pending"`
	Approved     int64                `json:"approved"`
	Rejected     int64                `json:"rejected"`
	Departments  []string             `json:"departments,omitempty"`
	StatusFilter string               `json:"status_filter,omitempty"`
	BranchFilter string               `json:"branch_filter,omitempty"`
}

// QuotationLineItem is one row of the vendor fill form: the cross-product of
// every request in a batch with that request's selected items.
type QuotationLineItem struct {
	RequestID    int    `json:"request_id"`
	RequestTitle string `json:"request_title"`
	Device       string `json:"device"`
	Brand        string `json:"brand"`
	Quantity     int    `json:"quantity"`
}

type VendorFillResponse struct {
	BatchID int                 `json:"batch_id"`
	Items   []QuotationLineItem `json:"items"`
}

// VendorSubmission is the vendor's POST body. Prices are keyed
// "price_{request_id}_{device}" like the original form fields; values that
// are missing or non-numeric price the line at zero.
type VendorSubmission struct {
	CompanyName string            `json:"company_name"`
	Email       string            `json:"email"`
	Prices      map[string]string `json:"prices"`
}

// BatchSummary is one row of the admin batch list.
type BatchSummary struct {
	ID            int       `json:"id"`
	Token         string    `json:"token"`
	RequestIDs    []int     `json:"request_ids"`
	CreatedAt     time.Time `json:"created_at"`
	ResponseCount int64     `json:"response_count"`
}

type BatchDetailResponse struct {
	Batch      QuotationBatch       `json:"batch"`
	Requests   []MaintenanceRequest `json:"requests"`
	Quotations []QuotationResponse  `json:"quotations"`
}
