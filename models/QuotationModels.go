package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// QuotationBatch groups approved requests the admin sends out for quoting.
// The token is the only vendor-facing credential; it never expires and is
// immutable after creation.
type QuotationBatch struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	Token     string    `json:"token" gorm:"size:64;uniqueIndex;not null"`
	Requests  string    `json:"requests" gorm:"type:text"` // JSON list of request IDs, submit order preserved
	CreatedAt time.Time `json:"created_at"`

	Responses []QuotationResponse `json:"responses,omitempty" gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`
}

func (QuotationBatch) TableName() string {
	return "quotation_batches"
}

// RequestList decodes the stored request-ID list. A corrupt list yields an
// empty slice so vendor pages render nothing rather than erroring.
func (b *QuotationBatch) RequestList() []int {
	var ids []int
	if err := json.Unmarshal([]byte(b.Requests), &ids); err != nil {
		return []int{}
	}
	return ids
}

// SetRequestList encodes the request-ID list for storage.
func (b *QuotationBatch) SetRequestList(ids []int) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	b.Requests = string(raw)
	return nil
}

// QuotationResponse is one vendor's submission against a batch. At most one
// response per batch has Selected=true; the selection transition clears the
// rest inside the same transaction.
type QuotationResponse struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	BatchID     int       `json:"batch_id" gorm:"index;not null"`
	CompanyName string    `json:"company_name" gorm:"size:255;not null"`
	Email       string    `json:"email" gorm:"size:255;not null"`
	SubmittedAt time.Time `json:"submitted_at"`
	TotalAmount float64   `json:"total_amount" gorm:"default:0"`
	Selected    bool      `json:"selected" gorm:"default:false"`

	Items []QuotationItem `json:"items,omitempty" gorm:"foreignKey:ResponseID;constraint:OnDelete:CASCADE"`
}

func (QuotationResponse) TableName() string {
	return "quotation_responses"
}

// QuotationItem is one priced line of a vendor response. Items are written in
// bulk at submit time and immutable afterwards.
type QuotationItem struct {
	ID         int     `json:"id" gorm:"primaryKey"`
	ResponseID int     `json:"response_id" gorm:"index;not null"`
	RequestID  int     `json:"request_id" gorm:"index;not null"`
	Device     string  `json:"device" gorm:"size:255;not null"`
	Brand      string  `json:"brand" gorm:"size:255"`
	Quantity   int     `json:"quantity" gorm:"default:1"`
	Price      float64 `json:"price" gorm:"default:0"`
	Subtotal   float64 `json:"subtotal" gorm:"default:0"`
}

func (QuotationItem) TableName() string {
	return "quotation_items"
}

// BeforeSave recomputes the subtotal on every write. Submitted subtotals are
// never trusted.
func (q *QuotationItem) BeforeSave(tx *gorm.DB) error {
	if q.Quantity < 1 {
		q.Quantity = 1
	}
	q.Subtotal = q.Price * float64(q.Quantity)
	return nil
}
