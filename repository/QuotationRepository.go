package repository

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"maintenance/models"

	"gorm.io/gorm"
)

// CreateBatch groups the given request IDs behind a fresh opaque token and
// returns the stored batch. An empty selection is a validation failure. Token
// uniqueness rides on the store's unique index, so a collision fails the
// insert instead of silently reusing a link.
func CreateBatch(db *gorm.DB, requestIDs []int) (*models.QuotationBatch, error) {
	if len(requestIDs) == 0 {
		return nil, ErrValidation
	}

	batch := &models.QuotationBatch{Token: GenerateBatchToken()}
	if err := batch.SetRequestList(requestIDs); err != nil {
		return nil, err
	}
	if err := db.Create(batch).Error; err != nil {
		return nil, err
	}
	return batch, nil
}

func GetBatchByToken(db *gorm.DB, token string) (*models.QuotationBatch, error) {
	var batch models.QuotationBatch
	err := db.Where("token = ?", token).First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// GetBatch loads a batch with its responses (newest submission first) and
// their priced items.
func GetBatch(db *gorm.DB, id int) (*models.QuotationBatch, error) {
	var batch models.QuotationBatch
	err := db.Preload("Responses", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("submitted_at DESC")
	}).Preload("Responses.Items").First(&batch, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// ListBatches returns all batches newest-first with their response counts.
func ListBatches(db *gorm.DB) ([]models.BatchSummary, error) {
	var batches []models.QuotationBatch
	if err := db.Order("created_at DESC").Find(&batches).Error; err != nil {
		return nil, err
	}

	summaries := make([]models.BatchSummary, 0, len(batches))
	for _, b := range batches {
		var count int64
		if err := db.Model(&models.QuotationResponse{}).
			Where("batch_id = ?", b.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		summaries = append(summaries, models.BatchSummary{
			ID:            b.ID,
			Token:         b.Token,
			RequestIDs:    b.RequestList(),
			CreatedAt:     b.CreatedAt,
			ResponseCount: count,
		})
	}
	return summaries, nil
}

// BatchLineItems builds the vendor fill form: every request in the batch
// crossed with that request's selected items, in batch order. A request whose
// stored items won't parse contributes no lines; a missing request is skipped
// the same way so a stale batch still renders.
func BatchLineItems(db *gorm.DB, batch *models.QuotationBatch) ([]models.QuotationLineItem, error) {
	lines := []models.QuotationLineItem{}
	for _, id := range batch.RequestList() {
		req, err := GetRequest(db, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		for _, item := range models.ItemsOrEmpty(req.SelectedItems) {
			qty := item.Quantity
			if qty < 1 {
				qty = 1
			}
			lines = append(lines, models.QuotationLineItem{
				RequestID:    req.ID,
				RequestTitle: req.Title,
				Device:       item.Device,
				Brand:        item.Brand,
				Quantity:     qty,
			})
		}
	}
	return lines, nil
}

// SubmitResponse records one vendor's quotation against a batch. Company name
// and email are mandatory. Each fill-form line is priced from the submission's
// price map, keyed "price_{request_id}_{device}"; a missing or non-numeric
// value prices the line at zero. Response, items and total are written in one
// transaction.
func SubmitResponse(db *gorm.DB, batch *models.QuotationBatch, sub models.VendorSubmission) (*models.QuotationResponse, error) {
	if sub.CompanyName == "" || sub.Email == "" {
		return nil, ErrValidation
	}

	lines, err := BatchLineItems(db, batch)
	if err != nil {
		return nil, err
	}

	response := &models.QuotationResponse{
		BatchID:     batch.ID,
		CompanyName: sub.CompanyName,
		Email:       sub.Email,
		SubmittedAt: time.Now(),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(response).Error; err != nil {
			return err
		}

		var total float64
		for _, line := range lines {
			price := 0.0
			if raw, ok := sub.Prices[fmt.Sprintf("price_%d_%s", line.RequestID, line.Device)]; ok {
				if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
					price = parsed
				}
			}
			item := models.QuotationItem{
				ResponseID: response.ID,
				RequestID:  line.RequestID,
				Device:     line.Device,
				Brand:      line.Brand,
				Quantity:   line.Quantity,
				Price:      price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			total += item.Subtotal
			response.Items = append(response.Items, item)
		}

		response.TotalAmount = total
		return tx.Model(response).Update("total_amount", total).Error
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// SelectResponse marks one quotation as the batch's winner. Every response in
// the batch is cleared first and the target set inside the same transaction,
// so at most one response per batch is ever selected, regardless of previous
// state or concurrent calls.
func SelectResponse(db *gorm.DB, responseID int) (*models.QuotationResponse, error) {
	var response models.QuotationResponse
	if err := db.First(&response, responseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.QuotationResponse{}).
			Where("batch_id = ?", response.BatchID).
			Update("selected", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.QuotationResponse{}).
			Where("id = ?", response.ID).
			Update("selected", true).Error
	})
	if err != nil {
		return nil, err
	}

	response.Selected = true
	return &response, nil
}
