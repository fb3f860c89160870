package repository

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// GenerateBatchToken returns a fresh opaque token for a quotation batch.
// 32 hex chars; uniqueness is still enforced by the store's unique index, so
// the unlikely collision fails the whole batch creation instead of silently
// reusing a token.
func GenerateBatchToken() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// QuotationFillPath is the vendor-facing route that a batch token unlocks.
const QuotationFillPath = "/api/quotation/fill/"

// BuildQuotationLink builds the absolute vendor link for a batch token. If
// the base URL does not parse, it falls back to plain string concatenation so
// batch creation still returns a usable link.
func BuildQuotationLink(baseURL, token string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.TrimSuffix(baseURL, "/") + QuotationFillPath + token
	}
	u.Path = QuotationFillPath + token
	return u.String()
}
