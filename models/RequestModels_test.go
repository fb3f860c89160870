package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemsPlainArray(t *testing.T) {
	payload := `[{"device":"SSD","brand":"Any","quantity":2,"price":1750}]`

	items, err := ParseItems(payload)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SSD", items[0].Device)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1750.0, items[0].Price)
}

func TestParseItemsDoubleEncoded(t *testing.T) {
	// Legacy rows store the array as a JSON string
	payload := `"[{\"device\":\"RAM\",\"quantity\":1,\"price\":1600}]"`

	items, err := ParseItems(payload)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "RAM", items[0].Device)
}

func TestParseItemsEmpty(t *testing.T) {
	items, err := ParseItems("")
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = ParseItems("   ")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestParseItemsMalformed(t *testing.T) {
	for _, payload := range []string{"not json", "{", `"still not an array"`} {
		_, err := ParseItems(payload)
		assert.ErrorIs(t, err, ErrMalformedItems, "payload %q", payload)
	}
}

func TestItemsOrEmptyDegrades(t *testing.T) {
	assert.Empty(t, ItemsOrEmpty("not json"))

	items := ItemsOrEmpty(`[{"device":"Mouse","quantity":1,"price":400}]`)
	assert.Len(t, items, 1)
}

func TestRequestItemSubtotal(t *testing.T) {
	assert.Equal(t, 3500.0, RequestItem{Quantity: 2, Price: 1750}.Subtotal())
	// Zero and negative quantities count as one
	assert.Equal(t, 1750.0, RequestItem{Quantity: 0, Price: 1750}.Subtotal())
	assert.Equal(t, 1750.0, RequestItem{Quantity: -3, Price: 1750}.Subtotal())
}

func TestBatchRequestListRoundTrip(t *testing.T) {
	var batch QuotationBatch
	require.NoError(t, batch.SetRequestList([]int{3, 1, 2}))
	assert.Equal(t, []int{3, 1, 2}, batch.RequestList(), "submit order is preserved")
}

func TestBatchRequestListCorrupt(t *testing.T) {
	batch := QuotationBatch{Requests: "{broken"}
	assert.Empty(t, batch.RequestList())
}

func TestEquipmentCatalogStable(t *testing.T) {
	catalog := EquipmentCatalog()
	require.Len(t, catalog, 17)
	assert.Equal(t, "SSD", catalog[0].Device)
	assert.Equal(t, 1750.0, catalog[0].Price)
}
