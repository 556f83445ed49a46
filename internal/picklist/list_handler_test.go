package picklist

import (
	"testing"
	"time"

	"galpao-backend/internal/analytics"
	"galpao-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCreateRequest(t *testing.T) {
	valid := CreateListRequest{Items: []CreateListItemRequest{
		{ProductID: 1, Quantity: 2, Form: models.FormUnidade},
	}}
	require.NoError(t, ValidateCreateRequest(valid))

	tests := []struct {
		name string
		body CreateListRequest
	}{
		{"empty items", CreateListRequest{}},
		{"missing product", CreateListRequest{Items: []CreateListItemRequest{
			{Quantity: 2, Form: models.FormUnidade},
		}}},
		{"zero quantity", CreateListRequest{Items: []CreateListItemRequest{
			{ProductID: 1, Quantity: 0, Form: models.FormCaixa},
		}}},
		{"negative quantity", CreateListRequest{Items: []CreateListItemRequest{
			{ProductID: 1, Quantity: -3, Form: models.FormCaixa},
		}}},
		{"invalid form", CreateListRequest{Items: []CreateListItemRequest{
			{ProductID: 1, Quantity: 2, Form: "PALETE"},
		}}},
		{"one bad item rejects the whole request", CreateListRequest{Items: []CreateListItemRequest{
			{ProductID: 1, Quantity: 2, Form: models.FormUnidade},
			{ProductID: 0, Quantity: 2, Form: models.FormUnidade},
		}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCreateRequest(tc.body)
			require.Error(t, err)
			var fe *fiber.Error
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, fiber.StatusBadRequest, fe.Code)
		})
	}
}

func TestNewPickingListDefaults(t *testing.T) {
	list := NewPickingList(7, []CreateListItemRequest{
		{ProductID: 1, Quantity: 2, Form: models.FormUnidade},
	})

	assert.Equal(t, uint(7), list.RequesterID)
	assert.Equal(t, models.StatusPendente, list.Status)
	assert.Nil(t, list.CompletedAt)
	assert.Nil(t, list.StartedAt)

	require.Len(t, list.Items, 1)
	item := list.Items[0]
	assert.Equal(t, uint(1), item.ProductID)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, models.FormUnidade, item.Form)
	assert.False(t, item.IsCollected)
	assert.True(t, item.IsAvailable)
	assert.Nil(t, item.QuantitySent)

	assert.Equal(t, ItemPending, ClassifyItem(item))
}

// O fechamento não pode carimbar updated_at: a coluna guarda o instante do
// início da separação e é a referência do indicador de tempo.
func TestCompletionWritePreservesTurnaroundBaseline(t *testing.T) {
	started := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	now := started.Add(37 * time.Minute)

	list := models.PickingList{Status: models.StatusEmSeparacao, UpdatedAt: started}
	updates := completionWrite(&list, now)

	assert.Equal(t, started, updates["updated_at"])
	assert.Equal(t, now, updates["completed_at"])
	assert.Equal(t, models.StatusConcluido, updates["status"])

	// estado persistido após o update
	stored := models.PickingList{
		Status:      updates["status"].(models.ListStatus),
		CompletedAt: &now,
		UpdatedAt:   updates["updated_at"].(time.Time),
	}
	minutes, ok := analytics.TurnaroundMinutes(stored)
	require.True(t, ok)
	assert.Equal(t, 37, minutes)
}

func TestShortCode(t *testing.T) {
	list := models.PickingList{Code: "aaaa1111-2222-3333-4444-555566667777"}
	assert.Equal(t, "aaaa1111", list.ShortCode())

	short := models.PickingList{Code: "abc"}
	assert.Equal(t, "abc", short.ShortCode())
}
