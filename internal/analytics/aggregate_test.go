package analytics

import (
	"testing"
	"time"

	"galpao-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestCountsByStatus(t *testing.T) {
	lists := []models.PickingList{
		{Status: models.StatusPendente},
		{Status: models.StatusPendente},
		{Status: models.StatusEmSeparacao},
		{Status: models.StatusConcluido},
	}

	counts := CountsByStatus(lists)
	assert.Equal(t, 2, counts.Pendente)
	assert.Equal(t, 1, counts.EmSeparacao)
	assert.Equal(t, 1, counts.Concluido)

	assert.Equal(t, StatusCounts{}, CountsByStatus(nil))
}

func TestAverageTurnaroundEmpty(t *testing.T) {
	assert.Equal(t, 0, AverageTurnaroundMinutes(nil))
	assert.Equal(t, 0, AverageTurnaroundMinutes([]models.PickingList{
		{Status: models.StatusPendente},
		{Status: models.StatusEmSeparacao},
	}))
}

func TestAverageTurnaroundSingleList(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	lists := []models.PickingList{{
		Status:      models.StatusConcluido,
		UpdatedAt:   base,
		CompletedAt: timePtr(base.Add(37 * time.Minute)),
	}}

	assert.Equal(t, 37, AverageTurnaroundMinutes(lists))
}

func TestAverageTurnaroundMeanRounded(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	lists := []models.PickingList{
		{
			Status:      models.StatusConcluido,
			UpdatedAt:   base,
			CompletedAt: timePtr(base.Add(10 * time.Minute)),
		},
		{
			Status:      models.StatusConcluido,
			UpdatedAt:   base,
			CompletedAt: timePtr(base.Add(15 * time.Minute)),
		},
		// concluída sem completed_at não entra na média
		{Status: models.StatusConcluido, UpdatedAt: base},
		// em separação não entra
		{Status: models.StatusEmSeparacao, UpdatedAt: base},
	}

	// (10 + 15) / 2 = 12.5 -> 13
	assert.Equal(t, 13, AverageTurnaroundMinutes(lists))
}

func TestTurnaroundUsesUpdatedAtBaseline(t *testing.T) {
	created := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	// escrita posterior reinicia o baseline: comportamento documentado
	updated := created.Add(50 * time.Minute)
	list := models.PickingList{
		Status:      models.StatusConcluido,
		CreatedAt:   created,
		UpdatedAt:   updated,
		CompletedAt: timePtr(updated.Add(20 * time.Minute)),
	}

	minutes, ok := TurnaroundMinutes(list)
	require.True(t, ok)
	assert.Equal(t, 20, minutes)
}

func TestTopRequestedItems(t *testing.T) {
	p1 := models.Product{SKU: "P1", Description: "Produto 1"}
	p2 := models.Product{SKU: "P2", Description: "Produto 2"}

	items := []models.PickingListItem{
		{ProductID: 1, Product: p1, Form: models.FormUnidade, Quantity: 5},
		{ProductID: 1, Product: p1, Form: models.FormUnidade, Quantity: 3},
		{ProductID: 2, Product: p2, Form: models.FormCaixa, Quantity: 10},
	}

	top := TopRequestedItems(items)

	require.Len(t, top.Unidade, 1)
	assert.Equal(t, uint(1), top.Unidade[0].ProductID)
	assert.Equal(t, 8, top.Unidade[0].TotalQuantity)

	require.Len(t, top.Caixa, 1)
	assert.Equal(t, uint(2), top.Caixa[0].ProductID)
	assert.Equal(t, 10, top.Caixa[0].TotalQuantity)
}

func TestTopRequestedItemsSplitsSameProductByForm(t *testing.T) {
	p1 := models.Product{SKU: "P1", Description: "Produto 1"}

	items := []models.PickingListItem{
		{ProductID: 1, Product: p1, Form: models.FormUnidade, Quantity: 2},
		{ProductID: 1, Product: p1, Form: models.FormCaixa, Quantity: 7},
	}

	top := TopRequestedItems(items)
	require.Len(t, top.Unidade, 1)
	require.Len(t, top.Caixa, 1)
	assert.Equal(t, 2, top.Unidade[0].TotalQuantity)
	assert.Equal(t, 7, top.Caixa[0].TotalQuantity)
}

func TestTopRequestedItemsOrderingAndTies(t *testing.T) {
	pa := models.Product{SKU: "A", Description: "A"}
	pb := models.Product{SKU: "B", Description: "B"}
	pc := models.Product{SKU: "C", Description: "C"}

	items := []models.PickingListItem{
		{ProductID: 1, Product: pa, Form: models.FormUnidade, Quantity: 4},
		{ProductID: 2, Product: pb, Form: models.FormUnidade, Quantity: 9},
		{ProductID: 3, Product: pc, Form: models.FormUnidade, Quantity: 4},
	}

	top := TopRequestedItems(items)
	require.Len(t, top.Unidade, 3)
	assert.Equal(t, "B", top.Unidade[0].SKU)
	// empate 4x4: ordem de descoberta preservada (sort estável)
	assert.Equal(t, "A", top.Unidade[1].SKU)
	assert.Equal(t, "C", top.Unidade[2].SKU)
}

func TestPendingStockReport(t *testing.T) {
	p1 := models.Product{SKU: "P1", Description: "Produto 1"}
	p2 := models.Product{SKU: "P2", Description: "Produto 2"}

	items := []models.PickingListItem{
		// indisponível
		{ListID: 10, ProductID: 1, Product: p1, Form: models.FormUnidade, Quantity: 5, IsAvailable: false, QuantitySent: intPtr(0)},
		// parcial
		{ListID: 11, ProductID: 1, Product: p1, Form: models.FormCaixa, Quantity: 4, IsAvailable: true, IsCollected: true, QuantitySent: intPtr(1)},
		// sem envio registrado em outro produto
		{ListID: 12, ProductID: 2, Product: p2, Form: models.FormUnidade, Quantity: 2, IsAvailable: true},
	}

	lists := map[uint]models.PickingList{
		10: {ID: 10, Code: "aaaa1111-0000-0000-0000-000000000000", Requester: models.User{FullName: "Maria"}},
		11: {ID: 11, Code: "bbbb2222-0000-0000-0000-000000000000", Requester: models.User{FullName: "João"}},
	}

	report := PendingStockReport(items, lists)
	require.Len(t, report, 2)

	// agrupamento apenas por produto, formas diferentes no mesmo grupo
	g1 := report[0]
	assert.Equal(t, uint(1), g1.ProductID)
	assert.Equal(t, 1, g1.UnavailableCount)
	assert.Equal(t, 1, g1.PartialCount)
	assert.Equal(t, 9, g1.TotalRequested)
	assert.Equal(t, 1, g1.TotalSent)
	require.Len(t, g1.Lists, 2)
	assert.Equal(t, "aaaa1111", g1.Lists[0].ListCode)
	assert.Equal(t, "Maria", g1.Lists[0].Requester)
	assert.False(t, g1.Lists[0].IsAvailable)
	assert.True(t, g1.Lists[1].IsPartial)

	// item nunca tocado conta como pendência parcial (sent tratado como 0)
	g2 := report[1]
	assert.Equal(t, uint(2), g2.ProductID)
	assert.Equal(t, 1, g2.PartialCount)
	assert.Equal(t, 0, g2.UnavailableCount)
	require.Len(t, g2.Lists, 1)
	assert.Equal(t, "Desconhecido", g2.Lists[0].Requester)
	assert.Nil(t, g2.Lists[0].QuantitySent)
}
