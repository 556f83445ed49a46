package picklist

import "galpao-backend/internal/models"

// ItemStatus: classificação derivada de um item, nunca persistida.
type ItemStatus string

const (
	ItemUnavailable ItemStatus = "INDISPONIVEL"
	ItemPartial     ItemStatus = "PARCIAL"
	ItemCollected   ItemStatus = "COLETADO"
	ItemPending     ItemStatus = "PENDENTE"
)

// ClassifyItem: classificação total e ordenada por prioridade. Indisponibilidade
// domina qualquer outro estado, mesmo em escritas inconsistentes (indisponível
// e coletado ao mesmo tempo classifica como INDISPONIVEL).
func ClassifyItem(item models.PickingListItem) ItemStatus {
	if !item.IsAvailable {
		return ItemUnavailable
	}
	if item.QuantitySent != nil && *item.QuantitySent < item.Quantity {
		return ItemPartial
	}
	if item.IsCollected {
		return ItemCollected
	}
	return ItemPending
}

// HasStockPendency: existe item indisponível ou parcial na lista. Apenas um
// aviso para o operador; não bloqueia transições.
func HasStockPendency(items []models.PickingListItem) bool {
	for _, item := range items {
		switch ClassifyItem(item) {
		case ItemUnavailable, ItemPartial:
			return true
		}
	}
	return false
}

// CanComplete: a lista pode ser concluída quando todo item foi resolvido —
// coletado ou marcado indisponível. Itens parciais carregam IsCollected=true e
// contam como resolvidos. Qualquer item PENDENTE bloqueia a conclusão.
func CanComplete(items []models.PickingListItem) bool {
	for _, item := range items {
		switch ClassifyItem(item) {
		case ItemCollected, ItemUnavailable:
			continue
		case ItemPartial:
			if !item.IsCollected {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// ValidPartialQuantity: um envio parcial só aceita 0 < enviado < solicitado.
// O limite enviado == solicitado é rejeitado: quantidade cheia é registrada
// pelo toggle de coleta, que não toca em quantity_sent.
func ValidPartialQuantity(sent, quantity int) bool {
	return sent > 0 && sent < quantity
}

// CollectedCount: itens já resolvidos pela coleta, exibido como "N coletados".
func CollectedCount(items []models.PickingListItem) int {
	n := 0
	for _, item := range items {
		if item.IsCollected {
			n++
		}
	}
	return n
}
