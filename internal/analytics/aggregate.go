package analytics

import (
	"math"
	"sort"

	"galpao-backend/internal/models"
)

// Funções puras sobre snapshots já carregados. Nenhuma delas toca o banco; os
// handlers buscam o conjunto de trabalho uma vez por refresh e reduzem aqui.

type StatusCounts struct {
	Pendente    int `json:"pendente"`
	EmSeparacao int `json:"em_separacao"`
	Concluido   int `json:"concluido"`
}

// CountsByStatus: contagem exata em uma passada.
func CountsByStatus(lists []models.PickingList) StatusCounts {
	var counts StatusCounts
	for _, l := range lists {
		switch l.Status {
		case models.StatusPendente:
			counts.Pendente++
		case models.StatusEmSeparacao:
			counts.EmSeparacao++
		case models.StatusConcluido:
			counts.Concluido++
		}
	}
	return counts
}

// TurnaroundMinutes: minutos entre o início da separação e a conclusão. O
// baseline é updated_at, não um timestamp dedicado: qualquer escrita na lista
// antes do fechamento reinicia a contagem, e o fechamento preserva a coluna.
// Comportamento herdado do app original, mantido de propósito no indicador
// (started_at existe no modelo para leitura exata).
func TurnaroundMinutes(l models.PickingList) (int, bool) {
	if l.Status != models.StatusConcluido || l.CompletedAt == nil {
		return 0, false
	}
	return int(l.CompletedAt.Sub(l.UpdatedAt).Minutes()), true
}

// AverageTurnaroundMinutes: média aritmética arredondada dos turnarounds das
// listas concluídas. Zero quando não há lista qualificada (exibido como "—").
func AverageTurnaroundMinutes(lists []models.PickingList) int {
	total := 0
	count := 0
	for _, l := range lists {
		if minutes, ok := TurnaroundMinutes(l); ok {
			total += minutes
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(count)))
}

type RankedItem struct {
	ProductID     uint            `json:"product_id"`
	SKU           string          `json:"sku"`
	Description   string          `json:"description"`
	Form          models.ItemForm `json:"form"`
	TotalQuantity int             `json:"total_quantity"`
}

type TopItems struct {
	Unidade []RankedItem `json:"unidade"`
	Caixa   []RankedItem `json:"caixa"`
}

// TopRequestedItems: agrupa todo o histórico de itens por (produto, forma)
// somando a quantidade SOLICITADA (não a enviada), e produz dois rankings
// decrescentes, um por forma. Empates preservam a ordem de descoberta dos
// grupos (sort estável). Sem truncamento: o ranking completo é exibido.
func TopRequestedItems(items []models.PickingListItem) TopItems {
	type groupKey struct {
		productID uint
		form      models.ItemForm
	}

	groups := make(map[groupKey]*RankedItem)
	order := make([]groupKey, 0)

	for _, item := range items {
		key := groupKey{item.ProductID, item.Form}
		if g, ok := groups[key]; ok {
			g.TotalQuantity += item.Quantity
			continue
		}
		groups[key] = &RankedItem{
			ProductID:     item.ProductID,
			SKU:           item.Product.SKU,
			Description:   item.Product.Description,
			Form:          item.Form,
			TotalQuantity: item.Quantity,
		}
		order = append(order, key)
	}

	var top TopItems
	top.Unidade = make([]RankedItem, 0)
	top.Caixa = make([]RankedItem, 0)
	for _, key := range order {
		g := groups[key]
		switch g.Form {
		case models.FormUnidade:
			top.Unidade = append(top.Unidade, *g)
		case models.FormCaixa:
			top.Caixa = append(top.Caixa, *g)
		}
	}

	sort.SliceStable(top.Unidade, func(i, j int) bool {
		return top.Unidade[i].TotalQuantity > top.Unidade[j].TotalQuantity
	})
	sort.SliceStable(top.Caixa, func(i, j int) bool {
		return top.Caixa[i].TotalQuantity > top.Caixa[j].TotalQuantity
	})

	return top
}

type PendingListRef struct {
	ListID       uint            `json:"list_id"`
	ListCode     string          `json:"list_code"`
	Requester    string          `json:"requester"`
	Quantity     int             `json:"quantity"`
	QuantitySent *int            `json:"quantity_sent"`
	Form         models.ItemForm `json:"form"`
	IsAvailable  bool            `json:"is_available"`
	IsPartial    bool            `json:"is_partial"`
}

type PendingProductGroup struct {
	ProductID        uint             `json:"product_id"`
	SKU              string           `json:"sku"`
	Description      string           `json:"description"`
	UnavailableCount int              `json:"unavailable_count"`
	PartialCount     int              `json:"partial_count"`
	TotalRequested   int              `json:"total_requested"`
	TotalSent        int              `json:"total_sent"`
	Lists            []PendingListRef `json:"lists"`
}

// PendingStockReport: agrupa por produto (sem separar por forma) os itens com
// qualquer pendência de estoque. O chamador já filtra o conjunto para
// indisponíveis, envios parciais e itens sem envio registrado; aqui cada
// ocorrência acumula contagens e totais, e toda ocorrência entra na lista de
// referências do grupo.
func PendingStockReport(items []models.PickingListItem, lists map[uint]models.PickingList) []PendingProductGroup {
	groups := make(map[uint]*PendingProductGroup)
	order := make([]uint, 0)

	for _, item := range items {
		g, ok := groups[item.ProductID]
		if !ok {
			g = &PendingProductGroup{
				ProductID:   item.ProductID,
				SKU:         item.Product.SKU,
				Description: item.Product.Description,
				Lists:       make([]PendingListRef, 0),
			}
			groups[item.ProductID] = g
			order = append(order, item.ProductID)
		}

		sent := 0
		if item.QuantitySent != nil {
			sent = *item.QuantitySent
		}

		if !item.IsAvailable {
			g.UnavailableCount++
			g.TotalRequested += item.Quantity
			g.TotalSent += sent
		} else if sent < item.Quantity {
			g.PartialCount++
			g.TotalRequested += item.Quantity
			g.TotalSent += sent
		}

		ref := PendingListRef{
			ListID:       item.ListID,
			Quantity:     item.Quantity,
			QuantitySent: item.QuantitySent,
			Form:         item.Form,
			IsAvailable:  item.IsAvailable,
			IsPartial:    sent < item.Quantity,
		}
		if l, ok := lists[item.ListID]; ok {
			ref.ListCode = l.ShortCode()
			if l.Requester.FullName != "" {
				ref.Requester = l.Requester.FullName
			} else {
				ref.Requester = "Desconhecido"
			}
		} else {
			ref.Requester = "Desconhecido"
		}
		g.Lists = append(g.Lists, ref)
	}

	res := make([]PendingProductGroup, 0, len(order))
	for _, id := range order {
		res = append(res, *groups[id])
	}
	return res
}
