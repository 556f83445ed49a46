package analytics

import (
	"galpao-backend/internal/database"
	"galpao-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/gestor/pending-stock (somente GESTOR)
// Itens com qualquer pendência de estoque: indisponíveis, envios parciais e
// itens sem envio registrado. Agrupado por produto.
func PendingStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.PickingListItem
		if err := database.DB.Preload("Product").
			Where("is_available = ? OR quantity_sent < quantity OR quantity_sent IS NULL", false).
			Order("created_at desc").
			Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao carregar itens pendentes")
		}

		listIDs := make([]uint, 0, len(items))
		seen := make(map[uint]struct{}, len(items))
		for _, item := range items {
			if _, ok := seen[item.ListID]; !ok {
				seen[item.ListID] = struct{}{}
				listIDs = append(listIDs, item.ListID)
			}
		}

		lists := make(map[uint]models.PickingList, len(listIDs))
		if len(listIDs) > 0 {
			var rows []models.PickingList
			if err := database.DB.Preload("Requester").
				Where("id IN ?", listIDs).
				Find(&rows).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Erro ao carregar listas")
			}
			for _, l := range rows {
				lists[l.ID] = l
			}
		}

		return c.JSON(PendingStockReport(items, lists))
	}
}
