package picklist

import (
	"log"

	"galpao-backend/internal/audit"
	"galpao-backend/internal/auth"
	"galpao-backend/internal/database"
	"galpao-backend/internal/metrics"
	"galpao-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SendPartialRequest struct {
	QuantitySent int `json:"quantity_sent"`
}

func loadItem(c *fiber.Ctx) (*models.PickingListItem, error) {
	var item models.PickingListItem
	if err := database.DB.First(&item, "id = ?", c.Params("id")).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Item não encontrado")
	}
	return &item, nil
}

func writeItemAudit(c *fiber.Ctx, item *models.PickingListItem, description string, before audit.ItemSnapshot) {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return
	}
	if err := audit.WriteLog(audit.LogOptions{
		UserID:      userID,
		UserName:    userName(c),
		EntityType:  "picking_list_item",
		EntityID:    item.ID,
		Action:      models.AuditActionUpdate,
		Description: description,
		Before:      before,
		After:       audit.SnapshotItem(*item),
	}); err != nil {
		log.Printf("audit: %v", err)
	}
}

// POST /api/items/:id/toggle (GALPAO)
// Inverte is_collected sem tocar em quantity_sent. Item indisponível não pode
// ser coletado.
func ToggleCollectedHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		item, err := loadItem(c)
		if err != nil {
			return err
		}

		if !item.IsAvailable {
			return fiber.NewError(fiber.StatusBadRequest, "Item indisponível não pode ser coletado")
		}

		before := audit.SnapshotItem(*item)
		newValue := !item.IsCollected

		if err := database.DB.Model(item).Update("is_collected", newValue).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao atualizar item")
		}
		item.IsCollected = newValue

		writeItemAudit(c, item, "Coleta alternada", before)
		metrics.ItemMutations.WithLabelValues("toggle").Inc()

		return c.JSON(fiber.Map{
			"id":           item.ID,
			"is_collected": item.IsCollected,
			"status":       ClassifyItem(*item),
		})
	}
}

// POST /api/items/:id/unavailable (GALPAO)
// Marca o item como indisponível: nada enviado, nada coletado.
func MarkUnavailableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		item, err := loadItem(c)
		if err != nil {
			return err
		}

		before := audit.SnapshotItem(*item)
		zero := 0

		if err := database.DB.Model(item).Updates(map[string]any{
			"is_available":  false,
			"quantity_sent": zero,
			"is_collected":  false,
		}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao atualizar item")
		}
		item.IsAvailable = false
		item.QuantitySent = &zero
		item.IsCollected = false

		writeItemAudit(c, item, "Item marcado como indisponível", before)
		metrics.ItemMutations.WithLabelValues("unavailable").Inc()

		return c.JSON(fiber.Map{
			"id":     item.ID,
			"status": ClassifyItem(*item),
		})
	}
}

// POST /api/items/:id/send-partial (GALPAO)
// Registra envio de quantidade menor que a solicitada e marca o item como
// resolvido. O limite qty == quantity é rejeitado de propósito: quantidade
// cheia passa pelo toggle, que deixa quantity_sent intocado.
func SendPartialHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		item, err := loadItem(c)
		if err != nil {
			return err
		}

		var body SendPartialRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if !ValidPartialQuantity(body.QuantitySent, item.Quantity) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Quantidade inválida")
		}

		before := audit.SnapshotItem(*item)
		qty := body.QuantitySent

		if err := database.DB.Model(item).Updates(map[string]any{
			"quantity_sent": qty,
			"is_collected":  true,
			"is_available":  true,
		}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao atualizar quantidade")
		}
		item.QuantitySent = &qty
		item.IsCollected = true
		item.IsAvailable = true

		writeItemAudit(c, item, "Envio parcial registrado", before)
		metrics.ItemMutations.WithLabelValues("send_partial").Inc()

		return c.JSON(fiber.Map{
			"id":            item.ID,
			"quantity_sent": qty,
			"status":        ClassifyItem(*item),
		})
	}
}

// POST /api/items/:id/restore (GALPAO)
// Reverte a indisponibilidade por uma operação explícita, em vez de sobrecarregar
// o envio parcial. Volta o item ao estado inicial de coleta.
func RestoreAvailabilityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		item, err := loadItem(c)
		if err != nil {
			return err
		}

		if item.IsAvailable {
			return fiber.NewError(fiber.StatusBadRequest, "Item já está disponível")
		}

		before := audit.SnapshotItem(*item)

		if err := database.DB.Model(item).Updates(map[string]any{
			"is_available":  true,
			"quantity_sent": nil,
			"is_collected":  false,
		}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao restaurar item")
		}
		item.IsAvailable = true
		item.QuantitySent = nil
		item.IsCollected = false

		writeItemAudit(c, item, "Disponibilidade restaurada", before)
		metrics.ItemMutations.WithLabelValues("restore").Inc()

		return c.JSON(fiber.Map{
			"id":     item.ID,
			"status": ClassifyItem(*item),
		})
	}
}
