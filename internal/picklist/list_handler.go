package picklist

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"galpao-backend/internal/audit"
	"galpao-backend/internal/auth"
	"galpao-backend/internal/database"
	"galpao-backend/internal/metrics"
	"galpao-backend/internal/models"
	"galpao-backend/internal/notify"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateListItemRequest struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Form      models.ItemForm `json:"form"`
}

type CreateListRequest struct {
	Items []CreateListItemRequest `json:"items"`
}

type ItemResponse struct {
	ID           uint            `json:"id"`
	ProductID    uint            `json:"product_id"`
	SKU          string          `json:"sku"`
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity"`
	Form         models.ItemForm `json:"form"`
	IsCollected  bool            `json:"is_collected"`
	IsAvailable  bool            `json:"is_available"`
	QuantitySent *int            `json:"quantity_sent"`
	Status       ItemStatus      `json:"status"`
}

type ListResponse struct {
	ID               uint              `json:"id"`
	Code             string            `json:"code"`
	ShortCode        string            `json:"short_code"`
	Status           models.ListStatus `json:"status"`
	RequesterID      uint              `json:"requester_id"`
	RequesterName    string            `json:"requester_name"`
	CreatedAt        string            `json:"created_at"`
	UpdatedAt        string            `json:"updated_at"`
	StartedAt        *string           `json:"started_at"`
	CompletedAt      *string           `json:"completed_at"`
	Items            []ItemResponse    `json:"items"`
	CollectedCount   int               `json:"collected_count"`
	HasStockPendency bool              `json:"has_stock_pendency"`
	CanComplete      bool              `json:"can_complete"`
}

func toListResponse(l models.PickingList) ListResponse {
	items := make([]ItemResponse, 0, len(l.Items))
	for _, it := range l.Items {
		items = append(items, ItemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			SKU:          it.Product.SKU,
			Description:  it.Product.Description,
			Quantity:     it.Quantity,
			Form:         it.Form,
			IsCollected:  it.IsCollected,
			IsAvailable:  it.IsAvailable,
			QuantitySent: it.QuantitySent,
			Status:       ClassifyItem(it),
		})
	}

	res := ListResponse{
		ID:               l.ID,
		Code:             l.Code,
		ShortCode:        l.ShortCode(),
		Status:           l.Status,
		RequesterID:      l.RequesterID,
		RequesterName:    l.Requester.FullName,
		CreatedAt:        l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        l.UpdatedAt.Format(time.RFC3339),
		Items:            items,
		CollectedCount:   CollectedCount(l.Items),
		HasStockPendency: HasStockPendency(l.Items),
		CanComplete:      CanComplete(l.Items),
	}
	if l.StartedAt != nil {
		s := l.StartedAt.Format(time.RFC3339)
		res.StartedAt = &s
	}
	if l.CompletedAt != nil {
		s := l.CompletedAt.Format(time.RFC3339)
		res.CompletedAt = &s
	}
	return res
}

// ValidateCreateRequest: rejeita a requisição antes de qualquer escrita.
func ValidateCreateRequest(body CreateListRequest) error {
	if len(body.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "A lista deve ter pelo menos um item")
	}
	for _, item := range body.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Preencha todos os campos corretamente")
		}
		if item.Form != models.FormCaixa && item.Form != models.FormUnidade {
			return fiber.NewError(fiber.StatusBadRequest, "Forma deve ser CAIXA ou UNIDADE")
		}
	}
	return nil
}

// NewPickingList: lista nova sempre nasce PENDENTE com itens não coletados,
// disponíveis e sem envio registrado.
func NewPickingList(requesterID uint, items []CreateListItemRequest) models.PickingList {
	list := models.PickingList{
		RequesterID: requesterID,
		Status:      models.StatusPendente,
	}
	for _, item := range items {
		list.Items = append(list.Items, models.PickingListItem{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			Form:        item.Form,
			IsCollected: false,
			IsAvailable: true,
		})
	}
	return list
}

// POST /api/lists (EXPEDICAO)
// Valida tudo antes de qualquer escrita; lista e itens entram numa transação só.
func CreateListHandler(notifier notify.Notifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateListRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if err := ValidateCreateRequest(body); err != nil {
			return err
		}

		productIDs := make([]uint, 0, len(body.Items))
		for _, item := range body.Items {
			productIDs = append(productIDs, item.ProductID)
		}

		var activeCount int64
		if err := database.DB.Model(&models.Product{}).
			Where("id IN ? AND is_active = ?", productIDs, true).
			Count(&activeCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao validar produtos")
		}
		uniqueIDs := make(map[uint]struct{}, len(productIDs))
		for _, id := range productIDs {
			uniqueIDs[id] = struct{}{}
		}
		if activeCount != int64(len(uniqueIDs)) {
			return fiber.NewError(fiber.StatusBadRequest, "Produto inexistente ou desativado na lista")
		}

		list := NewPickingList(userID, body.Items)

		if err := database.DB.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&list).Error
		}); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao criar lista")
		}

		if err := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName(c),
			EntityType:  "picking_list",
			EntityID:    list.ID,
			Action:      models.AuditActionCreate,
			Description: "Lista criada com " + itemCountLabel(len(list.Items)),
			After:       fiber.Map{"status": list.Status, "items": len(list.Items)},
		}); err != nil {
			log.Printf("audit: %v", err)
		}

		metrics.ListsCreated.Inc()
		notifier.Publish(notify.ListCreated(list.Code))

		if err := database.DB.Preload("Items.Product").Preload("Requester").
			First(&list, list.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lista criada, erro ao carregar resposta")
		}

		return c.Status(fiber.StatusCreated).JSON(toListResponse(list))
	}
}

// GET /api/lists?status=PENDENTE,EM_SEPARACAO&order=asc
// Expedição enxerga apenas as próprias listas (mais recentes primeiro); galpão
// e gestor enxergam todas.
func ListListsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		role, _ := c.Locals(auth.CtxUserRoleKey).(models.UserRole)

		dbq := database.DB.Model(&models.PickingList{}).
			Preload("Items.Product").
			Preload("Requester")

		if role == models.RoleExpedicao {
			dbq = dbq.Where("requester_id = ?", userID)
		}

		if statusParam := c.Query("status"); statusParam != "" {
			statuses := strings.Split(statusParam, ",")
			for i := range statuses {
				statuses[i] = strings.TrimSpace(statuses[i])
			}
			dbq = dbq.Where("status IN ?", statuses)
		}

		order := "created_at desc"
		if c.Query("order") == "asc" {
			order = "created_at asc"
		}
		dbq = dbq.Order(order)

		if limit := c.QueryInt("limit", 0); limit > 0 {
			dbq = dbq.Limit(limit)
		}

		var lists []models.PickingList
		if err := dbq.Find(&lists).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao carregar listas")
		}

		res := make([]ListResponse, 0, len(lists))
		for _, l := range lists {
			res = append(res, toListResponse(l))
		}
		return c.JSON(res)
	}
}

// GET /api/lists/:id
func GetListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		role, _ := c.Locals(auth.CtxUserRoleKey).(models.UserRole)

		var list models.PickingList
		if err := database.DB.Preload("Items.Product").Preload("Requester").
			First(&list, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lista não encontrada")
		}

		if role == models.RoleExpedicao && list.RequesterID != userID {
			return fiber.NewError(fiber.StatusForbidden, "Você não tem acesso a esta lista")
		}

		return c.JSON(toListResponse(list))
	}
}

// POST /api/lists/:id/start (GALPAO) — PENDENTE -> EM_SEPARACAO.
func StartSeparationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var list models.PickingList
		if err := database.DB.First(&list, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lista não encontrada")
		}

		if err := GuardTransition(&list, models.StatusEmSeparacao); err != nil {
			return transitionError(err)
		}

		before := list.Status
		now := time.Now()
		updates := map[string]any{"status": models.StatusEmSeparacao}
		if list.StartedAt == nil {
			updates["started_at"] = now
		}
		if err := database.DB.Model(&list).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao iniciar separação")
		}

		if err := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName(c),
			EntityType:  "picking_list",
			EntityID:    list.ID,
			Action:      models.AuditActionTransition,
			Description: "Separação iniciada",
			Before:      fiber.Map{"status": before},
			After:       fiber.Map{"status": models.StatusEmSeparacao},
		}); err != nil {
			log.Printf("audit: %v", err)
		}

		metrics.ListTransitions.WithLabelValues(string(models.StatusEmSeparacao)).Inc()

		return c.JSON(fiber.Map{"id": list.ID, "status": models.StatusEmSeparacao})
	}
}

// POST /api/lists/:id/complete (GALPAO) — EM_SEPARACAO -> CONCLUIDO, somente
// com todos os itens resolvidos. Sem conclusão parcial.
func CompleteListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var list models.PickingList
		if err := database.DB.Preload("Items").
			First(&list, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lista não encontrada")
		}

		if err := GuardTransition(&list, models.StatusConcluido); err != nil {
			return transitionError(err)
		}

		before := list.Status
		// baseline do indicador de tempo: updated_at antes desta escrita
		baseline := list.UpdatedAt
		now := time.Now()

		if err := database.DB.Model(&list).Updates(completionWrite(&list, now)).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao concluir lista")
		}

		if err := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName(c),
			EntityType:  "picking_list",
			EntityID:    list.ID,
			Action:      models.AuditActionTransition,
			Description: "Lista concluída",
			Before:      fiber.Map{"status": before},
			After:       fiber.Map{"status": models.StatusConcluido},
		}); err != nil {
			log.Printf("audit: %v", err)
		}

		metrics.ListTransitions.WithLabelValues(string(models.StatusConcluido)).Inc()
		metrics.SeparationMinutes.Observe(now.Sub(baseline).Minutes())

		return c.JSON(fiber.Map{
			"id":           list.ID,
			"status":       models.StatusConcluido,
			"completed_at": now.Format(time.RFC3339),
		})
	}
}

// completionWrite monta as colunas do fechamento. updated_at entra explícito
// com o valor anterior: o gorm carimba a coluna em todo Updates, e ela é a
// referência inicial do indicador de tempo de separação. Sem o pin, o
// turnaround de toda lista concluída seria zero.
func completionWrite(list *models.PickingList, now time.Time) map[string]any {
	return map[string]any{
		"status":       models.StatusConcluido,
		"completed_at": now,
		"updated_at":   list.UpdatedAt,
	}
}

func transitionError(err error) error {
	switch {
	case errors.Is(err, ErrIncompleteItems):
		return fiber.NewError(fiber.StatusUnprocessableEntity,
			"Marque todos os itens como coletados ou indisponíveis antes de finalizar")
	case errors.Is(err, ErrIllegalTransition):
		return fiber.NewError(fiber.StatusUnprocessableEntity,
			"Transição de status inválida para esta lista")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Erro ao processar transição")
	}
}

func userName(c *fiber.Ctx) string {
	if name, ok := c.Locals(auth.CtxUserNameKey).(string); ok {
		return name
	}
	return ""
}

func itemCountLabel(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d itens", n)
}
