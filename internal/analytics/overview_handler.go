package analytics

import (
	"time"

	"galpao-backend/internal/database"
	"galpao-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const recentListsWindow = 20

type RecentListRow struct {
	ID                uint              `json:"id"`
	ShortCode         string            `json:"short_code"`
	Requester         string            `json:"requester"`
	Status            models.ListStatus `json:"status"`
	ItemCount         int               `json:"item_count"`
	CreatedAt         string            `json:"created_at"`
	CompletedAt       *string           `json:"completed_at"`
	TurnaroundMinutes *int              `json:"turnaround_minutes"`
}

type OverviewResponse struct {
	TotalLists        int             `json:"total_lists"`
	Counts            StatusCounts    `json:"counts"`
	TotalUsers        int64           `json:"total_users"`
	TotalProducts     int64           `json:"total_products"`
	AvgTurnaroundMins int             `json:"avg_turnaround_minutes"`
	RecentLists       []RecentListRow `json:"recent_lists"`
}

// GET /api/gestor/overview (somente GESTOR)
// KPIs calculados sobre a janela das últimas 20 listas, como no painel
// original: um fetch por refresh, redução em memória.
func OverviewHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var lists []models.PickingList
		if err := database.DB.Preload("Items").Preload("Requester").
			Order("created_at desc").
			Limit(recentListsWindow).
			Find(&lists).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao carregar estatísticas")
		}

		var userCount int64
		if err := database.DB.Model(&models.User{}).Count(&userCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao contar usuários")
		}

		var productCount int64
		if err := database.DB.Model(&models.Product{}).
			Where("is_active = ?", true).
			Count(&productCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao contar produtos")
		}

		recent := make([]RecentListRow, 0, len(lists))
		for _, l := range lists {
			row := RecentListRow{
				ID:        l.ID,
				ShortCode: l.ShortCode(),
				Requester: l.Requester.FullName,
				Status:    l.Status,
				ItemCount: len(l.Items),
				CreatedAt: l.CreatedAt.Format(time.RFC3339),
			}
			if l.CompletedAt != nil {
				s := l.CompletedAt.Format(time.RFC3339)
				row.CompletedAt = &s
			}
			if minutes, ok := TurnaroundMinutes(l); ok {
				row.TurnaroundMinutes = &minutes
			}
			recent = append(recent, row)
		}

		return c.JSON(OverviewResponse{
			TotalLists:        len(lists),
			Counts:            CountsByStatus(lists),
			TotalUsers:        userCount,
			TotalProducts:     productCount,
			AvgTurnaroundMins: AverageTurnaroundMinutes(lists),
			RecentLists:       recent,
		})
	}
}
