package analytics

import (
	"fmt"
	"time"

	"galpao-backend/internal/database"
	"galpao-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/gestor/top-items (somente GESTOR)
// Ranking histórico completo dos produtos mais pedidos, separado por forma.
func TopItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.PickingListItem
		if err := database.DB.Preload("Product").
			Order("created_at asc").
			Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao carregar itens mais pedidos")
		}

		return c.JSON(TopRequestedItems(items))
	}
}

// GET /api/gestor/top-items/export (somente GESTOR)
// Exporta os dois rankings em planilha xlsx, uma aba por forma.
func ExportTopItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.PickingListItem
		if err := database.DB.Preload("Product").
			Order("created_at asc").
			Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao carregar itens mais pedidos")
		}

		top := TopRequestedItems(items)

		f := excelize.NewFile()
		defer f.Close()

		if err := writeRankingSheet(f, "Por Unidade", top.Unidade); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao gerar planilha")
		}
		if err := writeRankingSheet(f, "Por Caixa", top.Caixa); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao gerar planilha")
		}
		// remove a aba padrão criada pelo excelize
		_ = f.DeleteSheet("Sheet1")

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao gerar planilha")
		}

		filename := fmt.Sprintf("itens-mais-pedidos-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		return c.SendStream(buf)
	}
}

func writeRankingSheet(f *excelize.File, name string, ranking []RankedItem) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	headers := []string{"#", "SKU", "Produto", "Quantidade Total"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, h); err != nil {
			return err
		}
	}

	for row, item := range ranking {
		values := []any{row + 1, item.SKU, item.Description, item.TotalQuantity}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
