package catalog

import (
	"strings"

	"galpao-backend/internal/database"
	"galpao-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID          uint   `json:"id"`
	SKU         string `json:"sku"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

type CreateProductRequest struct {
	SKU         string `json:"sku"`
	Description string `json:"description"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Description: p.Description,
		IsActive:    p.IsActive,
	}
}

// GET /api/products?all=true (qualquer usuário autenticado)
// Por padrão retorna apenas produtos ativos, ordenados por descrição; o gestor
// usa ?all=true para enxergar o catálogo inteiro.
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Product{})

		if c.Query("all") != "true" {
			dbq = dbq.Where("is_active = ?", true)
		}

		var products []models.Product
		if err := dbq.Order("description asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao listar produtos")
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, toProductResponse(p))
		}
		return c.JSON(res)
	}
}

// POST /api/gestor/products (somente GESTOR)
// SKU é único e imutável; não existe rota de edição de produto.
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		body.SKU = strings.TrimSpace(body.SKU)
		body.Description = strings.TrimSpace(body.Description)

		if body.SKU == "" || body.Description == "" {
			return fiber.NewError(fiber.StatusBadRequest, "SKU e descrição são obrigatórios")
		}

		var existing models.Product
		if err := database.DB.Where("sku = ?", body.SKU).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Este SKU já está em uso")
		}

		p := models.Product{
			SKU:         body.SKU,
			Description: body.Description,
			IsActive:    true,
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao criar produto")
		}

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(p))
	}
}

// POST /api/gestor/products/:id/toggle-active (somente GESTOR)
// Produtos nunca são excluídos, apenas desativados e reativados.
func ToggleProductActiveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Product
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produto não encontrado")
		}

		if err := database.DB.Model(&p).Update("is_active", !p.IsActive).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao alterar status do produto")
		}
		p.IsActive = !p.IsActive

		return c.JSON(toProductResponse(p))
	}
}
