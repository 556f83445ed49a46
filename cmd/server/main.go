package main

import (
	"log"
	"strings"

	"galpao-backend/internal/admin"
	"galpao-backend/internal/analytics"
	"galpao-backend/internal/audit"
	"galpao-backend/internal/auth"
	"galpao-backend/internal/catalog"
	"galpao-backend/internal/config"
	"galpao-backend/internal/database"
	"galpao-backend/internal/metrics"
	"galpao-backend/internal/models"
	"galpao-backend/internal/notify"
	"galpao-backend/internal/picklist"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)
	notifier := notify.New(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Erro inesperado:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erro inesperado no servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// Público
	api.Post("/auth/register-gestor", auth.RegisterGestorHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Autenticado
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Catálogo (visível para todos os perfis autenticados)
	protected.Get("/products", catalog.ListProductsHandler())

	// Listas de coleta
	protected.Post("/lists", auth.RequireRole(models.RoleExpedicao), picklist.CreateListHandler(notifier))
	protected.Get("/lists", picklist.ListListsHandler())
	protected.Get("/lists/stream", auth.RequireRole(models.RoleGalpao, models.RoleGestor), notify.StreamHandler(notifier))
	protected.Get("/lists/:id", picklist.GetListHandler())
	protected.Post("/lists/:id/start", auth.RequireRole(models.RoleGalpao), picklist.StartSeparationHandler())
	protected.Post("/lists/:id/complete", auth.RequireRole(models.RoleGalpao), picklist.CompleteListHandler())

	// Itens (somente galpão)
	items := protected.Group("/items", auth.RequireRole(models.RoleGalpao))
	items.Post("/:id/toggle", picklist.ToggleCollectedHandler())
	items.Post("/:id/unavailable", picklist.MarkUnavailableHandler())
	items.Post("/:id/send-partial", picklist.SendPartialHandler())
	items.Post("/:id/restore", picklist.RestoreAvailabilityHandler())

	// Rotas do gestor
	gestor := protected.Group("/gestor")
	gestor.Use(auth.RequireRole(models.RoleGestor))

	gestor.Post("/products", catalog.CreateProductHandler())
	gestor.Post("/products/:id/toggle-active", catalog.ToggleProductActiveHandler())

	gestor.Post("/users", admin.CreateUserHandler())
	gestor.Get("/users", admin.ListUsersHandler())
	gestor.Post("/users/:id/toggle-active", admin.ToggleUserActiveHandler())

	gestor.Get("/overview", analytics.OverviewHandler())
	gestor.Get("/top-items", analytics.TopItemsHandler())
	gestor.Get("/top-items/export", analytics.ExportTopItemsHandler())
	gestor.Get("/pending-stock", analytics.PendingStockHandler())
	gestor.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Servidor rodando na porta:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
