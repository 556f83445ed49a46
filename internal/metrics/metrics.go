package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ListsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "picking_lists_created_total",
		Help: "Listas de coleta criadas",
	})

	ListTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "picking_list_transitions_total",
		Help: "Transições de status de listas",
	}, []string{"to"})

	ItemMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "picking_list_item_mutations_total",
		Help: "Mutações de itens (toggle, unavailable, send_partial, restore)",
	}, []string{"action"})

	SeparationMinutes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "picking_list_separation_minutes",
		Help:    "Duração da separação em minutos (baseline updated_at)",
		Buckets: prometheus.LinearBuckets(0, 15, 12),
	})
)

// Handler: endpoint /metrics no formato Prometheus.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
