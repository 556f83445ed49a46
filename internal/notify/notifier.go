package notify

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"galpao-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

const channelName = "picking_lists:inserts"

// BannerDismissSeconds: janela sugerida para o frontend esconder o aviso de
// nova lista automaticamente.
const BannerDismissSeconds = 10

// Event: sinal de invalidação emitido quando uma lista é criada. Não carrega
// deltas; o assinante deve refazer o fetch da sua fila.
type Event struct {
	Type            string `json:"type"`
	ListCode        string `json:"list_code"`
	DismissAfterSec int    `json:"dismiss_after_sec"`
}

func ListCreated(code string) Event {
	return Event{Type: "list_created", ListCode: code, DismissAfterSec: BannerDismissSeconds}
}

type Notifier interface {
	Publish(ev Event)
	// Subscribe retorna o canal de eventos e a função de cancelamento.
	Subscribe() (<-chan Event, func())
}

// New: com REDIS_ADDR configurado os eventos atravessam instâncias via pub/sub;
// sem Redis o hub em memória atende uma instância única.
func New(cfg *config.Config) Notifier {
	if cfg.RedisAddr == "" {
		log.Println("[WARN] REDIS_ADDR não definido, feed de novas listas usando hub em memória.")
		return NewHub()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return &redisNotifier{client: client}
}

// Hub: broadcast em memória. Envio não bloqueante; assinante lento perde o
// evento (é só um sinal de invalidação, o próximo fetch recupera tudo).
type Hub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

type redisNotifier struct {
	client *redis.Client
}

func (r *redisNotifier) Publish(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := r.client.Publish(context.Background(), channelName, payload).Err(); err != nil {
		log.Printf("Erro ao publicar evento no Redis: %v", err)
	}
}

func (r *redisNotifier) Subscribe() (<-chan Event, func()) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	pubsub := r.client.Subscribe(ctx, channelName)
	ch := make(chan Event, 8)

	go func() {
		defer close(ch)
		for msg := range pubsub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue
			}
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		cancelCtx()
		_ = pubsub.Close()
	}
	return ch, cancel
}
