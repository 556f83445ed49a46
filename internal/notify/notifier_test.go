package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCreatedEvent(t *testing.T) {
	ev := ListCreated("aaaa1111-2222-3333-4444-555566667777")
	assert.Equal(t, "list_created", ev.Type)
	assert.Equal(t, BannerDismissSeconds, ev.DismissAfterSec)
}

func TestHubPublishSubscribe(t *testing.T) {
	hub := NewHub()

	events, cancel := hub.Subscribe()
	defer cancel()

	hub.Publish(ListCreated("abc"))

	select {
	case ev := <-events:
		assert.Equal(t, "abc", ev.ListCode)
	case <-time.After(time.Second):
		t.Fatal("evento não entregue")
	}
}

func TestHubCancelRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	events, cancel := hub.Subscribe()
	cancel()

	// canal fechado após o cancelamento
	_, open := <-events
	require.False(t, open)

	// publicar sem assinantes não pode travar nem entrar em pânico
	hub.Publish(ListCreated("abc"))
}

func TestHubSlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()

	_, cancel := hub.Subscribe()
	defer cancel()

	// estoura o buffer do assinante; o sinal é só invalidação, perder evento
	// excedente é aceitável
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(ListCreated("abc"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish bloqueou com assinante lento")
	}
}

func TestHubMultipleSubscribers(t *testing.T) {
	hub := NewHub()

	ch1, cancel1 := hub.Subscribe()
	ch2, cancel2 := hub.Subscribe()
	defer cancel1()
	defer cancel2()

	hub.Publish(ListCreated("xyz"))

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, "xyz", ev.ListCode)
		case <-time.After(time.Second):
			t.Fatal("evento não entregue a todos os assinantes")
		}
	}
}
