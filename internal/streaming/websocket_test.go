package streaming

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"scamshield/internal/domain/models"
	"scamshield/pkg/logger"
)

func TestWebSocketHubStreamsFilteredEvents(t *testing.T) {
	bus := NewEventBus(nil, logger.NewNop())
	hub := NewWebSocketHub(bus, nil, logger.NewNop())

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWebSocket))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "?label=Dangerous"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for bus.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	safe := event(models.RiskLabelSafe, 3)
	bad := event(models.RiskLabelDangerous, 95)
	bus.PublishScan(context.Background(), safe)
	bus.PublishScan(context.Background(), bad)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got models.ScanEvent
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if got.ID != bad.ID || got.Label != models.RiskLabelDangerous {
		t.Errorf("received %+v, want the dangerous event", got)
	}

	hub.Close()
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after Close, want 0", hub.ClientCount())
	}
}
