package streaming

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"

	"scamshield/internal/domain/models"
	"scamshield/pkg/logger"
)

type recordingSink struct {
	events []models.ScanEvent
	err    error
}

func (s *recordingSink) PublishScan(_ context.Context, e models.ScanEvent) error {
	s.events = append(s.events, e)
	return s.err
}

func event(label models.RiskLabel, score int) models.ScanEvent {
	return models.ScanEvent{
		ID:        uuid.New(),
		ScanType:  models.ScanTypeText,
		RiskScore: score,
		Label:     label,
		Triggers:  []string{},
		Timestamp: time.Now().UTC(),
	}
}

func receive(t *testing.T, ch <-chan models.ScanEvent) (models.ScanEvent, bool) {
	t.Helper()
	select {
	case e, ok := <-ch:
		return e, ok
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return models.ScanEvent{}, false
	}
}

func TestEventBusDeliversToSinkAndSubscribers(t *testing.T) {
	sink := &recordingSink{}
	bus := NewEventBus(sink, logger.NewNop())

	all, unsubAll := bus.Subscribe(nil)
	defer unsubAll()
	dangerous, unsubDangerous := bus.Subscribe(&Subscription{Labels: []models.RiskLabel{models.RiskLabelDangerous}})
	defer unsubDangerous()

	safe := event(models.RiskLabelSafe, 5)
	bad := event(models.RiskLabelDangerous, 90)
	for _, e := range []models.ScanEvent{safe, bad} {
		if err := bus.PublishScan(context.Background(), e); err != nil {
			t.Fatalf("PublishScan() error = %v", err)
		}
	}

	if len(sink.events) != 2 {
		t.Errorf("sink received %d events, want 2", len(sink.events))
	}
	if e, _ := receive(t, all); e.ID != safe.ID {
		t.Errorf("first event = %s, want %s", e.ID, safe.ID)
	}
	if e, _ := receive(t, all); e.ID != bad.ID {
		t.Errorf("second event = %s, want %s", e.ID, bad.ID)
	}
	if e, _ := receive(t, dangerous); e.ID != bad.ID {
		t.Errorf("filtered event = %s, want %s", e.ID, bad.ID)
	}
	select {
	case e := <-dangerous:
		t.Errorf("unexpected event through label filter: %+v", e)
	default:
	}
}

func TestEventBusSinkFailureStillBroadcasts(t *testing.T) {
	sinkErr := errors.New("nats down")
	bus := NewEventBus(&recordingSink{err: sinkErr}, logger.NewNop())
	ch, unsub := bus.Subscribe(nil)
	defer unsub()

	if err := bus.PublishScan(context.Background(), event(models.RiskLabelSafe, 0)); !errors.Is(err, sinkErr) {
		t.Errorf("PublishScan() error = %v, want %v", err, sinkErr)
	}
	receive(t, ch)
}

func TestEventBusUnsubscribeAndClose(t *testing.T) {
	bus := NewEventBus(nil, logger.NewNop())

	ch, unsub := bus.Subscribe(nil)
	if bus.SubscriberCount() != 1 {
		t.Fatalf("SubscriberCount() = %d, want 1", bus.SubscriberCount())
	}
	unsub()
	unsub()
	if _, ok := <-ch; ok {
		t.Error("channel open after unsubscribe")
	}

	ch2, _ := bus.Subscribe(nil)
	bus.Close()
	if _, ok := <-ch2; ok {
		t.Error("channel open after Close")
	}
	if bus.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount() = %d after Close, want 0", bus.SubscriberCount())
	}

	late, _ := bus.Subscribe(nil)
	if _, ok := <-late; ok {
		t.Error("subscription after Close is open")
	}
}

func TestSubscriptionMatches(t *testing.T) {
	tests := []struct {
		name  string
		sub   *Subscription
		event models.ScanEvent
		want  bool
	}{
		{"nil matches all", nil, event(models.RiskLabelSafe, 0), true},
		{"zero value matches all", &Subscription{}, event(models.RiskLabelSafe, 0), true},
		{"label hit", &Subscription{Labels: []models.RiskLabel{"suspicious"}}, event(models.RiskLabelSuspicious, 40), true},
		{"label miss", &Subscription{Labels: []models.RiskLabel{models.RiskLabelDangerous}}, event(models.RiskLabelSuspicious, 40), false},
		{"below min score", &Subscription{MinScore: 50}, event(models.RiskLabelSuspicious, 49), false},
		{"at min score", &Subscription{MinScore: 50}, event(models.RiskLabelSuspicious, 50), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sub.Matches(tt.event); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubscriptionFromQuery(t *testing.T) {
	q, _ := url.ParseQuery("label=Dangerous,Suspicious&label=Safe&min_score=31")
	sub := SubscriptionFromQuery(q)

	if len(sub.Labels) != 3 {
		t.Errorf("Labels = %v, want 3 entries", sub.Labels)
	}
	if sub.MinScore != 31 {
		t.Errorf("MinScore = %d, want 31", sub.MinScore)
	}
}
