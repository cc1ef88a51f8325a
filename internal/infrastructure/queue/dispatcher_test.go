package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cryptodesk/trading-platform/internal/core/domain"
)

type collectingService struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	done   chan struct{}
	want   int
}

func newCollectingService(want int) *collectingService {
	return &collectingService{done: make(chan struct{}), want: want}
}

func (s *collectingService) Process(_ context.Context, event domain.AuditEvent) error {
	s.mu.Lock()
	s.events = append(s.events, event)
	if len(s.events) == s.want {
		close(s.done)
	}
	s.mu.Unlock()
	return nil
}

func TestDispatcher_DeliversEvents(t *testing.T) {
	svc := newCollectingService(3)
	d := NewDispatcher(2, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Record(domain.AuditEvent{Username: "alice", Action: domain.AuditLoginSuccess})
	d.Record(domain.AuditEvent{Username: "bob", Action: domain.AuditLoginFailure})
	d.Record(domain.AuditEvent{Username: "alice", Action: domain.AuditLogout})

	select {
	case <-svc.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("events not processed in time")
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if len(svc.events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(svc.events))
	}
}

// Events for the same user land on the same worker, preserving order.
func TestDispatcher_PerUserOrdering(t *testing.T) {
	svc := newCollectingService(2)
	d := NewDispatcher(4, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Record(domain.AuditEvent{Username: "carol", Action: domain.AuditLoginSuccess})
	d.Record(domain.AuditEvent{Username: "carol", Action: domain.AuditLogout})

	select {
	case <-svc.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("events not processed in time")
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.events[0].Action != domain.AuditLoginSuccess || svc.events[1].Action != domain.AuditLogout {
		t.Fatalf("order not preserved: %v, %v", svc.events[0].Action, svc.events[1].Action)
	}
}

func TestDispatcher_ShardIsStable(t *testing.T) {
	d := NewDispatcher(8, newCollectingService(0), zerolog.Nop())
	first := d.shardIndex("dave")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("dave"); got != first {
			t.Fatalf("shard index changed: %d vs %d", first, got)
		}
	}
}
