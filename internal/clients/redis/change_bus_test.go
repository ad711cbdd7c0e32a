package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
)

func TestDecodeChange(t *testing.T) {
	id := uuid.New()
	change, err := DecodeChange(`{"kind":"recipe","action":"deleted","_id":"` + id.String() + `","id":4,"at":"2024-01-02T03:04:05Z"}`)
	if err != nil {
		t.Fatalf("DecodeChange: %v", err)
	}
	if change.Kind != domain.KindRecipe || change.Action != domain.ChangeDeleted || change.StorageID != id || change.DomainID != 4 {
		t.Fatalf("unexpected change: %+v", change)
	}
	if _, err := DecodeChange(`{"id":4}`); err == nil {
		t.Fatalf("expected error for payload without kind")
	}
	if _, err := DecodeChange(`not json`); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}

func TestNewChangeBusRequiresAddr(t *testing.T) {
	if _, err := NewChangeBus(logger.Nop(), " ", ""); err == nil {
		t.Fatalf("expected error without address")
	}
}

func TestChangeBusRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	bus, err := NewChangeBus(logger.Nop(), addr, "test.changes."+uuid.NewString())
	if err != nil {
		t.Fatalf("NewChangeBus: %v", err)
	}
	defer bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got := make(chan domain.Change, 1)
	if err := bus.StartForwarder(ctx, func(c domain.Change) { got <- c }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	sent := domain.Change{Kind: domain.KindNutrition, Action: domain.ChangeCreated, StorageID: uuid.New(), DomainID: 100, At: time.Now().UTC()}
	if err := bus.Publish(ctx, sent); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	select {
	case c := <-got:
		if c.StorageID != sent.StorageID || c.DomainID != 100 {
			t.Fatalf("unexpected change: %+v", c)
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for change")
	}
}
