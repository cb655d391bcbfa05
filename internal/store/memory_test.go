package store

import (
	"context"
	"errors"
	"testing"

	"github.com/example/payments-gateway/internal/models"
)

func TestMemoryLoadUnknownOrder(t *testing.T) {
	m := NewMemory()

	_, err := m.Load(context.Background(), "missing")
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestMemoryLoadReturnsCopy(t *testing.T) {
	m := NewMemory()
	m.Seed(models.Order{Number: "000000123", State: models.OrderStatePendingPayment})

	first, err := m.Load(context.Background(), "000000123")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	first.State = models.OrderStateCanceled

	second, err := m.Load(context.Background(), "000000123")
	if err != nil {
		t.Fatalf("second Load returned error: %v", err)
	}
	if second.State != models.OrderStatePendingPayment {
		t.Fatal("mutation of a loaded order leaked into the store")
	}
}

func TestMemorySave(t *testing.T) {
	m := NewMemory()
	m.Seed(models.Order{Number: "000000123", State: models.OrderStatePendingPayment})

	order, err := m.Load(context.Background(), "000000123")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	order.State = models.OrderStateProcessing
	order.AmountCaptured = 1500

	if err := m.Save(context.Background(), order); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	saved, err := m.Load(context.Background(), "000000123")
	if err != nil {
		t.Fatalf("Load after Save returned error: %v", err)
	}
	if saved.State != models.OrderStateProcessing || saved.AmountCaptured != 1500 {
		t.Fatalf("saved order not persisted: %+v", saved)
	}
	if saved.UpdatedAt.IsZero() {
		t.Fatal("Save must stamp UpdatedAt")
	}

	if err := m.Save(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil order")
	}
}
