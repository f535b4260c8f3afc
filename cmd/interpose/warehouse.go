package main

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errReservationRejected = errors.New("reservation rejected")

// warehouse is the sample service the run command instruments
type warehouse struct {
	mu        sync.Mutex
	stock     map[string]int
	reserved  int
	failEvery int
}

func newWarehouse(failEvery int) *warehouse {
	return &warehouse{
		stock:     make(map[string]int),
		failEvery: failEvery,
	}
}

// Reserve takes qty units of sku out of stock
func (w *warehouse) Reserve(ctx context.Context, sku string, qty int) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.reserved++
	if w.failEvery > 0 && w.reserved%w.failEvery == 0 {
		return 0, errReservationRejected
	}
	w.stock[sku] -= qty
	return w.stock[sku], nil
}

// Restock adds qty units of sku
func (w *warehouse) Restock(sku string, qty int) {
	time.Sleep(50 * time.Microsecond)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.stock[sku] += qty
}

// Audit returns the number of distinct skus
func (w *warehouse) Audit() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.stock)
}
