package models

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var testEpoch = time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)

// steppingClock advances by step on every call.
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	current := start.Add(-step)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(step)
		return current
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustEqualDecimal(t *testing.T, what string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s: expected %s, got %s", what, want, got.String())
	}
}

type mapStore struct {
	mu      sync.Mutex
	docs    map[string][]byte
	saves   int
	loadErr error
	saveErr error
}

func newMapStore() *mapStore {
	return &mapStore{docs: map[string][]byte{}}
}

func (s *mapStore) Load(_ context.Context, key string, dest any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return false, s.loadErr
	}
	b, ok := s.docs[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (s *mapStore) Save(_ context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.docs[key] = b
	s.saves++
	return nil
}

type recordingSink struct {
	calls []sinkCall
	err   error
}

type sinkCall struct {
	recipients []string
	subject    string
	body       string
}

func (r *recordingSink) Notify(_ context.Context, recipients []string, subject, body string) error {
	r.calls = append(r.calls, sinkCall{recipients: recipients, subject: subject, body: body})
	return r.err
}

var errBoom = errors.New("boom")

func newTestInventory(opts ...Option) *Inventory {
	base := []Option{WithClock(steppingClock(testEpoch, time.Second))}
	return NewInventory(append(base, opts...)...)
}

func receivePPWhite(t *testing.T, inv *Inventory, po string, weight string) RawMaterial {
	t.Helper()
	lot, err := inv.ReceiveRawMaterial(context.Background(), NewRawMaterial{
		PoNumber:       po,
		RawMaterial:    "PP White",
		Vendor:         "EFS Plastics",
		BagsReceived:   4,
		StartingWeight: dec(weight),
	})
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	return lot
}

func produceBundles(t *testing.T, inv *Inventory, n int) FinishedGood {
	t.Helper()
	lot, err := inv.ProduceFinishedGood(context.Background(), NewFinishedGood{
		LeadHandName:    "Sam",
		Product:         ProductEnviroshake,
		Colour:          "Cedar Blend",
		Type:            LotTypeBundle,
		Shift:           "First",
		NumberOfBundles: n,
	})
	if err != nil {
		t.Fatalf("produce: %v", err)
	}
	return lot
}
