package stripewebhook

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubIdemStore struct {
	keys   map[string]bool
	setErr error
}

func (s *stubIdemStore) Get(ctx context.Context, key string) (string, error) { return "", nil }

func (s *stubIdemStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if s.setErr != nil {
		return false, s.setErr
	}
	if s.keys == nil {
		s.keys = map[string]bool{}
	}
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *stubIdemStore) IdempotencyKey(scope, id string) string { return scope + ":" + id }

func (s *stubIdemStore) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(s.keys, k)
	}
	return nil
}

func TestCheckAndMarkFlagsReplays(t *testing.T) {
	guard, err := NewIdempotencyGuard(&stubIdemStore{}, time.Hour, "stripe-webhook")
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}

	seen, err := guard.CheckAndMark(context.Background(), "evt_1")
	if err != nil || seen {
		t.Fatalf("first delivery: seen=%v err=%v", seen, err)
	}
	seen, err = guard.CheckAndMark(context.Background(), "evt_1")
	if err != nil || !seen {
		t.Fatalf("replay: seen=%v err=%v", seen, err)
	}
}

func TestCheckAndMarkPropagatesStoreErrors(t *testing.T) {
	guard, _ := NewIdempotencyGuard(&stubIdemStore{setErr: errors.New("redis down")}, time.Hour, "stripe-webhook")
	if _, err := guard.CheckAndMark(context.Background(), "evt_1"); err == nil {
		t.Fatalf("expected store error")
	}
}

func TestGuardRequiresEventID(t *testing.T) {
	guard, _ := NewIdempotencyGuard(&stubIdemStore{}, time.Hour, "stripe-webhook")
	if _, err := guard.CheckAndMark(context.Background(), ""); err == nil {
		t.Fatalf("expected event id requirement")
	}
}
