package stripe

import (
	"context"
	"testing"

	"github.com/yeezuz2020/store-api/pkg/config"
)

func TestNewClientValidatesConfig(t *testing.T) {
	ctx := context.Background()

	if _, err := NewClient(ctx, config.StripeConfig{Secret: "whsec_x"}, nil); err == nil {
		t.Fatalf("expected missing api key error")
	}
	if _, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_test_x"}, nil); err == nil {
		t.Fatalf("expected missing webhook secret error")
	}
	if _, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_test_x", Secret: "whsec_x", Env: "staging"}, nil); err == nil {
		t.Fatalf("expected invalid env error")
	}
	if _, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_test_x", Secret: "whsec_x", Env: "live"}, nil); err == nil {
		t.Fatalf("expected key/env mismatch error")
	}
}

func TestNewClientSuccess(t *testing.T) {
	client, err := NewClient(context.Background(), config.StripeConfig{
		APIKey: "sk_test_x",
		Secret: "whsec_x",
	}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.Environment() != "test" {
		t.Fatalf("expected test env, got %s", client.Environment())
	}
	if client.SigningSecret() != "whsec_x" {
		t.Fatalf("expected signing secret exposed")
	}
}
