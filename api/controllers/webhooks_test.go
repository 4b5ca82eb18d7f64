package controllers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v84"

	pkgerrors "github.com/yeezuz2020/store-api/pkg/errors"
)

const webhookTestSecret = "whsec_test_secret"

type stubWebhookService struct {
	handled []string
	err     error
}

func (s *stubWebhookService) HandleEvent(ctx context.Context, event *stripe.Event) error {
	s.handled = append(s.handled, event.ID)
	return s.err
}

type stubStripeSigner struct{}

func (stubStripeSigner) SigningSecret() string { return webhookTestSecret }

func buildSignedEvent(t *testing.T, eventID string, ts time.Time) ([]byte, string) {
	t.Helper()

	intent := &stripe.PaymentIntent{ID: "pi_123", Amount: 250000}
	rawIntent, err := json.Marshal(intent)
	if err != nil {
		t.Fatalf("marshal intent: %v", err)
	}
	event := &stripe.Event{
		ID:         eventID,
		Type:       stripe.EventTypePaymentIntentSucceeded,
		Object:     "event",
		APIVersion: stripe.APIVersion,
		Data:       &stripe.EventData{Raw: rawIntent},
	}
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return payload, stripeSignatureHeader(payload, ts.Unix())
}

func stripeSignatureHeader(payload []byte, ts int64) string {
	mac := hmac.New(sha256.New, []byte(webhookTestSecret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func webhookRequest(payload []byte, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", bytes.NewReader(payload))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	return req
}

func TestStripeWebhook_AcceptsSignedEvent(t *testing.T) {
	payload, header := buildSignedEvent(t, "evt_123", time.Now())
	stub := &stubWebhookService{}
	rec := httptest.NewRecorder()

	StripeWebhook(stub, stubStripeSigner{}, testLogger()).
		ServeHTTP(rec, webhookRequest(payload, header))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"received":true`) {
		t.Fatalf("expected ack body, got %s", rec.Body.String())
	}
	if len(stub.handled) != 1 || stub.handled[0] != "evt_123" {
		t.Fatalf("expected event handed to service, got %v", stub.handled)
	}
}

func TestStripeWebhook_RejectsMissingSignature(t *testing.T) {
	payload, _ := buildSignedEvent(t, "evt_123", time.Now())
	rec := httptest.NewRecorder()
	StripeWebhook(&stubWebhookService{}, stubStripeSigner{}, testLogger()).
		ServeHTTP(rec, webhookRequest(payload, ""))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing signature, got %d", rec.Code)
	}
}

func TestStripeWebhook_RejectsBadSignature(t *testing.T) {
	payload, _ := buildSignedEvent(t, "evt_123", time.Now())
	rec := httptest.NewRecorder()
	StripeWebhook(&stubWebhookService{}, stubStripeSigner{}, testLogger()).
		ServeHTTP(rec, webhookRequest(payload, "t=123,v1=deadbeef"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad signature, got %d", rec.Code)
	}
}

func TestStripeWebhook_StaleTimestampRejected(t *testing.T) {
	payload, header := buildSignedEvent(t, "evt_123", time.Now().Add(-time.Hour))
	rec := httptest.NewRecorder()
	StripeWebhook(&stubWebhookService{}, stubStripeSigner{}, testLogger()).
		ServeHTTP(rec, webhookRequest(payload, header))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for stale signature, got %d", rec.Code)
	}
}

func TestStripeWebhook_InternalFailureIs500(t *testing.T) {
	payload, header := buildSignedEvent(t, "evt_500", time.Now())
	stub := &stubWebhookService{err: pkgerrors.New(pkgerrors.CodeInternal, "persisting order")}
	rec := httptest.NewRecorder()

	StripeWebhook(stub, stubStripeSigner{}, testLogger()).
		ServeHTTP(rec, webhookRequest(payload, header))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 so the sender retries, got %d", rec.Code)
	}
}
