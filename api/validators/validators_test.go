package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/yeezuz2020/store-api/pkg/errors"
)

type patchOrderBody struct {
	Status string `json:"status" validate:"required"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	r := httptest.NewRequest("PATCH", "/orders/1", strings.NewReader(`{"status":""}`))
	var body patchOrderBody
	err := DecodeJSONBody(r, &body)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("PATCH", "/orders/1", strings.NewReader(`{"status":"shipped","bogus":1}`))
	var body patchOrderBody
	if err := DecodeJSONBody(r, &body); err == nil {
		t.Fatalf("expected unknown field rejection")
	}
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/orders?limit=30", nil)
	v, err := ParseQueryInt(r, "limit", 25, 1, 100)
	if err != nil || v != 30 {
		t.Fatalf("got %d, %v", v, err)
	}

	r = httptest.NewRequest("GET", "/orders", nil)
	v, err = ParseQueryInt(r, "limit", 25, 1, 100)
	if err != nil || v != 25 {
		t.Fatalf("default got %d, %v", v, err)
	}

	r = httptest.NewRequest("GET", "/orders?limit=900", nil)
	if _, err = ParseQueryInt(r, "limit", 25, 1, 100); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestParseQueryDate(t *testing.T) {
	r := httptest.NewRequest("GET", "/labels?date=2025-06-01", nil)
	day, ok, err := ParseQueryDate(r, "date")
	if err != nil || !ok {
		t.Fatalf("parse: %v", err)
	}
	if day.Year() != 2025 || day.Month() != 6 || day.Day() != 1 {
		t.Fatalf("unexpected day %v", day)
	}

	r = httptest.NewRequest("GET", "/labels", nil)
	if _, ok, err := ParseQueryDate(r, "date"); err != nil || ok {
		t.Fatalf("expected absent date, got ok=%v err=%v", ok, err)
	}

	r = httptest.NewRequest("GET", "/labels?date=junk", nil)
	if _, _, err := ParseQueryDate(r, "date"); err == nil {
		t.Fatalf("expected format error")
	}
}
