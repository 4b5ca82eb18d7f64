package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yeezuz2020/store-api/internal/shipments"
	"github.com/yeezuz2020/store-api/pkg/db/models"
	pkgerrors "github.com/yeezuz2020/store-api/pkg/errors"
)

type stubLabelService struct {
	result  *shipments.BatchResult
	marked  []uuid.UUID
	listDay time.Time
}

func (s *stubLabelService) ListPrintable(ctx context.Context, day time.Time) ([]models.Order, error) {
	s.listDay = day
	return []models.Order{{ID: uuid.New()}}, nil
}

func (s *stubLabelService) BatchPDF(ctx context.Context, input shipments.BatchInput) (*shipments.BatchResult, error) {
	if s.result == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no printable orders")
	}
	return s.result, nil
}

func (s *stubLabelService) MarkPrinted(ctx context.Context, orderIDs []uuid.UUID) error {
	s.marked = orderIDs
	return nil
}

func TestAdminLabelsPrintable_ParsesDate(t *testing.T) {
	stub := &stubLabelService{}
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/labels?date=2026-03-14", nil)
	rec := httptest.NewRecorder()

	AdminLabelsPrintable(stub, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.listDay.Format("2006-01-02") != "2026-03-14" {
		t.Fatalf("expected parsed day, got %v", stub.listDay)
	}
}

func TestAdminLabelsBatch_WritesPDF(t *testing.T) {
	stub := &stubLabelService{result: &shipments.BatchResult{
		PDF:      []byte("%PDF-1.4 fake"),
		Filename: "packeta-labels-2026-03-14.pdf",
	}}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/labels/batch",
		strings.NewReader(`{"date":"2026-03-14"}`))
	rec := httptest.NewRecorder()

	AdminLabelsBatch(stub, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("expected pdf content type, got %q", got)
	}
	if disp := rec.Header().Get("Content-Disposition"); !strings.Contains(disp, "packeta-labels-2026-03-14.pdf") {
		t.Fatalf("expected filename in disposition, got %q", disp)
	}
}

func TestAdminLabelsBatch_EmptySelection(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/labels/batch",
		strings.NewReader(`{"date":"2026-03-14"}`))
	rec := httptest.NewRecorder()

	AdminLabelsBatch(&stubLabelService{}, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when nothing printable, got %d", rec.Code)
	}
}

func TestAdminLabelsBatch_RejectsBadOrderID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/labels/batch",
		strings.NewReader(`{"orderIds":["nope"]}`))
	rec := httptest.NewRecorder()

	AdminLabelsBatch(&stubLabelService{}, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}
}

func TestAdminLabelsMarkPrinted(t *testing.T) {
	stub := &stubLabelService{}
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/labels/mark-printed",
		strings.NewReader(`{"orderIds":["`+id+`"]}`))
	rec := httptest.NewRecorder()

	AdminLabelsMarkPrinted(stub, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(stub.marked) != 1 || stub.marked[0].String() != id {
		t.Fatalf("expected marked ids to pass through, got %v", stub.marked)
	}
}

func TestAdminLabelsMarkPrinted_RequiresIDs(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/labels/mark-printed",
		strings.NewReader(`{"orderIds":[]}`))
	rec := httptest.NewRecorder()

	AdminLabelsMarkPrinted(&stubLabelService{}, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty ids, got %d", rec.Code)
	}
}
