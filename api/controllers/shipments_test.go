package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yeezuz2020/store-api/pkg/db/models"
	pkgerrors "github.com/yeezuz2020/store-api/pkg/errors"
	"github.com/yeezuz2020/store-api/pkg/packeta"
)

type stubShipmentService struct {
	order     *models.Order
	err       error
	createdID uuid.UUID
}

func (s *stubShipmentService) Create(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	s.createdID = orderID
	return s.order, s.err
}

func (s *stubShipmentService) CreateForOrder(ctx context.Context, order *models.Order) error {
	return s.err
}

func (s *stubShipmentService) Track(ctx context.Context, orderID uuid.UUID) (*packeta.TrackingInfo, error) {
	return nil, s.err
}

func TestAdminShipmentCreate_Success(t *testing.T) {
	labelID := "Z100"
	orderID := uuid.New()
	stub := &stubShipmentService{order: &models.Order{ID: orderID, PacketaLabelID: &labelID}}
	handler := AdminShipmentCreate(stub, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/shipments",
		strings.NewReader(`{"orderId":"`+orderID.String()+`"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if stub.createdID != orderID {
		t.Fatalf("created order id = %s, want %s", stub.createdID, orderID)
	}
	var body struct {
		Data models.Order `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data.PacketaLabelID == nil || *body.Data.PacketaLabelID != labelID {
		t.Fatalf("label id = %v, want %s", body.Data.PacketaLabelID, labelID)
	}
}

func TestAdminShipmentCreate_MissingOrderID(t *testing.T) {
	handler := AdminShipmentCreate(&stubShipmentService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/shipments", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAdminShipmentCreate_InvalidOrderID(t *testing.T) {
	handler := AdminShipmentCreate(&stubShipmentService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/shipments",
		strings.NewReader(`{"orderId":"not-a-uuid"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAdminShipmentCreate_OrderNotFound(t *testing.T) {
	stub := &stubShipmentService{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	handler := AdminShipmentCreate(stub, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/shipments",
		strings.NewReader(`{"orderId":"`+uuid.NewString()+`"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestAdminShipmentTrack_RequiresPacketID(t *testing.T) {
	handler := AdminShipmentTrack(&stubPacketStatus{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/shipments/track", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

type stubPacketStatus struct {
	info *packeta.TrackingInfo
	err  error
}

func (s *stubPacketStatus) PacketStatus(ctx context.Context, packetID string) (*packeta.TrackingInfo, error) {
	return s.info, s.err
}

func TestAdminShipmentTrack_Passthrough(t *testing.T) {
	stub := &stubPacketStatus{info: &packeta.TrackingInfo{StatusText: "on the way"}}
	handler := AdminShipmentTrack(stub, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/shipments/track?packetId=Z100", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
