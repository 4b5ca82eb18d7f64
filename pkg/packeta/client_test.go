package packeta

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yeezuz2020/store-api/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.PacketaConfig{
		BaseURL:     server.URL,
		APIPassword: "test-password",
		SenderLabel: "yeezuz-eshop",
	}, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestCreateShipmentSuccess(t *testing.T) {
	var requestBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		requestBody = string(raw)
		w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>
<response><status>ok</status><result><id>123456</id><barcode>Z1234567890</barcode></result></response>`))
	})

	shipment, err := client.CreateShipment(context.Background(), ShipmentRequest{
		OrderNumber:   "YZ-2026-0001",
		FirstName:     "Jan",
		LastName:      "Novák",
		Email:         "jan@example.com",
		Phone:         "+420123456789",
		PickupPointID: "79",
		CODCents:      0,
		ValueCents:    250000,
		WeightGrams:   1000,
	})
	if err != nil {
		t.Fatalf("create shipment: %v", err)
	}
	if shipment.ID != "123456" || shipment.Barcode != "Z1234567890" {
		t.Fatalf("unexpected shipment %+v", shipment)
	}

	for _, fragment := range []string{
		"<createPacket>",
		"<apiPassword>test-password</apiPassword>",
		"<number>YZ-2026-0001</number>",
		"<surname>Novák</surname>",
		"<addressId>79</addressId>",
		"<cod>0</cod>",
		"<value>2500</value>",
		"<weight>1</weight>",
		"<eshop>yeezuz-eshop</eshop>",
	} {
		if !strings.Contains(requestBody, fragment) {
			t.Fatalf("request body missing %q:\n%s", fragment, requestBody)
		}
	}
}

func TestCreateShipmentFault(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<response><status>fault</status><fault>IncorrectApiPassword</fault><string>Incorrect API password.</string></response>`))
	})

	_, err := client.CreateShipment(context.Background(), ShipmentRequest{
		OrderNumber:   "1",
		Email:         "a@b.cz",
		PickupPointID: "79",
	})
	if err == nil {
		t.Fatalf("expected fault error")
	}
	if !IsFault(err) {
		t.Fatalf("expected typed fault, got %v", err)
	}
	var fault *FaultError
	if !errors.As(err, &fault) || fault.Fault != "IncorrectApiPassword" {
		t.Fatalf("unexpected fault payload %v", err)
	}
}

func TestCreateShipmentRequiresPickupPoint(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("no request expected")
	})

	_, err := client.CreateShipment(context.Background(), ShipmentRequest{Email: "a@b.cz"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLabelsPDFDecodesDocument(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake")
	var requestBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		requestBody = string(raw)
		w.Write([]byte(`<response><status>ok</status><result>` +
			base64.StdEncoding.EncodeToString(pdf) + `</result></response>`))
	})

	got, err := client.LabelsPDF(context.Background(), []string{"1", "2"}, "")
	if err != nil {
		t.Fatalf("labels pdf: %v", err)
	}
	if string(got) != string(pdf) {
		t.Fatalf("unexpected pdf payload %q", got)
	}
	for _, fragment := range []string{"<packetsLabelsPdf>", "<id>1</id>", "<id>2</id>", "<format>A6 on A4</format>"} {
		if !strings.Contains(requestBody, fragment) {
			t.Fatalf("request body missing %q:\n%s", fragment, requestBody)
		}
	}
}

func TestLabelsPDFRequiresIDs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("no request expected")
	})
	if _, err := client.LabelsPDF(context.Background(), nil, ""); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestPacketStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<response><status>ok</status><result><statusCode>7</statusCode><statusText>handed over</statusText><branchId>79</branchId><invoicedWeightGrams>950</invoicedWeightGrams></result></response>`))
	})

	info, err := client.PacketStatus(context.Background(), "123456")
	if err != nil {
		t.Fatalf("packet status: %v", err)
	}
	if info.StatusCode != 7 || info.BranchID != "79" || info.StatusText != "handed over" {
		t.Fatalf("unexpected tracking info %+v", info)
	}
}

func TestHTTPErrorSurfaced(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	if _, err := client.PacketStatus(context.Background(), "1"); err == nil {
		t.Fatalf("expected http error")
	}
}
