// Package packeta implements the Packeta (Zásilkovna) REST XML API surface the
// store uses: shipment creation, label PDF generation and shipment status.
// Requests are typed structs serialized through encoding/xml; responses are
// decoded into tagged success/fault variants, never scraped from raw text.
package packeta

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yeezuz2020/store-api/pkg/config"
	pkgerrors "github.com/yeezuz2020/store-api/pkg/errors"
)

const (
	responseBodyReadLimit int64 = 10 << 20 // label sheets are base64 PDFs

	statusOK    = "ok"
	statusFault = "fault"

	// DefaultLabelFormat prints four A6 labels per A4 sheet.
	DefaultLabelFormat = "A6 on A4"
)

var errAPIPasswordRequired = errors.New("packeta api password is required")

// FaultError is the typed form of a <status>fault</status> response.
type FaultError struct {
	Fault   string
	Message string
}

func (e *FaultError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("packeta fault %s", e.Fault)
	}
	return fmt.Sprintf("packeta fault %s: %s", e.Fault, e.Message)
}

// IsFault reports whether err (or its chain) is a Packeta fault response.
func IsFault(err error) bool {
	var fault *FaultError
	return errors.As(err, &fault)
}

// Client talks to the Packeta REST endpoint.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiPassword string
	senderLabel string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured REST base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds a Packeta client from configuration.
func NewClient(cfg config.PacketaConfig, opts ...Option) (*Client, error) {
	password := strings.TrimSpace(cfg.APIPassword)
	if password == "" {
		return nil, errAPIPasswordRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimSpace(cfg.BaseURL),
		apiPassword: password,
		senderLabel: strings.TrimSpace(cfg.SenderLabel),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.baseURL == "" {
		return nil, errors.New("packeta base url is required")
	}

	return client, nil
}

// ShipmentRequest carries the order data Packeta needs for a pickup-point
// shipment. Money fields are integer minor units; weight is grams.
type ShipmentRequest struct {
	OrderNumber   string
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	PickupPointID string
	CODCents      int
	ValueCents    int
	WeightGrams   int
}

// Shipment identifies a created packet at the provider.
type Shipment struct {
	ID      string
	Barcode string
}

// TrackingInfo is the subset of packetStatus the admin UI displays.
type TrackingInfo struct {
	PacketID            string
	StatusCode          int
	StatusText          string
	BranchID            string
	InvoicedWeightGrams string
}

type createPacketRequest struct {
	XMLName     xml.Name         `xml:"createPacket"`
	APIPassword string           `xml:"apiPassword"`
	Attributes  packetAttributes `xml:"packetAttributes"`
}

type packetAttributes struct {
	Number       string `xml:"number"`
	Name         string `xml:"name"`
	Surname      string `xml:"surname"`
	Email        string `xml:"email"`
	Phone        string `xml:"phone,omitempty"`
	AddressID    string `xml:"addressId"`
	COD          string `xml:"cod"`
	Value        string `xml:"value"`
	Weight       string `xml:"weight"`
	Eshop        string `xml:"eshop,omitempty"`
	AdultContent int    `xml:"adultContent"`
}

type labelsPDFRequest struct {
	XMLName     xml.Name  `xml:"packetsLabelsPdf"`
	APIPassword string    `xml:"apiPassword"`
	PacketIDs   packetIDs `xml:"packetIds"`
	Format      string    `xml:"format"`
	Offset      int       `xml:"offset"`
}

type packetIDs struct {
	IDs []string `xml:"id"`
}

type packetStatusRequest struct {
	XMLName     xml.Name `xml:"packetStatus"`
	APIPassword string   `xml:"apiPassword"`
	PacketID    string   `xml:"packetId"`
}

type createPacketResponse struct {
	XMLName     xml.Name `xml:"response"`
	Status      string   `xml:"status"`
	Fault       string   `xml:"fault"`
	FaultString string   `xml:"string"`
	Result      struct {
		ID      string `xml:"id"`
		Barcode string `xml:"barcode"`
	} `xml:"result"`
}

type labelsPDFResponse struct {
	XMLName     xml.Name `xml:"response"`
	Status      string   `xml:"status"`
	Fault       string   `xml:"fault"`
	FaultString string   `xml:"string"`
	Result      string   `xml:"result"`
}

type packetStatusResponse struct {
	XMLName     xml.Name `xml:"response"`
	Status      string   `xml:"status"`
	Fault       string   `xml:"fault"`
	FaultString string   `xml:"string"`
	Result      struct {
		StatusCode          int    `xml:"statusCode"`
		StatusText          string `xml:"statusText"`
		BranchID            string `xml:"branchId"`
		InvoicedWeightGrams string `xml:"invoicedWeightGrams"`
	} `xml:"result"`
}

// CreateShipment registers a new packet and returns its id and barcode.
func (c *Client) CreateShipment(ctx context.Context, req ShipmentRequest) (*Shipment, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "packeta client not configured")
	}
	if strings.TrimSpace(req.PickupPointID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pickup point id is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}

	payload := createPacketRequest{
		APIPassword: c.apiPassword,
		Attributes: packetAttributes{
			Number:       req.OrderNumber,
			Name:         req.FirstName,
			Surname:      req.LastName,
			Email:        req.Email,
			Phone:        req.Phone,
			AddressID:    req.PickupPointID,
			COD:          majorUnits(req.CODCents),
			Value:        majorUnits(req.ValueCents),
			Weight:       kilograms(req.WeightGrams),
			Eshop:        c.senderLabel,
			AdultContent: 0,
		},
	}

	var decoded createPacketResponse
	if err := c.post(ctx, payload, &decoded); err != nil {
		return nil, err
	}
	if err := faultOf(decoded.Status, decoded.Fault, decoded.FaultString); err != nil {
		return nil, err
	}
	if decoded.Result.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "packeta response missing packet id")
	}

	barcode := decoded.Result.Barcode
	if barcode == "" {
		barcode = decoded.Result.ID
	}
	return &Shipment{ID: decoded.Result.ID, Barcode: barcode}, nil
}

// LabelsPDF fetches one printable PDF containing labels for every given packet
// id. The provider returns the document base64-encoded inside the result node.
func (c *Client) LabelsPDF(ctx context.Context, packetIDList []string, format string) ([]byte, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "packeta client not configured")
	}
	if len(packetIDList) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one packet id is required")
	}
	if strings.TrimSpace(format) == "" {
		format = DefaultLabelFormat
	}

	payload := labelsPDFRequest{
		APIPassword: c.apiPassword,
		PacketIDs:   packetIDs{IDs: packetIDList},
		Format:      format,
		Offset:      0,
	}

	var decoded labelsPDFResponse
	if err := c.post(ctx, payload, &decoded); err != nil {
		return nil, err
	}
	if err := faultOf(decoded.Status, decoded.Fault, decoded.FaultString); err != nil {
		return nil, err
	}

	pdf, err := base64.StdEncoding.DecodeString(strings.TrimSpace(decoded.Result))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode label pdf")
	}
	if len(pdf) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "packeta returned empty label document")
	}
	return pdf, nil
}

// PacketStatus fetches tracking info for one packet.
func (c *Client) PacketStatus(ctx context.Context, packetID string) (*TrackingInfo, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "packeta client not configured")
	}
	if strings.TrimSpace(packetID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "packet id is required")
	}

	payload := packetStatusRequest{
		APIPassword: c.apiPassword,
		PacketID:    packetID,
	}

	var decoded packetStatusResponse
	if err := c.post(ctx, payload, &decoded); err != nil {
		return nil, err
	}
	if err := faultOf(decoded.Status, decoded.Fault, decoded.FaultString); err != nil {
		return nil, err
	}

	return &TrackingInfo{
		PacketID:            packetID,
		StatusCode:          decoded.Result.StatusCode,
		StatusText:          decoded.Result.StatusText,
		BranchID:            decoded.Result.BranchID,
		InvoicedWeightGrams: decoded.Result.InvoicedWeightGrams,
	}, nil
}

func (c *Client) post(ctx context.Context, payload any, dest any) error {
	body, err := xml.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal packeta request")
	}

	buf := bytes.NewBufferString(xml.Header)
	buf.Write(body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, buf)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build packeta request")
	}
	httpReq.Header.Set("Content-Type", "application/xml")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call packeta")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read packeta response")
	}
	if resp.StatusCode != http.StatusOK {
		return pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("packeta returned http %d", resp.StatusCode))
	}

	if err := xml.Unmarshal(raw, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode packeta response")
	}
	return nil
}

func faultOf(status, fault, message string) error {
	if status == statusOK {
		return nil
	}
	if status == statusFault {
		return pkgerrors.Wrap(pkgerrors.CodeDependency,
			&FaultError{Fault: fault, Message: message}, "packeta request rejected")
	}
	return pkgerrors.New(pkgerrors.CodeDependency,
		fmt.Sprintf("unexpected packeta status %q", status))
}

// majorUnits renders minor units as the decimal string Packeta expects.
func majorUnits(minor int) string {
	return decimal.New(int64(minor), -2).String()
}

// kilograms renders grams as a decimal kilogram string.
func kilograms(grams int) string {
	return decimal.New(int64(grams), -3).String()
}
