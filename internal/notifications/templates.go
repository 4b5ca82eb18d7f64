package notifications

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/yeezuz2020/store-api/pkg/db/models"
	"github.com/yeezuz2020/store-api/pkg/enums"
	"github.com/yeezuz2020/store-api/pkg/money"
)

// statusSubjects maps fulfillment statuses to the Czech subject line used in
// the status-update email. Unknown statuses fall back to a generic subject.
var statusSubjects = map[enums.OrderStatus]string{
	enums.OrderStatusProcessing: "Vaše objednávka se zpracovává",
	enums.OrderStatusShipped:    "Vaše objednávka byla odeslána",
	enums.OrderStatusDelivered:  "Vaše objednávka byla doručena",
	enums.OrderStatusCancelled:  "Vaše objednávka byla zrušena",
}

const genericStatusSubject = "Změna stavu objednávky"

var confirmationTmpl = template.Must(template.New("order_confirmation").Parse(`
<div style="font-family:Helvetica,Arial,sans-serif;max-width:600px;margin:0 auto">
  <h1 style="letter-spacing:4px">YEEZUZ</h1>
  <h2>Děkujeme za vaši objednávku!</h2>
  <p>Ahoj {{.CustomerName}}, objednávku <strong>#{{.OrderNumber}}</strong> z {{.OrderDate}} jsme přijali.</p>
  <table style="width:100%;border-collapse:collapse">
    {{range .Items}}
    <tr>
      <td style="padding:8px 0">{{.Name}}{{if .Variant}} ({{.Variant}}){{end}} &times; {{.Quantity}}</td>
      <td style="text-align:right">{{.Price}}</td>
    </tr>
    {{end}}
  </table>
  <hr>
  <p>Mezisoučet: {{.Subtotal}}<br>
  Doprava: {{.Shipping}}<br>
  <strong>Celkem: {{.Total}}</strong></p>
  {{if .PickupPoint}}<p>Výdejní místo Zásilkovny: {{.PickupPoint}}</p>{{end}}
  {{if .ShippingAddress}}<p>Doručovací adresa: {{.ShippingAddress}}</p>{{end}}
</div>
`))

var statusUpdateTmpl = template.Must(template.New("order_status_update").Parse(`
<div style="font-family:Helvetica,Arial,sans-serif;max-width:600px;margin:0 auto">
  <h1 style="letter-spacing:4px">YEEZUZ</h1>
  <h2>{{.Headline}}</h2>
  <p>Ahoj {{.CustomerName}}, stav objednávky <strong>#{{.OrderNumber}}</strong> se změnil.</p>
  {{if .TrackingNumber}}
  <p>Číslo zásilky: <strong>{{.TrackingNumber}}</strong><br>
  {{if .TrackingURL}}<a href="{{.TrackingURL}}">Sledovat zásilku</a>{{end}}</p>
  {{end}}
  {{if .Message}}<p>{{.Message}}</p>{{end}}
</div>
`))

type confirmationItem struct {
	Name     string
	Variant  string
	Quantity int
	Price    string
}

type confirmationData struct {
	OrderNumber     string
	CustomerName    string
	OrderDate       string
	Items           []confirmationItem
	Subtotal        string
	Shipping        string
	Total           string
	PickupPoint     string
	ShippingAddress string
}

type statusUpdateData struct {
	Headline       string
	OrderNumber    string
	CustomerName   string
	TrackingNumber string
	TrackingURL    string
	Message        string
}

func orderNumber(order *models.Order) string {
	if order.OrderNumber != "" {
		return order.OrderNumber
	}
	return strings.Split(order.ID.String(), "-")[0]
}

func confirmationSubject(order *models.Order) string {
	return fmt.Sprintf("Potvrzení objednávky #%s - Yeezuz Store", orderNumber(order))
}

func statusSubject(order *models.Order, status enums.OrderStatus) string {
	label, ok := statusSubjects[status]
	if !ok {
		label = genericStatusSubject
	}
	return fmt.Sprintf("%s - Objednávka #%s", label, orderNumber(order))
}

func renderConfirmation(order *models.Order) (string, error) {
	data := confirmationData{
		OrderNumber:  orderNumber(order),
		CustomerName: order.CustomerName,
		OrderDate:    order.CreatedAt.Format("2.1.2006"),
		Subtotal:     money.FormatCZK(order.SubtotalCents),
		Total:        money.FormatCZK(order.TotalCents),
	}
	if order.ShippingCents == 0 {
		data.Shipping = "ZDARMA"
	} else {
		data.Shipping = money.FormatCZK(order.ShippingCents)
	}
	for _, item := range order.Items {
		data.Items = append(data.Items, confirmationItem{
			Name:     item.ProductName,
			Variant:  item.VariantLabel,
			Quantity: item.Quantity,
			Price:    money.FormatCZK(item.UnitPriceCents * item.Quantity),
		})
	}
	if order.HasPickupPoint() && order.PacketaPickupName != nil {
		data.PickupPoint = *order.PacketaPickupName
	} else if order.ShippingAddress != nil {
		data.ShippingAddress = *order.ShippingAddress
	}

	var buf strings.Builder
	if err := confirmationTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render confirmation: %w", err)
	}
	return buf.String(), nil
}

func renderStatusUpdate(order *models.Order, status enums.OrderStatus, message string) (string, error) {
	headline, ok := statusSubjects[status]
	if !ok {
		headline = genericStatusSubject
	}
	data := statusUpdateData{
		Headline:     headline,
		OrderNumber:  orderNumber(order),
		CustomerName: order.CustomerName,
		Message:      message,
	}
	if status == enums.OrderStatusShipped && order.PacketaTrackingNumber != nil {
		data.TrackingNumber = *order.PacketaTrackingNumber
		data.TrackingURL = "https://tracking.packeta.com/cs/?id=" + *order.PacketaTrackingNumber
	}

	var buf strings.Builder
	if err := statusUpdateTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render status update: %w", err)
	}
	return buf.String(), nil
}
