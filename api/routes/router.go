package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stripe/stripe-go/v84"

	"github.com/yeezuz2020/store-api/api/controllers"
	"github.com/yeezuz2020/store-api/api/middleware"
	"github.com/yeezuz2020/store-api/internal/customers"
	"github.com/yeezuz2020/store-api/internal/notifications"
	"github.com/yeezuz2020/store-api/internal/orders"
	"github.com/yeezuz2020/store-api/internal/products"
	"github.com/yeezuz2020/store-api/internal/shipments"
	"github.com/yeezuz2020/store-api/pkg/config"
	"github.com/yeezuz2020/store-api/pkg/db"
	"github.com/yeezuz2020/store-api/pkg/logger"
	"github.com/yeezuz2020/store-api/pkg/metrics"
	"github.com/yeezuz2020/store-api/pkg/packeta"
	"github.com/yeezuz2020/store-api/pkg/redis"
	pkgstripe "github.com/yeezuz2020/store-api/pkg/stripe"
)

type webhookHandler interface {
	HandleEvent(ctx context.Context, event *stripe.Event) error
}

type packetaStatusClient interface {
	PacketStatus(ctx context.Context, packetID string) (*packeta.TrackingInfo, error)
}

// NewRouter wires every HTTP surface of the store API. The Stripe webhook and
// the storefront catalog stay public; /api/admin/v1 sits behind bearer auth.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTP,
	dbPinger db.Pinger,
	redisPinger redis.Pinger,
	stripeClient *pkgstripe.Client,
	packetaClient packetaStatusClient,
	ordersSvc orders.Service,
	productsSvc *products.Service,
	customersSvc *customers.Service,
	emailsSvc notifications.Service,
	shipmentsSvc shipments.Service,
	labelsSvc shipments.LabelService,
	webhookSvc webhookHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(dbPinger, redisPinger, logg))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())

		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/stripe", controllers.StripeWebhook(webhookSvc, stripeClient, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.PublicProducts(productsSvc, logg))
			r.Get("/{productId}", controllers.PublicProductDetail(productsSvc, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.Auth, logg))
		r.Get("/ping", controllers.AdminPing())

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrders(ordersSvc, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(ordersSvc, logg))
			r.Patch("/{orderId}", controllers.AdminOrderStatus(ordersSvc, logg))
			r.Post("/{orderId}/email", controllers.AdminOrderEmail(ordersSvc, emailsSvc, logg))
			r.Get("/{orderId}/tracking", controllers.AdminOrderTracking(shipmentsSvc, logg))
		})

		r.Route("/shipments", func(r chi.Router) {
			r.Post("/", controllers.AdminShipmentCreate(shipmentsSvc, logg))
			r.Get("/track", controllers.AdminShipmentTrack(packetaClient, logg))
		})

		r.Route("/labels", func(r chi.Router) {
			r.Get("/", controllers.AdminLabelsPrintable(labelsSvc, logg))
			r.Post("/batch", controllers.AdminLabelsBatch(labelsSvc, logg))
			r.Post("/mark-printed", controllers.AdminLabelsMarkPrinted(labelsSvc, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProducts(productsSvc, logg))
			r.Post("/", controllers.AdminProductCreate(productsSvc, logg))
			r.Get("/{productId}", controllers.AdminProductDetail(productsSvc, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(productsSvc, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(productsSvc, logg))
			r.Post("/{productId}/variants", controllers.AdminVariantCreate(productsSvc, logg))
			r.Post("/{productId}/images", controllers.AdminImageAdd(productsSvc, logg))
			r.Delete("/{productId}/images/{imageId}", controllers.AdminImageDelete(productsSvc, logg))
			r.Put("/{productId}/images/order", controllers.AdminImagesReorder(productsSvc, logg))
		})
		r.Patch("/variants/{variantId}", controllers.AdminVariantUpdate(productsSvc, logg))
		r.Delete("/variants/{variantId}", controllers.AdminVariantDelete(productsSvc, logg))

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.AdminCustomers(customersSvc, logg))
			r.Get("/{email}", controllers.AdminCustomerDetail(customersSvc, logg))
			r.Get("/{email}/orders", controllers.AdminCustomerOrders(ordersSvc, logg))
		})
	})

	return r
}
