package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/mediswift/order/internal/service/models/order"
	"github.com/mediswift/order/internal/service/models/pharmacy"
	"github.com/mediswift/order/internal/service/models/product"
	"github.com/mediswift/order/internal/service/services/ordersvc"
	createorder "github.com/mediswift/order/internal/transport/http/create_order"
	getorder "github.com/mediswift/order/internal/transport/http/get_order"
	getproduct "github.com/mediswift/order/internal/transport/http/get_product"
	listorders "github.com/mediswift/order/internal/transport/http/list_orders"
	listpharmacies "github.com/mediswift/order/internal/transport/http/list_pharmacies"
	listproducts "github.com/mediswift/order/internal/transport/http/list_products"
	trackorder "github.com/mediswift/order/internal/transport/http/track_order"
	updatestatus "github.com/mediswift/order/internal/transport/http/update_status"
	"github.com/mediswift/order/pkg/http/middleware/trace"
	"github.com/mediswift/order/pkg/logger"
)

type orderService interface {
	CreateOrder(ctx context.Context, m ordersvc.CreateOrderModel) (*order.Order, error)
	GetOrder(ctx context.Context, id string) (*order.Order, error)
	ListOrdersForUser(ctx context.Context, userID string) ([]order.Order, error)
	TrackOrder(ctx context.Context, id string) (*order.Order, error)
	UpdateStatus(ctx context.Context, id string, next order.Status) (*order.Order, error)
	ListPharmacies(ctx context.Context) ([]pharmacy.Pharmacy, error)
}

type catalogService interface {
	ListProducts(ctx context.Context) ([]product.Product, error)
	GetProduct(ctx context.Context, id string) (*product.Product, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	orders  orderService
	catalog catalogService
}

func NewHTTPTransport(orders orderService, catalog catalogService) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:  server,
		router:  router,
		orders:  orders,
		catalog: catalog,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.json")
	})
	h.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	h.router.Route("/api", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Get("/products/{productID}", h.getProduct)
		r.Get("/pharmacies", h.listPharmacies)
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.createOrder)
			r.Get("/", h.listOrders)
			r.Get("/{orderID}", h.getOrder)
			r.Get("/{orderID}/tracking", h.trackOrder)
			r.Patch("/{orderID}/status", h.updateStatus)
		})
	})
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.orders)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.orders)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	getorder.GetOrder(w, r, h.orders)
}

func (h *HTTPTransport) trackOrder(w http.ResponseWriter, r *http.Request) {
	trackorder.TrackOrder(w, r, h.orders)
}

func (h *HTTPTransport) updateStatus(w http.ResponseWriter, r *http.Request) {
	updatestatus.UpdateStatus(w, r, h.orders)
}

func (h *HTTPTransport) listProducts(w http.ResponseWriter, r *http.Request) {
	listproducts.ListProducts(w, r, h.catalog)
}

func (h *HTTPTransport) getProduct(w http.ResponseWriter, r *http.Request) {
	getproduct.GetProduct(w, r, h.catalog)
}

func (h *HTTPTransport) listPharmacies(w http.ResponseWriter, r *http.Request) {
	listpharmacies.ListPharmacies(w, r, h.orders)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(trace.NewTraceMiddleware)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
