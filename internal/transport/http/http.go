package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/feastly/api/internal/service/models/identity"
	"github.com/feastly/api/internal/service/models/order"
	"github.com/feastly/api/internal/service/models/restaurant"
	"github.com/feastly/api/internal/service/models/session"
	"github.com/feastly/api/internal/service/models/user"
	cancelorder "github.com/feastly/api/internal/transport/http/cancel_order"
	clearuserorders "github.com/feastly/api/internal/transport/http/clear_user_orders"
	createorder "github.com/feastly/api/internal/transport/http/create_order"
	deleteorder "github.com/feastly/api/internal/transport/http/delete_order"
	getorder "github.com/feastly/api/internal/transport/http/get_order"
	getrestaurant "github.com/feastly/api/internal/transport/http/get_restaurant"
	listrestaurants "github.com/feastly/api/internal/transport/http/list_restaurants"
	listuserorders "github.com/feastly/api/internal/transport/http/list_user_orders"
	"github.com/feastly/api/internal/transport/http/login"
	"github.com/feastly/api/internal/transport/http/logout"
	identitymw "github.com/feastly/api/internal/transport/http/middleware/identity"
	"github.com/feastly/api/internal/transport/http/register"
	tracemw "github.com/feastly/api/pkg/http/middleware/trace"
	"github.com/feastly/api/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
)

type orderService interface {
	PlaceOrder(ctx context.Context, ident *identity.Identity, o order.Order) (order.Order, error)
	GetOrder(ctx context.Context, ident *identity.Identity, id string) (*order.Order, error)
	ListUserOrders(ctx context.Context, ident *identity.Identity) ([]order.Order, error)
	CancelOrder(ctx context.Context, ident *identity.Identity, id string) (*order.Order, error)
	DeleteOrder(ctx context.Context, ident *identity.Identity, id string) error
	ClearUserOrders(ctx context.Context, ident *identity.Identity) (int, error)
}

type restaurantService interface {
	ListRestaurants(ctx context.Context, filter *restaurant.QueryRestaurantsModel) ([]restaurant.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*restaurant.Restaurant, error)
}

type authService interface {
	Register(ctx context.Context, email, name, password string) (user.User, error)
	Login(ctx context.Context, email, password string) (session.Session, error)
	Logout(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (*identity.Identity, error)
	SessionTTL() time.Duration
}

type HTTPTransport struct {
	server        *http.Server
	router        *chi.Mux
	orderSvc      orderService
	restaurantSvc restaurantService
	authSvc       authService
}

func NewHTTPTransport(orderSvc orderService, restaurantSvc restaurantService, authSvc authService) *HTTPTransport {
	router := newRouter(authSvc)
	server := newServer(router)

	return &HTTPTransport{
		server:        server,
		router:        router,
		orderSvc:      orderSvc,
		restaurantSvc: restaurantSvc,
		authSvc:       authSvc,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Post("/logout", h.logout)
		})

		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", h.listRestaurants)
			r.Get("/{id}", h.getRestaurant)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.createOrder)
			r.Get("/user", h.listUserOrders)
			r.Delete("/user", h.clearUserOrders)
			r.Get("/{id}", h.getOrder)
			r.Delete("/{id}", h.deleteOrder)
			r.Post("/{id}/cancel", h.cancelOrder)
		})
	})
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	getorder.GetOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) deleteOrder(w http.ResponseWriter, r *http.Request) {
	deleteorder.DeleteOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) cancelOrder(w http.ResponseWriter, r *http.Request) {
	cancelorder.CancelOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) listUserOrders(w http.ResponseWriter, r *http.Request) {
	listuserorders.ListUserOrders(w, r, h.orderSvc)
}

func (h *HTTPTransport) clearUserOrders(w http.ResponseWriter, r *http.Request) {
	clearuserorders.ClearUserOrders(w, r, h.orderSvc)
}

func (h *HTTPTransport) listRestaurants(w http.ResponseWriter, r *http.Request) {
	listrestaurants.ListRestaurants(w, r, h.restaurantSvc)
}

func (h *HTTPTransport) getRestaurant(w http.ResponseWriter, r *http.Request) {
	getrestaurant.GetRestaurant(w, r, h.restaurantSvc)
}

func (h *HTTPTransport) register(w http.ResponseWriter, r *http.Request) {
	register.Register(w, r, h.authSvc)
}

func (h *HTTPTransport) login(w http.ResponseWriter, r *http.Request) {
	login.Login(w, r, h.authSvc)
}

func (h *HTTPTransport) logout(w http.ResponseWriter, r *http.Request) {
	logout.Logout(w, r, h.authSvc)
}

func newRouter(authSvc authService) *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(tracemw.NewTraceMiddleware)

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
	router.Use(identitymw.NewIdentityMiddleware(authSvc))

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
