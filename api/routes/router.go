package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kdquach/thetrois-backend/api/controllers"
	cartcontrollers "github.com/kdquach/thetrois-backend/api/controllers/cart"
	ordercontrollers "github.com/kdquach/thetrois-backend/api/controllers/orders"
	"github.com/kdquach/thetrois-backend/api/middleware"
	"github.com/kdquach/thetrois-backend/internal/cart"
	"github.com/kdquach/thetrois-backend/internal/orders"
	"github.com/kdquach/thetrois-backend/pkg/config"
	"github.com/kdquach/thetrois-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	store controllers.Pinger,
	cartService cart.Service,
	orderService orders.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, store))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(cartService, logg))
			r.Post("/", cartcontrollers.CartAddItem(cartService, logg))
			r.Delete("/", cartcontrollers.CartClear(cartService, logg))
			r.Patch("/{itemID}", cartcontrollers.CartUpdateItem(cartService, logg))
			r.Delete("/{itemID}", cartcontrollers.CartRemoveItem(cartService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(orderService, logg))
			r.Post("/", ordercontrollers.Create(orderService, logg))
			r.Get("/{orderID}", ordercontrollers.Detail(orderService, logg))
			r.Get("/{orderID}/logs", ordercontrollers.Logs(orderService, logg))
			r.Patch("/{orderID}/{status}", ordercontrollers.UpdateStatus(orderService, logg))
		})
	})

	return r
}
