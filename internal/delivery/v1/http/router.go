package http

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	_ "github.com/techstore/storefront-backend/docs" // Импорт сгенерированных файлов
	"github.com/techstore/storefront-backend/internal/usecase"
	"github.com/techstore/storefront-backend/pkg/logger"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(catalogUC usecase.CatalogUC, cartUC usecase.CartUC, checkoutUC usecase.CheckoutUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(SessionMiddleware)

		catalogHandler := NewCatalogHandler(catalogUC, r.logger)
		registerCatalogRoutes(v1, catalogHandler)

		cartHandler := NewCartHandler(cartUC, r.logger)
		registerCartRoutes(v1, cartHandler)

		checkoutHandler := NewCheckoutHandler(checkoutUC, r.logger)
		registerCheckoutRoutes(v1, checkoutHandler)
	})
}

func registerCatalogRoutes(router chi.Router, h *CatalogHandler) {
	router.Get("/products", h.listProducts)
	router.Get("/categories", h.listCategories)

	router.Route("/admin/products", func(admin chi.Router) {
		admin.Post("/", h.registerNewProduct)
	})
}

func registerCartRoutes(router chi.Router, h *CartHandler) {
	router.Route("/cart", func(cart chi.Router) {
		cart.Get("/", h.getCart)
		cart.Delete("/", h.clearCart)
		cart.Post("/items", h.addItem)
		cart.Put("/items/{productID}", h.setQuantity)
		cart.Delete("/items/{productID}", h.removeItem)
	})
}

func registerCheckoutRoutes(router chi.Router, h *CheckoutHandler) {
	router.Route("/checkout", func(co chi.Router) {
		co.Get("/", h.checkoutStatus)
		co.Post("/", h.openCheckout)
		co.Delete("/", h.cancelCheckout)
		co.Patch("/form", h.updateField)
		co.Post("/submit", h.submitCheckout)
		co.Post("/retry", h.retryCheckout)
	})
}
