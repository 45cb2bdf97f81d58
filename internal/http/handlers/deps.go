package handlers

import (
	"time"

	"marketbay/internal/domain"
	applog "marketbay/internal/log"
	"marketbay/internal/repos"
	"marketbay/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Auth           *services.AuthService
	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
}

func NewDeps(db *sqlx.DB, auth *services.AuthService) *Deps {
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(db, cartRepo, prodRepo, orderRepo)

	return &Deps{
		Auth:           auth,
		AuthHandler:    &AuthHandler{Auth: auth},
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		OrderHandler:   &OrderHandler{Orders: orderSvc},
	}
}

// Register mounts the API surface; main and the tests share this table.
func (d *Deps) Register(app *fiber.App) {
	api := app.Group("/api")

	// Login is throttled separately from the global limiter.
	loginLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many attempts. Please try again later.",
			})
		},
	})

	authGrp := api.Group("/auth")
	authGrp.Post("/register", d.AuthHandler.Register)
	authGrp.Post("/login", loginLimiter, d.AuthHandler.Login)

	requireAuth := RequireAuth(d.Auth)
	requireAdmin := RequireRoles(domain.RoleAdmin)

	products := api.Group("/products")
	products.Get("/", d.ProductHandler.List)
	products.Get("/:id", d.ProductHandler.Get)
	products.Post("/", requireAuth, requireAdmin, d.ProductHandler.Create)
	products.Put("/:id", requireAuth, requireAdmin, d.ProductHandler.Update)
	products.Delete("/:id", requireAuth, requireAdmin, d.ProductHandler.Delete)

	cart := api.Group("/cart", requireAuth)
	cart.Get("/", d.CartHandler.View)
	cart.Post("/", d.CartHandler.Add)
	cart.Put("/item/:productId", d.CartHandler.UpdateQty)
	cart.Delete("/item/:productId", d.CartHandler.Remove)
	cart.Delete("/clear", d.CartHandler.Clear)

	orders := api.Group("/orders", requireAuth)
	orders.Post("/", d.OrderHandler.Place)
	orders.Get("/", d.OrderHandler.History)
	orders.Get("/:id", d.OrderHandler.View)
	orders.Put("/:id/status", requireAdmin, d.OrderHandler.UpdateStatus)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
}
