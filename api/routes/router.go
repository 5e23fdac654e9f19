package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joyalure/joyalure-backend/api/controllers"
	"github.com/joyalure/joyalure-backend/api/middleware"
	"github.com/joyalure/joyalure-backend/internal/auth"
	"github.com/joyalure/joyalure-backend/internal/blog"
	"github.com/joyalure/joyalure-backend/internal/campaigns"
	"github.com/joyalure/joyalure-backend/internal/cart"
	"github.com/joyalure/joyalure-backend/internal/categories"
	checkoutsvc "github.com/joyalure/joyalure-backend/internal/checkout"
	"github.com/joyalure/joyalure-backend/internal/contact"
	"github.com/joyalure/joyalure-backend/internal/inventory"
	"github.com/joyalure/joyalure-backend/internal/media"
	"github.com/joyalure/joyalure-backend/internal/newsletter"
	"github.com/joyalure/joyalure-backend/internal/orders"
	"github.com/joyalure/joyalure-backend/internal/products"
	"github.com/joyalure/joyalure-backend/internal/settings"
	"github.com/joyalure/joyalure-backend/internal/templates"
	"github.com/joyalure/joyalure-backend/internal/users"
	"github.com/joyalure/joyalure-backend/internal/vouchers"
	"github.com/joyalure/joyalure-backend/internal/wishlist"
	"github.com/joyalure/joyalure-backend/pkg/auth/session"
	"github.com/joyalure/joyalure-backend/pkg/config"
	"github.com/joyalure/joyalure-backend/pkg/logger"
	"github.com/joyalure/joyalure-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker

	Auth       auth.Service
	Users      users.Service
	Products   products.Service
	Categories categories.Service
	Inventory  inventory.Service
	Cart       cart.Service
	Wishlist   wishlist.Service
	Checkout   checkoutsvc.Service
	Orders     orders.Service
	Vouchers   vouchers.Service
	Newsletter newsletter.Service
	Contact    contact.Service
	Templates  templates.Service
	Campaigns  campaigns.Service
	Blog       blog.Service
	Settings   settings.Service
	Media      media.Service
}

// NewRouter assembles the three surfaces: public storefront, guarded
// customer dashboard, and the admin back office.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", controllers.Ping())

		// Storefront: readable without an account.
		r.Get("/products", controllers.ListCatalog(deps.Products, logg))
		r.Get("/products/{slug}", controllers.GetProductBySlug(deps.Products, logg))
		r.Get("/categories", controllers.ListCategories(deps.Categories, logg))
		r.Get("/categories/{slug}", controllers.GetCategoryBySlug(deps.Categories, logg))
		r.Get("/blog", controllers.ListBlogPosts(deps.Blog, logg))
		r.Get("/blog/{slug}", controllers.GetBlogPost(deps.Blog, logg))
		r.Get("/settings", controllers.GetPublicSettings(deps.Settings, logg))
		r.Post("/newsletter/subscribe", controllers.SubscribeNewsletter(deps.Newsletter, logg))
		r.Post("/newsletter/unsubscribe", controllers.UnsubscribeNewsletter(deps.Newsletter, logg))
		r.Post("/contact", controllers.SubmitContact(deps.Contact, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.Register(deps.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.Login(deps.Auth, logg))
			r.Post("/refresh", controllers.Refresh(deps.Auth, logg))
			r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).Post("/logout", controllers.Logout(deps.Auth, logg))
		})

		// Customer dashboard: every route needs a session.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.Route("/me", func(r chi.Router) {
				r.Get("/", controllers.GetProfile(deps.Users, logg))
				r.Patch("/", controllers.UpdateProfile(deps.Users, logg))
				r.Post("/avatar", controllers.UploadAvatar(deps.Users, deps.Media, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.Cart, logg))
				r.Delete("/", controllers.ClearCart(deps.Cart, logg))
				r.Post("/items", controllers.AddCartItem(deps.Cart, logg))
				r.Post("/items/{productID}/increase", controllers.IncreaseCartItem(deps.Cart, logg))
				r.Post("/items/{productID}/decrease", controllers.DecreaseCartItem(deps.Cart, logg))
				r.Delete("/items/{productID}", controllers.RemoveCartItem(deps.Cart, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.ListWishlist(deps.Wishlist, logg))
				r.Post("/{productID}/toggle", controllers.ToggleWishlist(deps.Wishlist, logg))
				r.Delete("/{productID}", controllers.RemoveWishlistItem(deps.Wishlist, logg))
			})

			r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListMyOrders(deps.Orders, logg))
				r.Get("/{orderID}", controllers.GetMyOrder(deps.Orders, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AdminLogin(deps.Auth, logg))
		})

		// Back office: session plus the admin role.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.RequireRole("admin", logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminListProducts(deps.Products, logg))
				r.Post("/", controllers.AdminCreateProduct(deps.Products, logg))
				r.Get("/{productID}", controllers.AdminGetProduct(deps.Products, logg))
				r.Patch("/{productID}", controllers.AdminUpdateProduct(deps.Products, logg))
				r.Delete("/{productID}", controllers.AdminDeleteProduct(deps.Products, logg))
				r.Post("/{productID}/featured", controllers.AdminSetProductFeatured(deps.Products, logg))
				r.Get("/{productID}/stock", controllers.AdminGetStock(deps.Inventory, logg))
				r.Put("/{productID}/stock", controllers.AdminSetStock(deps.Inventory, logg))
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", controllers.ListCategories(deps.Categories, logg))
				r.Post("/", controllers.AdminCreateCategory(deps.Categories, logg))
				r.Patch("/{categoryID}", controllers.AdminUpdateCategory(deps.Categories, logg))
				r.Delete("/{categoryID}", controllers.AdminDeleteCategory(deps.Categories, logg))
			})

			r.Get("/inventory/low-stock", controllers.AdminLowStock(deps.Inventory, logg))

			r.Get("/customers", controllers.AdminListCustomers(deps.Users, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
				r.Get("/status-counts", controllers.AdminOrderStatusCounts(deps.Orders, logg))
				r.Get("/{orderID}", controllers.AdminGetOrder(deps.Orders, logg))
				r.Patch("/{orderID}/status", controllers.AdminUpdateOrderStatus(deps.Orders, logg))
			})

			r.Route("/vouchers", func(r chi.Router) {
				r.Get("/", controllers.AdminListVouchers(deps.Vouchers, logg))
				r.Post("/", controllers.AdminCreateVoucher(deps.Vouchers, logg))
				r.Patch("/{voucherID}", controllers.AdminUpdateVoucher(deps.Vouchers, logg))
				r.Delete("/{voucherID}", controllers.AdminDeleteVoucher(deps.Vouchers, logg))
			})

			r.Route("/campaigns", func(r chi.Router) {
				r.Get("/", controllers.AdminListCampaigns(deps.Campaigns, logg))
				r.Post("/", controllers.AdminCreateCampaign(deps.Campaigns, logg))
				r.Get("/{campaignID}", controllers.AdminGetCampaign(deps.Campaigns, logg))
				r.Patch("/{campaignID}", controllers.AdminUpdateCampaign(deps.Campaigns, logg))
				r.Delete("/{campaignID}", controllers.AdminDeleteCampaign(deps.Campaigns, logg))
				r.Post("/{campaignID}/schedule", controllers.AdminScheduleCampaign(deps.Campaigns, logg))
				r.Post("/{campaignID}/send", controllers.AdminSendCampaign(deps.Campaigns, logg))
			})

			r.Route("/templates", func(r chi.Router) {
				r.Get("/", controllers.AdminListTemplates(deps.Templates, logg))
				r.Post("/", controllers.AdminCreateTemplate(deps.Templates, logg))
				r.Get("/{templateID}", controllers.AdminGetTemplate(deps.Templates, logg))
				r.Put("/{templateID}", controllers.AdminUpdateTemplate(deps.Templates, logg))
				r.Delete("/{templateID}", controllers.AdminDeleteTemplate(deps.Templates, logg))
			})

			r.Route("/blog", func(r chi.Router) {
				r.Get("/", controllers.AdminListBlogPosts(deps.Blog, logg))
				r.Post("/", controllers.AdminCreateBlogPost(deps.Blog, logg))
				r.Get("/{postID}", controllers.AdminGetBlogPost(deps.Blog, logg))
				r.Patch("/{postID}", controllers.AdminUpdateBlogPost(deps.Blog, logg))
				r.Post("/{postID}/publish", controllers.AdminSetBlogPostPublished(deps.Blog, logg))
				r.Delete("/{postID}", controllers.AdminDeleteBlogPost(deps.Blog, logg))
			})

			r.Route("/media", func(r chi.Router) {
				r.Get("/", controllers.AdminListMedia(deps.Media, logg))
				r.Post("/", controllers.AdminUploadMedia(deps.Media, logg))
				r.Post("/{mediaID}/attach", controllers.AdminAttachMedia(deps.Media, logg))
				r.Delete("/{mediaID}", controllers.AdminDeleteMedia(deps.Media, logg))
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", controllers.AdminGetSettings(deps.Settings, logg))
				r.Patch("/", controllers.AdminUpdateSettings(deps.Settings, logg))
			})

			r.Get("/newsletter/subscribers", controllers.AdminListSubscribers(deps.Newsletter, logg))

			r.Route("/contact", func(r chi.Router) {
				r.Get("/", controllers.AdminListContactRequests(deps.Contact, logg))
				r.Delete("/{requestID}", controllers.AdminDeleteContactRequest(deps.Contact, logg))
			})
		})
	})

	return r
}
