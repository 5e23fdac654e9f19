package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/joyalure/joyalure-backend/api/routes"
	"github.com/joyalure/joyalure-backend/internal/auth"
	"github.com/joyalure/joyalure-backend/internal/blog"
	"github.com/joyalure/joyalure-backend/internal/campaigns"
	"github.com/joyalure/joyalure-backend/internal/cart"
	"github.com/joyalure/joyalure-backend/internal/categories"
	"github.com/joyalure/joyalure-backend/internal/checkout"
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
	"github.com/joyalure/joyalure-backend/pkg/db"
	"github.com/joyalure/joyalure-backend/pkg/email"
	"github.com/joyalure/joyalure-backend/pkg/logger"
	"github.com/joyalure/joyalure-backend/pkg/migrate"
	"github.com/joyalure/joyalure-backend/pkg/redis"
	"github.com/joyalure/joyalure-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	storageClient, err := gcs.NewClient(context.Background(), cfg.Storage, cfg.GCP, logg)
	requireResource(logg, "object storage", err)
	defer func() {
		if err := storageClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing object storage", err)
		}
	}()

	emailClient, err := email.New(cfg.Email)
	requireResource(logg, "email", err)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(logg, "session manager", err)

	profileRepo := users.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	categoryRepo := categories.NewRepository(dbClient.DB())
	inventoryRepo := inventory.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	wishlistRepo := wishlist.NewRepository(dbClient.DB())
	voucherRepo := vouchers.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	subscriberRepo := newsletter.NewRepository(dbClient.DB())
	contactRepo := contact.NewRepository(dbClient.DB())
	templateRepo := templates.NewRepository(dbClient.DB())
	campaignRepo := campaigns.NewRepository(dbClient.DB())
	postRepo := blog.NewRepository(dbClient.DB())
	settingsRepo := settings.NewRepository(dbClient.DB())
	mediaRepo := media.NewRepository(dbClient.DB())

	settingsService, err := settings.NewService(settings.ServiceParams{
		Repo:  settingsRepo,
		Cache: redisClient,
	})
	requireResource(logg, "settings service", err)

	authService, err := auth.NewService(auth.ServiceParams{
		ProfileRepo:    profileRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	requireResource(logg, "auth service", err)

	usersService, err := users.NewService(users.ServiceParams{Repo: profileRepo})
	requireResource(logg, "users service", err)

	productsService, err := products.NewService(products.ServiceParams{
		Repo:     productRepo,
		Settings: settingsService,
	})
	requireResource(logg, "products service", err)

	categoriesService, err := categories.NewService(categories.ServiceParams{Repo: categoryRepo})
	requireResource(logg, "categories service", err)

	inventoryService, err := inventory.NewService(inventory.ServiceParams{Repo: inventoryRepo})
	requireResource(logg, "inventory service", err)

	cartService, err := cart.NewService(cart.ServiceParams{
		Repo:     cartRepo,
		Products: productRepo,
		Settings: settingsService,
	})
	requireResource(logg, "cart service", err)

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Repo:     wishlistRepo,
		Products: productRepo,
		Settings: settingsService,
	})
	requireResource(logg, "wishlist service", err)

	vouchersService, err := vouchers.NewService(vouchers.ServiceParams{Repo: voucherRepo})
	requireResource(logg, "vouchers service", err)

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:     orderRepo,
		Settings: settingsService,
	})
	requireResource(logg, "orders service", err)

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Tx:       dbClient,
		Stores:   checkout.NewStores(cartRepo, orderRepo, inventoryRepo, voucherRepo),
		Vouchers: vouchersService,
		Settings: settingsService,
	})
	requireResource(logg, "checkout service", err)

	newsletterService, err := newsletter.NewService(newsletter.ServiceParams{Repo: subscriberRepo})
	requireResource(logg, "newsletter service", err)

	contactService, err := contact.NewService(contact.ServiceParams{Repo: contactRepo})
	requireResource(logg, "contact service", err)

	templatesService, err := templates.NewService(templates.ServiceParams{Repo: templateRepo})
	requireResource(logg, "templates service", err)

	campaignsService, err := campaigns.NewService(campaigns.ServiceParams{
		Repo:        campaignRepo,
		Subscribers: subscriberRepo,
		Templates:   templateRepo,
		Sender:      emailClient,
	})
	requireResource(logg, "campaigns service", err)

	blogService, err := blog.NewService(blog.ServiceParams{Repo: postRepo})
	requireResource(logg, "blog service", err)

	mediaService, err := media.NewService(media.ServiceParams{
		Repo: mediaRepo,
		Objects: media.ObjectStores{
			media.SurfaceProductImages: storageClient.BucketHandle(cfg.Storage.ProductImagesBucket),
			media.SurfaceCategories:    storageClient.BucketHandle(cfg.Storage.CategoriesBucket),
			media.SurfaceBlogImages:    storageClient.BucketHandle(cfg.Storage.BlogImagesBucket),
			media.SurfaceAvatars:       storageClient.BucketHandle(cfg.Storage.AvatarsBucket),
		},
		MaxUploadBytes: int64(cfg.Storage.MaxUploadMB) << 20,
	})
	requireResource(logg, "media service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			Redis:    redisClient,
			Sessions: sessionManager,

			Auth:       authService,
			Users:      usersService,
			Products:   productsService,
			Categories: categoriesService,
			Inventory:  inventoryService,
			Cart:       cartService,
			Wishlist:   wishlistService,
			Checkout:   checkoutService,
			Orders:     ordersService,
			Vouchers:   vouchersService,
			Newsletter: newsletterService,
			Contact:    contactService,
			Templates:  templatesService,
			Campaigns:  campaignsService,
			Blog:       blogService,
			Settings:   settingsService,
			Media:      mediaService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to bootstrap "+resource, err)
	os.Exit(1)
}
