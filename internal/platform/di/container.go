// backend/internal/platform/di/container.go
package di

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"

	"boutique/internal/adapters/in/http/middleware"
	"boutique/internal/adapters/in/http/storefront"
	storefrontHandler "boutique/internal/adapters/in/http/storefront/handler"
	pgrepo "boutique/internal/adapters/out/db"
	fsrepo "boutique/internal/adapters/out/firestore"
	gcsrepo "boutique/internal/adapters/out/gcs"
	httpout "boutique/internal/adapters/out/http"
	mailout "boutique/internal/adapters/out/mail"
	usecase "boutique/internal/application/usecase"
	productdom "boutique/internal/domain/product"
	"boutique/internal/infra/config"
	"boutique/internal/infra/database"
	firestoreinfra "boutique/internal/infra/firestore"
)

// Container bundles everything main.go needs: handlers plus the resources
// that must close on shutdown.
type Container struct {
	Catalog  http.Handler
	Cart     http.Handler
	Checkout http.Handler

	// Auth is nil when Firebase init is skipped or fails; the storefront
	// then runs fully anonymous.
	Auth *middleware.OptionalAuth

	fs      *firestoreinfra.ClientWrapper
	db      *database.DB
	gcs     *storage.Client
	cleanup []func()
}

// Close releases held resources (Cloud Run shutdown path).
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	for _, fn := range c.cleanup {
		fn()
	}
	if c.gcs != nil {
		_ = c.gcs.Close()
	}
	if c.db != nil {
		_ = c.db.Close()
	}
	if c.fs != nil {
		_ = c.fs.Close()
	}
	return nil
}

// Build wires repositories, usecases, and handlers from cfg.
//
// Required: Firestore (carts + sessions) and ORDER_SERVICE_URL.
// Optional: Postgres catalog, GCS image resolution, Firebase auth, SendGrid.
func Build(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	c := &Container{}

	// ------------------------------------------------------------
	// 1. External resources
	// ------------------------------------------------------------

	fs, err := firestoreinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("init firestore: %w", err)
	}
	c.fs = fs

	if strings.TrimSpace(cfg.OrderServiceURL) == "" {
		_ = c.Close()
		return nil, nil, fmt.Errorf("ORDER_SERVICE_URL is required")
	}

	// ------------------------------------------------------------
	// 2. Outbound adapters
	// ------------------------------------------------------------

	cartRepo := fsrepo.NewCartRepositoryFS(fs.Client)
	sessionStore := fsrepo.NewSessionStoreFS(fs.Client)

	var productRepo productdom.Repository
	switch strings.ToLower(strings.TrimSpace(cfg.CatalogBackend)) {
	case "postgres":
		db, err := database.NewConnection(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		if err != nil {
			_ = c.Close()
			return nil, nil, fmt.Errorf("init postgres catalog: %w", err)
		}
		c.db = db
		productRepo = pgrepo.NewProductRepositoryPG(db.Client)
		log.Printf("[di] catalog backend: postgres")
	default:
		productRepo = fsrepo.NewProductRepositoryFS(fs.Client)
		log.Printf("[di] catalog backend: firestore")
	}

	var imageResolver usecase.ImageURLResolver
	if bucket := strings.TrimSpace(cfg.GCSBucket); bucket != "" {
		gcsClient, err := storage.NewClient(ctx)
		if err != nil {
			log.Printf("[di] WARN: gcs init failed, serving stored image refs as-is: %v", err)
		} else {
			c.gcs = gcsClient
			imageResolver = gcsrepo.NewProductImageRepositoryGCS(gcsClient, bucket)
		}
	}

	orderClient := httpout.NewOrderClient(cfg.OrderServiceURL)

	var mailer usecase.OrderConfirmationSender
	if from := strings.TrimSpace(cfg.MailFromAddress); from != "" {
		apiKey := strings.TrimSpace(cfg.SendGridAPIKey)
		if apiKey == "" && strings.TrimSpace(cfg.SendGridSecretName) != "" {
			apiKey, err = fetchSecret(ctx, cfg.FirestoreProjectID, cfg.SendGridSecretName)
			if err != nil {
				log.Printf("[di] WARN: sendgrid secret fetch failed, mail disabled: %v", err)
			}
		}
		if apiKey != "" {
			mailer = mailout.NewOrderMailer(mailout.NewSendGridClient(apiKey), from, cfg.StoreName)
			log.Printf("[di] confirmation mail enabled from=%s", from)
		}
	}

	// ------------------------------------------------------------
	// 3. Optional Firebase auth
	// ------------------------------------------------------------

	if prj := strings.TrimSpace(cfg.FirebaseProjectID); prj != "" {
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: prj})
		if err != nil {
			log.Printf("[di] WARN: firebase init failed, auth disabled: %v", err)
		} else if authClient, err := app.Auth(ctx); err != nil {
			log.Printf("[di] WARN: firebase auth init failed, auth disabled: %v", err)
		} else {
			c.Auth = &middleware.OptionalAuth{FirebaseAuth: authClient}
		}
	}

	// ------------------------------------------------------------
	// 4. Usecases
	// ------------------------------------------------------------

	catalogUC := usecase.NewCatalogUsecase(productRepo, imageResolver)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo)
	checkoutUC := usecase.NewCheckoutUsecase(cartRepo, orderClient, sessionStore, mailer)

	// ------------------------------------------------------------
	// 5. Inbound HTTP handlers
	// ------------------------------------------------------------

	c.Catalog = storefrontHandler.NewCatalogHandler(catalogUC)
	c.Cart = storefrontHandler.NewCartHandler(cartUC)
	c.Checkout = storefrontHandler.NewCheckoutHandler(checkoutUC, cfg.CurrencyCode)

	cleanup := func() { _ = c.Close() }
	return c, cleanup, nil
}

// Register mounts the container's handlers onto mux.
func Register(mux *http.ServeMux, c *Container) {
	if mux == nil || c == nil {
		return
	}
	storefront.Register(mux, storefront.Deps{
		Catalog:  c.Catalog,
		Cart:     c.Cart,
		Checkout: c.Checkout,
	})
}
