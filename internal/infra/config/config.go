// backend/internal/infra/config/config.go
package config

import "os"

// Config holds environment configuration for the storefront service.
type Config struct {
	Port string

	// Firestore (carts, sessions, and the default catalog backend)
	FirestoreProjectID       string
	FirestoreCredentialsFile string

	// Firebase Auth (optional; anonymous shopping works without it)
	FirebaseProjectID string

	// Catalog backend: "firestore" (default) or "postgres"
	CatalogBackend string

	// Postgres (only when CatalogBackend == "postgres")
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// GCS (product images; empty bucket disables URL resolution)
	GCSBucket string
	GCPCreds  string

	// External order service
	OrderServiceURL string

	// Display currency for checkout totals (opaque code)
	CurrencyCode string

	// Mail (SendGrid). SendGridSecretName takes effect when the key env is
	// empty: the key is then fetched from Secret Manager.
	SendGridAPIKey     string
	SendGridSecretName string
	MailFromAddress    string
	StoreName          string

	// CORS
	AllowedOrigin string
}

// Load reads environment variables and returns a Config.
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "boutique-storefront-dev")

	return &Config{
		Port: getenvDefault("PORT", "8080"),

		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),

		FirebaseProjectID: getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		CatalogBackend: getenvDefault("CATALOG_BACKEND", "firestore"),

		DBHost:     getenvDefault("DB_HOST", "localhost"),
		DBPort:     getenvDefault("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		GCSBucket: os.Getenv("GCS_BUCKET"),
		GCPCreds:  os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),

		OrderServiceURL: os.Getenv("ORDER_SERVICE_URL"),

		CurrencyCode: getenvDefault("CURRENCY_CODE", "USD"),

		SendGridAPIKey:     os.Getenv("SENDGRID_API_KEY"),
		SendGridSecretName: os.Getenv("SENDGRID_SECRET_NAME"),
		MailFromAddress:    os.Getenv("MAIL_FROM_ADDRESS"),
		StoreName:          getenvDefault("STORE_NAME", "Boutique"),

		AllowedOrigin: getenvDefault("ALLOWED_ORIGIN", "*"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
