package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	IdentityFirebase = "firebase"
	IdentityJWT      = "jwt"
	IdentityNone     = "none"

	AdminPolicyEnforced = "enforced"
	AdminPolicyOpen     = "open"
)

type Config struct {
	Port string
	Env  string

	MongoURI        string
	DBName          string
	StoreDriver     string
	StoreTimeout    time.Duration
	ShutdownTimeout time.Duration

	IdentityProvider        string
	FirebaseServiceAccount  string
	FirebaseCredentialsFile string
	JWTSecret               string

	StripeSecret    string
	PaymentCurrency string

	AdminPolicy         string
	BootstrapAdminEmail string
}

func (c Config) Development() bool {
	return c.Env == "development"
}

// Load reads .env (if present) and the environment.
func Load() (Config, error) {
	loadDotEnv()
	v := newViper()

	cfg := Config{
		Port:                    getString(v, "PORT"),
		Env:                     strings.ToLower(getString(v, "APP_ENV")),
		MongoURI:                mongoURI(getString(v, "MONGO_URI"), getString(v, "DB_USER"), getString(v, "DB_PASS")),
		DBName:                  getString(v, "DB_NAME"),
		StoreDriver:             strings.ToLower(getString(v, "STORE_DRIVER")),
		StoreTimeout:            getDuration(v, "STORE_TIMEOUT", 5*time.Second),
		ShutdownTimeout:         getDuration(v, "SHUTDOWN_TIMEOUT", 15*time.Second),
		IdentityProvider:        strings.ToLower(getString(v, "IDENTITY_PROVIDER")),
		FirebaseServiceAccount:  getString(v, "FIREBASE_SERVICE_ACCOUNT"),
		FirebaseCredentialsFile: getString(v, "GOOGLE_APPLICATION_CREDENTIALS"),
		JWTSecret:               getString(v, "JWT_SECRET"),
		StripeSecret:            getString(v, "STRIPE_SECRET"),
		PaymentCurrency:         strings.ToLower(getString(v, "PAYMENT_CURRENCY")),
		AdminPolicy:             strings.ToLower(getString(v, "ADMIN_POLICY")),
		BootstrapAdminEmail:     getString(v, "BOOTSTRAP_ADMIN_EMAIL"),
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mongoURI fills the <user> and <password> placeholders of a copied Atlas
// connection string.
func mongoURI(uri, user, pass string) string {
	if user != "" {
		uri = strings.ReplaceAll(uri, "<user>", user)
	}
	if pass != "" {
		uri = strings.ReplaceAll(uri, "<password>", pass)
	}
	return uri
}

func validate(cfg Config) error {
	if cfg.Port == "" {
		return errors.New("PORT is empty")
	}

	switch cfg.StoreDriver {
	case StoreMongo:
		if cfg.MongoURI == "" {
			return errors.New("MONGO_URI is required for the mongo store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMongo, StoreMemory, cfg.StoreDriver)
	}

	switch cfg.IdentityProvider {
	case IdentityFirebase:
		if cfg.FirebaseServiceAccount == "" && cfg.FirebaseCredentialsFile == "" {
			return errors.New("FIREBASE_SERVICE_ACCOUNT or GOOGLE_APPLICATION_CREDENTIALS is required for firebase identity")
		}
	case IdentityJWT:
		if cfg.JWTSecret == "" {
			return errors.New("JWT_SECRET is required for jwt identity")
		}
	case IdentityNone:
	default:
		return fmt.Errorf("IDENTITY_PROVIDER must be one of firebase, jwt, none, got %q", cfg.IdentityProvider)
	}

	if cfg.StripeSecret == "" {
		return errors.New("STRIPE_SECRET is required")
	}
	if len(cfg.PaymentCurrency) != 3 {
		return fmt.Errorf("PAYMENT_CURRENCY must be a 3-letter ISO code, got %q", cfg.PaymentCurrency)
	}

	if cfg.AdminPolicy != AdminPolicyEnforced && cfg.AdminPolicy != AdminPolicyOpen {
		return fmt.Errorf("ADMIN_POLICY must be %q or %q, got %q", AdminPolicyEnforced, AdminPolicyOpen, cfg.AdminPolicy)
	}
	return nil
}
