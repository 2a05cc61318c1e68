package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// loadDotEnv reads .env into the process environment. A missing file is
// normal in deployed environments.
func loadDotEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		zap.L().Debug(".env not loaded", zap.Error(err))
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("DB_NAME", "bikeHouse")
	v.SetDefault("STORE_DRIVER", StoreMongo)
	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("IDENTITY_PROVIDER", IdentityFirebase)
	v.SetDefault("PAYMENT_CURRENCY", "usd")
	v.SetDefault("ADMIN_POLICY", AdminPolicyEnforced)
	return v
}

func getString(v *viper.Viper, key string) string {
	return strings.TrimSpace(v.GetString(key))
}

// getDuration reads a duration such as "750ms" or "1m". A bare integer is
// taken as seconds.
func getDuration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	if secs, err := strconv.Atoi(getString(v, key)); err == nil {
		if secs > 0 {
			return time.Duration(secs) * time.Second
		}
		return fallback
	}
	if d := v.GetDuration(key); d > 0 {
		return d
	}
	return fallback
}
