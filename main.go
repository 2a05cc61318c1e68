package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"bikehouse/internal/config"
	"bikehouse/internal/database"
	"bikehouse/internal/identity"
	"bikehouse/internal/logger"
	"bikehouse/internal/models"
	"bikehouse/internal/payment"
	"bikehouse/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Development())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error("store close failed", zap.Error(err))
		}
	}()

	if cfg.BootstrapAdminEmail != "" {
		if err := bootstrapAdmin(ctx, store, cfg.BootstrapAdminEmail); err != nil {
			return err
		}
		log.Info("bootstrap admin ready", zap.String("email", cfg.BootstrapAdminEmail))
	}

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info("identity provider", zap.String("provider", cfg.IdentityProvider))

	if cfg.Development() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.New(router.Deps{
		Store:       store,
		Verifier:    verifier,
		Gateway:     payment.NewStripeGateway(cfg.StripeSecret),
		Logger:      log,
		Currency:    cfg.PaymentCurrency,
		AdminPolicy: cfg.AdminPolicy,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("admin_policy", cfg.AdminPolicy))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (*database.Store, error) {
	var store *database.Store

	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Warn("using in-memory store, data is lost on exit")
		store = database.NewMemoryStore()
	default:
		client, err := database.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.DBName)
		log.Info("mongo connected", zap.String("db", db.Name()))

		if err := database.EnsureUserIndexes(ctx, db); err != nil {
			log.Warn("user index warning", zap.Error(err))
		}
		if err := database.EnsureOrderIndexes(ctx, db); err != nil {
			log.Warn("order index warning", zap.Error(err))
		}
		store = database.NewMongoStore(db)
	}

	store.SetTimeout(cfg.StoreTimeout)
	return store, nil
}

func newVerifier(ctx context.Context, cfg config.Config) (identity.Verifier, error) {
	switch cfg.IdentityProvider {
	case config.IdentityFirebase:
		v, err := identity.NewFirebaseVerifier(ctx, cfg.FirebaseServiceAccount, cfg.FirebaseCredentialsFile)
		if err != nil {
			return nil, err
		}
		return v, nil
	case config.IdentityJWT:
		return identity.NewJWTVerifier(cfg.JWTSecret), nil
	default:
		return identity.NoneVerifier{}, nil
	}
}

func bootstrapAdmin(ctx context.Context, store *database.Store, email string) error {
	ctx, cancel := store.WithTimeout(ctx)
	defer cancel()

	_, err := store.Users.UpsertOne(ctx, bson.M{"email": email}, bson.M{"role": models.RoleAdmin})
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	return nil
}
