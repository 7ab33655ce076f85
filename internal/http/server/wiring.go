// Package server construye y cablea el servicio completo a partir de la
// configuración: store, vault, issuer, services, controllers y router.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dropDatabas3/frontdesk/internal/bootstrap"
	"github.com/dropDatabas3/frontdesk/internal/cache"
	memorycache "github.com/dropDatabas3/frontdesk/internal/cache/memory"
	rediscache "github.com/dropDatabas3/frontdesk/internal/cache/redis"
	"github.com/dropDatabas3/frontdesk/internal/config"
	"github.com/dropDatabas3/frontdesk/internal/email"
	agentctrl "github.com/dropDatabas3/frontdesk/internal/http/controllers/agent"
	authctrl "github.com/dropDatabas3/frontdesk/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/frontdesk/internal/http/controllers/health"
	oauthctrl "github.com/dropDatabas3/frontdesk/internal/http/controllers/oauth"
	mw "github.com/dropDatabas3/frontdesk/internal/http/middlewares"
	"github.com/dropDatabas3/frontdesk/internal/http/router"
	authsvc "github.com/dropDatabas3/frontdesk/internal/http/services/auth"
	oauthsvc "github.com/dropDatabas3/frontdesk/internal/http/services/oauth"
	jwtx "github.com/dropDatabas3/frontdesk/internal/jwt"
	"github.com/dropDatabas3/frontdesk/internal/metrics"
	"github.com/dropDatabas3/frontdesk/internal/observability/logger"
	"github.com/dropDatabas3/frontdesk/internal/rate"
	"github.com/dropDatabas3/frontdesk/internal/security/secretbox"
	"github.com/dropDatabas3/frontdesk/internal/square"
	"github.com/dropDatabas3/frontdesk/internal/store/pg"
	"github.com/dropDatabas3/frontdesk/internal/vault"
)

// App es el servicio armado, listo para correr.
type App struct {
	Handler http.Handler
	Store   *pg.Store
	Addr    string

	cleanup []func()
}

// Build construye todas las dependencias a partir de la config.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := metrics.Register(nil); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	// 1. Store (pgxpool)
	store, err := pg.New(ctx, cfg.Storage.DSN, pg.PoolConfig{
		MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Storage.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	app := &App{Store: store, Addr: cfg.Server.Addr}
	app.cleanup = append(app.cleanup, store.Close)

	if err := bootstrap.EnsureBasePlan(ctx, store, cfg.Trial.PlanCode); err != nil {
		store.Close()
		return nil, err
	}

	// 2. Secretbox: clave maestra inyectada, error de deployment si falta
	box, err := secretbox.NewFromBase64(cfg.Security.SecretBoxMasterKey)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("secretbox: %w", err)
	}

	// 3. Issuer ed25519
	issuer, err := jwtx.NewIssuer(cfg.JWT.Issuer, cfg.JWT.SigningKey, cfg.AccessTTL(), cfg.RefreshTTL())
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("jwt issuer: %w", err)
	}
	if cfg.JWT.SigningKey == "" && cfg.App.Env == "production" {
		store.Close()
		return nil, fmt.Errorf("jwt: signing key is required in production")
	}

	// 4. Vault
	v := vault.New(box, store, store)

	// 5. Cache + rate limiter (redis en prod multi-instancia, memoria en dev)
	var loginLimiter rate.Limiter
	if cfg.Rate.Enabled {
		window, err := time.ParseDuration(cfg.Rate.Login.Window)
		if err != nil || window <= 0 {
			window = time.Minute
		}
		limit := cfg.Rate.Login.Limit
		if limit <= 0 {
			limit = 10
		}
		if cfg.Cache.Kind == "redis" {
			constructors := cache.Constructors{
				Memory: func(c cache.Config) cache.Cache { return memorycache.New(c.DefaultTTL) },
				Redis:  func(c cache.Config) cache.Cache { return rediscache.New(c.RedisAddr, c.RedisDB, c.Prefix) },
			}
			rc := constructors.New(cache.Config{
				Kind:      "redis",
				RedisAddr: cfg.Cache.Redis.Addr,
				RedisDB:   cfg.Cache.Redis.DB,
				Prefix:    cfg.Cache.Redis.Prefix,
			})
			if rcache, ok := rc.(*rediscache.Cache); ok {
				loginLimiter = rate.NewRedisLimiter(rcache.Client(), "rate:auth", limit, window)
			}
		}
		if loginLimiter == nil {
			loginLimiter = rate.NewMemoryLimiter(limit, window)
		}
	}

	// 6. Email saliente (Noop en dev sin SMTP)
	var sender email.Sender = email.Noop{}
	if cfg.SMTP.Host != "" {
		sender = email.NewSMTPSender(email.SMTPConfig{
			Host:               cfg.SMTP.Host,
			Port:               cfg.SMTP.Port,
			Username:           cfg.SMTP.Username,
			Password:           cfg.SMTP.Password,
			From:               cfg.SMTP.From,
			TLSMode:            cfg.SMTP.TLS,
			InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
		})
	}

	// 7. Services
	authServices := authsvc.NewServices(authsvc.Deps{
		Store:     store,
		Issuer:    issuer,
		Vault:     v,
		Email:     sender,
		TrialDays: cfg.Trial.Days,
		PlanCode:  cfg.Trial.PlanCode,
	})

	squareClient := square.New(cfg.Square.ApplicationID, cfg.Square.ApplicationSecret, cfg.Square.RedirectURI)
	callbackService := oauthsvc.NewCallbackService(oauthsvc.CallbackDeps{
		Square:          squareClient,
		Vault:           v,
		Environment:     cfg.Square.Environment,
		DefaultTenantID: cfg.Square.DefaultTenantID,
	})

	// 8. Resolver de tenant context
	tenantResolver := mw.WithTenantContext(mw.TenantResolverDeps{
		Store:            store,
		Vault:            v,
		FallbackTenantID: cfg.Square.DefaultTenantID,
	})

	// 9. Router
	app.Handler = router.New(router.Deps{
		Auth:           authctrl.NewControllers(authServices),
		OAuth:          oauthctrl.NewControllers(callbackService),
		Agent:          agentctrl.New(agentctrl.Deps{Vault: v}),
		Health:         healthctrl.NewControllers(store),
		Issuer:         issuer,
		LoginLimiter:   loginLimiter,
		TenantResolver: tenantResolver,
		AgentAuth:      mw.RequireAgentAuth(v),
	})

	return app, nil
}

// Run levanta el servidor HTTP y bloquea hasta SIGINT/SIGTERM, con
// shutdown graceful de 10 segundos.
func (a *App) Run() error {
	log := logger.L().With(logger.Component("server"))

	srv := &http.Server{
		Addr:              a.Addr,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", logger.String("addr", a.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", logger.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	a.Close()
	return nil
}

// Close libera recursos (pool de DB).
func (a *App) Close() {
	for _, fn := range a.cleanup {
		fn()
	}
}
